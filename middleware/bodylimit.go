package middleware

import (
	"github.com/dmitrymomot/maw"
)

// BodyLimit creates a middleware that caps the request body at max bytes for
// every route downstream of it. Reading past the cap surfaces
// maw.ErrBodyLimit from Context.Body; the cap applies per scope, so a large
// upload route can raise it while the rest of the app keeps the default.
func BodyLimit(max int) maw.Handler {
	return maw.HandlerFunc(func(c *maw.Context) error {
		c.SetBodyLimit(max)
		return c.Next()
	})
}

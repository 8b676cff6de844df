package middleware

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/maw"
)

// basicAuthUserLocal keys the authenticated username in the context locals.
const basicAuthUserLocal = "middleware.basic_auth_user"

// BasicAuthConfig configures the basic auth middleware.
type BasicAuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *maw.Context) bool

	// Users maps usernames to plaintext passwords, compared in constant time.
	Users map[string]string

	// HashedUsers maps usernames to bcrypt password hashes; takes precedence
	// over Users for names present in both.
	HashedUsers map[string]string

	// Realm names the protection space in the WWW-Authenticate challenge
	// (default: "Restricted")
	Realm string
}

// BasicAuth creates a middleware enforcing HTTP basic auth against the given
// plaintext credential set.
func BasicAuth(users map[string]string) maw.Handler {
	return BasicAuthWithConfig(BasicAuthConfig{Users: users})
}

// BasicAuthWithConfig creates a basic auth middleware with custom
// configuration. On success the username is published to the locals; on
// failure the chain stops with a 401 challenge.
func BasicAuthWithConfig(cfg BasicAuthConfig) maw.Handler {
	if cfg.Realm == "" {
		cfg.Realm = "Restricted"
	}
	challenge := `Basic realm="` + cfg.Realm + `"`

	authenticate := func(user, pass string) bool {
		if hash, ok := cfg.HashedUsers[user]; ok {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) == nil
		}
		want, ok := cfg.Users[user]
		if !ok {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(want), []byte(pass)) == 1
	}

	return maw.HandlerFunc(func(c *maw.Context) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		user, pass, ok := c.Request().BasicAuth()
		if !ok || !authenticate(user, pass) {
			c.Response().Set("WWW-Authenticate", challenge)
			return maw.ErrUnauthorized
		}

		c.SetLocal(basicAuthUserLocal, user)
		return c.Next()
	})
}

// GetBasicAuthUser retrieves the username authenticated by the middleware.
func GetBasicAuthUser(c *maw.Context) (string, bool) {
	return maw.LocalAs[string](c, basicAuthUserLocal)
}

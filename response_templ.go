package maw

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

// Templ renders a templ component into the response body as text/html with
// 200 OK. The component renders with the request's context, so it can read
// request-scoped values (request IDs, auth info) the usual way.
func (c *Context) Templ(component templ.Component) error {
	return c.TemplWithStatus(component, http.StatusOK)
}

// TemplWithStatus renders a templ component with a custom status code,
// useful for error pages.
func (c *Context) TemplWithStatus(component templ.Component, status int) error {
	if component == nil {
		return fmt.Errorf("maw: nil templ component")
	}

	var buf bytes.Buffer
	if err := component.Render(c.r.Context(), &buf); err != nil {
		return fmt.Errorf("render templ component: %w", err)
	}

	c.res.Status(status)
	c.res.Set("Content-Type", "text/html; charset=utf-8")
	c.res.Send(buf.Bytes())
	return nil
}

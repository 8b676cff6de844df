package maw

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response accumulates the outbound status, headers, and body while the
// handler chain runs. Nothing touches the wire until the dispatcher
// finalizes it, so middleware after (and before) the terminal handler can
// still inspect and rewrite any part of it.
//
// A response left completely untouched finalizes as 404 with an empty body;
// a body without an explicit status finalizes as 200.
type Response struct {
	status int
	header http.Header
	body   []byte
}

// Status sets the HTTP status code.
func (r *Response) Status(code int) *Response {
	r.status = code
	return r
}

// StatusCode returns the status set so far, or 0 when unset.
func (r *Response) StatusCode() int {
	return r.status
}

// Header returns the outbound header map for direct manipulation.
func (r *Response) Header() http.Header {
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

// Set replaces the named header.
func (r *Response) Set(key, value string) *Response {
	r.Header().Set(key, value)
	return r
}

// Append adds a value to the named header, creating it when absent.
func (r *Response) Append(key string, values ...string) *Response {
	for _, v := range values {
		r.Header().Add(key, v)
	}
	return r
}

// Body returns the body accumulated so far.
func (r *Response) Body() []byte {
	return r.body
}

// Send replaces the response body with raw bytes.
func (r *Response) Send(body []byte) *Response {
	r.body = body
	return r
}

// SendString replaces the body with s, defaulting the content type to
// text/plain when none is set yet.
func (r *Response) SendString(s string) *Response {
	r.defaultContentType("text/plain; charset=utf-8")
	r.body = []byte(s)
	return r
}

// HTML replaces the body with s and sets a text/html content type.
func (r *Response) HTML(s string) *Response {
	r.Set("Content-Type", "text/html; charset=utf-8")
	r.body = []byte(s)
	return r
}

// JSON encodes v into the body with an application/json content type.
func (r *Response) JSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json response: %w", err)
	}
	r.Set("Content-Type", "application/json; charset=utf-8")
	r.body = b
	return nil
}

// SendStatus sets the status code and, when the body is still empty, fills it
// with the canonical status text.
func (r *Response) SendStatus(code int) *Response {
	r.status = code
	if len(r.body) == 0 {
		r.defaultContentType("text/plain; charset=utf-8")
		r.body = []byte(http.StatusText(code))
	}
	return r
}

// NoContent clears the body and sets 204 No Content.
func (r *Response) NoContent() *Response {
	r.status = http.StatusNoContent
	r.body = nil
	return r
}

// Redirect sets a Location header and redirect status. A code of 0 defaults
// to 302 Found.
func (r *Response) Redirect(location string, code int) *Response {
	if code == 0 {
		code = http.StatusFound
	}
	r.status = code
	r.Set("Location", location)
	return r
}

func (r *Response) defaultContentType(ct string) {
	if r.Header().Get("Content-Type") == "" {
		r.header.Set("Content-Type", ct)
	}
}

// write finalizes the builder onto the wire: headers first, then the status
// (defaulting per the rules above), then the body.
func (r *Response) write(w http.ResponseWriter) error {
	for k, vs := range r.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	status := r.status
	if status == 0 {
		if len(r.body) > 0 {
			status = http.StatusOK
		} else {
			status = http.StatusNotFound
		}
	}
	w.WriteHeader(status)

	if len(r.body) > 0 {
		if _, err := w.Write(r.body); err != nil {
			return fmt.Errorf("write response body: %w", err)
		}
	}
	return nil
}

// Convenience forwarding on Context for the common response shapes.

// String responds with plain text.
func (c *Context) String(s string) error {
	c.res.SendString(s)
	return nil
}

// HTML responds with an HTML body.
func (c *Context) HTML(s string) error {
	c.res.HTML(s)
	return nil
}

// JSON responds with a JSON-encoded body.
func (c *Context) JSON(v any) error {
	return c.res.JSON(v)
}

// NoContent responds with 204 and no body.
func (c *Context) NoContent() error {
	c.res.NoContent()
	return nil
}

// Redirect responds with a redirect to location; code 0 means 302.
func (c *Context) Redirect(location string, code int) error {
	c.res.Redirect(location, code)
	return nil
}

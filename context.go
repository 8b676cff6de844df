package maw

import (
	"fmt"
	"net/http"
	"strconv"
)

// Context carries the state of one in-flight request through its handler
// chain: the parsed request view, captured path parameters, the mutable
// response builder, per-request locals, and the chain cursor driven by Next.
//
// A Context is created when a route matches, is owned exclusively by that
// request's chain, and must not be retained after the response is written.
type Context struct {
	w http.ResponseWriter
	r *http.Request

	params map[string]string
	locals map[string]any
	res    Response

	chain []Handler
	index int
	route *Route

	bodyLimit int
	body      []byte
	bodyRead  bool

	proxyHeader string
	hijacked    bool
}

func newContext(w http.ResponseWriter, r *http.Request, route *Route, params map[string]string, cfg Config) *Context {
	limit := cfg.BodyLimit
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	return &Context{
		w:           w,
		r:           r,
		params:      params,
		res:         Response{header: make(http.Header)},
		chain:       route.chain,
		route:       route,
		bodyLimit:   limit,
		proxyHeader: cfg.ProxyHeader,
	}
}

// Request returns the underlying *http.Request.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the raw http.ResponseWriter. Writing to it directly
// bypasses the response builder; it exists for hijacking (websockets) and
// streaming, not for ordinary handlers.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Response returns the mutable response builder for this request.
func (c *Context) Response() *Response {
	return &c.res
}

// Route returns the matched route, or nil outside of a dispatched chain.
func (c *Context) Route() *Route {
	return c.route
}

// Param returns the captured path parameter by name, or "" when absent.
// The remainder captured by a trailing wildcard is available under
// WildcardKey.
func (c *Context) Param(key string) string {
	return c.params[key]
}

// ParamInt parses the named path parameter as a base-10 int.
func (c *Context) ParamInt(key string) (int, error) {
	v, err := c.ParamInt64(key)
	return int(v), err
}

// ParamInt64 parses the named path parameter as a base-10 int64.
func (c *Context) ParamInt64(key string) (int64, error) {
	raw, ok := c.params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingParam, key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%q", ErrInvalidParam, key, raw)
	}
	return v, nil
}

// ParamFloat parses the named path parameter as a float64.
func (c *Context) ParamFloat(key string) (float64, error) {
	raw, ok := c.params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingParam, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%q", ErrInvalidParam, key, raw)
	}
	return v, nil
}

// ParamBool parses the named path parameter with strconv.ParseBool.
func (c *Context) ParamBool(key string) (bool, error) {
	raw, ok := c.params[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMissingParam, key)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %q=%q", ErrInvalidParam, key, raw)
	}
	return v, nil
}

// hijack marks the connection as taken over by the handler (e.g. a websocket
// upgrade). The dispatcher skips response finalization for hijacked contexts.
func (c *Context) hijack() {
	c.hijacked = true
}

// Hijacked reports whether a handler has taken over the underlying
// connection.
func (c *Context) Hijacked() bool {
	return c.hijacked
}

package maw

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
)

// DefaultBodyLimit caps request bodies at 4 MiB unless overridden by config
// or a body-limit middleware.
const DefaultBodyLimit = 4 << 20

// Method returns the HTTP method of the request.
func (c *Context) Method() string {
	return c.r.Method
}

// Path returns the request URL path.
func (c *Context) Path() string {
	return c.r.URL.Path
}

// Header returns the value of the named request header, or "".
func (c *Context) Header(key string) string {
	return c.r.Header.Get(key)
}

// ContentType returns the media type of the request body without parameters,
// e.g. "application/json", or "" when the header is absent.
func (c *Context) ContentType() string {
	ct := c.r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}

// Query returns the parsed query string values.
func (c *Context) Query() url.Values {
	return c.r.URL.Query()
}

// QueryValue returns the first query value for key, or "".
func (c *Context) QueryValue(key string) string {
	return c.r.URL.Query().Get(key)
}

// ClientIP returns the caller's IP address. When a proxy header is configured
// (e.g. X-Forwarded-For behind a load balancer) its first value wins; headers
// are trivially spoofed, so only configure one when a trusted proxy sets it.
// Otherwise the TCP peer address is used.
func (c *Context) ClientIP() string {
	if c.proxyHeader != "" {
		if v := c.r.Header.Get(c.proxyHeader); v != "" {
			if i := strings.IndexByte(v, ','); i >= 0 {
				v = v[:i]
			}
			return strings.TrimSpace(v)
		}
	}
	host, _, err := net.SplitHostPort(c.r.RemoteAddr)
	if err != nil {
		return c.r.RemoteAddr
	}
	return host
}

// SetBodyLimit overrides the maximum number of bytes Body will read for this
// request. It has no effect once the body has been read.
func (c *Context) SetBodyLimit(limit int) {
	if limit > 0 {
		c.bodyLimit = limit
	}
}

// Body reads and caches the request body, enforcing the configured byte
// limit. Repeated calls return the cached bytes; the limit is not re-applied.
func (c *Context) Body() ([]byte, error) {
	if c.bodyRead {
		return c.body, nil
	}
	if c.r.Body == nil {
		c.bodyRead = true
		return nil, nil
	}

	// Read one byte past the limit to distinguish "exactly at limit" from
	// "over limit" without trusting Content-Length.
	b, err := io.ReadAll(io.LimitReader(c.r.Body, int64(c.bodyLimit)+1))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(b) > c.bodyLimit {
		return nil, fmt.Errorf("%w: %d bytes allowed", ErrBodyLimit, c.bodyLimit)
	}

	c.body = b
	c.bodyRead = true
	return c.body, nil
}

// BindJSON reads the request body and unmarshals it into v.
func (c *Context) BindJSON(v any) error {
	b, err := c.Body()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}

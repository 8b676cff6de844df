package middleware

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/maw"
)

// requestIDLocal keys the request ID in the context locals.
const requestIDLocal = "middleware.request_id"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *maw.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to reuse a request ID sent by the client
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration: a
// fresh UUID per request, stored in locals and echoed in the response header.
func RequestID() maw.Handler {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom
// configuration.
func RequestIDWithConfig(cfg RequestIDConfig) maw.Handler {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return maw.HandlerFunc(func(c *maw.Context) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		var id string
		if cfg.UseExisting {
			id = c.Header(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}

		c.SetLocal(requestIDLocal, id)
		c.Response().Set(cfg.HeaderName, id)

		return c.Next()
	})
}

// GetRequestID retrieves the request ID published by the middleware.
func GetRequestID(c *maw.Context) (string, bool) {
	return maw.LocalAs[string](c, requestIDLocal)
}

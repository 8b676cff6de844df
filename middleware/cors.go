package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/maw"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *maw.Context) bool

	// AllowOrigins lists allowed origins; "*" allows any (default: "*")
	AllowOrigins []string

	// AllowMethods advertised on preflight (default: common methods)
	AllowMethods []string

	// AllowHeaders advertised on preflight (default: echo the request)
	AllowHeaders []string

	// AllowCredentials adds Access-Control-Allow-Credentials
	AllowCredentials bool

	// MaxAge caps preflight caching in seconds (default: 0, not sent)
	MaxAge int
}

// CORS creates a CORS middleware allowing any origin.
func CORS() maw.Handler {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig creates a CORS middleware with custom configuration. OPTIONS
// preflight requests are answered directly with 204 without running the rest
// of the chain; other requests get the response headers added around Next.
func CORSWithConfig(cfg CORSConfig) maw.Handler {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions,
		}
	}
	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")

	allowed := func(origin string) string {
		for _, o := range cfg.AllowOrigins {
			if o == "*" {
				if cfg.AllowCredentials {
					// The wildcard is invalid with credentials; echo instead.
					return origin
				}
				return "*"
			}
			if strings.EqualFold(o, origin) {
				return origin
			}
		}
		return ""
	}

	return maw.HandlerFunc(func(c *maw.Context) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		origin := c.Header("Origin")
		if origin == "" {
			return c.Next()
		}

		res := c.Response()
		res.Append("Vary", "Origin")

		allowOrigin := allowed(origin)
		if allowOrigin == "" {
			return c.Next()
		}

		res.Set("Access-Control-Allow-Origin", allowOrigin)
		if cfg.AllowCredentials {
			res.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == http.MethodOptions {
			res.Set("Access-Control-Allow-Methods", allowMethods)
			if allowHeaders != "" {
				res.Set("Access-Control-Allow-Headers", allowHeaders)
			} else if reqHeaders := c.Header("Access-Control-Request-Headers"); reqHeaders != "" {
				res.Set("Access-Control-Allow-Headers", reqHeaders)
			}
			if cfg.MaxAge > 0 {
				res.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}
			res.Status(http.StatusNoContent)
			return nil
		}

		return c.Next()
	})
}

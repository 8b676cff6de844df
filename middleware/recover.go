package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/maw"
)

// RecoverConfig configures the panic recovery middleware.
type RecoverConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *maw.Context) bool

	// Logger receives the panic value and stack trace (default: slog.Default())
	Logger *slog.Logger

	// StackTrace includes the goroutine stack in the log entry (default: true
	// via Recover; set explicitly with RecoverWithConfig)
	StackTrace bool
}

// Recover creates a middleware that converts a panic anywhere downstream
// into a plain 500 response, confining the fault to the current request.
// Upstream middleware sees the panic as a normal error returned from Next.
func Recover() maw.Handler {
	return RecoverWithConfig(RecoverConfig{StackTrace: true})
}

// RecoverWithConfig creates a panic recovery middleware with custom
// configuration.
func RecoverWithConfig(cfg RecoverConfig) maw.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return maw.HandlerFunc(func(c *maw.Context) (err error) {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			attrs := []any{
				slog.Any("panic", rec),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
			}
			if cfg.StackTrace {
				attrs = append(attrs, slog.String("stack", string(debug.Stack())))
			}
			cfg.Logger.ErrorContext(c.Request().Context(), "panic recovered", attrs...)

			c.Response().SendStatus(http.StatusInternalServerError)
			err = fmt.Errorf("%w: recovered panic: %v", maw.ErrInternalServerError, rec)
		}()

		return c.Next()
	})
}

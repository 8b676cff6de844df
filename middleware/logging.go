package middleware

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/maw"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *maw.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name added to every log line
	Component string
}

// Logging creates a request logging middleware with default configuration.
// It measures the downstream chain around Next and logs status, duration,
// client IP, method, and path once the chain has completed.
func Logging() maw.Handler {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger(log *slog.Logger) maw.Handler {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration.
func LoggingWithConfig(cfg LoggingConfig) maw.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	log := cfg.Logger
	if cfg.Component != "" {
		log = log.With(slog.String("component", cfg.Component))
	}

	return maw.HandlerFunc(func(c *maw.Context) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		attrs := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", elapsed),
			slog.String("ip", c.ClientIP()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		}
		if id, ok := GetRequestID(c); ok {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}

		ctx := c.Request().Context()
		switch {
		case err != nil:
			log.ErrorContext(ctx, "request failed", attrs...)
		case elapsed >= cfg.SlowRequestThreshold:
			log.WarnContext(ctx, "slow request", attrs...)
		default:
			log.Log(ctx, cfg.LogLevel, "request", attrs...)
		}

		return err
	})
}

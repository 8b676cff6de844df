package session

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/maw"
)

// sessionLocal keys the Session in the context locals.
const sessionLocal = "session.current"

// Config configures the session middleware.
type Config struct {
	// Store persists sessions between requests. Required.
	Store Store

	// CookieName carries the session token (default: "maw_session")
	CookieName string

	// CookiePath scopes the cookie (default: "/")
	CookiePath string

	// CookieMaxAge in seconds; 0 makes it a browser-session cookie
	CookieMaxAge int

	// Secure restricts the cookie to HTTPS
	Secure bool

	// SameSite policy for the cookie (default: http.SameSiteLaxMode)
	SameSite http.SameSite

	// Logger receives store failures, which never fail the request
	// (default: silent)
	Logger *slog.Logger
}

// Middleware creates a session middleware over the given store with default
// cookie settings.
func Middleware(store Store) maw.Handler {
	return MiddlewareWithConfig(Config{Store: store})
}

// MiddlewareWithConfig creates a session middleware with custom
// configuration.
//
// It is the canonical wrap-around middleware: before Next it resolves the
// session cookie through the store and publishes the Session to the locals;
// after Next, once every downstream handler has run, it persists
// modifications and sets the cookie. A missing or invalid token silently
// starts a fresh session. Store failures are logged and degrade to a
// sessionless request rather than failing the chain.
func MiddlewareWithConfig(cfg Config) maw.Handler {
	if cfg.Store == nil {
		panic("session: middleware requires a store")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "maw_session"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return maw.HandlerFunc(func(c *maw.Context) error {
		ctx := c.Request().Context()

		var token string
		if cookie, err := c.Request().Cookie(cfg.CookieName); err == nil {
			token = cookie.Value
		}

		data, err := cfg.Store.Load(ctx, token)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.WarnContext(ctx, "session load failed", slog.Any("error", err))
			}
			token = ""
		}
		sess := newSession(token, data)
		c.SetLocal(sessionLocal, sess)

		chainErr := c.Next()

		switch {
		case sess.destroyed:
			if err := cfg.Store.Delete(ctx, sess.token); err != nil {
				log.WarnContext(ctx, "session delete failed", slog.Any("error", err))
			}
			setCookie(c, cfg, "", -1)

		case sess.modified:
			newTok, err := cfg.Store.Save(ctx, sess.token, sess.data)
			if err != nil {
				log.ErrorContext(ctx, "session save failed", slog.Any("error", err))
				break
			}
			setCookie(c, cfg, newTok, cfg.CookieMaxAge)
		}

		return chainErr
	})
}

func setCookie(c *maw.Context, cfg Config, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     cfg.CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}
	c.Response().Append("Set-Cookie", cookie.String())
}

// From retrieves the Session published by the middleware for this request.
// The second return is false when no session middleware ran.
func From(c *maw.Context) (*Session, bool) {
	return maw.LocalAs[*Session](c, sessionLocal)
}

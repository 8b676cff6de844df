package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// ErrNotFound is returned by stores when the token resolves to no session.
var ErrNotFound = errors.New("session not found")

// Store persists session data between requests. The token is whatever the
// middleware carries in the session cookie: an opaque ID for external stores,
// or the sealed payload itself for the inline cookie store.
//
// Implementations are shared across concurrent request chains and must be
// safe for concurrent use.
type Store interface {
	// Load resolves a token into session data. ErrNotFound (or any error)
	// starts the request with a fresh empty session.
	Load(ctx context.Context, token string) (map[string]any, error)

	// Save persists the data and returns the token to hand back to the
	// client. An empty incoming token means a brand-new session.
	Save(ctx context.Context, token string, data map[string]any) (string, error)

	// Delete discards the persisted session, if any.
	Delete(ctx context.Context, token string) error
}

// newToken mints an unguessable session ID: 18 random bytes, URL-safe
// base64.
func newToken() string {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

package session

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrShortSecret rejects secrets below the minimum length at construction.
var ErrShortSecret = errors.New("session secret must be at least 32 bytes")

// CookieStore keeps the entire session inside the cookie: the token the
// middleware round-trips is the AES-GCM-sealed JSON payload itself, so no
// server-side storage exists. Tampering or a rotated secret simply yields a
// fresh session.
//
// Cookies cap out around 4KB; keep inline sessions small or switch to an
// external store.
type CookieStore struct {
	aead cipher.AEAD
}

// NewCookieStore derives an AES-256-GCM key from secret. The secret must be
// at least 32 bytes.
func NewCookieStore(secret string) (*CookieStore, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("session cookie cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("session cookie aead: %w", err)
	}

	return &CookieStore{aead: aead}, nil
}

// Load unseals the token back into session data.
func (s *CookieStore) Load(_ context.Context, token string) (map[string]any, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return nil, ErrNotFound
	}

	nonce, sealed := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrNotFound
	}

	var data map[string]any
	if err := json.Unmarshal(plain, &data); err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// Save seals the data into a fresh token. The previous token is irrelevant;
// every save re-encrypts with a new nonce.
func (s *CookieStore) Save(_ context.Context, _ string, data map[string]any) (string, error) {
	plain, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Delete is a no-op: expiring the cookie is the whole deletion.
func (s *CookieStore) Delete(context.Context, string) error {
	return nil
}

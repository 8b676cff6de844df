package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in Redis under an opaque random token, with a
// TTL refreshed on every save. The cookie only ever carries the token.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisStoreOption customizes a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix changes the key namespace (default: "session:").
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store writing sessions through the given client
// with the given lifetime.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration, opts ...RedisStoreOption) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and decodes the session stored under token.
func (s *RedisStore) Load(ctx context.Context, token string) (map[string]any, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	raw, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// Save writes the session under its token (minting one for new sessions) and
// refreshes the TTL.
func (s *RedisStore) Save(ctx context.Context, token string, data map[string]any) (string, error) {
	if token == "" {
		token = newToken()
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+token, raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Delete removes the session record.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

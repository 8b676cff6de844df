// Package session provides per-visitor state on top of the maw middleware
// chain: a Session loaded before the downstream handlers run and persisted
// after they return, with pluggable storage: sealed inside the cookie
// itself, or referenced by ID in Redis.
package session

import "sort"

// Session is the per-request view of one visitor's state. It is owned by the
// request's chain like everything else on the Context; the store decides how
// it persists between requests.
type Session struct {
	token     string
	data      map[string]any
	modified  bool
	destroyed bool
}

func newSession(token string, data map[string]any) *Session {
	if data == nil {
		data = make(map[string]any)
	}
	return &Session{token: token, data: data}
}

// Get returns the value stored under key and whether it was present.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// As retrieves the value stored under key as T, returning the zero value and
// false on absence or type mismatch. Values round-tripped through a store are
// JSON-decoded, so numbers come back as float64.
func As[T any](s *Session, key string) (T, bool) {
	var zero T
	v, ok := s.data[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Set stores a value under key and marks the session dirty.
func (s *Session) Set(key string, val any) {
	s.data[key] = val
	s.modified = true
}

// Delete removes a key, reporting whether it was present.
func (s *Session) Delete(key string) bool {
	_, ok := s.data[key]
	if ok {
		delete(s.data, key)
		s.modified = true
	}
	return ok
}

// Clear drops every key but keeps the session alive.
func (s *Session) Clear() {
	s.data = make(map[string]any)
	s.modified = true
}

// Destroy drops the session entirely: the store record is deleted and the
// cookie expired once the chain unwinds.
func (s *Session) Destroy() {
	s.destroyed = true
	s.modified = true
}

// Modified reports whether the session changed during this request.
func (s *Session) Modified() bool {
	return s.modified
}

// Keys returns the stored keys in sorted order.
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *Session) Len() int {
	return len(s.data)
}

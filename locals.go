package maw

// Locals is the per-request key-value store handlers use to pass state down
// (and up) the chain: an auth middleware publishes the current user, the
// terminal handler reads it. Keys are plain strings scoped to one request;
// nothing leaks across requests.

// SetLocal stores a value under key for the lifetime of this request,
// replacing any previous value.
func (c *Context) SetLocal(key string, val any) {
	if c.locals == nil {
		c.locals = make(map[string]any)
	}
	c.locals[key] = val
}

// Local returns the value stored under key and whether it was present.
func (c *Context) Local(key string) (any, bool) {
	v, ok := c.locals[key]
	return v, ok
}

// RemoveLocal deletes the value stored under key, reporting whether it was
// present.
func (c *Context) RemoveLocal(key string) bool {
	if _, ok := c.locals[key]; !ok {
		return false
	}
	delete(c.locals, key)
	return true
}

// LocalAs retrieves the value stored under key as T. It returns the zero
// value and false when the key is absent or holds a different type; it never
// panics, and a type mismatch is indistinguishable from absence.
func LocalAs[T any](c *Context, key string) (T, bool) {
	var zero T
	v, ok := c.locals[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

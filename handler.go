package maw

// Handler processes a request Context and may delegate to the remainder of
// the handler chain by calling Context.Next. Anything that can observe a
// Context satisfies it: named functions and closures via HandlerFunc, or
// stateful objects (a rate limiter holding its counters, a session manager
// holding its store) implementing Serve directly. The dispatcher treats all
// of them identically.
//
// A handler that returns without calling Next terminates the downstream
// chain; handlers upstream of it still resume after their own Next calls.
type Handler interface {
	Serve(c *Context) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(c *Context) error

// Serve calls f(c).
func (f HandlerFunc) Serve(c *Context) error {
	return f(c)
}

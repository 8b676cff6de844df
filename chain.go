package maw

// Next resumes execution of the remainder of the handler chain and returns
// only after it has fully completed. Because each handler invokes its
// downstream neighbors through its own Next call, the chain is shaped like a
// call stack, not a queue: code before Next runs on the way in, code after
// Next runs on the way out, in reverse registration order, with the Context
// reflecting every mutation the downstream chain made.
//
// A downstream error (the first one, from the nearest failing handler)
// surfaces synchronously as Next's return value, so a middleware can wrap
// Next in a protective boundary and convert errors into responses. Next never
// swallows errors.
//
// When the request's context has been canceled (client gone, deadline hit),
// Next stops advancing and returns the cancellation error. Handlers should
// treat this as an abrupt chain termination: post-Next continuation upstream
// is best effort, since the transport owns cancellation delivery.
//
// Calling Next after the chain is exhausted is a no-op returning nil, so a
// terminal handler and a middleware at the end of the chain behave the same.
func (c *Context) Next() error {
	if err := c.r.Context().Err(); err != nil {
		return err
	}
	if c.index >= len(c.chain) {
		return nil
	}
	h := c.chain[c.index]
	c.index++
	return h.Serve(c)
}

// execute drives a matched route's chain to completion. It exists as the
// single entry point for the dispatcher: the bootstrap call behaves exactly
// like a handler at index -1 calling Next.
func execute(c *Context) error {
	return c.Next()
}

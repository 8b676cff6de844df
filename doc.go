// Package maw is a small HTTP routing and middleware composition engine.
//
// Routes are declared on a Router builder, optionally nested in groups that
// compose path prefixes and inherit middleware, then sealed with Build into
// an immutable RouteTable that dispatches requests first-registered-wins:
//
//	r := maw.NewRouter()
//	r.Use(middleware.Logging())
//	r.Get("/user/{id}", maw.HandlerFunc(func(c *maw.Context) error {
//		id, err := c.ParamInt("id")
//		if err != nil {
//			return maw.ErrBadRequest
//		}
//		return c.JSON(map[string]any{"id": id})
//	}))
//
//	api := maw.NewGroup("/api")
//	api.Use(auth)
//	api.Get("/posts/{slug}", listPosts)
//	r.Push(api)
//
//	app := maw.New().Router(r)
//	log.Fatal(app.Listen(ctx, ":8080"))
//
// # Middleware
//
// A middleware is an ordinary Handler that calls Context.Next to run the
// remainder of the chain, then resumes when it returns. The chain is a call
// stack, not a queue: with global middleware A, route middleware B, and
// terminal handler H, execution is A-before, B-before, H, B-after, A-after.
// Skipping Next short-circuits everything downstream while upstream handlers
// still unwind normally.
//
//	timing := maw.HandlerFunc(func(c *maw.Context) error {
//		start := time.Now()
//		err := c.Next()
//		c.Response().Set("X-Elapsed", time.Since(start).String())
//		return err
//	})
//
// Errors returned by downstream handlers surface at the nearest enclosing
// Next call, so middleware can convert them into responses before they reach
// the dispatcher.
//
// # Patterns
//
// Route patterns are segment based: literal text, {name} parameters that
// capture one path component, and a trailing * wildcard that captures the
// remainder. Malformed patterns and duplicate registrations fail Build, not
// the first matching request.
//
// # Context
//
// One Context exists per in-flight request and is owned exclusively by its
// chain: the request view, captured parameters with typed extraction, the
// response builder, and string-keyed locals for passing state between
// handlers of the same request. Anything shared across requests (counters in
// a stateful handler, a session store) must bring its own synchronization.
package maw

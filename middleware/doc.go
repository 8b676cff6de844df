// Package middleware provides plug-in handlers for the maw routing engine:
// request IDs, logging, panic recovery, body limits, CORS, basic auth,
// language negotiation, rate limiting, and static file serving.
//
// Every middleware here is an ordinary maw.Handler that wraps
// Context.Next, so it can act both before the downstream chain runs and
// after it returns:
//
//	r := maw.NewRouter()
//	r.Use(
//		middleware.RequestID(),
//		middleware.Logging(),
//		middleware.Recover(),
//	)
//
// Constructors follow a common shape: X() with defaults and XWithConfig for
// fine-grained control, each config carrying an optional Skip predicate.
package middleware

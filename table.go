package maw

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
)

// Route is one finalized (method, pattern, handler chain) registration.
// Routes are immutable after Build and safe for concurrent reads.
type Route struct {
	Method  string
	Pattern *Pattern

	chain []Handler
	loc   string
}

// Chain returns the number of handlers in the route's resolved chain,
// including inherited middleware.
func (r *Route) Chain() int {
	return len(r.chain)
}

// Registered returns the file:line where the route was registered.
func (r *Route) Registered() string {
	return r.loc
}

// RouteTable is the sealed result of Router.Build: an ordered route list
// scanned first-registered-wins on every request. It is read-only for the
// server's lifetime and therefore safe for concurrent use without locking.
type RouteTable struct {
	routes []*Route
	cfg    Config
	logger *slog.Logger
}

// SetConfig installs engine configuration (body limit, proxy header) used
// when constructing request contexts. Call before serving; the table is
// treated as immutable once requests are flowing.
func (t *RouteTable) SetConfig(cfg Config) {
	t.cfg = cfg
}

// SetLogger installs a logger for dispatch diagnostics (panics, render
// failures). Defaults to silent.
func (t *RouteTable) SetLogger(logger *slog.Logger) {
	t.logger = logger
}

// Lookup resolves (method, path) to the first matching route and its
// captured parameters. It is the pure matching half of ServeHTTP, exposed
// for tests and diagnostics.
func (t *RouteTable) Lookup(method, path string) (*Route, map[string]string, bool) {
	for _, rt := range t.routes {
		if rt.Method != methodAll && rt.Method != method {
			continue
		}
		if params, ok := rt.Pattern.Match(path); ok {
			return rt, params, true
		}
	}
	return nil, nil, false
}

// allowedMethods collects the methods of routes whose pattern matches path,
// for the Allow header on 405 responses.
func (t *RouteTable) allowedMethods(path string) []string {
	set := make(map[string]struct{})
	for _, rt := range t.routes {
		if _, ok := rt.Pattern.Match(path); ok {
			if rt.Method == methodAll {
				return nil // matches every method; a 405 is impossible
			}
			set[rt.Method] = struct{}{}
		}
	}
	methods := make([]string, 0, len(set))
	for m := range set {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// ServeHTTP dispatches one request: resolve the route, build the Context,
// drive the chain, finalize the response. Implements http.Handler so the
// table plugs into any net/http server.
//
// When no route matches, no handler chain runs: the table answers 404
// directly, or 405 with an Allow header when only the method differs. That
// path is deterministic and bypasses all middleware.
func (t *RouteTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	route, params, ok := t.Lookup(r.Method, path)
	if !ok {
		if allowed := t.allowedMethods(path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	c := newContext(w, r, route, params, t.cfg)
	t.dispatch(c)
}

func (t *RouteTable) dispatch(c *Context) {
	finalized := false

	// A panic aborts only this request's chain, never the server. Upstream
	// post-Next code is skipped unless middleware.Recover intercepted the
	// panic closer to its source.
	defer func() {
		if rec := recover(); rec != nil {
			t.log().Error("panic in handler chain",
				slog.Any("panic", rec),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("route", c.route.Pattern.String()))
			if !finalized && !c.Hijacked() {
				c.res = Response{header: make(http.Header)}
				c.res.SendStatus(http.StatusInternalServerError)
				_ = c.res.write(c.w)
			}
		}
	}()

	if err := execute(c); err != nil {
		// Client-gone cancellation: nothing sensible left to write.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			t.log().Debug("chain canceled",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()))
			return
		}
		// Errors that escaped every boundary become responses only when the
		// chain left the builder untouched; otherwise the handlers' explicit
		// response wins.
		if c.res.StatusCode() == 0 && len(c.res.Body()) == 0 {
			var herr Error
			if errors.As(err, &herr) {
				c.res.Status(herr.Status)
				if jerr := c.res.JSON(herr); jerr != nil {
					c.res.SendStatus(herr.Status)
				}
			} else {
				c.res.SendStatus(http.StatusInternalServerError)
			}
		}
		t.log().Error("handler chain failed",
			slog.Any("error", err),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()))
	}

	if c.Hijacked() {
		finalized = true
		return
	}
	finalized = true
	if err := c.res.write(c.w); err != nil {
		t.log().Error("write response", slog.Any("error", err))
	}
}

func (t *RouteTable) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Routes returns the finalized routes in registration (and therefore match
// precedence) order.
func (t *RouteTable) Routes() []*Route {
	return t.routes
}

// String renders a human-readable listing of every route, its handler chain
// length, and its registration site. Diagnostics only; the format is not a
// stability contract.
func (t *RouteTable) String() string {
	var b strings.Builder
	for _, rt := range t.routes {
		fmt.Fprintf(&b, "%-7s %-30s handlers=%d  %s\n", rt.Method, rt.Pattern, len(rt.chain), rt.loc)
	}
	return b.String()
}

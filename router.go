package maw

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// methodAll marks a route that accepts every HTTP method.
const methodAll = "ALL"

var validMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodConnect: {},
	http.MethodTrace:   {},
}

// Router is the registration-time builder: a tree of groups, each with a path
// prefix, scope middleware, and ordered child registrations. It exists only
// until Build flattens it into an immutable RouteTable; it is not safe for
// concurrent use and is not consulted during dispatch.
type Router struct {
	prefix      string
	middlewares []Handler
	entries     []entry
}

// entry preserves the exact registration order of routes and subgroup pushes
// within one scope, together with a snapshot of how much scope middleware
// existed at that moment. Middleware added to the scope later never applies
// to earlier entries.
type entry struct {
	// route fields; group is nil for routes
	method   string
	path     string
	handlers []Handler

	group *Router

	mwCount int
	loc     string
}

// NewRouter creates a root router with no prefix.
func NewRouter() *Router {
	return &Router{}
}

// NewGroup creates a detached route group with the given path prefix,
// intended to be attached to a parent via Push. The prefix must start with
// '/' and not end with '/' ("/" itself is allowed); anything else is a
// programming error and panics.
func NewGroup(prefix string) *Router {
	if prefix != "/" && (!strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/")) {
		panic(fmt.Errorf("%w: got %q", ErrInvalidPrefix, prefix))
	}
	return &Router{prefix: prefix}
}

// Use appends middleware to this scope. It applies to every route and
// subgroup registered on this router afterward, and through them to their
// descendants; routes registered before this call are unaffected.
func (r *Router) Use(handlers ...Handler) *Router {
	for _, h := range handlers {
		if h == nil {
			panic("maw: nil middleware")
		}
	}
	r.middlewares = append(r.middlewares, handlers...)
	return r
}

// Handle registers handlers for an explicit HTTP method. The last handler is
// the terminal responder; any preceding ones are route-local middleware run
// in declaration order.
func (r *Router) Handle(method, path string, handlers ...Handler) *Router {
	return r.register(strings.ToUpper(method), path, handlers, callerLoc(2))
}

// Get registers handlers for GET requests.
func (r *Router) Get(path string, handlers ...Handler) *Router {
	return r.register(http.MethodGet, path, handlers, callerLoc(2))
}

// Post registers handlers for POST requests.
func (r *Router) Post(path string, handlers ...Handler) *Router {
	return r.register(http.MethodPost, path, handlers, callerLoc(2))
}

// Put registers handlers for PUT requests.
func (r *Router) Put(path string, handlers ...Handler) *Router {
	return r.register(http.MethodPut, path, handlers, callerLoc(2))
}

// Delete registers handlers for DELETE requests.
func (r *Router) Delete(path string, handlers ...Handler) *Router {
	return r.register(http.MethodDelete, path, handlers, callerLoc(2))
}

// Patch registers handlers for PATCH requests.
func (r *Router) Patch(path string, handlers ...Handler) *Router {
	return r.register(http.MethodPatch, path, handlers, callerLoc(2))
}

// Head registers handlers for HEAD requests.
func (r *Router) Head(path string, handlers ...Handler) *Router {
	return r.register(http.MethodHead, path, handlers, callerLoc(2))
}

// Options registers handlers for OPTIONS requests.
func (r *Router) Options(path string, handlers ...Handler) *Router {
	return r.register(http.MethodOptions, path, handlers, callerLoc(2))
}

// All registers handlers for every HTTP method on the path.
func (r *Router) All(path string, handlers ...Handler) *Router {
	return r.register(methodAll, path, handlers, callerLoc(2))
}

// Push attaches a subgroup to this router. The subgroup inherits the scope
// middleware registered so far (not middleware added after the push) and its
// prefix is resolved under this router's prefix at build time.
func (r *Router) Push(sub *Router) *Router {
	if sub == nil {
		panic("maw: cannot push nil router")
	}
	r.entries = append(r.entries, entry{
		group:   sub,
		mwCount: len(r.middlewares),
		loc:     callerLoc(2),
	})
	return r
}

// Group creates a subgroup with the given prefix, applies fn to it, and
// pushes it. Convenience over NewGroup + Push for the common literal case.
func (r *Router) Group(prefix string, fn func(g *Router)) *Router {
	g := NewGroup(prefix)
	if fn != nil {
		fn(g)
	}
	r.entries = append(r.entries, entry{
		group:   g,
		mwCount: len(r.middlewares),
		loc:     callerLoc(2),
	})
	return r
}

func (r *Router) register(method, path string, handlers []Handler, loc string) *Router {
	if method != methodAll {
		if _, ok := validMethods[method]; !ok {
			panic(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
		}
	}
	if len(handlers) == 0 {
		panic(fmt.Errorf("%w: %s %s", ErrNoHandlers, method, path))
	}
	for _, h := range handlers {
		if h == nil {
			panic(fmt.Errorf("maw: nil handler on %s %s", method, path))
		}
	}
	r.entries = append(r.entries, entry{
		method:   method,
		path:     path,
		handlers: handlers,
		mwCount:  len(r.middlewares),
		loc:      loc,
	})
	return r
}

// Build flattens the group tree depth-first in registration order into an
// immutable RouteTable. Every route's chain is assembled here, once:
// ancestor scope middleware outer to inner, then route-local middleware,
// then the terminal handler. Compile errors and duplicate method+pattern
// registrations fail the build; nothing is deferred to request time.
func (r *Router) Build() (*RouteTable, error) {
	t := &RouteTable{cfg: DefaultConfig()}
	seen := make(map[string]string)

	if err := r.flatten("", nil, t, seen); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Router) flatten(base string, inherited []Handler, t *RouteTable, seen map[string]string) error {
	path := joinPaths(base, r.prefix)

	for _, e := range r.entries {
		// Scope middleware visible to this entry: what ancestors passed
		// down plus this scope's middleware registered before the entry.
		scope := make([]Handler, 0, len(inherited)+e.mwCount)
		scope = append(scope, inherited...)
		scope = append(scope, r.middlewares[:e.mwCount]...)

		if e.group != nil {
			if err := e.group.flatten(path, scope, t, seen); err != nil {
				return err
			}
			continue
		}

		full := joinPaths(path, e.path)
		pattern, err := CompilePattern(full)
		if err != nil {
			return fmt.Errorf("route %s %s (registered at %s): %w", e.method, full, e.loc, err)
		}

		key := e.method + " " + full
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s %s registered at %s and %s", ErrDuplicateRoute, e.method, full, prev, e.loc)
		}
		seen[key] = e.loc

		chain := make([]Handler, 0, len(scope)+len(e.handlers))
		chain = append(chain, scope...)
		chain = append(chain, e.handlers...)

		t.routes = append(t.routes, &Route{
			Method:  e.method,
			Pattern: pattern,
			chain:   chain,
			loc:     e.loc,
		})
	}
	return nil
}

// joinPaths composes a parent prefix and a child path. A child of "" or "/"
// resolves to the parent itself; an empty parent yields the child unchanged.
func joinPaths(parent, child string) string {
	switch {
	case parent == "" || parent == "/":
		if child == "" {
			if parent == "" {
				return "/"
			}
			return parent
		}
		return child
	case child == "" || child == "/":
		return parent
	default:
		return parent + child
	}
}

// callerLoc captures the file:line of a registration call for the route
// table's diagnostic listing.
func callerLoc(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	// Trim to the last two path elements to keep listings readable.
	short := file
	for i, slashes := len(file)-1, 0; i >= 0; i-- {
		if file[i] == '/' {
			slashes++
			if slashes == 2 {
				short = file[i+1:]
				break
			}
		}
	}
	return fmt.Sprintf("%s:%d", short, line)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw"
	"github.com/dmitrymomot/maw/middleware"
)

func staticRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>home</h1>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "site.css"), []byte("body{}"), 0o644))
	return root
}

func staticTable(t *testing.T, handler maw.Handler) *maw.RouteTable {
	t.Helper()

	r := maw.NewRouter()
	r.Get("/static/*", handler)

	table, err := r.Build()
	require.NoError(t, err)
	return table
}

func TestStatic(t *testing.T) {
	t.Parallel()

	t.Run("serves_files_under_the_prefix", func(t *testing.T) {
		t.Parallel()

		table := staticTable(t, middleware.Static("/static", staticRoot(t)))

		rec := httptest.NewRecorder()
		table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	})

	t.Run("directory_paths_serve_the_index", func(t *testing.T) {
		t.Parallel()

		table := staticTable(t, middleware.Static("/static", staticRoot(t)))

		for _, target := range []string{"/static", "/static/"} {
			rec := httptest.NewRecorder()
			table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusOK, rec.Code, target)
			assert.Equal(t, "<h1>home</h1>", rec.Body.String(), target)
		}
	})

	t.Run("missing_files_answer_404", func(t *testing.T) {
		t.Parallel()

		table := staticTable(t, middleware.Static("/static", staticRoot(t)))

		rec := httptest.NewRecorder()
		table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/nope.txt", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("path_traversal_cannot_escape_the_root", func(t *testing.T) {
		t.Parallel()

		root := staticRoot(t)
		outside := filepath.Join(filepath.Dir(root), "secret.txt")
		require.NoError(t, os.WriteFile(outside, []byte("top secret"), 0o644))

		table := staticTable(t, middleware.Static("/static", root))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/static/something", nil)
		req.URL.Path = "/static/../secret.txt"
		table.ServeHTTP(rec, req)

		assert.NotEqual(t, "top secret", rec.Body.String())
	})

	t.Run("max_age_sets_cache_control", func(t *testing.T) {
		t.Parallel()

		table := staticTable(t, middleware.StaticWithConfig(middleware.StaticConfig{
			Prefix: "/static",
			Root:   staticRoot(t),
			MaxAge: 3600,
		}))

		rec := httptest.NewRecorder()
		table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
		assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	})
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw"
)

// run sends req through a catch-all route wrapped in the given middleware,
// with final as the terminal handler.
func run(t *testing.T, req *http.Request, mw []maw.Handler, final maw.Handler) *httptest.ResponseRecorder {
	t.Helper()

	handlers := append(append([]maw.Handler{}, mw...), final)

	r := maw.NewRouter()
	r.All("/*", handlers...)

	table, err := r.Build()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	table.ServeHTTP(rec, req)
	return rec
}

// okHandler responds 200 "ok".
func okHandler() maw.Handler {
	return maw.HandlerFunc(func(c *maw.Context) error {
		return c.String("ok")
	})
}

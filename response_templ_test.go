package maw_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/maw"
)

func TestTempl(t *testing.T) {
	t.Parallel()

	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<main>rendered</main>")
		return err
	})

	t.Run("renders_the_component_as_html", func(t *testing.T) {
		t.Parallel()

		r := maw.NewRouter()
		r.Get("/", maw.HandlerFunc(func(c *maw.Context) error {
			return c.Templ(page)
		}))

		rec := serve(t, r, http.MethodGet, "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<main>rendered</main>", rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("custom_status_for_error_pages", func(t *testing.T) {
		t.Parallel()

		r := maw.NewRouter()
		r.Get("/missing", maw.HandlerFunc(func(c *maw.Context) error {
			return c.TemplWithStatus(page, http.StatusNotFound)
		}))

		rec := serve(t, r, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "<main>rendered</main>", rec.Body.String())
	})

	t.Run("render_failure_leaves_the_body_untouched", func(t *testing.T) {
		t.Parallel()

		broken := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return errors.New("template exploded")
		})

		r := maw.NewRouter()
		r.Get("/broken", maw.HandlerFunc(func(c *maw.Context) error {
			return c.Templ(broken)
		}))

		rec := serve(t, r, http.MethodGet, "/broken")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "rendered")
	})

	t.Run("nil_component_is_an_error", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		capture(t, req, nil, func(c *maw.Context) {
			assert.Error(t, c.Templ(nil))
		})
	})
}

package maw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw"
)

// capture runs one request through a single-route router and hands the live
// Context to fn.
func capture(t *testing.T, req *http.Request, cfg *maw.Config, fn func(c *maw.Context)) *httptest.ResponseRecorder {
	t.Helper()

	r := maw.NewRouter()
	r.All("/*", maw.HandlerFunc(func(c *maw.Context) error {
		fn(c)
		return nil
	}))

	table, err := r.Build()
	require.NoError(t, err)
	if cfg != nil {
		table.SetConfig(*cfg)
	}

	rec := httptest.NewRecorder()
	table.ServeHTTP(rec, req)
	return rec
}

func TestContextParams(t *testing.T) {
	t.Parallel()

	r := maw.NewRouter()
	r.Get("/typed/{id}/{price}/{active}", maw.HandlerFunc(func(c *maw.Context) error {
		id, err := c.ParamInt("id")
		require.NoError(t, err)
		assert.Equal(t, 42, id)

		id64, err := c.ParamInt64("id")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id64)

		price, err := c.ParamFloat("price")
		require.NoError(t, err)
		assert.Equal(t, 9.95, price)

		active, err := c.ParamBool("active")
		require.NoError(t, err)
		assert.True(t, active)

		// Absent key: empty string untyped, sentinel typed.
		assert.Equal(t, "", c.Param("missing"))
		_, err = c.ParamInt("missing")
		assert.ErrorIs(t, err, maw.ErrMissingParam)

		// Present but unparsable.
		_, err = c.ParamInt("price")
		assert.ErrorIs(t, err, maw.ErrInvalidParam)

		return c.NoContent()
	}))

	rec := serve(t, r, http.MethodGet, "/typed/42/9.95/true")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestContextLocals(t *testing.T) {
	t.Parallel()

	t.Run("locals_flow_down_the_chain", func(t *testing.T) {
		t.Parallel()

		r := maw.NewRouter()
		r.Use(maw.HandlerFunc(func(c *maw.Context) error {
			c.SetLocal("user_id", 7)
			return c.Next()
		}))
		r.Get("/", maw.HandlerFunc(func(c *maw.Context) error {
			id, ok := maw.LocalAs[int](c, "user_id")
			require.True(t, ok)
			assert.Equal(t, 7, id)

			// Wrong type assertion degrades to a miss.
			_, ok = maw.LocalAs[string](c, "user_id")
			assert.False(t, ok)

			_, ok = c.Local("absent")
			assert.False(t, ok)

			return c.NoContent()
		}))

		rec := serve(t, r, http.MethodGet, "/")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("mutations_are_visible_upstream_after_next", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		var observed string

		r := maw.NewRouter()
		r.Use(maw.HandlerFunc(func(c *maw.Context) error {
			err := c.Next()
			v, _ := maw.LocalAs[string](c, "set_downstream")
			observed = v
			return err
		}))
		r.Get("/", maw.HandlerFunc(func(c *maw.Context) error {
			c.SetLocal("set_downstream", "hello")
			return c.NoContent()
		}))

		table, err := r.Build()
		require.NoError(t, err)
		table.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "hello", observed)
	})

	t.Run("remove_local_reports_presence", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		capture(t, req, nil, func(c *maw.Context) {
			c.SetLocal("key", "value")
			assert.True(t, c.RemoveLocal("key"))
			assert.False(t, c.RemoveLocal("key"))
			_, ok := c.Local("key")
			assert.False(t, ok)
		})
	})
}

func TestContextRequestAccessors(t *testing.T) {
	t.Parallel()

	t.Run("query_and_headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/search?q=routing&page=2", nil)
		req.Header.Set("X-Trace", "abc")
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		capture(t, req, nil, func(c *maw.Context) {
			assert.Equal(t, http.MethodGet, c.Method())
			assert.Equal(t, "/search", c.Path())
			assert.Equal(t, "routing", c.QueryValue("q"))
			assert.Equal(t, []string{"2"}, c.Query()["page"])
			assert.Equal(t, "abc", c.Header("X-Trace"))
			assert.Equal(t, "application/json", c.ContentType())
		})
	})

	t.Run("client_ip_uses_peer_address_by_default", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "203.0.113.9:4431"
		req.Header.Set("X-Forwarded-For", "198.51.100.1")

		capture(t, req, nil, func(c *maw.Context) {
			assert.Equal(t, "203.0.113.9", c.ClientIP())
		})
	})

	t.Run("client_ip_prefers_the_configured_proxy_header", func(t *testing.T) {
		t.Parallel()

		cfg := maw.DefaultConfig()
		cfg.ProxyHeader = "X-Forwarded-For"

		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.0.0.1:9999"
		req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

		capture(t, req, &cfg, func(c *maw.Context) {
			assert.Equal(t, "198.51.100.1", c.ClientIP())
		})
	})
}

func TestContextBody(t *testing.T) {
	t.Parallel()

	t.Run("body_is_read_once_and_cached", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("payload"))
		capture(t, req, nil, func(c *maw.Context) {
			b, err := c.Body()
			require.NoError(t, err)
			assert.Equal(t, "payload", string(b))

			again, err := c.Body()
			require.NoError(t, err)
			assert.Equal(t, b, again)
		})
	})

	t.Run("body_over_the_limit_fails", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789"))
		capture(t, req, nil, func(c *maw.Context) {
			c.SetBodyLimit(4)
			_, err := c.Body()
			assert.ErrorIs(t, err, maw.ErrBodyLimit)
		})
	})

	t.Run("body_exactly_at_the_limit_passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("1234"))
		capture(t, req, nil, func(c *maw.Context) {
			c.SetBodyLimit(4)
			b, err := c.Body()
			require.NoError(t, err)
			assert.Equal(t, "1234", string(b))
		})
	})

	t.Run("bind_json_decodes_into_a_struct", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"ada","age":36}`))
		capture(t, req, nil, func(c *maw.Context) {
			var in struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			}
			require.NoError(t, c.BindJSON(&in))
			assert.Equal(t, "ada", in.Name)
			assert.Equal(t, 36, in.Age)
		})
	})

	t.Run("bind_json_rejects_malformed_bodies", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":`))
		capture(t, req, nil, func(c *maw.Context) {
			var in map[string]any
			assert.Error(t, c.BindJSON(&in))
		})
	})
}

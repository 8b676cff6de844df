package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/maw"
	"github.com/dmitrymomot/maw/middleware"
)

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	users := map[string]string{"alice": "s3cret"}

	t.Run("missing_credentials_are_challenged", func(t *testing.T) {
		t.Parallel()

		rec := run(t, httptest.NewRequest(http.MethodGet, "/", nil), []maw.Handler{middleware.BasicAuth(users)}, okHandler())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="Restricted"`, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong_password_is_rejected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("alice", "wrong")

		rec := run(t, req, []maw.Handler{middleware.BasicAuth(users)}, okHandler())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid_credentials_publish_the_user", func(t *testing.T) {
		t.Parallel()

		final := maw.HandlerFunc(func(c *maw.Context) error {
			user, ok := middleware.GetBasicAuthUser(c)
			require.True(t, ok)
			assert.Equal(t, "alice", user)
			return c.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("alice", "s3cret")

		rec := run(t, req, []maw.Handler{middleware.BasicAuth(users)}, final)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bcrypt_hashes_take_precedence", func(t *testing.T) {
		t.Parallel()

		hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
		require.NoError(t, err)

		mw := middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
			Users:       map[string]string{"bob": "plaintext"},
			HashedUsers: map[string]string{"bob": string(hash)},
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("bob", "hunter2")
		rec := run(t, req, []maw.Handler{mw}, okHandler())
		assert.Equal(t, http.StatusOK, rec.Code)

		// The plaintext entry is shadowed by the hash.
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("bob", "plaintext")
		rec = run(t, req, []maw.Handler{mw}, okHandler())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("custom_realm_in_the_challenge", func(t *testing.T) {
		t.Parallel()

		mw := middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
			Users: users,
			Realm: "Admin Area",
		})

		rec := run(t, httptest.NewRequest(http.MethodGet, "/", nil), []maw.Handler{mw}, okHandler())
		assert.Equal(t, `Basic realm="Admin Area"`, rec.Header().Get("WWW-Authenticate"))
	})
}

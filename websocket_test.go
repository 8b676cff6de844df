package maw_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw"
)

func wsServer(t *testing.T, handlers ...maw.Handler) *httptest.Server {
	t.Helper()

	r := maw.NewRouter()
	r.Get("/ws", handlers...)

	table, err := r.Build()
	require.NoError(t, err)

	srv := httptest.NewServer(table)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func deadline() time.Time {
	return time.Now().Add(time.Second)
}

func TestUpgradeWebSocket(t *testing.T) {
	t.Parallel()

	t.Run("echoes_messages_over_the_upgraded_connection", func(t *testing.T) {
		t.Parallel()

		srv := wsServer(t, maw.HandlerFunc(func(c *maw.Context) error {
			return maw.UpgradeWebSocket(c, func(ctx context.Context, conn *websocket.Conn) error {
				mt, msg, err := conn.ReadMessage()
				if err != nil {
					return err
				}
				return conn.WriteMessage(mt, msg)
			})
		}))

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		defer conn.Close()

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "ping", string(msg))
	})

	t.Run("middleware_resumes_after_the_session_ends", func(t *testing.T) {
		t.Parallel()

		resumed := make(chan struct{})
		probe := maw.HandlerFunc(func(c *maw.Context) error {
			err := c.Next()
			close(resumed)
			return err
		})

		srv := wsServer(t, probe, maw.HandlerFunc(func(c *maw.Context) error {
			return maw.UpgradeWebSocket(c, func(ctx context.Context, conn *websocket.Conn) error {
				_, _, err := conn.ReadMessage()
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return err
			})
		}))

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.NoError(t, conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline()))
		conn.Close()

		<-resumed
	})

	t.Run("upgrade_headers_reach_the_handshake_response", func(t *testing.T) {
		t.Parallel()

		srv := wsServer(t, maw.HandlerFunc(func(c *maw.Context) error {
			return maw.UpgradeWebSocket(c, func(ctx context.Context, conn *websocket.Conn) error {
				return nil
			}, maw.WithWSUpgradeHeaders(http.Header{"X-Server": []string{"maw"}}))
		}))

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		defer conn.Close()

		assert.Equal(t, "maw", resp.Header.Get("X-Server"))
	})

	t.Run("connect_and_disconnect_hooks_fire", func(t *testing.T) {
		t.Parallel()

		connected := make(chan struct{})
		disconnected := make(chan struct{})

		srv := wsServer(t, maw.HandlerFunc(func(c *maw.Context) error {
			return maw.UpgradeWebSocket(c,
				func(ctx context.Context, conn *websocket.Conn) error { return nil },
				maw.WithWSOnConnect(func(ctx context.Context, conn *websocket.Conn) error {
					close(connected)
					return nil
				}),
				maw.WithWSOnDisconnect(func(ctx context.Context, conn *websocket.Conn) {
					close(disconnected)
				}),
			)
		}))

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		defer conn.Close()

		<-connected
		<-disconnected
	})

	t.Run("plain_get_without_upgrade_fails_the_handshake", func(t *testing.T) {
		t.Parallel()

		srv := wsServer(t, maw.HandlerFunc(func(c *maw.Context) error {
			return maw.UpgradeWebSocket(c, func(ctx context.Context, conn *websocket.Conn) error {
				return nil
			})
		}))

		resp, err := http.Get(srv.URL + "/ws")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

package maw

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type wsConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	onConnect      func(context.Context, *websocket.Conn) error
	onDisconnect   func(context.Context, *websocket.Conn)
}

// WebSocketOption configures a websocket upgrade.
type WebSocketOption func(*wsConfig)

// WithWSReadBuffer sets the read buffer size for the upgraded connection.
func WithWSReadBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

// WithWSWriteBuffer sets the write buffer size for the upgraded connection.
func WithWSWriteBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

// WithWSHandshakeTimeout bounds the upgrade handshake.
func WithWSHandshakeTimeout(timeout time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

// WithWSOriginCheck installs a custom Origin check.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSAllowAnyOrigin disables the Origin check entirely.
func WithWSAllowAnyOrigin() WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
}

// WithWSSubprotocols advertises supported subprotocols during the handshake.
func WithWSSubprotocols(protocols ...string) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.Subprotocols = protocols
	}
}

// WithWSUpgradeHeaders adds headers to the 101 upgrade response.
func WithWSUpgradeHeaders(header http.Header) WebSocketOption {
	return func(c *wsConfig) {
		c.responseHeader = header
	}
}

// WithWSOnConnect runs after a successful upgrade, before the handler. A
// non-nil error closes the connection without invoking the handler.
func WithWSOnConnect(fn func(context.Context, *websocket.Conn) error) WebSocketOption {
	return func(c *wsConfig) {
		c.onConnect = fn
	}
}

// WithWSOnDisconnect runs when the connection is torn down.
func WithWSOnDisconnect(fn func(context.Context, *websocket.Conn)) WebSocketOption {
	return func(c *wsConfig) {
		c.onDisconnect = fn
	}
}

// UpgradeWebSocket hijacks the request into a websocket connection and hands
// it to handler, which owns the read loop and returns when the conversation
// is over. The Context is marked hijacked, so the dispatcher writes nothing
// afterward; the response builder is abandoned.
//
// Like any plug-in collaborator, this consumes the same context contract the
// chain defines: middleware before the upgrading handler runs normally, and
// their post-Next code runs after the websocket session ends.
func UpgradeWebSocket(c *Context, handler func(ctx context.Context, conn *websocket.Conn) error, opts ...WebSocketOption) error {
	if handler == nil {
		return fmt.Errorf("maw: nil websocket handler")
	}

	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	conn, err := cfg.upgrader.Upgrade(c.w, c.r, cfg.responseHeader)
	if err != nil {
		// Upgrade already wrote the handshake failure to the wire.
		c.hijack()
		return fmt.Errorf("websocket upgrade: %w", err)
	}
	c.hijack()

	ctx := c.r.Context()
	defer func() {
		if cfg.onDisconnect != nil {
			cfg.onDisconnect(ctx, conn)
		}
		_ = conn.Close()
	}()

	if cfg.onConnect != nil {
		if err := cfg.onConnect(ctx, conn); err != nil {
			return fmt.Errorf("websocket on-connect: %w", err)
		}
	}

	if err := handler(ctx, conn); err != nil {
		return fmt.Errorf("websocket session: %w", err)
	}
	return nil
}

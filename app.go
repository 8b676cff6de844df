package maw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/maw/server"
)

// App ties a built route table to an HTTP server with graceful shutdown.
// Construction is declarative: configure, attach a router, then Listen.
//
//	app := maw.New(maw.WithLogger(log)).Router(r)
//	if err := app.Listen(ctx, ""); err != nil { ... }
type App struct {
	cfg    Config
	logger *slog.Logger
	router *Router
	srv    *server.Server
}

// AppOption configures an App during construction.
type AppOption func(*App)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) AppOption {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger used by the dispatcher and the server.
func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates an App with default configuration and slog.Default() logging.
func New(opts ...AppOption) *App {
	a := &App{
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router attaches the route builder. Changes to the builder after Listen has
// been called have no effect.
func (a *App) Router(r *Router) *App {
	a.router = r
	return a
}

// Handler builds the attached router into a dispatchable RouteTable. Build
// errors (bad patterns, duplicate routes) surface here, before any socket is
// opened.
func (a *App) Handler() (*RouteTable, error) {
	if a.router == nil {
		return nil, fmt.Errorf("maw: no router attached")
	}
	table, err := a.router.Build()
	if err != nil {
		return nil, err
	}
	table.SetConfig(a.cfg)
	table.SetLogger(a.logger)
	return table, nil
}

// Listen builds the route table and serves it until ctx is canceled, then
// shuts down gracefully. An empty addr falls back to the configured address.
func (a *App) Listen(ctx context.Context, addr string) error {
	table, err := a.Handler()
	if err != nil {
		return err
	}

	if addr == "" {
		addr = a.cfg.Addr
	}

	a.srv = server.New(addr,
		server.WithLogger(a.logger),
		server.WithReadTimeout(a.cfg.ReadTimeout),
		server.WithWriteTimeout(a.cfg.WriteTimeout),
		server.WithIdleTimeout(a.cfg.IdleTimeout),
		server.WithShutdownTimeout(a.cfg.ShutdownTimeout),
		server.WithMaxHeaderBytes(a.cfg.MaxHeaderBytes),
	)

	err = a.srv.Start(ctx, table)
	if errors.Is(err, context.Canceled) {
		return a.srv.Stop()
	}
	return err
}

// Stop gracefully shuts down a listening App. It is a no-op before Listen.
func (a *App) Stop() error {
	if a.srv == nil {
		return nil
	}
	return a.srv.Stop()
}

package app

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	transporthttp "github.com/vovakirdan/roomrelay/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	closing         context.Context
	closeSessions   context.CancelFunc
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	hub := core.NewHub(core.HubConfig{
		Rooms: core.RoomOptions{
			MaxClients:      cfg.Rooms.MaxClients,
			MaxAge:          cfg.Rooms.MaxAge,
			CleanupInterval: cfg.Rooms.CleanupInterval,
		},
		ClientBuffer: cfg.ClientBuffer,
	}, logger)

	closing, closeSessions := context.WithCancel(context.Background())
	server := transporthttp.NewServer(closing, hub, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		closing:         closing,
		closeSessions:   closeSessions,
		log:             logger,
	}
}

// Hub exposes the chat hub.
func (a *App) Hub() *core.Hub { return a.hub }

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		// Hijacked WebSocket connections are not tracked by Shutdown.
		a.closeSessions()
		a.cleanup()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// cleanup stops background work in the hub.
func (a *App) cleanup() {
	a.closeSessions()
	a.hub.Shutdown()
	a.log.Info().Msg("hub stopped")
}

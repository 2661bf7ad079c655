package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// HubConfig carries the settings the core consumes.
type HubConfig struct {
	Rooms        RoomOptions
	ClientBuffer int
}

// Stats is the combined view served to operators.
type Stats struct {
	RoomStats
	ClientStats
	Uptime float64 `json:"uptime"`
}

// Hub owns the client and room registries and the router built over them.
type Hub struct {
	clients *ClientRegistry
	rooms   *RoomRegistry
	router  *Router
	log     *zerolog.Logger
	started time.Time
}

// NewHub creates a new chat hub instance.
func NewHub(cfg HubConfig, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	clients := NewClientRegistry(cfg.ClientBuffer, logger)
	rooms := NewRoomRegistry(cfg.Rooms, clients, logger)
	return &Hub{
		clients: clients,
		rooms:   rooms,
		router:  NewRouter(rooms, clients, logger),
		log:     logger,
		started: time.Now(),
	}
}

// Run drives stale-room reclamation until ctx is cancelled or Shutdown is called.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info().
		Dur("cleanup_interval", h.rooms.opts.CleanupInterval).
		Dur("max_age", h.rooms.opts.MaxAge).
		Int("max_clients", h.rooms.opts.MaxClients).
		Msg("hub started")
	h.rooms.Run(ctx)
}

// NewSession starts tracking a new connection.
func (h *Hub) NewSession(handle string) *Session {
	return NewSession(h.router, h.clients, handle, h.log)
}

// Clients exposes the client registry.
func (h *Hub) Clients() *ClientRegistry { return h.clients }

// Rooms exposes the room registry.
func (h *Hub) Rooms() *RoomRegistry { return h.rooms }

// Stats aggregates room and connection counters.
func (h *Hub) Stats() Stats {
	return Stats{
		RoomStats:   h.rooms.Stats(),
		ClientStats: h.clients.Stats(),
		Uptime:      time.Since(h.started).Seconds(),
	}
}

// Shutdown stops background work. Connections are closed by the transport.
func (h *Hub) Shutdown() {
	h.rooms.Shutdown()
}

package core

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay/internal/utils"
)

// ClientStats is an aggregate view of connected clients.
type ClientStats struct {
	TotalConnections int `json:"totalConnections"`
	ClientsInRooms   int `json:"clientsInRooms"`
}

// ClientRegistry owns the set of connected clients, keyed by connection handle.
type ClientRegistry struct {
	mu       sync.RWMutex
	byHandle map[string]*Client
	byID     map[string]*Client
	buffer   int
	log      *zerolog.Logger
}

// NewClientRegistry builds an empty registry. buffer sizes each client's outbound queue.
func NewClientRegistry(buffer int, logger *zerolog.Logger) *ClientRegistry {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ClientRegistry{
		byHandle: make(map[string]*Client),
		byID:     make(map[string]*Client),
		buffer:   buffer,
		log:      logger,
	}
}

// Register allocates a client with a fresh user id for the given connection handle.
// Registering a handle twice replaces the earlier client.
func (r *ClientRegistry) Register(handle string) *Client {
	client := NewClient(handle, utils.NewUserID(), r.buffer)

	r.mu.Lock()
	if prev, ok := r.byHandle[handle]; ok {
		delete(r.byID, prev.ID)
		prev.close()
	}
	r.byHandle[handle] = client
	r.byID[client.ID] = client
	total := len(r.byHandle)
	r.mu.Unlock()

	r.log.Info().Str("user_id", client.ID).Str("conn_id", handle).Int("connections", total).Msg("client connected")
	return client
}

// Unregister removes and returns the client bound to handle.
func (r *ClientRegistry) Unregister(handle string) (*Client, bool) {
	r.mu.Lock()
	client, ok := r.byHandle[handle]
	if ok {
		delete(r.byHandle, handle)
		delete(r.byID, client.ID)
	}
	total := len(r.byHandle)
	r.mu.Unlock()

	if ok {
		r.log.Info().Str("user_id", client.ID).Str("conn_id", handle).Int("connections", total).Msg("client disconnected")
	}
	return client, ok
}

// Get returns the client bound to a connection handle.
func (r *ClientRegistry) Get(handle string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.byHandle[handle]
	return client, ok
}

// Lookup returns the live client with the given user id.
func (r *ClientRegistry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.byID[userID]
	return client, ok
}

// Resolve maps user ids to live clients, skipping ids that are gone. Order is kept.
func (r *ClientRegistry) Resolve(ids []string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.FilterMap(ids, func(id string, _ int) (*Client, bool) {
		client, ok := r.byID[id]
		return client, ok
	})
}

// Send delivers ev to client if it is still open. Failures are logged, never returned.
func (r *ClientRegistry) Send(client *Client, ev *Event) bool {
	if client == nil {
		return false
	}
	if client.enqueue(ev) {
		return true
	}
	if client.Open() {
		r.log.Warn().Str("user_id", client.ID).Msg("outbound queue full, dropping event")
	}
	return false
}

// SendMany delivers ev to every client except excludeUserID and returns how many accepted it.
func (r *ClientRegistry) SendMany(clients []*Client, ev *Event, excludeUserID string) int {
	recipients := lo.Filter(clients, func(c *Client, _ int) bool {
		return c != nil && (excludeUserID == "" || c.ID != excludeUserID)
	})
	delivered := 0
	for _, c := range recipients {
		if r.Send(c, ev) {
			delivered++
		}
	}
	return delivered
}

// All returns a snapshot of every registered client.
func (r *ClientRegistry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.byHandle)
}

// Stats reports connection totals.
func (r *ClientRegistry) Stats() ClientStats {
	all := r.All()
	return ClientStats{
		TotalConnections: len(all),
		ClientsInRooms:   lo.CountBy(all, func(c *Client) bool { return c.InRoom() }),
	}
}

package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/utils"
)

const maxRoomIDAttempts = 32

// ClientResolver maps member ids back to live clients.
type ClientResolver interface {
	Resolve(ids []string) []*Client
}

// RoomOptions bounds room capacity and lifetime.
type RoomOptions struct {
	MaxClients      int
	MaxAge          time.Duration
	CleanupInterval time.Duration
}

// RoomStats is an aggregate view of live rooms.
type RoomStats struct {
	TotalRooms int `json:"totalRooms"`
	TotalUsers int `json:"totalUsers"`
}

// RoomRegistry owns all live rooms. The registry lock guards the id map and
// each room's own lock guards its membership; the two are never held together.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	opts    RoomOptions
	clients ClientResolver
	now     func() time.Time
	newID   func() (string, error)
	log     *zerolog.Logger

	sweepMu  sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRoomRegistry builds an empty registry. clients is used to clear the
// current room of members when a room is reclaimed.
func NewRoomRegistry(opts RoomOptions, clients ClientResolver, logger *zerolog.Logger) *RoomRegistry {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RoomRegistry{
		rooms:   make(map[string]*Room),
		opts:    opts,
		clients: clients,
		now:     time.Now,
		newID:   utils.NewRoomID,
		log:     logger,
		stop:    make(chan struct{}),
	}
}

// Create allocates a room under a fresh id, drawing again on collision.
func (r *RoomRegistry) Create() (*Room, error) {
	for range maxRoomIDAttempts {
		id, err := r.newID()
		if err != nil {
			return nil, fmt.Errorf("generate room id: %w", err)
		}

		r.mu.Lock()
		if _, taken := r.rooms[id]; taken {
			r.mu.Unlock()
			r.log.Debug().Str("room_id", id).Msg("room id collision, retrying")
			continue
		}
		room := NewRoom(id, r.now())
		r.rooms[id] = room
		total := len(r.rooms)
		r.mu.Unlock()

		r.log.Info().Str("room_id", id).Int("rooms", total).Msg("room created")
		return room, nil
	}
	return nil, errRoomIDExhausted
}

// Get returns a live room. Rooms past their max age are reclaimed on the spot.
func (r *RoomRegistry) Get(id string) (*Room, bool) {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok || room.Deleted() {
		return nil, false
	}
	if r.expired(room, r.now()) {
		r.reclaim(room)
		return nil, false
	}
	return room, true
}

// AddMember inserts client into room. fn, when set, runs with the resulting
// membership while the room is still locked and must not block.
func (r *RoomRegistry) AddMember(room *Room, client *Client, fn func(Membership)) error {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Deleted() {
		return errRoomNotFound
	}
	if r.opts.MaxClients > 0 && len(room.members) >= r.opts.MaxClients {
		return errRoomFull
	}
	if !room.add(client.ID) {
		return errAlreadyInRoom
	}
	client.setRoom(room.ID)

	if fn != nil {
		fn(room.view())
	}
	return nil
}

// RemoveMember drops client from room and deletes the room once it is empty.
// fn runs like in AddMember, with the remaining members. Returns false when
// client was not a member.
func (r *RoomRegistry) RemoveMember(room *Room, client *Client, fn func(Membership)) bool {
	room.mu.Lock()
	if !room.remove(client.ID) {
		room.mu.Unlock()
		return false
	}
	client.clearRoom(room.ID)

	empty := room.empty()
	if empty {
		room.deleted.Store(true)
	}
	if fn != nil {
		fn(room.view())
	}
	room.mu.Unlock()

	if empty {
		r.forget(room)
		r.log.Info().Str("room_id", room.ID).Msg("room deleted")
	}
	return true
}

// Broadcast runs fn with the current membership under the room lock.
func (r *RoomRegistry) Broadcast(room *Room, fn func(Membership)) error {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Deleted() {
		return errRoomNotFound
	}
	fn(room.view())
	return nil
}

// ListMembers returns member ids in join order, or nil for an unknown room.
func (r *RoomRegistry) ListMembers(id string) []string {
	room, ok := r.Get(id)
	if !ok {
		return nil
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.view().Members
}

// Stats reports room and member totals.
func (r *RoomRegistry) Stats() RoomStats {
	var stats RoomStats
	for _, room := range r.snapshot() {
		if room.Deleted() {
			continue
		}
		stats.TotalRooms++
		stats.TotalUsers += room.MemberCount()
	}
	return stats
}

// ReclaimStale deletes every room whose age reached the configured max age.
// Members lose their current room without being notified.
func (r *RoomRegistry) ReclaimStale() int {
	r.sweepMu.Lock()
	defer r.sweepMu.Unlock()

	now := r.now()
	reclaimed := 0
	for _, room := range r.snapshot() {
		if r.expired(room, now) && r.reclaim(room) {
			reclaimed++
		}
	}
	if reclaimed > 0 {
		r.log.Info().Int("rooms", reclaimed).Msg("cleaned up stale rooms")
	}
	return reclaimed
}

// Run sweeps stale rooms every cleanup interval until ctx is done or Shutdown is called.
func (r *RoomRegistry) Run(ctx context.Context) {
	if r.opts.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(r.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.ReclaimStale()
		}
	}
}

// Shutdown stops the sweep loop. Members are not notified.
func (r *RoomRegistry) Shutdown() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *RoomRegistry) expired(room *Room, now time.Time) bool {
	return r.opts.MaxAge > 0 && now.Sub(room.CreatedAt) >= r.opts.MaxAge
}

func (r *RoomRegistry) reclaim(room *Room) bool {
	room.mu.Lock()
	if room.Deleted() {
		room.mu.Unlock()
		return false
	}
	room.deleted.Store(true)
	members := room.drain()
	if r.clients != nil {
		for _, c := range r.clients.Resolve(members) {
			c.clearRoom(room.ID)
		}
	}
	room.mu.Unlock()

	r.forget(room)
	r.log.Info().Str("room_id", room.ID).Int("user_count", len(members)).Msg("stale room deleted")
	return true
}

// forget removes room from the map unless the id has been reused since.
func (r *RoomRegistry) forget(room *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.rooms[room.ID]; ok && current == room {
		delete(r.rooms, room.ID)
	}
}

func (r *RoomRegistry) snapshot() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

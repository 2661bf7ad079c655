package core

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Room groups clients that share broadcasts. Members are stored by user id in
// join order; the owning ClientRegistry resolves them to live clients.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	members []string
	index   map[string]struct{}
	count   int
	deleted atomic.Bool
}

// Membership is a snapshot of a room taken while its lock is held.
type Membership struct {
	RoomID  string
	Count   int
	Members []string
}

// NewRoom constructs a room with no members.
func NewRoom(id string, createdAt time.Time) *Room {
	return &Room{
		ID:        id,
		CreatedAt: createdAt,
		index:     make(map[string]struct{}),
	}
}

// MemberCount returns the cached member count.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Has reports whether userID is a member.
func (r *Room) Has(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.index[userID]
	return ok
}

// Deleted reports whether the room has been removed from its registry.
func (r *Room) Deleted() bool {
	return r.deleted.Load()
}

// The methods below expect r.mu to be held.

func (r *Room) add(userID string) bool {
	if _, exists := r.index[userID]; exists {
		return false
	}
	r.index[userID] = struct{}{}
	r.members = append(r.members, userID)
	r.count++
	return true
}

func (r *Room) remove(userID string) bool {
	if _, exists := r.index[userID]; !exists {
		return false
	}
	delete(r.index, userID)
	if i := slices.Index(r.members, userID); i >= 0 {
		r.members = slices.Delete(r.members, i, i+1)
	}
	r.count--
	return true
}

func (r *Room) empty() bool {
	return len(r.members) == 0
}

func (r *Room) drain() []string {
	members := r.members
	r.members = nil
	r.index = make(map[string]struct{})
	r.count = 0
	return members
}

func (r *Room) view() Membership {
	return Membership{
		RoomID:  r.ID,
		Count:   r.count,
		Members: slices.Clone(r.members),
	}
}

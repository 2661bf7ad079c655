package core

import "sync"

// DefaultClientBuffer is the outbound queue length used when none is configured.
const DefaultClientBuffer = 64

// Client is a chat participant as seen by the core layer.
// Handle and ID never change; name and room are guarded by mu.
type Client struct {
	Handle string
	ID     string

	mu     sync.RWMutex
	name   string
	roomID string

	events    chan *Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient constructs a client with an outbound queue of the given size.
func NewClient(handle, id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		Handle: handle,
		ID:     id,
		events: make(chan *Event, buffer),
		done:   make(chan struct{}),
	}
}

// Events is the outbound queue drained by the transport writer.
func (c *Client) Events() <-chan *Event {
	return c.events
}

// Done is closed once the client has been torn down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Name returns the display name set by the last successful join.
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// RoomID returns the current room id, or "" when the client is not in a room.
func (c *Client) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

// InRoom reports whether the client currently belongs to a room.
func (c *Client) InRoom() bool {
	return c.RoomID() != ""
}

// Open reports whether the client can still receive events.
func (c *Client) Open() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *Client) setName(name string) {
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

func (c *Client) setRoom(roomID string) {
	c.mu.Lock()
	c.roomID = roomID
	c.mu.Unlock()
}

// clearRoom resets the current room only if it still points at roomID.
func (c *Client) clearRoom(roomID string) {
	c.mu.Lock()
	if c.roomID == roomID {
		c.roomID = ""
	}
	c.mu.Unlock()
}

// enqueue never blocks; it reports false when the event was dropped.
func (c *Client) enqueue(ev *Event) bool {
	if !c.Open() {
		return false
	}
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

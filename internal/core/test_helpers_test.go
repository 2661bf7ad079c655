package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	clients *ClientRegistry
	rooms   *RoomRegistry
	router  *Router
	clock   *fakeClock
}

func newFixture(t *testing.T, opts RoomOptions) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	clients := NewClientRegistry(64, nil)
	rooms := NewRoomRegistry(opts, clients, nil)
	rooms.now = clock.Now
	t.Cleanup(rooms.Shutdown)

	return &fixture{
		clients: clients,
		rooms:   rooms,
		router:  NewRouter(rooms, clients, nil),
		clock:   clock,
	}
}

func defaultOptions() RoomOptions {
	return RoomOptions{MaxClients: 50, MaxAge: 24 * time.Hour, CleanupInterval: time.Hour}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// drain returns every event queued for c without blocking.
func drain(c *Client) []*Event {
	var out []*Event
	for {
		select {
		case ev := <-c.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func mustSingleEvent(t *testing.T, c *Client, kind EventKind) *Event {
	t.Helper()

	events := drain(c)
	require.Len(t, events, 1, "expected exactly one event for %s", c.ID)
	require.Equal(t, kind, events[0].Kind)
	return events[0]
}

func requireNoEvents(t *testing.T, c *Client) {
	t.Helper()
	require.Empty(t, drain(c))
}

// createRoom runs create_room for c and returns the new id.
func (f *fixture) createRoom(t *testing.T, c *Client) string {
	t.Helper()

	require.NoError(t, f.router.Dispatch(c, &Command{Kind: CommandCreateRoom}))
	return mustSingleEvent(t, c, EventRoomCreated).Room
}

func (f *fixture) join(t *testing.T, c *Client, roomID, name string) {
	t.Helper()
	require.NoError(t, f.router.Dispatch(c, &Command{Kind: CommandJoinRoom, RoomID: roomID, Name: name}))
}

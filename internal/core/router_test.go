package core

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRouter_Scenario(t *testing.T) {
	f := newFixture(t, defaultOptions())
	alice := f.clients.Register("conn-a")
	bob := f.clients.Register("conn-b")

	// Given Alice created a room and joined it
	roomID := f.createRoom(t, alice)
	f.join(t, alice, roomID, "Alice")
	joined := mustSingleEvent(t, alice, EventRoomJoined)
	require.Equal(t, roomID, joined.Room)
	require.Equal(t, "Alice", joined.Name)
	require.Equal(t, 1, joined.UserCount)

	// When Bob joins the same room
	f.join(t, bob, roomID, "Bob")

	// Then Bob gets the confirmation and Alice the announcement
	bobJoined := mustSingleEvent(t, bob, EventRoomJoined)
	require.Equal(t, 2, bobJoined.UserCount)
	announce := mustSingleEvent(t, alice, EventUserJoined)
	require.Equal(t, bob.ID, announce.User)
	require.Equal(t, "Bob", announce.Name)
	require.Equal(t, 2, announce.UserCount)

	// When Alice says hello, both see it including Alice herself
	require.NoError(t, f.router.Dispatch(alice, &Command{Kind: CommandSendMessage, Content: "hello"}))
	for _, c := range []*Client{alice, bob} {
		ev := mustSingleEvent(t, c, EventNewMessage)
		require.Equal(t, "hello", ev.Message.Content)
		require.Equal(t, alice.ID, ev.Message.From)
		require.Equal(t, "Alice", ev.Message.Name)
	}

	// When Bob leaves, Alice sees the count drop
	require.True(t, f.router.Leave(bob))
	left := mustSingleEvent(t, alice, EventUserLeft)
	require.Equal(t, bob.ID, left.User)
	require.Equal(t, "Bob", left.Name)
	require.Equal(t, 1, left.UserCount)
	requireNoEvents(t, bob)
}

func TestRouter_CreateRoomKeepsState(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	first := f.createRoom(t, c)
	f.join(t, c, first, "Carol")
	drain(c)

	second := f.createRoom(t, c)

	require.NotEqual(t, first, second)
	require.Equal(t, first, c.RoomID())
}

func TestRouter_SwitchingRoomsLeavesPrevious(t *testing.T) {
	f := newFixture(t, defaultOptions())
	a := f.clients.Register("a")
	b := f.clients.Register("b")
	watcher := f.clients.Register("w")

	roomA := f.createRoom(t, a)
	roomB := f.createRoom(t, b)
	f.join(t, a, roomA, "A")
	f.join(t, watcher, roomA, "Watcher")
	f.join(t, b, roomB, "B")
	drain(a)
	drain(b)
	drain(watcher)

	f.join(t, a, roomB, "A2")

	left := mustSingleEvent(t, watcher, EventUserLeft)
	require.Equal(t, a.ID, left.User)
	require.Equal(t, "A", left.Name)
	require.Equal(t, 1, left.UserCount)

	joined := mustSingleEvent(t, a, EventRoomJoined)
	require.Equal(t, roomB, joined.Room)
	require.Equal(t, 2, joined.UserCount)
	require.Equal(t, "A2", a.Name())
	require.Equal(t, roomB, a.RoomID())

	require.Equal(t, []string{watcher.ID}, f.rooms.ListMembers(roomA))
	require.Equal(t, []string{b.ID, a.ID}, f.rooms.ListMembers(roomB))
}

func TestRouter_LeavingLastMemberDeletesRoom(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	first := f.createRoom(t, c)
	second := f.createRoom(t, c)
	f.join(t, c, first, "Solo")

	f.join(t, c, second, "Solo")

	_, ok := f.rooms.Get(first)
	require.False(t, ok)
}

func TestRouter_JoinValidation(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)

	tests := []struct {
		name   string
		roomID string
		user   string
		want   string
	}{
		{name: "missing room id", roomID: "", user: "Dave", want: "Invalid room ID"},
		{name: "uppercase room id", roomID: "ABCDEF", user: "Dave", want: "Invalid room ID"},
		{name: "missing name", roomID: roomID, user: "", want: "Invalid username. Must be 1-50 characters."},
		{name: "blank name", roomID: roomID, user: "   ", want: "Invalid username. Must be 1-50 characters."},
		{name: "long name", roomID: roomID, user: strings.Repeat("d", 51), want: "Invalid username. Must be 1-50 characters."},
		{name: "unknown room", roomID: "000000", user: "Dave", want: "Room not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.router.Dispatch(c, &Command{Kind: CommandJoinRoom, RoomID: tt.roomID, Name: tt.user})
			require.Error(t, err)
			require.Equal(t, tt.want, err.Error())
			require.False(t, c.InRoom())
			requireNoEvents(t, c)
		})
	}
}

func TestRouter_JoinSanitizesName(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)

	f.join(t, c, roomID, "  <i>Eve</i> ")

	require.Equal(t, "Eve", mustSingleEvent(t, c, EventRoomJoined).Name)
	require.Equal(t, "Eve", c.Name())
}

func TestRouter_JoinNameOfOnlyTags(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)

	f.join(t, c, roomID, "<b></b>")

	joined := mustSingleEvent(t, c, EventRoomJoined)
	require.Empty(t, joined.Name)
	require.Equal(t, roomID, c.RoomID())
}

func TestRouter_RejoinSameRoomRenames(t *testing.T) {
	f := newFixture(t, defaultOptions())
	frank := f.clients.Register("conn-f")
	grace := f.clients.Register("conn-g")
	roomID := f.createRoom(t, frank)
	f.join(t, frank, roomID, "Frank")
	f.join(t, grace, roomID, "Grace")
	drain(frank)
	drain(grace)

	// When Frank joins his own room again under a new name
	f.join(t, frank, roomID, "Franky")

	// Then Grace sees him leave and come back renamed
	events := drain(grace)
	require.Len(t, events, 2)
	require.Equal(t, EventUserLeft, events[0].Kind)
	require.Equal(t, frank.ID, events[0].User)
	require.Equal(t, "Frank", events[0].Name)
	require.Equal(t, 1, events[0].UserCount)
	require.Equal(t, EventUserJoined, events[1].Kind)
	require.Equal(t, frank.ID, events[1].User)
	require.Equal(t, "Franky", events[1].Name)
	require.Equal(t, 2, events[1].UserCount)

	joined := mustSingleEvent(t, frank, EventRoomJoined)
	require.Equal(t, "Franky", joined.Name)
	require.Equal(t, 2, joined.UserCount)
	require.Equal(t, "Franky", frank.Name())
	require.Equal(t, roomID, frank.RoomID())
	require.Equal(t, 2, f.rooms.Stats().TotalUsers)
}

func TestRouter_RejoinSameRoomAsOnlyMember(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)
	f.join(t, c, roomID, "Frank")
	drain(c)

	err := f.router.Dispatch(c, &Command{Kind: CommandJoinRoom, RoomID: roomID, Name: "Frank"})

	// Leaving emptied the room, so there is nothing to rejoin.
	require.ErrorIs(t, err, ErrRoomNotFound)
	require.Equal(t, "Room not found", err.Error())
	require.False(t, c.InRoom())
	requireNoEvents(t, c)
	require.Equal(t, 0, f.rooms.Stats().TotalRooms)
}

func TestRouter_JoinFullRoom(t *testing.T) {
	f := newFixture(t, RoomOptions{MaxClients: 2, MaxAge: time.Hour})
	owner := f.clients.Register("owner")
	roomID := f.createRoom(t, owner)

	f.join(t, owner, roomID, "Owner")
	f.join(t, f.clients.Register("second"), roomID, "Second")
	drain(owner)

	late := f.clients.Register("late")
	err := f.router.Dispatch(late, &Command{Kind: CommandJoinRoom, RoomID: roomID, Name: "Late"})

	require.ErrorIs(t, err, ErrRoomFull)
	require.Equal(t, "Room is full", err.Error())
	require.False(t, late.InRoom())
	require.Empty(t, late.Name())
	requireNoEvents(t, owner)
}

func TestRouter_SendRequiresRoom(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")

	err := f.router.Dispatch(c, &Command{Kind: CommandSendMessage, Content: "hi"})

	require.ErrorIs(t, err, ErrNotInRoom)
	require.Equal(t, "Not in a room", err.Error())
}

func TestRouter_SendRejectsEmptyContent(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)
	f.join(t, c, roomID, "Gina")
	drain(c)

	err := f.router.Dispatch(c, &Command{Kind: CommandSendMessage, Content: ""})
	require.Equal(t, "Invalid message content", err.Error())

	err = f.router.Dispatch(c, &Command{Kind: CommandSendMessage, Content: "  <br/>  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "Message cannot be empty", err.Error())

	requireNoEvents(t, c)
}

func TestRouter_SendSanitizesAndCaps(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)
	f.join(t, c, roomID, "Hank")
	drain(c)

	require.NoError(t, f.router.Dispatch(c, &Command{Kind: CommandSendMessage, Content: "<b>hi</b>" + strings.Repeat("x", 2000)}))

	ev := mustSingleEvent(t, c, EventNewMessage)
	require.Equal(t, "hi"+strings.Repeat("x", 998), ev.Message.Content)
}

func TestRouter_MessagesStayInTheirRoom(t *testing.T) {
	f := newFixture(t, defaultOptions())
	a1 := f.clients.Register("a1")
	a2 := f.clients.Register("a2")
	b1 := f.clients.Register("b1")
	roomA := f.createRoom(t, a1)
	roomB := f.createRoom(t, b1)
	f.join(t, a1, roomA, "a1")
	f.join(t, a2, roomA, "a2")
	f.join(t, b1, roomB, "b1")
	drain(a1)
	drain(a2)
	drain(b1)

	for i := range 20 {
		sender := a1
		if i%2 == 1 {
			sender = a2
		}
		require.NoError(t, f.router.Dispatch(sender, &Command{Kind: CommandSendMessage, Content: fmt.Sprintf("m%d", i)}))
	}

	for _, c := range []*Client{a1, a2} {
		events := drain(c)
		require.Len(t, events, 20)
		for i, ev := range events {
			require.Equal(t, fmt.Sprintf("m%d", i), ev.Message.Content)
		}
	}
	requireNoEvents(t, b1)
}

func TestRouter_ReclaimedRoomLeavesClientsIdle(t *testing.T) {
	f := newFixture(t, RoomOptions{MaxClients: 10, MaxAge: time.Hour})
	c := f.clients.Register("conn")
	roomID := f.createRoom(t, c)
	f.join(t, c, roomID, "Ivy")
	drain(c)

	f.clock.Advance(2 * time.Hour)
	f.rooms.ReclaimStale()

	err := f.router.Dispatch(c, &Command{Kind: CommandSendMessage, Content: "anyone?"})
	require.ErrorIs(t, err, ErrNotInRoom)
	require.False(t, f.router.Leave(c))
	requireNoEvents(t, c)
}

func TestRouter_UnknownCommand(t *testing.T) {
	f := newFixture(t, defaultOptions())
	c := f.clients.Register("conn")

	err := f.router.Dispatch(c, &Command{Kind: CommandKind(42)})
	require.Equal(t, "Unknown message type", err.Error())

	err = f.router.Dispatch(c, nil)
	require.Equal(t, "Invalid message format", err.Error())
}

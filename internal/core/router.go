package core

import (
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/sanitize"
)

// Router interprets client commands against the room and client registries
// and decides who receives which event.
type Router struct {
	rooms   *RoomRegistry
	clients *ClientRegistry
	log     *zerolog.Logger
}

// NewRouter wires a router over the given registries.
func NewRouter(rooms *RoomRegistry, clients *ClientRegistry, logger *zerolog.Logger) *Router {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Router{rooms: rooms, clients: clients, log: logger}
}

// Dispatch executes one command for client. Returned errors are meant for the
// originating client only; client state is unchanged when an error is returned,
// except that a join may have already left the previous room.
func (r *Router) Dispatch(client *Client, cmd *Command) error {
	if cmd == nil {
		return errInvalidFormat
	}
	switch cmd.Kind {
	case CommandCreateRoom:
		return r.createRoom(client)
	case CommandJoinRoom:
		return r.joinRoom(client, cmd.RoomID, cmd.Name)
	case CommandSendMessage:
		return r.sendMessage(client, cmd.Content)
	default:
		return errUnknownType
	}
}

func (r *Router) createRoom(client *Client) error {
	room, err := r.rooms.Create()
	if err != nil {
		return err
	}
	r.clients.Send(client, &Event{Kind: EventRoomCreated, Room: room.ID})
	return nil
}

func (r *Router) joinRoom(client *Client, roomID, name string) error {
	if !sanitize.IsValidRoomID(roomID) {
		return errInvalidRoomID
	}
	if !sanitize.IsValidName(name) {
		return errInvalidName
	}
	display := sanitize.Text(name)

	room, ok := r.rooms.Get(roomID)
	if !ok {
		return errRoomNotFound
	}

	// Rejoining the current room goes through a full leave too; if that empties
	// the room, AddMember reports it as gone.
	if client.InRoom() {
		r.Leave(client)
	}

	err := r.rooms.AddMember(room, client, func(m Membership) {
		client.setName(display)
		r.clients.Send(client, &Event{
			Kind:      EventRoomJoined,
			Room:      m.RoomID,
			Name:      display,
			UserCount: m.Count,
		})
		r.clients.SendMany(r.clients.Resolve(m.Members), &Event{
			Kind:      EventUserJoined,
			Room:      m.RoomID,
			User:      client.ID,
			Name:      display,
			UserCount: m.Count,
		}, client.ID)
		r.log.Info().Str("user_id", client.ID).Str("name", display).Str("room_id", m.RoomID).Int("user_count", m.Count).Msg("client joined room")
	})
	return err
}

func (r *Router) sendMessage(client *Client, content string) error {
	roomID := client.RoomID()
	if roomID == "" {
		return errNotInRoom
	}
	if content == "" {
		return errInvalidContent
	}
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return errRoomNotFound
	}
	text := sanitize.Text(content)
	if text == "" {
		return errEmptyMessage
	}

	msg := Message{Room: room.ID, From: client.ID, Name: client.Name(), Content: text}
	return r.rooms.Broadcast(room, func(m Membership) {
		r.clients.SendMany(r.clients.Resolve(m.Members), &Event{
			Kind:    EventNewMessage,
			Room:    m.RoomID,
			User:    client.ID,
			Name:    msg.Name,
			Message: msg,
		}, "")
		r.log.Debug().Str("user_id", client.ID).Str("room_id", m.RoomID).Int("recipients", m.Count).Msg("message sent")
	})
}

// Leave removes client from its current room and tells the remaining members.
// It reports whether a membership was removed.
func (r *Router) Leave(client *Client) bool {
	roomID := client.RoomID()
	if roomID == "" {
		return false
	}
	room, ok := r.rooms.Get(roomID)
	if !ok {
		client.clearRoom(roomID)
		return false
	}

	name := client.Name()
	removed := r.rooms.RemoveMember(room, client, func(m Membership) {
		r.clients.SendMany(r.clients.Resolve(m.Members), &Event{
			Kind:      EventUserLeft,
			Room:      m.RoomID,
			User:      client.ID,
			Name:      name,
			UserCount: m.Count,
		}, client.ID)
	})
	if removed {
		r.log.Info().Str("user_id", client.ID).Str("name", name).Str("room_id", roomID).Msg("client left room")
	}
	return removed
}

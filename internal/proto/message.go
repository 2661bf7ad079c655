package proto

import "encoding/json"

const (
	InboundTypeCreateRoom  = "create_room"
	InboundTypeJoinRoom    = "join_room"
	InboundTypeSendMessage = "send_message"

	OutboundTypeSystem      = "system"
	OutboundTypeRoomCreated = "room_created"
	OutboundTypeRoomJoined  = "room_joined"
	OutboundTypeUserJoined  = "user_joined"
	OutboundTypeNewMessage  = "new_message"
	OutboundTypeUserLeft    = "user_left"
	OutboundTypeError       = "error"
)

// Inbound is a frame coming from the client. Fields stay raw so that a
// non-string value can be told apart from a missing one.
type Inbound struct {
	Type    json.RawMessage `json:"type"`
	RoomID  json.RawMessage `json:"roomId"`
	Name    json.RawMessage `json:"name"`
	Content json.RawMessage `json:"content"`
}

// CreateRoom asks the server for a new room.
type CreateRoom struct {
	Type string `json:"type"`
}

// JoinRoom asks to enter a room under a display name.
type JoinRoom struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// SendMessage posts text to the sender's room.
type SendMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Outbound is a catch-all decode target for clients reading server frames.
// Only the fields relevant to Type are filled in.
type Outbound struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Name      string `json:"name,omitempty"`
	Content   string `json:"content,omitempty"`
	UserCount int    `json:"userCount,omitempty"`
}

// System tells a client its own user id right after connecting.
type System struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// RoomCreated carries the id of a freshly created room.
type RoomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// RoomJoined confirms a join to the joiner.
type RoomJoined struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}

// UserJoined notifies the other members about a join.
type UserJoined struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}

// NewMessage is a chat message delivered to every member of a room.
type NewMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
}

// UserLeft notifies the remaining members about a leave.
type UserLeft struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}

// Error describes a failed request.
type Error struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

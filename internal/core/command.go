package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom allocates a new empty room.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom moves the client into a room under a display name.
	CommandJoinRoom
	// CommandSendMessage delivers a chat message to the client's room.
	CommandSendMessage
)

func (k CommandKind) String() string {
	switch k {
	case CommandCreateRoom:
		return "create_room"
	case CommandJoinRoom:
		return "join_room"
	case CommandSendMessage:
		return "send_message"
	default:
		return "unknown"
	}
}

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	RoomID  string
	Name    string
	Content string
}

package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventSystem tells a freshly connected client its own user id.
	EventSystem EventKind = iota
	// EventRoomCreated answers a create request with the new room id.
	EventRoomCreated
	// EventRoomJoined confirms a join to the joiner.
	EventRoomJoined
	// EventUserJoined notifies the other members about a join.
	EventUserJoined
	// EventNewMessage carries a chat message to every member, sender included.
	EventNewMessage
	// EventUserLeft notifies the remaining members about a leave.
	EventUserLeft
	// EventError notifies one client about a failed request.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	Room      string
	User      string
	Name      string
	UserCount int
	Message   Message
	Error     *CoreError
}

func systemEvent(userID string) *Event {
	return &Event{Kind: EventSystem, User: userID}
}

func errorEvent(err *CoreError) *Event {
	return &Event{Kind: EventError, Error: err}
}

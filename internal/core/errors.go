package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeNotFound      = "not_found"
	ErrCodeRoomFull      = "room_full"
	ErrCodeNotInRoom     = "not_in_room"
	ErrCodeAlreadyJoined = "already_joined"
	ErrCodeInternal      = "internal_error"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotInRoom     = errors.New("not in room")
	ErrAlreadyJoined = errors.New("already joined")
	ErrInternal      = errors.New("internal error")
)

var codeSentinels = map[string]error{
	ErrCodeInvalidInput:  ErrInvalidInput,
	ErrCodeNotFound:      ErrRoomNotFound,
	ErrCodeRoomFull:      ErrRoomFull,
	ErrCodeNotInRoom:     ErrNotInRoom,
	ErrCodeAlreadyJoined: ErrAlreadyJoined,
	ErrCodeInternal:      ErrInternal,
}

// CoreError wraps a code and human-readable message.
// The message is what the originating client receives.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Is matches the sentinel error that corresponds to the code.
func (e *CoreError) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// Errors returned to clients. The messages are part of the wire protocol.
var (
	errInvalidFormat   = coreError(ErrCodeInvalidInput, "Invalid message format")
	errInvalidType     = coreError(ErrCodeInvalidInput, "Invalid message type")
	errUnknownType     = coreError(ErrCodeInvalidInput, "Unknown message type")
	errInvalidRoomID   = coreError(ErrCodeInvalidInput, "Invalid room ID")
	errInvalidName     = coreError(ErrCodeInvalidInput, "Invalid username. Must be 1-50 characters.")
	errInvalidContent  = coreError(ErrCodeInvalidInput, "Invalid message content")
	errEmptyMessage    = coreError(ErrCodeInvalidInput, "Message cannot be empty")
	errRoomNotFound    = coreError(ErrCodeNotFound, "Room not found")
	errRoomFull        = coreError(ErrCodeRoomFull, "Room is full")
	errNotInRoom       = coreError(ErrCodeNotInRoom, "Not in a room")
	errAlreadyInRoom   = coreError(ErrCodeAlreadyJoined, "Already in this room")
	errProcessFailed   = coreError(ErrCodeInternal, "Failed to process message")
	errRoomIDExhausted = coreError(ErrCodeInternal, "Could not allocate a room id")
)

// InvalidFormat is returned by decoders when a payload is not structured data.
func InvalidFormat() *CoreError { return errInvalidFormat }

// InvalidType is returned by decoders when the type field is missing or not a string.
func InvalidType() *CoreError { return errInvalidType }

// UnknownType is returned by decoders for a type outside the inbound set.
func UnknownType() *CoreError { return errUnknownType }

// toCoreError converts any error into the client-facing form.
func toCoreError(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	return errProcessFailed
}

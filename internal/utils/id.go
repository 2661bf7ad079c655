package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// RoomIDBytes is the entropy of a room id; hex encoding doubles it to six characters.
const RoomIDBytes = 3

// NewRoomID returns six lowercase hex digits drawn from crypto/rand.
func NewRoomID() (string, error) {
	buf := make([]byte, RoomIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewUserID returns a process-unique, opaque participant id.
func NewUserID() string {
	return xid.New().String()
}

// NewConnID returns an identifier for one accepted transport connection.
func NewConnID() string {
	return uuid.NewString()
}

package http

import (
	"encoding/json"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
)

// inboundToCommand decodes one client frame. Non-string fields decode as ""
// and are rejected by the router with the matching message.
func inboundToCommand(data []byte) (*core.Command, *core.CoreError) {
	var inbound proto.Inbound
	if err := json.Unmarshal(data, &inbound); err != nil {
		return nil, core.InvalidFormat()
	}

	typ, ok := stringField(inbound.Type)
	if !ok || typ == "" {
		return nil, core.InvalidType()
	}

	switch typ {
	case proto.InboundTypeCreateRoom:
		return &core.Command{Kind: core.CommandCreateRoom}, nil
	case proto.InboundTypeJoinRoom:
		roomID, _ := stringField(inbound.RoomID)
		name, _ := stringField(inbound.Name)
		return &core.Command{Kind: core.CommandJoinRoom, RoomID: roomID, Name: name}, nil
	case proto.InboundTypeSendMessage:
		content, _ := stringField(inbound.Content)
		return &core.Command{Kind: core.CommandSendMessage, Content: content}, nil
	default:
		return nil, core.UnknownType()
	}
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventSystem:
		return proto.System{Type: proto.OutboundTypeSystem, UserID: event.User}
	case core.EventRoomCreated:
		return proto.RoomCreated{Type: proto.OutboundTypeRoomCreated, RoomID: event.Room}
	case core.EventRoomJoined:
		return proto.RoomJoined{
			Type:      proto.OutboundTypeRoomJoined,
			RoomID:    event.Room,
			Name:      event.Name,
			UserCount: event.UserCount,
		}
	case core.EventUserJoined:
		return proto.UserJoined{
			Type:      proto.OutboundTypeUserJoined,
			UserID:    event.User,
			Name:      event.Name,
			UserCount: event.UserCount,
		}
	case core.EventNewMessage:
		return proto.NewMessage{
			Type:    proto.OutboundTypeNewMessage,
			Content: event.Message.Content,
			UserID:  event.Message.From,
			Name:    event.Message.Name,
		}
	case core.EventUserLeft:
		return proto.UserLeft{
			Type:      proto.OutboundTypeUserLeft,
			UserID:    event.User,
			Name:      event.Name,
			UserCount: event.UserCount,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Error{Type: proto.OutboundTypeError, Content: "Internal server error"}
		}
		return proto.Error{Type: proto.OutboundTypeError, Content: event.Error.Message}
	default:
		return proto.Error{Type: proto.OutboundTypeError, Content: "Internal server error"}
	}
}

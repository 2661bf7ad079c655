package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	name := flag.String("name", "tester", "display name used to join")
	room := flag.String("room", "", "room id to join (empty creates a new room)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(v any) error {
		if err := wsjson.Write(ctx, conn, v); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		return nil
	}

	if *room == "" {
		if err := send(proto.CreateRoom{Type: proto.InboundTypeCreateRoom}); err != nil {
			return err
		}
	} else if err := send(proto.JoinRoom{Type: proto.InboundTypeJoinRoom, RoomID: *room, Name: *name}); err != nil {
		return err
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received outbound: type=%s\n", outbound.Type)

		switch outbound.Type {
		case proto.OutboundTypeSystem:
			fmt.Printf("System: user=%s\n", outbound.UserID)
		case proto.OutboundTypeRoomCreated:
			fmt.Printf("Created: room=%s\n", outbound.RoomID)
			if err := send(proto.JoinRoom{Type: proto.InboundTypeJoinRoom, RoomID: outbound.RoomID, Name: *name}); err != nil {
				return err
			}
		case proto.OutboundTypeRoomJoined:
			fmt.Printf("Joined: room=%s name=%s users=%d\n", outbound.RoomID, outbound.Name, outbound.UserCount)
			if err := send(proto.SendMessage{Type: proto.InboundTypeSendMessage, Content: *text}); err != nil {
				return err
			}
		case proto.OutboundTypeNewMessage:
			fmt.Printf("Message: user=%s name=%s content=%q\n", outbound.UserID, outbound.Name, outbound.Content)
			return nil
		case proto.OutboundTypeError:
			return errors.New(outbound.Content)
		default:
			// keep looping for message
		}
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	name := flag.String("name", "cli-user", "display name")
	room := flag.String("room", "", "room id to join (empty creates a new room)")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	c := &chat{conn: conn, name: *name, cancel: cancel}

	if *room == "" {
		c.send(ctx, proto.CreateRoom{Type: proto.InboundTypeCreateRoom})
	} else {
		c.join(ctx, *room)
	}

	fmt.Printf("Connected to %s as %s\n", *addr, *name)
	fmt.Println("Type messages and press Enter to send. /create, /join <room id>. Ctrl+C to exit.")

	go func() {
		defer cancel()
		c.readLoop(ctx, *room == "")
	}()

	c.writeLoop(ctx)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

type chat struct {
	conn   *websocket.Conn
	name   string
	cancel context.CancelFunc
}

func (c *chat) send(ctx context.Context, v any) {
	if err := wsjson.Write(ctx, c.conn, v); err != nil {
		c.cancel()
		log.Printf("send: %v", err)
	}
}

func (c *chat) join(ctx context.Context, roomID string) {
	c.send(ctx, proto.JoinRoom{Type: proto.InboundTypeJoinRoom, RoomID: roomID, Name: c.name})
}

func (c *chat) readLoop(ctx context.Context, autoJoin bool) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, c.conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch outbound.Type {
		case proto.OutboundTypeSystem:
			fmt.Printf("* your user id is %s\n", outbound.UserID)
		case proto.OutboundTypeRoomCreated:
			fmt.Printf("* room %s created\n", outbound.RoomID)
			if autoJoin {
				autoJoin = false
				c.join(ctx, outbound.RoomID)
			}
		case proto.OutboundTypeRoomJoined:
			fmt.Printf("* joined room %s as %s (%d online)\n", outbound.RoomID, outbound.Name, outbound.UserCount)
		case proto.OutboundTypeUserJoined:
			fmt.Printf("* %s joined (%d online)\n", outbound.Name, outbound.UserCount)
		case proto.OutboundTypeUserLeft:
			fmt.Printf("* %s left (%d online)\n", outbound.Name, outbound.UserCount)
		case proto.OutboundTypeNewMessage:
			fmt.Printf("%s: %s\n", outbound.Name, outbound.Content)
		case proto.OutboundTypeError:
			fmt.Printf("! %s\n", outbound.Content)
		default:
			fmt.Printf("type=%s %+v\n", outbound.Type, outbound)
		}
	}
}

func (c *chat) writeLoop(ctx context.Context) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			switch {
			case text == "":
				continue
			case text == "/create":
				c.send(ctx, proto.CreateRoom{Type: proto.InboundTypeCreateRoom})
			case strings.HasPrefix(text, "/join "):
				c.join(ctx, strings.TrimSpace(strings.TrimPrefix(text, "/join ")))
			default:
				c.send(ctx, proto.SendMessage{Type: proto.InboundTypeSendMessage, Content: text})
			}
		}
	}
}

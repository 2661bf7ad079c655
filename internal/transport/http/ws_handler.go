package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

const shutdownReason = "Server shutting down"

// WSHandler upgrades HTTP connections and bridges them to a core.Session.
type WSHandler struct {
	hub             *core.Hub
	origins         originPolicy
	maxMessageBytes int64
	logConnections  bool
	shutdown        context.Context
	log             *zerolog.Logger
}

// WSOptions configures a WSHandler.
type WSOptions struct {
	AllowedOrigins  []string
	MaxMessageBytes int64
	LogConnections  bool
	// Shutdown closes every session with 1001 once it is done.
	Shutdown context.Context
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, opts WSOptions, logger *zerolog.Logger) *WSHandler {
	shutdown := opts.Shutdown
	if shutdown == nil {
		shutdown = context.Background()
	}
	return &WSHandler{
		hub:             hub,
		origins:         newOriginPolicy(opts.AllowedOrigins, logger),
		maxMessageBytes: opts.MaxMessageBytes,
		logConnections:  opts.LogConnections,
		shutdown:        shutdown,
		log:             logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	origin := r.Header.Get("Origin")
	if !h.origins.allows(origin) {
		h.log.Warn().Str("origin", origin).Msg("blocked websocket connection from disallowed origin")
		conn.Close(websocket.StatusPolicyViolation, "origin not allowed")
		return
	}
	if h.maxMessageBytes > 0 {
		conn.SetReadLimit(h.maxMessageBytes)
	}

	connID := utils.NewConnID()
	if h.logConnections {
		h.log.Info().Str("conn_id", connID).Str("origin", origin).Str("remote_addr", r.RemoteAddr).Msg("new connection")
	}

	session := h.hub.NewSession(connID)
	client := session.Open()
	defer session.Close()

	stopOnShutdown := context.AfterFunc(h.shutdown, func() {
		conn.Close(websocket.StatusGoingAway, shutdownReason)
	})
	defer stopOnShutdown()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	// Tear down before the close frame so peers see user_left promptly.
	session.Close()

	if h.shutdown.Err() != nil {
		return
	}

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("user_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.log.Debug().Err(err).Str("user_id", session.Client().ID).Msg("read ws inbound")
			return err
		}

		cmd, protoErr := inboundToCommand(data)
		if protoErr != nil {
			session.Reject(protoErr)
			continue
		}
		session.Handle(cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event := <-client.Events():
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Debug().Err(err).Str("user_id", client.ID).Msg("write ws event")
				return err
			}
		case <-client.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

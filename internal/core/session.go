package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Session binds one transport connection to the router. The transport calls
// Open once, Handle or Reject per inbound frame, and Close on close or error.
type Session struct {
	router  *Router
	clients *ClientRegistry
	handle  string
	log     *zerolog.Logger

	client    *Client
	closeOnce sync.Once
}

// NewSession prepares a session for the connection identified by handle.
func NewSession(router *Router, clients *ClientRegistry, handle string, logger *zerolog.Logger) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Session{router: router, clients: clients, handle: handle, log: logger}
}

// Open registers the client and tells it its user id.
func (s *Session) Open() *Client {
	s.client = s.clients.Register(s.handle)
	s.clients.Send(s.client, systemEvent(s.client.ID))
	return s.client
}

// Client returns the client registered by Open.
func (s *Session) Client() *Client {
	return s.client
}

// Handle dispatches cmd. Any failure, including a panic in routing, is turned
// into an error event for this client only.
func (s *Session) Handle(cmd *Command) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Str("user_id", s.client.ID).Interface("panic", rec).Msg("error processing message")
			s.clients.Send(s.client, errorEvent(errProcessFailed))
		}
	}()

	if err := s.router.Dispatch(s.client, cmd); err != nil {
		s.Reject(err)
	}
}

// Reject sends err to this client as an error event.
func (s *Session) Reject(err error) {
	ce := toCoreError(err)
	if ce.Code == ErrCodeInternal {
		s.log.Error().Err(err).Str("user_id", s.client.ID).Msg("request failed")
	} else {
		s.log.Debug().Str("user_id", s.client.ID).Str("code", ce.Code).Msg(ce.Message)
	}
	s.clients.Send(s.client, errorEvent(ce))
}

// Close runs the disconnect sequence exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.client == nil {
			return
		}
		s.router.Leave(s.client)
		s.clients.Unregister(s.handle)
		s.client.close()
	})
}

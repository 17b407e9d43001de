package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/session"
)

// Factory builds the session that will live under code.
type Factory func(ctx context.Context, code string) (*session.Session, error)

type HubMsg interface{ isHubMsg() }

// CreateSession registers a new session under Code. Reply gets nil when the
// code is already taken or the factory failed.
type CreateSession struct {
	Code  string
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

// RemoveSession shuts down the session under Code. With Session set, only
// that exact session is removed.
type RemoveSession struct {
	Code    string
	Session *session.Session
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	factory  Factory
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, factory Factory, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		factory:  factory,
		log:      log.Named("hub"),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				msg.Reply <- h.create(msg.Code)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case RemoveSession:
				s := h.sessions[msg.Code]
				if s == nil || (msg.Session != nil && msg.Session != s) {
					break
				}
				delete(h.sessions, msg.Code)
				stop(s)
				h.log.Debug("session removed", zap.String("code", msg.Code))

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) create(code string) *session.Session {
	if h.sessions[code] != nil {
		h.log.Debug("session code already taken", zap.String("code", code))
		return nil
	}
	s, err := h.factory(h.ctx, code)
	if err != nil {
		h.log.Error("failed to create session", zap.String("code", code), zap.Error(err))
		return nil
	}
	h.sessions[code] = s
	go h.watch(code, s)
	h.log.Debug("session created", zap.String("code", code))
	return s
}

// watch unregisters a session that ended on its own, after going idle or
// once its finished game lost its last client.
func (h *Hub) watch(code string, s *session.Session) {
	select {
	case <-s.Done():
	case <-h.ctx.Done():
		return
	}
	select {
	case h.inbox <- RemoveSession{Code: code, Session: s}:
	case <-h.ctx.Done():
	}
}

func stop(s *session.Session) {
	select {
	case s.Inbox() <- session.Shutdown{}:
	case <-s.Done():
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		stop(s)
	}
	clear(h.sessions)
	h.cancel()
}

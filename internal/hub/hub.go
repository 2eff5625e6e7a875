package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type CountSessions struct {
	Reply chan int
}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	opts     session.Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (CountSessions) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// NewHub starts the registry. opts is applied to every session it creates;
// each session's logger is tagged with its code.
func NewHub(parent context.Context, opts session.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		opts:     opts,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession, EnsureSession:
				code, reply := sessionRequest(msg)
				if s := h.sessions[code]; s != nil {
					reply <- s
					break
				}
				reply <- h.create(code)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					stopSession(s)
					delete(h.sessions, msg.Code)
				}

			case CountSessions:
				msg.Reply <- len(h.sessions)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func sessionRequest(m HubMsg) (string, chan *session.Session) {
	switch msg := m.(type) {
	case CreateSession:
		return msg.Code, msg.Reply
	case EnsureSession:
		return msg.Code, msg.Reply
	}
	return "", nil
}

func (h *Hub) create(code string) *session.Session {
	opts := h.opts
	opts.Logger = h.log.With(zap.String("code", code))
	s := session.NewSession(h.ctx, opts)
	h.sessions[code] = s
	h.log.Info("session created", zap.String("code", code), zap.Int("sessions", len(h.sessions)))
	return s
}

// stopSession asks s to shut down unless it already has.
func stopSession(s *session.Session) {
	select {
	case s.Inbox() <- session.Shutdown{}:
	case <-s.Done():
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		stopSession(s)
	}
	clear(h.sessions)
	h.cancel()
}

// Lookup asks the hub for a session, returning nil if none is registered under code.
func (h *Hub) Lookup(ctx context.Context, code string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	return h.request(ctx, GetSession{Code: code, Reply: reply}, reply)
}

// Ensure returns the session registered under code, creating it if needed.
func (h *Hub) Ensure(ctx context.Context, code string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	return h.request(ctx, EnsureSession{Code: code, Reply: reply}, reply)
}

func (h *Hub) request(ctx context.Context, m HubMsg, reply chan *session.Session) (*session.Session, error) {
	select {
	case h.inbox <- m:
	case <-h.ctx.Done():
		return nil, session.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-h.ctx.Done():
		return nil, session.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

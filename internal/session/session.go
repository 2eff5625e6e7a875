package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/game"
	"github.com/DoyleJ11/simon-says-backend/internal/schedule"
)

var ErrClosed = errors.New("session closed")

type Msg interface{ isSessionMsg() }

type Start struct {
	Difficulty engine.Difficulty
	Reply      chan error // optional
}

func (Start) isSessionMsg() {}

type Press struct {
	Pad   engine.Pad
	Reply chan error // optional
}

func (Press) isSessionMsg() {}

type Acknowledge struct{}

func (Acknowledge) isSessionMsg() {}

// Join registers a client. Outbox must be buffered: a client whose outbox is
// full is dropped and its outbox closed, starting with the join snapshot.
type Join struct {
	ClientID string
	Outbox   chan Notice // where this client wants to receive notices
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// fire carries a due scheduled step back onto the session goroutine.
type fire struct {
	fn func()
}

func (fire) isSessionMsg() {}

type View struct {
	Version    int
	NumClients int
	Generation uint64
	State      engine.State
	Screen     Screen
}

type Options struct {
	Timing    engine.Timing
	Random    game.Random // nil uses the package-level source
	Logger    *zap.Logger
	InboxSize int
}

type Session struct {
	inbox   chan Msg
	ctrl    *game.Controller
	timers  *schedule.Timers
	version int
	screen  Screen
	clients map[string]chan Notice
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
}

func NewSession(parent context.Context, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)

	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	if opts.Timing == (engine.Timing{}) {
		opts.Timing = engine.DefaultTiming()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		inbox:   make(chan Msg, opts.InboxSize),
		screen:  initialScreen(),
		clients: make(map[string]chan Notice),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	s.timers = schedule.NewTimers(s.post)

	ctrlOpts := []game.Option{game.WithTiming(opts.Timing), game.WithLogger(log)}
	if opts.Random != nil {
		ctrlOpts = append(ctrlOpts, game.WithRandom(opts.Random))
	}
	s.ctrl = game.NewController(broadcaster{s}, s.timers, ctrlOpts...)

	go s.loop()
	return s
}

func (s *Session) post(fn func()) {
	select {
	case s.inbox <- fire{fn: fn}:
	case <-s.ctx.Done():
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				state := s.ctrl.State()
				screen := s.screen
				select {
				case msg.Outbox <- Notice{Version: s.version, Kind: NoticeSnapshot, State: &state, Screen: &screen}:
					s.clients[msg.ClientID] = msg.Outbox
					s.log.Debug("client joined", zap.String("client_id", msg.ClientID), zap.Int("clients", len(s.clients)))
				default:
					// No room even for the snapshot; treat like a slow client.
					s.log.Warn("dropping client on join", zap.String("client_id", msg.ClientID))
					if s.clients[msg.ClientID] == msg.Outbox {
						delete(s.clients, msg.ClientID)
					}
					close(msg.Outbox)
				}

			case Leave:
				delete(s.clients, msg.ClientID)

			case Start:
				err := s.ctrl.StartGame(msg.Difficulty)
				if err != nil {
					s.log.Info("start rejected", zap.Int("difficulty", int(msg.Difficulty)), zap.Error(err))
				}
				reply(msg.Reply, err)

			case Press:
				reply(msg.Reply, s.ctrl.SubmitPress(msg.Pad))

			case Acknowledge:
				s.ctrl.Acknowledge()

			case fire:
				msg.fn()

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					Generation: s.ctrl.Generation(),
					State:      s.ctrl.State(),
					Screen:     s.screen,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func reply(ch chan error, err error) {
	if ch != nil {
		ch <- err
	}
}

func (s *Session) shutdown() {
	s.timers.Stop()
	for id, ch := range s.clients {
		close(ch) // Tell client no more notices
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(n Notice) {
	s.version++
	n.Version = s.version
	for id, ch := range s.clients {
		select {
		case ch <- n:
			//ok
		default:
			// Client is slow/full - drop them.
			s.log.Warn("dropping slow client", zap.String("client_id", id))
			close(ch)
			delete(s.clients, id)
		}
	}
}

// Inbox exposes the session's queue so tests or the WS layer can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Send queues m, giving up if the session or ctx ends first.
func (s *Session) Send(ctx context.Context, m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) StartGame(ctx context.Context, d engine.Difficulty) error {
	ch := make(chan error, 1)
	if err := s.Send(ctx, Start{Difficulty: d, Reply: ch}); err != nil {
		return err
	}
	return await(ctx, s, ch)
}

func (s *Session) SubmitPress(ctx context.Context, pad engine.Pad) error {
	ch := make(chan error, 1)
	if err := s.Send(ctx, Press{Pad: pad, Reply: ch}); err != nil {
		return err
	}
	return await(ctx, s, ch)
}

func (s *Session) View(ctx context.Context) (View, error) {
	ch := make(chan View, 1)
	if err := s.Send(ctx, GetState{Reply: ch}); err != nil {
		return View{}, err
	}
	select {
	case v := <-ch:
		return v, nil
	case <-s.ctx.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func await(ctx context.Context, s *Session, ch chan error) error {
	select {
	case err := <-ch:
		return err
	case <-s.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

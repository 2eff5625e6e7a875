package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/hub"
	"github.com/DoyleJ11/simon-says-backend/internal/session"
	"github.com/DoyleJ11/simon-says-backend/pkg/types"
)

type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// PadInterval is sent with every ActivateSequence so clients pace playback.
	PadInterval time.Duration
	Logger      *zap.Logger
	// OriginPatterns loosens origin checks, e.g. "localhost:*" in development.
	OriginPatterns []string
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		s, err := h.Lookup(r.Context(), code)
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if s == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("code", code), zap.String("client_id", clientID))

		out := make(chan session.Notice, 32)
		if err := s.Send(r.Context(), session.Join{ClientID: clientID, Outbox: out}); err != nil {
			return
		}
		defer func() { _ = s.Send(context.Background(), session.Leave{ClientID: clientID}) }()
		log.Info("client connected")

		write := func(ctx context.Context, msg types.ServerMessage) error {
			payload, err := json.Marshal(msg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(ctx, opts.WriteTimeout)
			defer cancel()
			return conn.Write(ctx, websocket.MessageText, payload)
		}
		writeError := func(text string) {
			_ = write(r.Context(), types.ServerMessage{Type: types.ServerError, Error: text})
		}

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					// Reader finished; Leave does not close the outbox.
					return
				case n, ok := <-out:
					if !ok {
						// Outbox closed: the session ended or dropped us as too slow.
						conn.Close(websocket.StatusGoingAway, "session closed")
						return
					}
					if err := write(writeCtx, ToServerMessage(n, opts.PadInterval)); err != nil {
						log.Debug("write failed", zap.Error(err))
					}
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := readContext(r.Context(), opts.ReadTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Info("client disconnected")
				default:
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError("bad json")
				continue
			}

			msg, err := toSessionMsg(cm)
			if err != nil {
				writeError(err.Error())
				continue
			}

			if err := deliver(r.Context(), s, msg); err != nil {
				if errors.Is(err, session.ErrClosed) {
					return
				}
				writeError(err.Error())
			}
		}
	}
}

// deliver hands msg to the session, waiting for a verdict on starts and presses.
func deliver(ctx context.Context, s *session.Session, msg session.Msg) error {
	switch m := msg.(type) {
	case session.Start:
		return s.StartGame(ctx, m.Difficulty)
	case session.Press:
		return s.SubmitPress(ctx, m.Pad)
	default:
		return s.Send(ctx, msg)
	}
}

func readContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

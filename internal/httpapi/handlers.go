package httpapi

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/hub"
	"github.com/DoyleJ11/simon-says-backend/internal/session"
	"github.com/DoyleJ11/simon-says-backend/internal/tones"
	"github.com/DoyleJ11/simon-says-backend/internal/ws"
	"github.com/DoyleJ11/simon-says-backend/pkg/types"
)

const codeLength = 6

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			s, err := h.Lookup(r.Context(), c)
			if err != nil {
				http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
				return
			}
			if s == nil {
				code = c
				break
			}
			log.Debug("collision on code, regenerating", zap.String("code", c))
		}

		s, err := h.Ensure(r.Context(), code)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		if s == nil {
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func GetGame(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		v, err := s.View(r.Context())
		if err != nil {
			writeError(w, http.StatusGone, err)
			return
		}
		writeJSON(w, http.StatusOK, types.GameView{
			Code:       chi.URLParam(r, "code"),
			Version:    v.Version,
			Clients:    v.NumClients,
			Generation: v.Generation,
			State:      ws.Snapshot(v.State, v.Screen),
		})
	})
}

func StartGame(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var body struct {
			Difficulty int `json:"difficulty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		respond(w, s.StartGame(r.Context(), engine.Difficulty(body.Difficulty)))
	})
}

func PressPad(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var body struct {
			Pad string `json:"pad"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		pad, err := engine.ParsePad(body.Pad)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		respond(w, s.SubmitPress(r.Context(), pad))
	})
}

func AcknowledgeGame(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		respond(w, s.Send(r.Context(), session.Acknowledge{}))
	})
}

// PadTone serves the pre-rendered clip for /pads/{pad}.wav.
func PadTone(bank *tones.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(chi.URLParam(r, "file"), ".wav")
		pad, err := engine.ParsePad(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		clip, ok := bank.Clip(pad)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.ServeContent(w, r, name+".wav", startTime, bytes.NewReader(clip))
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func withSession(h *hub.Hub, next func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.Lookup(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		if s == nil {
			writeError(w, http.StatusNotFound, errors.New("game not found"))
			return
		}
		next(w, r, s)
	}
}

func respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, engine.ErrInvalidDifficulty), errors.Is(err, engine.ErrUnknownPad):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.ServerMessage{Type: types.ServerError, Error: err.Error()})
}

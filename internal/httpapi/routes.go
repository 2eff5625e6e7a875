package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/hub"
	"github.com/DoyleJ11/simon-says-backend/internal/logging"
	"github.com/DoyleJ11/simon-says-backend/internal/tones"
	"github.com/DoyleJ11/simon-says-backend/internal/ws"
)

// startTime is the Last-Modified of the generated pad clips.
var startTime = time.Now()

type Deps struct {
	Hub    *hub.Hub
	Tones  *tones.Bank
	WS     ws.Options
	Logger *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(log))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Post("/games", CreateGame(d.Hub, log))
	r.Route("/games/{code}", func(r chi.Router) {
		r.Get("/", GetGame(d.Hub))
		r.Post("/start", StartGame(d.Hub))
		r.Post("/press", PressPad(d.Hub))
		r.Post("/ack", AcknowledgeGame(d.Hub))
	})
	if d.Tones != nil {
		r.Get("/pads/{file}", PadTone(d.Tones))
	}
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, d.WS))
	return r
}

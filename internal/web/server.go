package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
)

// Option configures the HTTP handler.
type Option func(*handlers)

func WithLogger(l zerolog.Logger) Option { return func(h *handlers) { h.log = l } }

// WithHeartbeat sets the SSE comment and websocket ping interval.
func WithHeartbeat(d time.Duration) Option { return func(h *handlers) { h.heartbeat = d } }

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), log: zerolog.Nop(), heartbeat: 15 * time.Second}
	for _, opt := range opts {
		opt(h)
	}
	s.SetRenderer(func(gs app.Session) []byte { return h.renderBoard(gs, "") })

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/restart", h.restart)
		r.Get("/events", h.events)
		r.Get("/ws", h.socket)
	})
	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", h.apiCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.apiGet)
			r.Post("/moves", h.apiMove)
			r.Post("/restart", h.apiRestart)
			r.Get("/hint", h.apiHint)
		})
	})
	return r
}

package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/codex-reversi/internal/app"
)

// Options tunes the HTTP surface.
type Options struct {
	// Heartbeat is the idle interval for SSE comments and websocket pings.
	Heartbeat time.Duration
}

const defaultHeartbeat = 15 * time.Second

// NewServer wires routes with default options and returns an http.Handler.
func NewServer(s *app.Service) http.Handler { return NewServerWithOptions(s, Options{}) }

// NewServerWithOptions wires routes and returns an http.Handler.
func NewServerWithOptions(s *app.Service, opts Options) http.Handler {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = defaultHeartbeat
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: opts.Heartbeat}
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/reset", h.reset)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Post("/games", h.apiCreate)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", h.apiGet)
			r.Post("/join", h.apiJoin)
			r.Post("/moves", h.apiMove)
			r.Post("/reset", h.apiReset)
		})
	})
	return r
}

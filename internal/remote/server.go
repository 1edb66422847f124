// Package remote exposes an optional HTTP and websocket control surface so
// a phone or a second machine can drive the presentation.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/tracing"
)

// ErrBusy is returned when the command queue is full.
var ErrBusy = errors.New("remote: command queue full")

const commandQueueSize = 16

// Config holds server configuration.
type Config struct {
	Addr            string
	AllowAllOrigins bool
}

// Server is the remote control endpoint.
type Server struct {
	cfg      Config
	router   chi.Router
	hub      *hub
	tracer   trace.Tracer
	commands chan Command

	mu       sync.RWMutex
	state    Snapshot
	srv      *http.Server
	listener net.Listener
}

// New builds the router. tracer may be nil.
func New(cfg Config, tracer trace.Tracer) *Server {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("remote")
	}
	s := &Server{
		cfg:      cfg,
		tracer:   tracer,
		commands: make(chan Command, commandQueueSize),
	}
	s.hub = newHub(s)
	s.router = s.buildRouter(tracer)
	return s
}

func (s *Server) buildRouter(tracer trace.Tracer) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logAdapter{}, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(tracing.HTTPMiddleware(tracer,
		func(r *http.Request) string {
			if rc := chi.RouteContext(r.Context()); rc != nil {
				return rc.RoutePattern()
			}
			return r.URL.Path
		},
		func(r *http.Request) string { return middleware.GetReqID(r.Context()) },
	))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/next", s.handleAction(ActionNext))
		r.Post("/prev", s.handleAction(ActionPrev))
		r.Post("/home", s.handleAction(ActionHome))
		r.Post("/end", s.handleAction(ActionEnd))
		r.Post("/goto/{index}", s.handleGoTo)
		r.Post("/autoplay", s.handleAutoplay)
	})

	r.Get("/ws", s.hub.serve)

	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Commands delivers accepted commands in arrival order.
func (s *Server) Commands() <-chan Command { return s.commands }

// Publish records the latest state and pushes it to connected clients.
func (s *Server) Publish(snap Snapshot) {
	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
	s.hub.broadcast(snap)
}

// State returns the last published snapshot.
func (s *Server) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Clients reports the number of connected websocket clients.
func (s *Server) Clients() int { return s.hub.count() }

// submit queues cmd without blocking.
func (s *Server) submit(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	select {
	case s.commands <- cmd:
		log.Debug(log.CatRemote, "command queued", "action", cmd.Action, "client", cmd.ClientID)
		return nil
	default:
		log.Warn(log.CatRemote, "command dropped", "action", cmd.Action, "client", cmd.ClientID)
		return ErrBusy
	}
}

// Start listens on cfg.Addr and serves in the background. The bound
// address is available from Addr once Start returns.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("remote listen %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.srv
	s.mu.Unlock()

	log.Info(log.CatRemote, "remote control listening", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorErr(log.CatRemote, "remote server stopped", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown closes websocket clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()

	s.mu.RLock()
	srv := s.srv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// logAdapter routes chi's request log lines into the category logger.
type logAdapter struct{}

func (logAdapter) Print(v ...any) {
	log.Debug(log.CatRemote, fmt.Sprint(v...))
}

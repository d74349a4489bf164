package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/tally/internal/worklog"
)

// Runner runs one turn of the work-log pipeline.
type Runner interface {
	Run(ctx context.Context, turnID string, msg worklog.Message) worklog.Outcome
}

// BusStatus reports the NATS connection state.
type BusStatus interface {
	Connected() bool
}

type Server struct {
	router   *chi.Mux
	port     int
	pipeline Runner
	bus      BusStatus
	logger   *slog.Logger
	now      func() time.Time
	httpSrv  *http.Server
}

type Option func(*Server)

// WithClock sets the clock dry runs resolve relative days against. It
// should match the pipeline's.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer builds the HTTP API. bus may be nil when tally runs without NATS.
func NewServer(port int, apiToken string, pipeline Runner, bus BusStatus, logger *slog.Logger, opts ...Option) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		pipeline: pipeline,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/tally/status", s.status)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1/worklog", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/", s.logWork)
	})

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	nats := "disabled"
	if s.bus != nil {
		nats = "disconnected"
		if s.bus.Connected() {
			nats = "connected"
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "tally",
		"status": "active",
		"nats":   nats,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

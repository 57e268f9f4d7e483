package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jameson789/colortrack/internal/config"
)

// Server wires HTTP routes for the job API.
type Server struct {
	cfg   *config.Config
	log   *slog.Logger
	store *jobStore
}

// New creates a job API server. A nil logger falls back to
// slog.Default.
func New(cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:   cfg,
		log:   log,
		store: newJobStore(),
	}
}

// Handler returns the routed HTTP handler, exposed separately from Run
// so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", s.metricsMiddleware(s.handleSubmitJob, "jobs"))
	mux.HandleFunc("GET /jobs", s.metricsMiddleware(s.handleListJobs, "jobs"))
	mux.HandleFunc("GET /jobs/{id}", s.metricsMiddleware(s.handleGetJob, "job"))
	mux.HandleFunc("GET /healthz", s.metricsMiddleware(s.handleHealthz, "healthz"))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("job api listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

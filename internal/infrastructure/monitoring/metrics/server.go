package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a Prometheus registry over HTTP at /metrics.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer builds the exposition server for reg, listening on addr.
func NewServer(addr string, reg *prometheus.Registry, logger logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &Server{
		srv:    &http.Server{Addr: addr, Handler: mux},
		logger: logger,
	}
}

// Handler returns the exposition handler, for serving through an existing mux.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start begins serving in the background.  Listen failures are logged, not
// returned: a scrape endpoint that cannot bind must not take queries down.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Warn("metrics server stopped", logging.Err(err))
		}
	}()
	s.logger.Info("metrics server listening", logging.String("addr", s.srv.Addr))
}

// Stop shuts the server down, allowing in-flight scrapes to finish.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("metrics server shutdown failed", logging.Err(err))
	}
}

package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// ReadinessCheck reports whether the process can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type mount struct {
	pattern string
	handler http.Handler
}

// Server serves health, readiness and metrics endpoints plus any mounted handlers.
type Server struct {
	port            int
	logger          *zerolog.Logger
	ready           ReadinessCheck
	mounts          []mount
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

func NewServer(port int, logger *zerolog.Logger) *Server {
	return &Server{
		port:            port,
		logger:          logger,
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// WithReadiness sets the check behind /readyz. Without one the server is ready
// as soon as it listens.
func (s *Server) WithReadiness(check ReadinessCheck) *Server {
	s.ready = check
	return s
}

// WithTimeouts sets the request read and write timeouts and the shutdown grace period.
// Zero values keep the defaults.
func (s *Server) WithTimeouts(read, write, shutdown time.Duration) *Server {
	s.readTimeout = read
	s.writeTimeout = write

	if shutdown > 0 {
		s.shutdownTimeout = shutdown
	}

	return s
}

// Mount registers an extra handler on the same listener.
func (s *Server) Mount(pattern string, handler http.Handler) *Server {
	s.mounts = append(s.mounts, mount{pattern: pattern, handler: handler})
	return s
}

// Handler returns the routing of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ready != nil {
			if err := s.ready(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = fmt.Fprintf(w, "not ready: %v", err)

				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.Handle("/metrics", promhttp.Handler())

	for _, m := range s.mounts {
		mux.Handle(m.pattern, m.handler)
	}

	return mux
}

// Start listens until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("HTTP server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

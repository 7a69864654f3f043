package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/logger"
)

// Server serves /metrics and /healthz.
type Server struct {
	srv *http.Server
	log logger.Logger
}

// Router builds the chi router for the metrics endpoint.
func (m *Metrics) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return r
}

// Serve starts listening on addr in the background. The returned server is
// stopped with Shutdown.
func (m *Metrics) Serve(addr string, log logger.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't listen on metrics address "+addr,
			"Pick a free port with --metrics-addr, or leave it empty to disable metrics")
	}

	s := &Server{
		srv: &http.Server{
			Handler:           m.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("metrics server stopped: %v", err)
		}
	}()
	log.Debug("metrics listening on %s", ln.Addr())

	return s, nil
}

// Shutdown stops the server, waiting up to the context deadline for
// in-flight scrapes.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

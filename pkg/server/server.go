// Package server exposes the bees metrics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Endpoint paths.
const (
	PathIndex   = "/"
	PathMetrics = "/metrics"
	PathHealth  = "/health"
)

const (
	readHeaderTimeout      = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>Bees Prometheus Exporter</title>
</head>
<body>
    <h1>Bees Prometheus Exporter</h1>
    <p><a href="/metrics">Metrics</a></p>
</body>
</html>
`

// Options configures a Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	Logger          *logrus.Logger
}

// Server serves the index page, the metrics and a health probe.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	logger          *logrus.Logger
	handler         http.Handler
}

// New creates a server exposing the metrics gathered by g.
func New(g prometheus.Gatherer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	mux := http.NewServeMux()
	mux.HandleFunc(PathIndex, handleIndex)
	mux.HandleFunc(PathHealth, handleHealth)
	mux.Handle(PathMetrics, promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      logger.WithField("handler", PathMetrics),
		ErrorHandling: promhttp.ContinueOnError,
	}))

	return &Server{
		addr:            opts.Addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		handler:         mux,
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.WithField("address", ln.Addr().String()).Infof("Listening on http://%s", ln.Addr())
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		s.logger.WithError(err).Warn("Failed to notify systemd")
	} else if sent {
		s.logger.Debug("Notified systemd of readiness")
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("cannot shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != PathIndex {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "OK")
}

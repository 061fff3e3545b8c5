package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/config"
	"github.com/sirupsen/logrus"
)

// ShutdownGrace is how long in-flight requests get to finish on shutdown
const ShutdownGrace = 20 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	port       string
	log        *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, handler http.Handler, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       orDefault(cfg.ReadTimeout, 60*time.Second),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      orDefault(cfg.WriteTimeout, 60*time.Second),
			IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
		},
		port: cfg.Port,
		log:  log,
	}
}

// Start listens on the configured port and serves until ctx is cancelled,
// then drains in-flight requests for up to ShutdownGrace.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// Channel to listen for errors from the HTTP server
	serverErrors := make(chan error, 1)

	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("Server starting")
		serverErrors <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		s.log.WithField("reason", context.Cause(ctx)).Info("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.httpServer.Close()
			return fmt.Errorf("could not gracefully shutdown server: %w", err)
		}

		s.log.Info("Server stopped gracefully")
	}

	return nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/logger"
)

const (
	readTimeout     = 15 * time.Second
	idleTimeout     = 60 * time.Second
	minWriteTimeout = 15 * time.Second
	// writeTimeoutMargin leaves room to write the 504 of a request cut by
	// the API timeout middleware.
	writeTimeoutMargin = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
	maxHeaderBytes     = 1 << 20
)

// Server runs the HTTP API until its context ends, then drains in-flight
// requests.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer builds a server listening on cfg.Port. Its write timeout always
// outlasts cfg.RequestTimeout.
func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      max(minWriteTimeout, cfg.RequestTimeout+writeTimeoutMargin),
			IdleTimeout:       idleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or the server fails. Cancelling ctx
// triggers a graceful shutdown bounded by the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logger.Logger()
	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server stopped gracefully")
	return nil
}

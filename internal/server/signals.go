package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// SignalHandler manages graceful shutdown of the HTTP server
type SignalHandler struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) *SignalHandler {
	return &SignalHandler{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Shutdown drains the server within the shutdown timeout
func (sh *SignalHandler) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sh.shutdownTimeout)
	defer cancel()

	if err := sh.server.Shutdown(ctx); err != nil {
		sh.logger.Error().Err(err).Msg("server forced to shutdown due to timeout")
		return err
	}
	sh.logger.Info().Msg("server gracefully shut down")
	return nil
}

// HandleSignals serves until SIGINT or SIGTERM, then shuts down gracefully.
// A listener failure is returned immediately.
func HandleSignals(server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serveUntil(server, quit, shutdownTimeout, logger)
}

func serveUntil(server *http.Server, quit <-chan os.Signal, shutdownTimeout time.Duration, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
	}

	return NewSignalHandler(server, shutdownTimeout, logger).Shutdown()
}

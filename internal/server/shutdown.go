package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext is cancelled on an interrupt or terminate signal.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Shutdown stops the HTTP server, then the modules in reverse boot order, then
// the websocket bridge, then the closers. Later calls return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		slog.Info("Shutting down server...")
		var errs []error

		if err := s.E.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
		for i := len(s.modules) - 1; i >= 0; i-- {
			m := s.modules[i]
			if err := m.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("module %s: %w", m.Name(), err))
			}
		}
		if err := s.Bridge.Close(); err != nil {
			errs = append(errs, fmt.Errorf("websocket bridge: %w", err))
		}
		for _, c := range s.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		s.shutdownErr = errors.Join(errs...)
		if s.shutdownErr != nil {
			slog.Error("Shutdown finished with errors", "error", s.shutdownErr)
		} else {
			slog.Info("Server stopped")
		}
	})
	return s.shutdownErr
}

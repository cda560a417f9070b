package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Pranav2188/water-pollution-quirklab/internal/module"
	"github.com/Pranav2188/water-pollution-quirklab/internal/registry"
)

// InitModules registers every module, then boots them in order on the root
// route group. All registrations happen before the first Boot so modules can
// look up each other's services.
func (s *Server) InitModules(ctx context.Context, modules []module.Module, reg *registry.Registry) error {
	for _, m := range modules {
		slog.Info("Registering module", "module", m.Name())
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	root := s.E.Group("")
	for _, m := range modules {
		if err := m.Boot(ctx, root, reg); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		s.modules = append(s.modules, m)
	}
	return nil
}

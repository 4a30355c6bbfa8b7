// Package bizapi implements service.Service against the business REST API:
// clients, projets, salariés, absences and tâches.
package bizapi

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bizdesk/internal/config"
	"bizdesk/internal/coordinator"
	"bizdesk/internal/entity"
	"bizdesk/internal/logging"
	"bizdesk/internal/notify"
	"bizdesk/internal/transport"
)

// New builds the logger and HTTP transport from cfg and returns the
// coordinator over all five sections. Failures are reported on n.
func New(ctx context.Context, cfg *config.Config, n notify.Notifier) (*coordinator.Coordinator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no base URL configured (set base_url in %s or %s)", cfg.FilePath(), config.EnvBaseURL)
	}

	log, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	opts := []transport.Option{
		transport.WithNotifier(n),
		transport.WithLogger(log.Named("transport")),
	}
	if cfg.Token != "" {
		opts = append(opts, transport.WithToken(cfg.Token))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(cfg.Timeout))
	}
	client := transport.New(cfg.BaseURL, opts...)

	log.Debug("backend configured", zap.String("base_url", client.BaseURL()))
	return Assemble(client, n, log), nil
}

// Assemble wires the five sections over doer, in tab order.
func Assemble(doer transport.Doer, n notify.Notifier, log *zap.Logger) *coordinator.Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return coordinator.New(log, Sections(doer, n, log)...)
}

// Sections creates one module per entity, in tab order.
func Sections(doer transport.Doer, n notify.Notifier, log *zap.Logger) []entity.Section {
	return []entity.Section{
		entity.NewModule(Clients(), doer, n, log),
		entity.NewModule(Projects(), doer, n, log),
		entity.NewModule(Employees(), doer, n, log),
		entity.NewModule(Absences(), doer, n, log),
		entity.NewModule(Tasks(), doer, n, log),
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/config"
	"github.com/animus-coder/readmeart/internal/configbuilder"
	"github.com/animus-coder/readmeart/internal/flows"
	"github.com/animus-coder/readmeart/internal/logging"
	"github.com/animus-coder/readmeart/internal/observability"
	"github.com/animus-coder/readmeart/internal/output"
)

// session is everything one command run needs.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	runner  *flows.Runner
}

func openSession(cmd *cobra.Command, opts *Options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	clients, err := configbuilder.BuildClients(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build clients: %w", err)
	}

	sink, err := output.NewSink(cfg.Output.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("open output root: %w", err)
	}

	metrics := observability.NewMetrics()
	runner, err := flows.New(flows.Deps{
		Config:   cfg,
		Catalog:  clients.Catalog,
		Chat:     clients.Chat,
		Images:   clients.Images,
		Registry: clients.Registry,
		Sink:     sink,
		HTTP:     clients.HTTP,
		Logger:   logger,
		Metrics:  metrics,
		Out:      cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, metrics: metrics, runner: runner}, nil
}

// close flushes metrics and logs. Errors here never fail the command.
func (s *session) close() {
	if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		s.logger.Warn("failed to write metrics textfile", zap.Error(err))
	}
	_ = s.logger.Sync()
}

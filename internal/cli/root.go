package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/animus-coder/readmeart/internal/config"
	"github.com/animus-coder/readmeart/internal/version"
)

// Options holds global CLI options.
type Options struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
}

// NewRootCmd constructs the base CLI command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "readmeart",
		Short:         "readmeart – ASCII art and images from free generative models",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: config.yaml or configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "Dotenv file supplying API keys missing from the environment")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	cmd.AddCommand(NewASCIICmd(opts))
	cmd.AddCommand(NewImageCmd(opts))
	cmd.AddCommand(NewModelsCmd(opts))
	cmd.AddCommand(NewChatCmd(opts))
	cmd.AddCommand(NewQwenCmd(opts))
	cmd.AddCommand(NewImagenCmd(opts))
	cmd.AddCommand(NewDoctorCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// ExecuteContext runs the root command with args and a cancellable context.
func ExecuteContext(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// loadConfig wraps config loading with shared options.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	return cfg, nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/animus-coder/readmeart/internal/flows"
)

// NewModelsCmd lists free catalog models and exports them.
func NewModelsCmd(opts *Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List free GitHub Models and save them to the models file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.runner.Models(cmd.Context(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", flows.FormatJSON, "Export format: json or yaml")
	return cmd
}

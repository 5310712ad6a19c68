package cli

import (
	"github.com/spf13/cobra"
)

// NewASCIICmd generates ASCII art from a random prompt into the README.
func NewASCIICmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ascii",
		Short: "Generate ASCII art from a random prompt and write it to the README",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.runner.ASCII(cmd.Context())
		},
	}
}

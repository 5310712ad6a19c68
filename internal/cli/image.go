package cli

import (
	"github.com/spf13/cobra"
)

// NewImageCmd generates an image from a random prompt and links it from the README.
func NewImageCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "image",
		Short: "Generate an image from a random prompt and link it from the README",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.runner.Image(cmd.Context())
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"
)

// NewImagenCmd generates one image through the Gemini Imagen backend.
func NewImagenCmd(opts *Options) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "imagen [prompt]",
		Short: "Generate an image with Imagen, replacing the contents of the images directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.runner.Imagen(cmd.Context(), provider, firstArg(args))
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "imagen", "Image provider name from image.providers")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"
)

// NewQwenCmd generates one image through the Hugging Face Qwen backend.
func NewQwenCmd(opts *Options) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "qwen [prompt]",
		Short: "Generate an image with Qwen-Image via Hugging Face and save it to outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.runner.Qwen(cmd.Context(), provider, firstArg(args))
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "qwen", "Image provider name from image.providers")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

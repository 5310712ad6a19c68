package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/animus-coder/readmeart/internal/flows"
)

// NewChatCmd sends one prompt to one model.
func NewChatCmd(opts *Options) *cobra.Command {
	var chatOpts flows.ChatOptions

	cmd := &cobra.Command{
		Use:   "chat [prompt...]",
		Short: "Send a single prompt to a GitHub Models chat model",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.runner.Chat(cmd.Context(), strings.Join(args, " "), chatOpts)
		},
	}

	cmd.Flags().StringVar(&chatOpts.Model, "model", "", "Model id (default: chat.default_model)")
	cmd.Flags().BoolVar(&chatOpts.Save, "save", false, "Also save the response under the outputs directory")
	return cmd
}

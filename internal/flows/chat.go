package flows

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/llm"
)

// DefaultChatPrompt is sent when the chat command gets no arguments.
const DefaultChatPrompt = "What is the capital of France?"

// ChatOptions tune a single chat call.
type ChatOptions struct {
	Model string
	Save  bool
}

// Chat sends one prompt to one model and prints the answer.
func (r *Runner) Chat(ctx context.Context, prompt string, opts ChatOptions) error {
	if r.chat == nil {
		return catalog.ErrMissingToken
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultChatPrompt
	}
	model := opts.Model
	if model == "" {
		model = r.cfg.Chat.DefaultModel
	}

	fmt.Fprintf(r.out, "Original prompt: %s\n", prompt)
	resp, err := r.chat.Chat(ctx, llm.UserPrompt(model, prompt))
	if err != nil {
		return fmt.Errorf("chat with %s: %w", model, err)
	}
	fmt.Fprintln(r.out, "Model response:")
	fmt.Fprintln(r.out, resp.Message.Content)

	if !opts.Save {
		return nil
	}
	name := path.Join(r.cfg.Output.OutputsDir, "ascii-art-"+r.timestamp()+".txt")
	written, err := r.sink.WriteText(name, resp.Message.Content)
	if err != nil {
		r.logger.Warn("failed to save response", zap.Error(err))
		return nil
	}
	fmt.Fprintf(r.out, "Response saved to: %s\n", written)
	return nil
}

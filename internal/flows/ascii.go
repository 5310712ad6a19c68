package flows

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/art"
	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/fallback"
	"github.com/animus-coder/readmeart/internal/readme"
)

// MockArtModel labels art produced without any model call.
var MockArtModel = catalog.Model{
	ID:        "mock/ascii-art",
	Name:      "Mock ASCII Art Generator",
	Modality:  "text",
	Tokenizer: "none",
}

// ASCII generates a random subject, renders it as ASCII art with the first
// model that answers, prints it and replaces the README with the result.
func (r *Runner) ASCII(ctx context.Context) error {
	banner(r.out, "ASCII Art Generator with Random Free Models")

	if !r.hasModels() {
		r.logger.Warn("ADMIN_TOKEN not set; using mock ASCII art generator")
		pr, err := r.GeneratePrompt(ctx, ASCIIPrompts, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Random prompt: %q\n", pr.Prompt)
		r.finishASCII(pr, art.Mock(pr.Prompt), MockArtModel)
		return nil
	}

	pool, err := r.loadPool(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.out, "Generating random prompt...")
	pr, err := r.GeneratePrompt(ctx, ASCIIPrompts, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Random prompt: %q\n", pr.Prompt)
	fmt.Fprintf(r.out, "Prompt generated by: %s\n", pr.Model.ID)
	fmt.Fprintln(r.out, "Please wait...")

	inv := newInvoker[string](r, "art", r.cfg.Fallback.ArtBudget, fallback.Strict)
	res, err := inv.Invoke(ctx, pool,
		func(m catalog.Model) fallback.WorkUnit {
			return fallback.WorkUnit{Model: m, Prompt: asciiArtPrompt(pr.Prompt)}
		},
		func(ctx context.Context, w fallback.WorkUnit) (string, error) {
			text, err := r.chatText(ctx, w)
			if err != nil {
				return "", err
			}
			return art.Cleanup(text), nil
		},
		"",
	)
	if err != nil {
		return fmt.Errorf("generate ascii art: %w", err)
	}
	if res.Exhausted && len(res.Attempts) == 0 {
		return fmt.Errorf("generate ascii art: %w", catalog.ErrNoModels)
	}

	displayModelInfo(r.out, res.Model)
	r.finishASCII(pr, res.Value, res.Model)
	return nil
}

// finishASCII prints the art and writes the README. A failed write is only
// reported since the art was already produced.
func (r *Runner) finishASCII(pr PromptResult, artText string, artModel catalog.Model) {
	fmt.Fprintln(r.out, "Generated ASCII Art:")
	rule(r.out)
	fmt.Fprintln(r.out, artText)
	rule(r.out)
	fmt.Fprintf(r.out, "Generated by: %s\n", artModel.Name)

	content, err := readme.RenderASCII(readme.ASCIIPage{
		Prompt:      pr.Prompt,
		PromptModel: pr.Model,
		Art:         artText,
		ArtModel:    artModel,
	})
	if err == nil {
		_, err = r.sink.WriteText(r.cfg.Output.Readme, content)
	}
	if err != nil {
		r.logger.Warn("failed to update README with ASCII art; generation was successful", zap.Error(err))
		return
	}
	fmt.Fprintf(r.out, "Updated %s with ASCII art and model info\n", r.cfg.Output.Readme)
}

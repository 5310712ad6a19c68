package flows

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/fallback"
)

const promptModelDescription = "Model used for generating random prompts"

// PromptResult is a generated subject and the model it came from.
type PromptResult struct {
	Prompt string
	Model  catalog.Model
}

// GeneratePrompt asks up to fallback.prompt_budget models for a random subject.
// Without credentials a canned subject is picked; when every model fails the
// configured default prompt is used. It never fails except on cancellation.
func (r *Runner) GeneratePrompt(ctx context.Context, kind PromptKind, pool []catalog.Model) (PromptResult, error) {
	if !r.hasModels() {
		prompt := r.cfg.Fallback.DefaultPrompt
		if len(kind.Canned) > 0 {
			prompt = kind.Canned[r.rng.Intn(len(kind.Canned))]
		}
		return PromptResult{Prompt: prompt, Model: catalog.Describe(FallbackModelID, promptModelDescription, nil)}, nil
	}

	inv := newInvoker[string](r, kind.Name+"-prompt", r.cfg.Fallback.PromptBudget, fallback.Silent)
	res, err := inv.Invoke(ctx, pool,
		func(m catalog.Model) fallback.WorkUnit {
			return fallback.WorkUnit{Model: m, Prompt: kind.Request}
		},
		func(ctx context.Context, w fallback.WorkUnit) (string, error) {
			text, err := r.chatText(ctx, w)
			return strings.TrimSpace(text), err
		},
		r.cfg.Fallback.DefaultPrompt,
	)
	if err != nil {
		return PromptResult{}, err
	}

	modelID := res.Model.ID
	if res.Exhausted {
		modelID = FallbackModelID
		r.logger.Warn("prompt generation fell back to default prompt", zap.Int("attempts", len(res.Attempts)))
	}
	return PromptResult{
		Prompt: res.Value,
		Model:  catalog.Describe(modelID, promptModelDescription, pool),
	}, nil
}

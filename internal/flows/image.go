package flows

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/fallback"
	"github.com/animus-coder/readmeart/internal/imagegen"
	"github.com/animus-coder/readmeart/internal/readme"
)

// Image generates a random inanimate subject, renders it with the tiered
// image backends and replaces the README with a link to the saved image.
func (r *Runner) Image(ctx context.Context) error {
	banner(r.out, "Image Generator with Random Free Models")

	var pool []catalog.Model
	if r.hasModels() {
		var err error
		if pool, err = r.loadPool(ctx); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Generating random prompt...")
	} else {
		r.logger.Warn("ADMIN_TOKEN not set; using canned image prompts")
	}

	pr, err := r.GeneratePrompt(ctx, ImagePrompts, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Random prompt: %q\n", pr.Prompt)
	fmt.Fprintf(r.out, "Prompt generated by: %s\n", pr.Model.ID)

	imageName, err := r.renderImage(ctx, pool, pr.Prompt)
	if err != nil {
		return err
	}

	rule(r.out)
	fmt.Fprintf(r.out, "Generated image: %s\n", imageName)
	rule(r.out)

	content, err := readme.RenderImage(readme.ImagePage{
		Prompt:      pr.Prompt,
		PromptModel: pr.Model,
		ImageName:   imageName,
	})
	if err == nil {
		_, err = r.sink.WriteText(r.cfg.Output.Readme, content)
	}
	if err != nil {
		r.logger.Warn("failed to update README with image; generation was successful", zap.Error(err))
		return nil
	}
	fmt.Fprintf(r.out, "Updated %s with image and model info\n", r.cfg.Output.Readme)
	return nil
}

// renderImage runs the image invocation and saves the result, returning the
// image file name relative to the images directory.
func (r *Runner) renderImage(ctx context.Context, pool []catalog.Model, prompt string) (string, error) {
	placeholder := r.cfg.Fallback.Placeholder
	if r.images == nil {
		r.logger.Warn("no image API key found; using placeholder image name", zap.String("name", placeholder))
		return placeholder, nil
	}

	// attempts are labelled with text models; without a catalog the
	// generator itself is the single candidate
	if len(pool) == 0 {
		pool = []catalog.Model{{ID: r.images.Name(), Name: r.images.Name()}}
	}

	policy := fallback.Strict
	if !r.cfg.StrictImageExhaustion() {
		policy = fallback.Silent
	}
	inv := newInvoker[imagegen.Image](r, "image", r.cfg.Fallback.ImageBudget, policy)
	inv.Empty = func(img imagegen.Image) bool { return len(img.Data) == 0 }

	fmt.Fprintln(r.out, "Please wait...")
	res, err := inv.Invoke(ctx, pool,
		func(m catalog.Model) fallback.WorkUnit {
			return fallback.WorkUnit{Model: m, Prompt: prompt}
		},
		func(ctx context.Context, w fallback.WorkUnit) (imagegen.Image, error) {
			img, err := r.images.Generate(ctx, w.Prompt)
			if err != nil {
				return imagegen.Image{}, err
			}
			return imagegen.Normalize(ctx, r.http, img)
		},
		imagegen.Image{},
	)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if res.Exhausted {
		r.logger.Warn("image generation failed; using placeholder image name", zap.String("name", placeholder))
		return placeholder, nil
	}

	name := r.cfg.Output.ImageName
	written, err := r.sink.WriteFile(path.Join(r.cfg.Output.ImagesDir, name), res.Value.Data)
	if err != nil {
		r.logger.Warn("failed to save generated image", zap.Error(err))
		return name, nil
	}
	fmt.Fprintf(r.out, "Image saved to %s (by %s)\n", written, res.Value.Provider)
	return name, nil
}

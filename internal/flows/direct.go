package flows

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/imagegen"
)

// Default prompts of the single-backend image commands.
const (
	DefaultQwenPrompt   = "a mountain pixel art"
	DefaultImagenPrompt = "a cat"
)

// generateWith runs one image backend once and makes sure bytes are present.
func (r *Runner) generateWith(ctx context.Context, provider, prompt string) (imagegen.Image, error) {
	gen, err := r.registry.Get(provider)
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("%w (is its API key set?)", err)
	}
	fmt.Fprintf(r.out, "Generating image with %s for prompt: %q\n", gen.Name(), prompt)
	img, err := gen.Generate(ctx, prompt)
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("generate image: %w", err)
	}
	if img.URL != "" && len(img.Data) == 0 {
		fmt.Fprintf(r.out, "Image URL: %s\n", img.URL)
	}
	img, err = imagegen.Normalize(ctx, r.http, img)
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("fetch image: %w", err)
	}
	return img, nil
}

// Qwen generates one image through a Hugging Face backend and saves it to
// the outputs directory.
func (r *Runner) Qwen(ctx context.Context, provider, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultQwenPrompt
	}
	img, err := r.generateWith(ctx, provider, prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Image generated successfully")

	name := path.Join(r.cfg.Output.OutputsDir, "qwen-image-"+r.timestamp()+".png")
	written, err := r.sink.WriteFile(name, img.Data)
	if err != nil {
		r.logger.Warn("failed to save image", zap.Error(err))
		return nil
	}
	fmt.Fprintf(r.out, "Image saved to: %s\n", written)
	return nil
}

// Imagen generates one image through a Gemini backend, empties the images
// directory and saves the new image there under a unique name.
func (r *Runner) Imagen(ctx context.Context, provider, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultImagenPrompt
	}
	img, err := r.generateWith(ctx, provider, prompt)
	if err != nil {
		return err
	}

	removed, err := r.sink.ClearDir(r.cfg.Output.ImagesDir)
	if err != nil {
		r.logger.Warn("failed to clear images directory", zap.Error(err))
	} else {
		fmt.Fprintf(r.out, "Cleared %d files from %s\n", removed, r.cfg.Output.ImagesDir)
	}

	name := path.Join(r.cfg.Output.ImagesDir, r.imagenFileName())
	written, err := r.sink.WriteFile(name, img.Data)
	if err != nil {
		r.logger.Warn("failed to save image", zap.Error(err))
		return nil
	}
	fmt.Fprintf(r.out, "Saved image to %s\n", written)
	return nil
}

func (r *Runner) imagenFileName() string {
	return fmt.Sprintf("generated-%d-%s.jpeg", r.now().UnixMilli(), uuid.NewString()[:8])
}

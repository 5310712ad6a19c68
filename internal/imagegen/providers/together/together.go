package together

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/animus-coder/readmeart/internal/imagegen"
)

const (
	DefaultBaseURL = "https://api.together.xyz/v1"
	DefaultModel   = "black-forest-labs/FLUX.1-schnell-Free"
)

// Generator calls Together's OpenAI-compatible images endpoint.
type Generator struct {
	name    string
	model   string
	client  sdk.Client
	timeout time.Duration
}

// New constructs a Together generator.
func New(name, baseURL, apiKey, model string, timeout time.Duration) *Generator {
	return newGenerator(name, baseURL, apiKey, model, timeout, &http.Client{})
}

func newGenerator(name, baseURL, apiKey, model string, timeout time.Duration, hc *http.Client) *Generator {
	if name == "" {
		name = "together"
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Generator{
		name:  name,
		model: model,
		client: sdk.NewClient(
			option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"),
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(hc),
			option.WithMaxRetries(0),
		),
		timeout: timeout,
	}
}

// Name returns generator identifier.
func (g *Generator) Name() string {
	return g.name
}

// Generate requests one base64 image.
func (g *Generator) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Images.Generate(ctx, sdk.ImageGenerateParams{
		Prompt:         prompt,
		Model:          sdk.ImageModel(g.model),
		N:              sdk.Int(1),
		ResponseFormat: sdk.ImageGenerateParamsResponseFormat("base64"),
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return imagegen.Image{}, &imagegen.StatusError{Provider: g.name, Code: apiErr.StatusCode, Body: apiErr.Message}
		}
		return imagegen.Image{}, fmt.Errorf("%s: send request: %w", g.name, err)
	}
	if len(resp.Data) == 0 {
		return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, imagegen.ErrNoImage)
	}

	first := resp.Data[0]
	if first.B64JSON != "" {
		data, err := imagegen.DecodeBase64(first.B64JSON)
		if err != nil {
			return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, err)
		}
		return imagegen.Image{Data: data, MIMEType: "image/png", Provider: g.name}, nil
	}
	if first.URL != "" {
		return imagegen.Image{URL: first.URL, Provider: g.name}, nil
	}
	return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, imagegen.ErrNoImage)
}

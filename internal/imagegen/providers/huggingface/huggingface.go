package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/animus-coder/readmeart/internal/imagegen"
	"github.com/animus-coder/readmeart/internal/version"
)

// DefaultBaseURL is the Hugging Face router route for Qwen-Image.
const DefaultBaseURL = "https://router.huggingface.co/fal-ai/fal-ai/qwen-image"

// Generator calls a fal-ai text-to-image route through the Hugging Face router.
type Generator struct {
	name   string
	url    string
	token  string
	client *http.Client
}

// New constructs a Hugging Face generator.
func New(name, url, token string, timeout time.Duration) *Generator {
	if name == "" {
		name = "qwen"
	}
	if url == "" {
		url = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Generator{
		name:   name,
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns generator identifier.
func (g *Generator) Name() string {
	return g.name
}

type generateRequest struct {
	SyncMode bool   `json:"sync_mode"`
	Prompt   string `json:"prompt"`
}

type generateResponse struct {
	Images []struct {
		Content     string `json:"content"`
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	} `json:"images"`
}

// Generate posts the prompt in sync mode and returns the first image.
func (g *Generator) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	payload, err := json.Marshal(generateRequest{SyncMode: true, Prompt: prompt})
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("User-Agent", version.UserAgent())

	res, err := g.client.Do(req)
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("%s: send request: %w", g.name, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return imagegen.Image{}, &imagegen.StatusError{Provider: g.name, Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var decoded generateResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return imagegen.Image{}, fmt.Errorf("%s: decode response: %w", g.name, err)
	}
	if len(decoded.Images) == 0 {
		return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, imagegen.ErrNoImage)
	}

	first := decoded.Images[0]
	switch {
	case first.Content != "":
		data, err := imagegen.DecodeBase64(first.Content)
		if err != nil {
			return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, err)
		}
		return imagegen.Image{Data: data, MIMEType: first.ContentType, Provider: g.name}, nil
	case first.URL != "":
		return imagegen.Image{URL: first.URL, MIMEType: first.ContentType, Provider: g.name}, nil
	}
	return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, imagegen.ErrNoImage)
}

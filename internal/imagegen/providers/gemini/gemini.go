package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/animus-coder/readmeart/internal/imagegen"
	"github.com/animus-coder/readmeart/internal/version"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "imagen-3.0-generate-002"
	mimeJPEG       = "image/jpeg"
)

// Generator calls the Imagen predict endpoint of the Gemini API.
type Generator struct {
	name    string
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// New constructs an Imagen generator.
func New(name, baseURL, apiKey, model string, timeout time.Duration) *Generator {
	if name == "" {
		name = "imagen"
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
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns generator identifier.
func (g *Generator) Name() string {
	return g.name
}

type predictRequest struct {
	Instances  []instance `json:"instances"`
	Parameters parameters `json:"parameters"`
}

type instance struct {
	Prompt string `json:"prompt"`
}

type parameters struct {
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio"`
	PersonGeneration string `json:"personGeneration"`
	OutputMimeType   string `json:"outputMimeType"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// Generate requests one square JPEG.
func (g *Generator) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	payload, err := json.Marshal(predictRequest{
		Instances: []instance{{Prompt: prompt}},
		Parameters: parameters{
			SampleCount:      1,
			AspectRatio:      "1:1",
			PersonGeneration: "allow_all",
			OutputMimeType:   mimeJPEG,
		},
	})
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:predict?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	res, err := g.client.Do(req)
	if err != nil {
		// the request URL carries the key; report the model instead
		return imagegen.Image{}, fmt.Errorf("%s: send request to %s: %w", g.name, g.model, unwrapURLError(err))
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return imagegen.Image{}, &imagegen.StatusError{Provider: g.name, Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var decoded predictResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return imagegen.Image{}, fmt.Errorf("%s: decode response: %w", g.name, err)
	}
	for _, p := range decoded.Predictions {
		if p.BytesBase64Encoded == "" {
			continue
		}
		data, err := imagegen.DecodeBase64(p.BytesBase64Encoded)
		if err != nil {
			return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, err)
		}
		mime := p.MimeType
		if mime == "" {
			mime = mimeJPEG
		}
		return imagegen.Image{Data: data, MIMEType: mime, Provider: g.name}, nil
	}
	return imagegen.Image{}, fmt.Errorf("%s: %w", g.name, imagegen.ErrNoImage)
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/animus-coder/readmeart/internal/version"
)

// ErrMissingToken is returned when the catalog is queried without ADMIN_TOKEN.
var ErrMissingToken = errors.New("ADMIN_TOKEN environment variable is not set; add it to your .env file")

// StatusError reports a non-2xx catalog response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: status %d: %s", e.Code, e.Body)
}

// HTTPStatus exposes the response code for failure classification.
func (e *StatusError) HTTPStatus() int { return e.Code }

// Limits are the token limits published for a catalog entry.
type Limits struct {
	MaxInputTokens  int `json:"max_input_tokens,omitempty" yaml:"max_input_tokens,omitempty"`
	MaxOutputTokens int `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"`
}

// Entry is a model as published by the GitHub Models catalog.
type Entry struct {
	ID                        string   `json:"id" yaml:"id"`
	Name                      string   `json:"name" yaml:"name"`
	Publisher                 string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Registry                  string   `json:"registry,omitempty" yaml:"registry,omitempty"`
	Summary                   string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	HTMLURL                   string   `json:"html_url,omitempty" yaml:"html_url,omitempty"`
	Version                   string   `json:"version,omitempty" yaml:"version,omitempty"`
	Capabilities              []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Limits                    *Limits  `json:"limits,omitempty" yaml:"limits,omitempty"`
	RateLimitTier             string   `json:"rate_limit_tier,omitempty" yaml:"rate_limit_tier,omitempty"`
	SupportedInputModalities  []string `json:"supported_input_modalities,omitempty" yaml:"supported_input_modalities,omitempty"`
	SupportedOutputModalities []string `json:"supported_output_modalities,omitempty" yaml:"supported_output_modalities,omitempty"`
	Tags                      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Fetcher returns the current catalog. Implementations fetch fresh on each call.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Client fetches the GitHub Models catalog.
type Client struct {
	url        string
	token      string
	apiVersion string
	client     *http.Client
}

// NewClient constructs a catalog client with sane defaults.
func NewClient(url, token, apiVersion string, timeout time.Duration) *Client {
	if url == "" {
		url = "https://models.github.ai/catalog/models"
	}
	if apiVersion == "" {
		apiVersion = "2022-11-28"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:        url,
		token:      token,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: timeout},
	}
}

// Fetch returns every model in the catalog. The response is a bare JSON array.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", c.apiVersion)
	req.Header.Set("User-Agent", version.UserAgent())

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var entries []Entry
	if err := json.NewDecoder(res.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return entries, nil
}

// FilterFree keeps text-output models on the high rate-limit tier.
func FilterFree(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.OutputsText() && e.RateLimitTier == "high" {
			out = append(out, e)
		}
	}
	return out
}

// TextModels keeps entries that can answer a chat completion.
func TextModels(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.OutputsText() {
			out = append(out, e)
		}
	}
	return out
}

// OutputsText reports whether the entry lists text among its output modalities.
func (e Entry) OutputsText() bool {
	for _, m := range e.SupportedOutputModalities {
		if m == "text" {
			return true
		}
	}
	return false
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/animus-coder/readmeart/internal/llm"
)

// DefaultBaseURL is the GitHub Models inference endpoint, which speaks the OpenAI wire format.
const DefaultBaseURL = "https://models.github.ai/inference"

// Provider implements an OpenAI-compatible chat provider on top of the official SDK.
type Provider struct {
	name    string
	client  sdk.Client
	timeout time.Duration
}

// NewProvider constructs a Provider with sane defaults.
func NewProvider(name, baseURL, apiKey, apiVersion string, timeout time.Duration) *Provider {
	return newProvider(name, baseURL, apiKey, apiVersion, timeout, &http.Client{})
}

func newProvider(name, baseURL, apiKey, apiVersion string, timeout time.Duration, hc *http.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/"),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(hc),
		// model fallback is the retry mechanism; a failed model is not retried
		option.WithMaxRetries(0),
	}
	if apiVersion != "" {
		opts = append(opts, option.WithHeader("X-GitHub-Api-Version", apiVersion))
	}

	return &Provider{
		name:    name,
		client:  sdk.NewClient(opts...),
		timeout: timeout,
	}
}

// Name returns provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Chat executes a non-streaming chat completion bounded by the provider timeout.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		return llm.ChatResponse{}, fmt.Errorf("model is required")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := sdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: toSDKMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = sdk.Float(req.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.ChatResponse{}, p.wrapError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return llm.ChatResponse{}, fmt.Errorf("%s: %w", p.name, llm.ErrEmptyContent)
	}

	choice := resp.Choices[0]
	return llm.ChatResponse{
		Message: llm.ChatMessage{
			Role:    llm.RoleAssistant,
			Content: choice.Message.Content,
		},
		FinishReason: choice.FinishReason,
		Usage: llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		ProviderName: p.name,
		Model:        model,
	}, nil
}

func (p *Provider) wrapError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return &llm.StatusError{Provider: p.name, Code: apiErr.StatusCode, Err: err}
	}
	return fmt.Errorf("%s: send request: %w", p.name, err)
}

func toSDKMessages(msgs []llm.ChatMessage) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			out = append(out, sdk.SystemMessage(m.Content))
		case llm.RoleAssistant:
			out = append(out, sdk.AssistantMessage(m.Content))
		default:
			out = append(out, sdk.UserMessage(m.Content))
		}
	}
	return out
}

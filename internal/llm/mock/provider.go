package mock

import (
	"context"
	"sync"

	"github.com/animus-coder/readmeart/internal/llm"
)

// Provider is a test double implementing llm.Provider. It records every request.
type Provider struct {
	NameValue string
	ChatFn    func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error)

	mu       sync.Mutex
	requests []llm.ChatRequest
}

func (p *Provider) Name() string {
	if p.NameValue != "" {
		return p.NameValue
	}
	return "mock"
}

func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.ChatFn != nil {
		return p.ChatFn(ctx, req)
	}
	return llm.ChatResponse{
		Message: llm.ChatMessage{
			Role:    llm.RoleAssistant,
			Content: "mock",
		},
		ProviderName: p.Name(),
		Model:        req.Model,
	}, nil
}

// Requests returns a copy of the requests seen so far.
func (p *Provider) Requests() []llm.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.ChatRequest(nil), p.requests...)
}

// Reply builds a successful response carrying content.
func Reply(content string) llm.ChatResponse {
	return llm.ChatResponse{
		Message:      llm.ChatMessage{Role: llm.RoleAssistant, Content: content},
		FinishReason: "stop",
	}
}

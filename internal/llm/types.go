package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role is the message role used in chat exchanges.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage represents a single message exchanged with the model.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
}

// ChatRequest is the input for chat providers.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// Usage captures token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatResponse is the result of a chat completion.
type ChatResponse struct {
	Message      ChatMessage
	FinishReason string
	Usage        Usage
	ProviderName string
	Model        string
}

// Provider defines the contract for chat completion backends.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// ErrEmptyContent is returned when a completion carries no text.
var ErrEmptyContent = errors.New("no response content received from the model")

// StatusError wraps an HTTP failure reported by a provider.
type StatusError struct {
	Provider string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Code, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus exposes the response code for failure classification.
func (e *StatusError) HTTPStatus() int { return e.Code }

// UserPrompt builds a single user-message request.
func UserPrompt(model, prompt string) ChatRequest {
	return ChatRequest{
		Model:    model,
		Messages: []ChatMessage{{Role: RoleUser, Content: prompt}},
	}
}

package llm

import "context"

// GenerateRequest is a single completion request. Pipeline components build
// the prompts; the client owns transport, pacing, and error classification.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// GenerateResponseResult contains the response content and usage statistics.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMClient is the capability interface injected into every pipeline
// component that talks to a model. Tests substitute MockLLMClient.
type LLMClient interface {
	// GenerateResponse generates a completion, blocking until the shared
	// request pacing interval allows the call through.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint URL.
	GetEndpoint() string
}

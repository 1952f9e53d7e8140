package llm

import (
	"context"
)

// MockLLMClient is a configurable mock for testing LLM functionality.
// Set the function fields to control behavior in tests.
type MockLLMClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty result and nil error.
	GenerateResponseFunc func(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	// Call tracking for verification
	GenerateResponseCalls int
	// Requests records every request passed to GenerateResponse, in order.
	Requests []*GenerateRequest
}

// NewMockLLMClient creates a new mock with sensible defaults.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateResponse implements LLMClient.
func (m *MockLLMClient) GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error) {
	m.GenerateResponseCalls++
	m.Requests = append(m.Requests, req)
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, req)
	}
	return &GenerateResponseResult{}, nil
}

// GetModel implements LLMClient.
func (m *MockLLMClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetEndpoint implements LLMClient.
func (m *MockLLMClient) GetEndpoint() string {
	if m.Endpoint == "" {
		return "http://mock-endpoint"
	}
	return m.Endpoint
}

// Reset clears call tracking.
func (m *MockLLMClient) Reset() {
	m.GenerateResponseCalls = 0
	m.Requests = nil
}

// RespondWith configures the mock to return the given content for every call.
func (m *MockLLMClient) RespondWith(content string) *MockLLMClient {
	m.GenerateResponseFunc = func(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error) {
		return &GenerateResponseResult{Content: content}, nil
	}
	return m
}

// RespondWithSequence configures the mock to return the given contents in
// order, repeating the last one once the sequence is exhausted.
func (m *MockLLMClient) RespondWithSequence(contents ...string) *MockLLMClient {
	i := 0
	m.GenerateResponseFunc = func(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error) {
		content := contents[len(contents)-1]
		if i < len(contents) {
			content = contents[i]
		}
		i++
		return &GenerateResponseResult{Content: content}, nil
	}
	return m
}

// FailWith configures the mock to return the given error for every call.
func (m *MockLLMClient) FailWith(err error) *MockLLMClient {
	m.GenerateResponseFunc = func(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error) {
		return nil, err
	}
	return m
}

// Ensure MockLLMClient implements LLMClient at compile time.
var _ LLMClient = (*MockLLMClient)(nil)

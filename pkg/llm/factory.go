package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider names understood by the factory.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ClientFactory creates LLM clients from configuration. The provider is a
// deployment decision; pipeline components only ever hold the LLMClient
// interface.
type ClientFactory struct {
	provider string
	cfg      *Config
	logger   *zap.Logger
}

// NewClientFactory creates a new factory.
func NewClientFactory(provider string, cfg *Config, logger *zap.Logger) *ClientFactory {
	return &ClientFactory{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create builds the client for the configured provider.
func (f *ClientFactory) Create() (LLMClient, error) {
	switch f.provider {
	case ProviderOpenAI, "":
		client, err := NewClient(f.cfg, f.logger)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return client, nil
	case ProviderAnthropic:
		client, err := NewAnthropicClient(f.cfg, f.logger)
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", f.provider)
	}
}

// Package llm provides model client functionality behind a small capability
// interface, with request pacing shared per client.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config holds configuration for creating an LLM client.
type Config struct {
	Endpoint  string // Base URL, e.g., "https://api.openai.com/v1"
	Model     string // Model name, e.g., "gpt-4o"
	APIKey    string // Optional for local endpoints
	MaxTokens int    // Completion token cap; 0 means provider default

	// MinRequestInterval is the minimum spacing between outbound calls.
	// All requests through one client share the same limiter.
	MinRequestInterval time.Duration
}

// newLimiter builds the pacing limiter for a client. A zero interval
// disables pacing.
func (c *Config) newLimiter() *rate.Limiter {
	if c.MinRequestInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(c.MinRequestInterval), 1)
}

// Client provides access to OpenAI-compatible endpoints.
type Client struct {
	client    *openai.Client
	endpoint  string
	model     string
	maxTokens int
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient creates a new OpenAI-compatible LLM client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		limiter:   cfg.newLimiter(),
		logger:    logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a chat completion with usage stats. Blocks on
// the pacing limiter before sending.
func (c *Client) GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponseResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ClassifyError(err)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(req.UserPrompt)),
		zap.Float64("temperature", req.Temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               c.model,
		Messages:            messages,
		Temperature:         float32(req.Temperature),
		MaxCompletionTokens: maxTokens,
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	elapsed := time.Since(start)

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", elapsed))

	return &GenerateResponseResult{
		Content:          content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}

// Ensure Client implements LLMClient at compile time.
var _ LLMClient = (*Client)(nil)

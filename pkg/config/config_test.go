package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_MODEL", "gpt-4o-mini")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 1500, cfg.LLM.MaxTokens)
	assert.Equal(t, 500*time.Millisecond, cfg.LLM.MinRequestInterval())
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadRequiresModel(t *testing.T) {
	t.Setenv("LLM_MODEL", "")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_PROVIDER", "gemini")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestLoadAcceptsAnthropicProvider(t *testing.T) {
	t.Setenv("LLM_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("LLM_PROVIDER", "anthropic")

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "homewiz",
		Password: "secret",
		Database: "properties",
		SSLMode:  "require",
	}

	got := db.ConnectionString()
	assert.Equal(t,
		"host=db.internal port=5433 user=homewiz password=secret dbname=properties sslmode=require",
		got)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LLM_MODEL", "qwen3-32b")
	t.Setenv("LLM_ENDPOINT", "http://localhost:8000/v1")
	t.Setenv("LLM_MIN_REQUEST_INTERVAL_MS", "250")
	t.Setenv("PGHOST", "10.0.0.5")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "qwen3-32b", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:8000/v1", cfg.LLM.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.MinRequestInterval())
	assert.Equal(t, "10.0.0.5", cfg.Database.Host)
}

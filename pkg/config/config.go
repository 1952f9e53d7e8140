// Package config loads server configuration from YAML and environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// LLM provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for the query engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets (API keys,
// database password) must only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LLMConfig holds model endpoint configuration.
type LLMConfig struct {
	// Provider selects the client implementation: "openai" for any
	// OpenAI-compatible endpoint, or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
	// MaxTokens caps completion length for generation calls.
	MaxTokens int `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1500"`
	// MinRequestIntervalMs enforces spacing between outbound model calls to
	// respect upstream rate limits. Shared across all requests in a process.
	MinRequestIntervalMs int `yaml:"min_request_interval_ms" env:"LLM_MIN_REQUEST_INTERVAL_MS" env-default:"500"`
}

// MinRequestInterval returns the inter-call spacing as a duration.
func (c *LLMConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMs) * time.Millisecond
}

// DatabaseConfig holds PostgreSQL configuration for the property store.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"homewiz"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"homewiz"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from config.yaml (if present) with environment
// variable overrides, or from environment alone. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm provider %q (expected %q or %q)",
			c.LLM.Provider, ProviderOpenAI, ProviderAnthropic)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("llm endpoint is required")
	}
	if c.LLM.MinRequestIntervalMs < 0 {
		return fmt.Errorf("min_request_interval_ms must not be negative")
	}

	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

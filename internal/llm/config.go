package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNoProvider is returned by NewProvider when no provider is configured
// and none could be discovered from the environment.
var ErrNoProvider = errors.New("no LLM provider configured")

// Config holds all LLM provider configuration. The mapstructure tags let
// the application config layer decode the "llm" section straight into it.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock", "none".
	// Empty means discover from the standard API key variables.
	Provider string `mapstructure:"provider"`

	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds a single quiz generation, retries included.
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// Resolve fills in the provider when it was left empty by probing the
// standard API key variables in order Gemini, OpenAI, Anthropic,
// OpenRouter. An explicitly selected provider with no key also picks up
// its standard variable. If nothing is found the provider becomes "none".
func (c Config) Resolve() Config {
	keys := []struct {
		provider string
		env      string
		dst      *string
	}{
		{"gemini", "GEMINI_API_KEY", &c.Gemini.APIKey},
		{"openai", "OPENAI_API_KEY", &c.OpenAI.APIKey},
		{"anthropic", "ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{"openrouter", "OPENROUTER_API_KEY", &c.OpenRouter.APIKey},
	}

	for _, k := range keys {
		if *k.dst == "" {
			*k.dst = os.Getenv(k.env)
		}
	}
	if c.Provider != "" {
		return c
	}
	for _, k := range keys {
		if *k.dst != "" {
			c.Provider = k.provider
			return c
		}
	}
	c.Provider = "none"
	return c
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("llm.anthropic.api_key is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("llm.openai.api_key is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("llm.gemini.api_key is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("llm.openrouter.api_key is required for the openrouter provider")
		}
	case "mock", "none", "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

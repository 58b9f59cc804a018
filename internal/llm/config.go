package llm

import (
	"fmt"
	"strings"
)

// Provider names accepted in Config.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
	ProviderGemini    = "gemini"
	ProviderClaudeCLI = "claude-cli"
)

const deepSeekBaseURL = "https://api.deepseek.com"

// Config selects and tunes a completion provider.
type Config struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature       float32 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutMs         int     `yaml:"gateway_timeout_ms" mapstructure:"gateway_timeout_ms"`
	RequestsPerMinute int     `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	BreakerThreshold  int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownMs int     `yaml:"breaker_cooldown_ms" mapstructure:"breaker_cooldown_ms"`
	ClaudeCommand     string  `yaml:"claude_command,omitempty" mapstructure:"claude_command"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:          ProviderGemini,
		Model:             "gemini-1.5-flash",
		MaxTokens:         1024,
		Temperature:       0.8,
		TimeoutMs:         20000,
		RequestsPerMinute: 60,
		BreakerThreshold:  3,
		BreakerCooldownMs: 30000,
		ClaudeCommand:     "claude",
	}
}

// Validate checks that the provider is known and numeric limits are sane.
func (c Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderOpenAI, ProviderDeepSeek, ProviderGemini, ProviderClaudeCLI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("gateway_timeout_ms must not be negative")
	}
	if c.BreakerThreshold < 0 || c.BreakerCooldownMs < 0 {
		return fmt.Errorf("breaker settings must not be negative")
	}
	return nil
}

// model returns the configured model or the provider's default.
func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	switch strings.ToLower(c.Provider) {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderGemini:
		return "gemini-1.5-flash"
	}
	return ""
}

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// New builds the configured gateway wrapped with rate limiting, the
// per-call timeout and, when BreakerThreshold is set, a circuit breaker.
// A hosted provider without an API key yields an
// Unavailable gateway so the interview can still run on static fallbacks.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	provider := strings.ToLower(cfg.Provider)
	var gw Gateway

	switch provider {
	case ProviderClaudeCLI:
		gw = NewClaudeCLI(cfg)
	case ProviderOpenAI, ProviderDeepSeek, ProviderGemini:
		if cfg.APIKey == "" {
			logger.Warn("llm api key not set, questions will use static fallbacks", "provider", provider)
			return &Unavailable{Provider: provider, Cause: ErrNoCredential}, nil
		}
		switch provider {
		case ProviderGemini:
			g, err := NewGemini(ctx, cfg)
			if err != nil {
				return nil, err
			}
			gw = g
		case ProviderDeepSeek:
			if cfg.BaseURL == "" {
				cfg.BaseURL = deepSeekBaseURL
			}
			gw = NewOpenAI(provider, cfg)
		default:
			gw = NewOpenAI(provider, cfg)
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	logger.Debug("llm gateway ready", "provider", provider, "model", cfg.model())

	gw = WithRateLimit(gw, cfg.RequestsPerMinute)
	gw = WithTimeout(gw, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	if cfg.BreakerThreshold > 0 {
		gw = WithBreaker(gw, NewCircuitBreaker(cfg.BreakerThreshold, time.Duration(cfg.BreakerCooldownMs)*time.Millisecond))
	}
	return gw, nil
}

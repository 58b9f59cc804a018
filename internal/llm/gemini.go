package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini completes prompts with the Google Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    Config
}

// NewGemini creates a Gemini gateway. The client is created eagerly so that
// a bad key or backend setting surfaces at startup.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

// Complete implements Gateway.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.cfg.Temperature),
	}
	if g.cfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(g.cfg.MaxTokens)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.cfg.model(), genai.Text(prompt), genCfg)
	if err != nil {
		return "", wrapErr(ProviderGemini, KindUnavailable, err)
	}

	// Blocked prompts come back with no candidates.
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", &GatewayError{Provider: ProviderGemini, Kind: KindEmpty, Err: ErrEmptyResponse}
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &GatewayError{Provider: ProviderGemini, Kind: KindEmpty, Err: ErrEmptyResponse}
	}
	return text, nil
}

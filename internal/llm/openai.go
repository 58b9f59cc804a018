package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI completes prompts through any OpenAI-compatible chat endpoint.
type OpenAI struct {
	name   string
	client *openai.Client
	cfg    Config
}

// NewOpenAI creates an OpenAI-compatible gateway. name labels errors
// ("openai", "deepseek").
func NewOpenAI(name string, cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &OpenAI{
		name:   name,
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Complete implements Gateway.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.cfg.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapErr(o.name, classifyOpenAI(err), err)
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Provider: o.name, Kind: KindEmpty, Err: ErrEmptyResponse}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GatewayError{Provider: o.name, Kind: KindEmpty, Err: ErrEmptyResponse}
	}
	return text, nil
}

func classifyOpenAI(err error) Kind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindCredential
		case http.StatusTooManyRequests:
			return KindQuota
		}
	}
	return KindUnavailable
}

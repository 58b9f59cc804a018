package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// claudeOutputJSON is the envelope Claude returns with --output-format json.
type claudeOutputJSON struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	Result     string  `json:"result"`
	IsError    bool    `json:"is_error"`
	CostUSD    float64 `json:"cost_usd"`
	DurationMs int64   `json:"duration_ms"`
}

// ClaudeCLI completes prompts by spawning the claude CLI in print mode.
// Authentication is handled by the CLI itself.
type ClaudeCLI struct {
	command string
	model   string
}

// NewClaudeCLI creates a gateway that runs command (default "claude").
func NewClaudeCLI(cfg Config) *ClaudeCLI {
	command := cfg.ClaudeCommand
	if command == "" {
		command = "claude"
	}
	return &ClaudeCLI{command: command, model: cfg.Model}
}

// Complete runs `claude -p <prompt> --output-format json` and returns the
// result text from the JSON output envelope.
func (c *ClaudeCLI) Complete(ctx context.Context, prompt string) (string, error) {
	args := []string{"-p", prompt, "--output-format", "json"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	cmd := exec.CommandContext(ctx, c.command, args...)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", wrapErr(ProviderClaudeCLI, KindTimeout, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", wrapErr(ProviderClaudeCLI, KindUnavailable,
				fmt.Errorf("claude exited %d: %s", exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr))))
		}
		return "", wrapErr(ProviderClaudeCLI, KindUnavailable, fmt.Errorf("running claude: %w", err))
	}

	return parseClaudeOutput(out)
}

func parseClaudeOutput(out []byte) (string, error) {
	var envelope claudeOutputJSON
	if err := json.Unmarshal(out, &envelope); err != nil {
		return "", &GatewayError{Provider: ProviderClaudeCLI, Kind: KindUnavailable, Err: fmt.Errorf("parsing claude output: %w", err)}
	}

	if envelope.IsError {
		return "", &GatewayError{Provider: ProviderClaudeCLI, Kind: KindUnavailable, Err: fmt.Errorf("claude returned error: %s", envelope.Result)}
	}

	text := strings.TrimSpace(envelope.Result)
	if text == "" {
		return "", &GatewayError{Provider: ProviderClaudeCLI, Kind: KindEmpty, Err: ErrEmptyResponse}
	}
	return text, nil
}

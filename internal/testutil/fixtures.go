// Package testutil provides test helper utilities for screenline tests.
package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TempProject creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// ErrGatewayDown is the failure returned by FailingGateway.
var ErrGatewayDown = errors.New("gateway down")

// FakeGateway is a scripted LLM gateway. Handler decides each response;
// every prompt is recorded.
type FakeGateway struct {
	Handler func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// Complete implements llm.Gateway.
func (f *FakeGateway) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Handler == nil {
		return "", ErrGatewayDown
	}
	return f.Handler(prompt)
}

// Prompts returns every prompt received so far.
func (f *FakeGateway) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// PromptsContaining returns the received prompts that contain substr.
func (f *FakeGateway) PromptsContaining(substr string) []string {
	var out []string
	for _, p := range f.Prompts() {
		if strings.Contains(p, substr) {
			out = append(out, p)
		}
	}
	return out
}

// FailingGateway fails every call with ErrGatewayDown.
func FailingGateway() *FakeGateway {
	return &FakeGateway{}
}

// QuestionGateway answers question-generation prompts (those mentioning
// "interview questions") with text and fails everything else, so
// acknowledgements use their static fallbacks.
func QuestionGateway(text string) *FakeGateway {
	return &FakeGateway{Handler: func(prompt string) (string, error) {
		if strings.Contains(prompt, "interview questions") {
			return text, nil
		}
		return "", ErrGatewayDown
	}}
}

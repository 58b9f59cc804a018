package interview

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenline-dev/screenline/internal/validate"
)

func history(n int) []Message {
	msgs := make([]Message, n)
	for i := range msgs {
		role := RoleUser
		if i%2 == 0 {
			role = RoleBot
		}
		msgs[i] = Message{Role: role, Text: fmt.Sprintf("message-%02d", i), At: time.Unix(int64(i), 0)}
	}
	return msgs
}

func TestPromptHistoryWindow(t *testing.T) {
	b := NewPromptBuilder("PGAGI", "AVA", 2)

	p := b.QuestionGeneration("Go", []string{"go"}, 3, history(10))

	for i := 0; i < 6; i++ {
		assert.NotContains(t, p, fmt.Sprintf("message-%02d", i))
	}
	for i := 6; i < 10; i++ {
		assert.Contains(t, p, fmt.Sprintf("message-%02d", i))
	}
	assert.Contains(t, p, "AVA: message-08")
	assert.Contains(t, p, "Candidate: message-09")
}

func TestPromptZeroWindowOmitsHistory(t *testing.T) {
	b := NewPromptBuilder("PGAGI", "AVA", 0)
	p := b.FollowupAcknowledgment("What is Go?", "A language.", history(4))

	assert.NotContains(t, p, "Recent conversation")
	assert.Contains(t, p, "What is Go?")
	assert.Contains(t, p, "A language.")
}

func TestQuestionGenerationPrompt(t *testing.T) {
	b := NewPromptBuilder("PGAGI", "AVA", 3)

	p := b.QuestionGeneration("Python, Django", []string{"python", "django"}, 3, nil)

	assert.Contains(t, p, "technical interviewer for PGAGI")
	assert.Contains(t, p, "Python, Django")
	assert.Contains(t, p, "- python\n- django\n")
	assert.Contains(t, p, "Write exactly 3 technical interview questions")
	assert.Contains(t, p, "(6 questions total)")
	assert.NotContains(t, p, "ERROR")

	simple := b.SimpleQuestionGeneration("Python, Django", 6)
	assert.Contains(t, simple, "Write 6 short technical interview questions about: Python, Django.\n")
	assert.Contains(t, simple, "numbered 1 to 6.")
	assert.NotContains(t, simple, "Recent conversation")
}

func TestInfoGatheringPrompt(t *testing.T) {
	fields, err := BuildFields(DefaultFields(), validate.DefaultPhoneRule)
	require.NoError(t, err)
	b := NewPromptBuilder("PGAGI", "AVA", 3)
	info := map[string]string{"email": "jane@example.com", "name": "Jane Doe"}

	p := b.InfoGathering(fields, info, "email address", nil)

	assert.Contains(t, p, "- full name: Jane Doe\n- email address: jane@example.com\n")
	assert.Contains(t, p, "The candidate just provided their email address.")
	assert.NotContains(t, p, "phone number:")
}

func TestPromptsAreDeterministic(t *testing.T) {
	b := NewPromptBuilder("PGAGI", "AVA", 3)
	h := history(7)

	assert.Equal(t,
		b.QuestionGeneration("Go", []string{"go"}, 2, h),
		b.QuestionGeneration("Go", []string{"go"}, 2, h))
	assert.Equal(t,
		b.FollowupAcknowledgment("q", "a", h),
		b.FollowupAcknowledgment("q", "a", h))
}

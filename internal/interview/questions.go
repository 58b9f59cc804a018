// questions.go calls the LLM gateway: technical question generation with
// retry and static fallback, and optional phrasing of acknowledgements.
package interview

import (
	"context"
	"errors"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/screenline-dev/screenline/internal/llm"
	"github.com/screenline-dev/screenline/internal/log"
)

// errUnparseable marks a response with no recognizable questions.
var errUnparseable = errors.New("no questions in response")

// maxAckLen caps an LLM-phrased acknowledgement; longer output is discarded.
const maxAckLen = 400

// generateQuestions asks the gateway for questions about the candidate's
// tech stack. The first attempt uses the full prompt, the single retry a
// simplified one. A short response is topped up with static questions.
// When both attempts fail it returns the static list and true.
func (m *Machine) generateQuestions(ctx context.Context, s *Session) ([]queuedQuestion, bool) {
	techStack := strings.TrimSpace(s.CandidateInfo[m.techKey])
	techs := ParseTechStack(techStack, m.opts.MaxTechs)
	if techStack == "" {
		techStack = strings.Join(techs, ", ")
	}
	perTech := m.opts.QuestionsPerTech
	limit := perTech * len(techs)

	attempts := []string{
		m.prompts.QuestionGeneration(techStack, techs, perTech, s.History),
		m.prompts.SimpleQuestionGeneration(techStack, limit),
	}

	var (
		questions []string
		attempt   int
	)
	op := func() error {
		prompt := attempts[min(attempt, len(attempts)-1)]
		attempt++

		text, err := m.gateway.Complete(ctx, prompt)
		if err == nil {
			if questions = ParseQuestions(text); len(questions) == 0 {
				err = &llm.GatewayError{Provider: "parser", Kind: llm.KindEmpty, Err: errUnparseable}
			}
		}
		if err != nil {
			m.logger.Warn("question generation attempt failed", "session", s.ID, "attempt", attempt, "error", err)
			m.event(log.LogEvent{Event: log.EventGenerationRetry, SessionID: s.ID, Attempt: attempt, Error: err.Error()})
			if llm.IsPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(m.retryInterval), uint64(len(attempts)-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		static := fallbackItems(techs, perTech)
		m.event(log.LogEvent{Event: log.EventQuestionsFallback, SessionID: s.ID, Attempt: attempt, Count: len(static)})
		return static, true
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}
	queue := make([]queuedQuestion, len(questions), limit)
	for i, q := range questions {
		queue[i] = queuedQuestion{text: q}
	}
	m.event(log.LogEvent{Event: log.EventQuestionsGenerated, SessionID: s.ID, Attempt: attempt, Count: len(queue)})

	if len(queue) < limit {
		queue = topUp(queue, techs, perTech, limit)
		m.logger.Info("topped up short question list", "session", s.ID, "generated", len(questions), "total", len(queue))
	}
	return queue, false
}

// fieldAck acknowledges a newly filled field, phrased by the LLM when
// enabled and usable.
func (m *Machine) fieldAck(ctx context.Context, s *Session, f FieldExtractor) string {
	if m.opts.PhraseWithLLM {
		prompt := m.prompts.InfoGathering(m.fields, s.CandidateInfo, f.Label(), s.History)
		if text, ok := m.phrase(ctx, s, prompt); ok {
			return text
		}
	}
	return staticFieldAck(f.Key(), s.CandidateInfo)
}

// answerAck acknowledges an answer to a technical question.
func (m *Machine) answerAck(ctx context.Context, s *Session, question, answer string) string {
	if m.opts.PhraseWithLLM {
		prompt := m.prompts.FollowupAcknowledgment(question, answer, s.History)
		if text, ok := m.phrase(ctx, s, prompt); ok {
			return text
		}
	}
	return staticAnswerAck(len(s.Answers) - 1)
}

// phrase runs a single, unretried completion for conversational filler.
// Output that asks a question or runs long is rejected, since the machine
// appends the next question itself.
func (m *Machine) phrase(ctx context.Context, s *Session, prompt string) (string, bool) {
	text, err := m.gateway.Complete(ctx, prompt)
	if err != nil {
		m.logger.Debug("acknowledgement fell back to static text", "session", s.ID, "error", err)
		return "", false
	}
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" || len(text) > maxAckLen || strings.Contains(text, "?") {
		return "", false
	}
	return text, true
}

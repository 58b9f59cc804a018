package interview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenline-dev/screenline/internal/llm"
	"github.com/screenline-dev/screenline/internal/log"
	"github.com/screenline-dev/screenline/internal/store"
	"github.com/screenline-dev/screenline/internal/testutil"
)

const sixQuestions = `Here are your questions:
1. What is the GIL in Python?
2. How do Python generators work?
3. What are Python decorators?
4. What is a goroutine?
5. How do Go channels synchronize work?
6. What does the Go race detector find?`

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMachine(t *testing.T, gw llm.Gateway, mutate func(*Options), extra ...Option) *Machine {
	t.Helper()
	opts := DefaultOptions()
	opts.RetryIntervalMs = 0
	opts.PhraseWithLLM = false
	if mutate != nil {
		mutate(&opts)
	}
	options := append([]Option{
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return fixedNow }),
	}, extra...)

	m, err := NewMachine(opts, gw, options...)
	require.NoError(t, err)
	return m
}

// advanceAll feeds inputs in order and returns every turn.
func advanceAll(m *Machine, s *Session, inputs ...string) []Turn {
	turns := make([]Turn, 0, len(inputs))
	for _, in := range inputs {
		turns = append(turns, m.Advance(context.Background(), s, in))
	}
	return turns
}

var candidateReplies = []string{"yes", "Jane Doe", "jane@example.com", "555-0100", "Python, Go"}

// singleQuestion limits an interview to one question on the first tech.
func singleQuestion(o *Options) {
	o.MaxTechs = 1
	o.QuestionsPerTech = 1
}

func TestDeclineOnNo(t *testing.T) {
	m := newTestMachine(t, testutil.QuestionGateway(sixQuestions), nil)
	s := m.NewSession()
	m.Start(s)

	turn := m.Advance(context.Background(), s, "no")

	assert.Equal(t, StageDeclined, turn.Stage)
	assert.Equal(t, StageDeclined, s.Stage)
	assert.Equal(t, DirectiveNone, turn.Directive)
	assert.Nil(t, turn.Record)
	assert.False(t, s.ConsentGiven)
	assert.Empty(t, s.Answers)
	assert.Empty(t, s.CandidateInfo)
}

func TestQualifiedConsentIsNotAccepted(t *testing.T) {
	cases := []struct {
		reply string
		want  Stage
	}{
		{"yes I do not consent", StageDeclined},
		{"ok no", StageDeclined},
		{"sure, but please don't store anything", StageAwaitingConsent},
	}
	for _, tc := range cases {
		t.Run(tc.reply, func(t *testing.T) {
			m := newTestMachine(t, testutil.QuestionGateway(sixQuestions), nil)
			s := m.NewSession()
			m.Start(s)

			turn := m.Advance(context.Background(), s, tc.reply)

			assert.Equal(t, tc.want, turn.Stage)
			assert.False(t, s.ConsentGiven)
			assert.Empty(t, s.CandidateInfo)
		})
	}
}

func TestConsentConfirmationNamesContact(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()
	turn := m.Advance(context.Background(), s, "yes")

	assert.Contains(t, turn.Reply, "withdraw it at any time by contacting the PGAGI recruiting team.")
	assert.NotContains(t, turn.Reply, "@")

	m = newTestMachine(t, nil, func(o *Options) { o.PrivacyContact = "privacy@acme.io" })
	s = m.NewSession()
	turn = m.Advance(context.Background(), s, "yes")

	assert.Contains(t, turn.Reply, "by contacting privacy@acme.io.")
}

func TestCollectsFieldsInOrderThenGeneratesQuestions(t *testing.T) {
	gw := testutil.QuestionGateway(sixQuestions)
	m := newTestMachine(t, gw, nil)
	s := m.NewSession()
	m.Start(s)

	turns := advanceAll(m, s, candidateReplies...)

	wantStages := []Stage{
		StageCollectingInfo,
		StageCollectingInfo,
		StageCollectingInfo,
		StageCollectingInfo,
		StageAskingQuestions,
	}
	for i, turn := range turns {
		assert.Equal(t, wantStages[i], turn.Stage, "turn %d", i)
		assert.Equal(t, DirectiveNone, turn.Directive, "turn %d", i)
	}

	assert.Contains(t, turns[0].Reply, "What is your full name?")
	assert.Contains(t, turns[1].Reply, "Thanks Jane.")
	assert.Contains(t, turns[1].Reply, "What is your email address?")
	assert.Contains(t, turns[3].Reply, "tech stack")

	assert.Equal(t, map[string]string{
		"name":       "Jane Doe",
		"email":      "jane@example.com",
		"phone":      "555-0100",
		"tech_stack": "Python, Go",
	}, s.CandidateInfo)
	assert.Empty(t, s.Pending)

	genPrompts := gw.PromptsContaining("interview questions")
	require.Len(t, genPrompts, 1)
	assert.Contains(t, genPrompts[0], "Python, Go")

	require.Len(t, s.Queue, 6)
	assert.Equal(t, "What is the GIL in Python?", s.Queue[0])
	assert.False(t, s.UsedFallback)
	assert.Contains(t, turns[4].Reply, "Question 1 of 6: What is the GIL in Python?")
}

func TestGatewayFailsTwiceUsesStaticFallback(t *testing.T) {
	gw := testutil.FailingGateway()
	m := newTestMachine(t, gw, nil)
	s := m.NewSession()

	turns := advanceAll(m, s, candidateReplies...)
	last := turns[len(turns)-1]

	assert.Equal(t, StageAskingQuestions, last.Stage)
	assert.True(t, s.UsedFallback)
	assert.Equal(t, FallbackQuestions([]string{"python", "go"}, 3), s.Queue)
	assert.Equal(t, []string{"python", "python", "python", "go", "go", "go"}, s.QueueTechs)
	assert.NotContains(t, last.Reply, testutil.ErrGatewayDown.Error())

	prompts := gw.Prompts()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], "Write exactly 3 technical interview questions")
	assert.Contains(t, prompts[1], "Write 6 short technical interview questions about: Python, Go.")
}

func TestRetrySucceedsWithSimplifiedPrompt(t *testing.T) {
	calls := 0
	gw := &testutil.FakeGateway{Handler: func(prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "I'm sorry, I can't help with that.", nil
		}
		return "1. What is a slice?\n2. What is an interface?", nil
	}}
	m := newTestMachine(t, gw, nil)
	s := m.NewSession()

	advanceAll(m, s, "yes", "Jane Doe", "jane@example.com", "555-0100", "Go")

	assert.Equal(t, 2, calls)
	assert.False(t, s.UsedFallback)
	assert.Equal(t, []string{
		"What is a slice?",
		"What is an interface?",
		"Can you explain the core principles or concepts of go?",
	}, s.Queue)
}

func TestShortResponseIsToppedUp(t *testing.T) {
	m := newTestMachine(t, testutil.QuestionGateway("1. What is a goroutine?"), nil)
	s := m.NewSession()

	turns := advanceAll(m, s, candidateReplies...)

	assert.False(t, s.UsedFallback)
	assert.Equal(t, []string{
		"What is a goroutine?",
		"Can you explain the core principles or concepts of python?",
		"Can you explain the core principles or concepts of go?",
		"What are the main advantages and limitations of python compared to alternatives?",
		"What are the main advantages and limitations of go compared to alternatives?",
		"How would you describe the architecture or structure of a typical python application?",
	}, s.Queue)
	assert.Equal(t, []string{"", "python", "go", "python", "go", "python"}, s.QueueTechs)
	assert.Contains(t, turns[len(turns)-1].Reply, "Question 1 of 6: What is a goroutine?")
}

func TestTopUpSkipsDuplicates(t *testing.T) {
	generated := "1. Can you explain the core principles or concepts of go?\n2. What is a goroutine?"
	m := newTestMachine(t, testutil.QuestionGateway(generated), func(o *Options) {
		o.QuestionsPerTech = 2
	})
	s := m.NewSession()

	advanceAll(m, s, "yes", "Jane Doe", "jane@example.com", "555-0100", "Go, Rust")

	assert.Equal(t, []string{
		"Can you explain the core principles or concepts of go?",
		"What is a goroutine?",
		"Can you explain the core principles or concepts of rust?",
		"What are the main advantages and limitations of go compared to alternatives?",
	}, s.Queue)
}

func TestAnswersCarryTech(t *testing.T) {
	m := newTestMachine(t, testutil.FailingGateway(), func(o *Options) {
		o.QuestionsPerTech = 1
	})
	s := m.NewSession()
	advanceAll(m, s, candidateReplies...)
	require.Equal(t, []string{"python", "go"}, s.QueueTechs)

	advanceAll(m, s, "answer 1")
	last := m.Advance(context.Background(), s, "answer 2")

	require.NotNil(t, last.Record)
	require.Len(t, last.Record.Answers, 2)
	assert.Equal(t, "python", last.Record.Answers[0].Tech)
	assert.Equal(t, "go", last.Record.Answers[1].Tech)
	assert.Equal(t, "python", s.Answers[0].Tech)
	assert.Empty(t, s.QueueTechs)
}

func TestMissingCredentialIsNotRetried(t *testing.T) {
	gw := &testutil.FakeGateway{Handler: func(prompt string) (string, error) {
		return "", &llm.GatewayError{Provider: "openai", Kind: llm.KindCredential, Err: llm.ErrNoCredential}
	}}
	m := newTestMachine(t, gw, nil)
	s := m.NewSession()

	advanceAll(m, s, candidateReplies...)

	assert.Len(t, gw.Prompts(), 1)
	assert.True(t, s.UsedFallback)
	assert.Equal(t, StageAskingQuestions, s.Stage)
}

func TestGeneratedQuestionsAreCapped(t *testing.T) {
	var many strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&many, "%d. Question number %d?\n", i, i)
	}
	m := newTestMachine(t, testutil.QuestionGateway(many.String()), func(o *Options) {
		o.QuestionsPerTech = 2
	})
	s := m.NewSession()

	advanceAll(m, s, "yes", "Jane Doe", "jane@example.com", "555-0100", "Go, Rust")

	assert.Len(t, s.Queue, 4)
}

func TestCompletionIssuesSingleSaveDirective(t *testing.T) {
	st := store.NewMemoryStore()
	m := newTestMachine(t, testutil.QuestionGateway(sixQuestions), nil, WithStore(st))
	s := m.NewSession()
	advanceAll(m, s, candidateReplies...)

	asked := append([]string(nil), s.Queue...)
	var saves []Turn
	for i := range asked {
		turn := m.Advance(context.Background(), s, fmt.Sprintf("answer %d", i+1))
		if turn.Directive == DirectiveSaveCandidateRecord {
			saves = append(saves, turn)
		}
		if i < len(asked)-1 {
			assert.Equal(t, StageAskingQuestions, turn.Stage)
			assert.Contains(t, turn.Reply, fmt.Sprintf("Question %d of 6", i+2))
		}
	}

	require.Len(t, saves, 1)
	save := saves[0]
	assert.Equal(t, StageCompleted, save.Stage)
	assert.Equal(t, StageCompleted, s.Stage)
	require.NotNil(t, save.Record)
	assert.Equal(t, s.ID, save.Record.SessionID)
	assert.True(t, save.Record.ConsentGiven)
	require.Len(t, save.Record.Answers, len(asked))
	for i, qa := range save.Record.Answers {
		assert.Equal(t, asked[i], qa.Question)
		assert.Equal(t, fmt.Sprintf("answer %d", i+1), qa.Answer)
	}

	require.NotEmpty(t, save.RecordID)
	assert.Equal(t, save.RecordID, s.RecordID)
	stored, err := st.Get(context.Background(), save.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.CandidateInfo["name"])

	again := m.Advance(context.Background(), s, "one more thing")
	assert.Equal(t, DirectiveNone, again.Directive)
	assert.Equal(t, closedCompletedMsg, again.Reply)
}

func TestSaveFailureStillCompletes(t *testing.T) {
	st := store.NewMemoryStore()
	st.FailWith = fmt.Errorf("disk full")
	m := newTestMachine(t, testutil.QuestionGateway("1. Only question?"), singleQuestion, WithStore(st))
	s := m.NewSession()
	advanceAll(m, s, candidateReplies...)

	turn := m.Advance(context.Background(), s, "my answer")

	assert.Equal(t, StageCompleted, turn.Stage)
	assert.Equal(t, DirectiveSaveCandidateRecord, turn.Directive)
	assert.Empty(t, turn.RecordID)
	assert.Contains(t, turn.Reply, saveFailedMsg)
	assert.NotContains(t, turn.Reply, "disk full")
}

func TestTerminalSessionsAreIdempotent(t *testing.T) {
	m := newTestMachine(t, testutil.QuestionGateway("1. Only question?"), singleQuestion)

	declined := m.NewSession()
	m.Advance(context.Background(), declined, "no")

	completed := m.NewSession()
	advanceAll(m, completed, append(candidateReplies, "done")...)
	require.Equal(t, StageCompleted, completed.Stage)

	for _, s := range []*Session{declined, completed} {
		before := s.Clone()
		first := m.Advance(context.Background(), s, "hello?")
		for _, in := range []string{"yes", "", "restart", "no"} {
			turn := m.Advance(context.Background(), s, in)
			assert.Equal(t, first.Reply, turn.Reply)
			assert.Equal(t, DirectiveNone, turn.Directive)
			assert.Nil(t, turn.Record)
		}
		assert.Equal(t, before, s.Clone())
	}
}

func TestConsentRepromptThenDecline(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()

	turn := m.Advance(context.Background(), s, "maybe later")
	assert.Equal(t, StageAwaitingConsent, turn.Stage)
	assert.Equal(t, consentRepromptMsg, turn.Reply)
	assert.Equal(t, 1, s.Reprompts)

	turn = m.Advance(context.Background(), s, "what do you mean")
	assert.Equal(t, StageDeclined, turn.Stage)
	assert.False(t, s.ConsentGiven)
}

func TestConsentRepromptAllowsLateYes(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()

	m.Advance(context.Background(), s, "hmm")
	turn := m.Advance(context.Background(), s, "Yes!")

	assert.Equal(t, StageCollectingInfo, turn.Stage)
	assert.True(t, s.ConsentGiven)
	assert.Equal(t, fixedNow, s.ConsentAt)
}

func TestZeroRepromptsDeclinesImmediately(t *testing.T) {
	m := newTestMachine(t, nil, func(o *Options) { o.MaxReprompts = 0 })
	s := m.NewSession()

	turn := m.Advance(context.Background(), s, "perhaps")

	assert.Equal(t, StageDeclined, turn.Stage)
}

func TestInvalidFieldIsReasked(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()
	advanceAll(m, s, "yes", "Jane Doe")

	turn := m.Advance(context.Background(), s, "not-an-email")
	assert.Equal(t, StageCollectingInfo, turn.Stage)
	assert.Contains(t, turn.Reply, "valid email")
	assert.Equal(t, []string{"email", "phone", "tech_stack"}, s.Pending)
	_, filled := s.CandidateInfo["email"]
	assert.False(t, filled)

	turn = m.Advance(context.Background(), s, "abc")
	assert.Contains(t, turn.Reply, "valid email")

	turn = m.Advance(context.Background(), s, "Jane@Example.com")
	assert.Contains(t, turn.Reply, "phone number")
	assert.Equal(t, "jane@example.com", s.CandidateInfo["email"])

	turn = m.Advance(context.Background(), s, "abc")
	assert.Contains(t, turn.Reply, "valid phone number")
	assert.Equal(t, []string{"phone", "tech_stack"}, s.Pending)
}

func TestEmptyInputDoesNotMutate(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()
	m.Start(s)
	advanceAll(m, s, "yes")

	before := s.Clone()
	turn := m.Advance(context.Background(), s, "   ")

	assert.Equal(t, before, s.Clone())
	assert.Contains(t, turn.Reply, emptyInputMsg)
	assert.Contains(t, turn.Reply, "What is your full name?")
}

func TestProtocolViolationFailsClosed(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()
	advanceAll(m, s, candidateReplies...)

	s.Queue = nil
	before := s.Clone()

	turn := m.Advance(context.Background(), s, "an answer")

	assert.Equal(t, protocolFailureMsg, turn.Reply)
	assert.Equal(t, DirectiveNone, turn.Directive)
	var perr *ProtocolError
	require.ErrorAs(t, turn.Err, &perr)
	assert.Equal(t, before, s.Clone())
}

func TestAnswersRequireConsent(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()
	m.Start(s)
	s.Stage = StageAskingQuestions
	s.Queue = []string{"What is Go?"}
	before := s.Clone()

	turn := m.Advance(context.Background(), s, "a language")

	assert.Equal(t, protocolFailureMsg, turn.Reply)
	assert.Empty(t, s.Answers)
	assert.Equal(t, before, s.Clone())
}

func TestHandlerFailureLeavesHistoryUntouched(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()
	m.Start(s)
	m.Advance(context.Background(), s, "yes")
	s.Pending = []string{"shoe_size"}
	before := s.Clone()

	turn := m.Advance(context.Background(), s, "42")

	var perr *ProtocolError
	require.ErrorAs(t, turn.Err, &perr)
	assert.Equal(t, StageCollectingInfo, s.Stage)
	assert.Len(t, s.History, len(before.History))
	assert.Equal(t, RoleBot, s.History[len(s.History)-1].Role)
	assert.Equal(t, before, s.Clone())
}

func TestNilSession(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	turn := m.Advance(context.Background(), nil, "yes")
	assert.Equal(t, protocolFailureMsg, turn.Reply)
	assert.Error(t, turn.Err)
}

func TestStartIsIdempotent(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := m.NewSession()

	first := m.Start(s)
	second := m.Start(s)

	assert.Equal(t, first, second)
	assert.Len(t, s.History, 1)
	assert.Contains(t, first, "PGAGI")
	assert.Contains(t, first, "'yes' or 'no'")
}

// TestStagesOnlyMoveForward drives random reply sequences and checks the
// ordering and consent properties after every turn.
func TestStagesOnlyMoveForward(t *testing.T) {
	replies := []string{"yes", "no", "maybe", "", "Jane Doe", "jane@example.com", "555-0100", "Python, Go", "abc", "42", "I use channels."}
	m := newTestMachine(t, testutil.QuestionGateway("1. First?\n2. Second?"), nil, WithStore(store.NewMemoryStore()))
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		s := m.NewSession()
		saves := 0
		for step := 0; step < 25; step++ {
			prev := s.Stage
			prevAnswers := len(s.Answers)

			turn := m.Advance(context.Background(), s, replies[rng.Intn(len(replies))])

			require.GreaterOrEqual(t, s.Stage.rank(), prev.rank(), "run %d step %d", run, step)
			if prev == StageDeclined {
				require.Equal(t, StageDeclined, s.Stage)
			}
			if len(s.Answers) > prevAnswers {
				require.True(t, s.ConsentGiven)
			}
			if turn.Directive == DirectiveSaveCandidateRecord {
				saves++
				require.True(t, s.ConsentGiven)
			}
			require.NotEqual(t, protocolFailureMsg, turn.Reply)
		}
		require.LessOrEqual(t, saves, 1)
		if s.Stage == StageCompleted {
			require.Equal(t, 1, saves)
		}
	}
}

func TestPhraseWithLLM(t *testing.T) {
	gw := &testutil.FakeGateway{Handler: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "interview questions"):
			return "1. What is a goroutine?\n2. What is a channel?", nil
		case strings.Contains(prompt, "The candidate just provided their full name"):
			return "Lovely to meet you, Jane.", nil
		case strings.Contains(prompt, "The candidate just provided their email address"):
			return "Could I also ask why?", nil
		case strings.Contains(prompt, "Candidate answer"):
			return "\"Thanks, that's a clear explanation.\"", nil
		}
		return "", testutil.ErrGatewayDown
	}}
	m := newTestMachine(t, gw, func(o *Options) {
		o.PhraseWithLLM = true
		o.QuestionsPerTech = 2
	})
	s := m.NewSession()

	turns := advanceAll(m, s, "yes", "Jane Doe", "jane@example.com", "555-0100", "Go", "They are lightweight threads.")

	assert.Contains(t, turns[1].Reply, "Lovely to meet you, Jane.")
	assert.Contains(t, turns[2].Reply, "Got it.")
	assert.NotContains(t, turns[2].Reply, "why?")
	assert.Contains(t, turns[3].Reply, "Thanks for providing your contact information.")
	assert.True(t, strings.HasPrefix(turns[5].Reply, "Thanks, that's a clear explanation."))
	assert.Contains(t, turns[5].Reply, "Question 2 of 2: What is a channel?")
}

func TestCustomFieldOrder(t *testing.T) {
	m := newTestMachine(t, testutil.QuestionGateway("1. Q?"), func(o *Options) {
		o.RequiredFields = []FieldSpec{
			{Key: "name", Kind: KindName},
			{Key: "experience", Kind: KindText, Label: "years of experience"},
			{Key: "tech_stack", Kind: KindTechStack},
		}
	})
	s := m.NewSession()

	turns := advanceAll(m, s, "yes", "Jane Doe", "5 years", "Rust")

	assert.Contains(t, turns[1].Reply, "years of experience")
	assert.Equal(t, "5 years", s.CandidateInfo["experience"])
	assert.Equal(t, StageAskingQuestions, s.Stage)
}

func TestNoTechStackFieldUsesGeneralQuestions(t *testing.T) {
	m := newTestMachine(t, testutil.FailingGateway(), func(o *Options) {
		o.RequiredFields = []FieldSpec{{Key: "name", Kind: KindName}}
	})
	s := m.NewSession()

	advanceAll(m, s, "yes", "Jane Doe")

	assert.Equal(t, FallbackQuestions([]string{"general"}, 3), s.Queue)
}

func TestNewMachineRejectsBadFields(t *testing.T) {
	opts := DefaultOptions()
	opts.RequiredFields = []FieldSpec{{Key: "age", Kind: "integer"}}
	_, err := NewMachine(opts, nil)
	assert.Error(t, err)

	opts.RequiredFields = []FieldSpec{{Key: "name", Kind: KindName}, {Key: "name", Kind: KindText}}
	_, err = NewMachine(opts, nil)
	assert.Error(t, err)
}

func TestEventsNeverCarryCandidateValues(t *testing.T) {
	events, err := log.NewLogger(t.TempDir())
	require.NoError(t, err)
	m := newTestMachine(t, testutil.FailingGateway(), nil, WithEvents(events), WithStore(store.NewMemoryStore()))
	s := m.NewSession()

	advanceAll(m, s, "yes", "Jane Doe", "bad", "jane@example.com", "555-0100", "Python, Go")
	for s.Stage == StageAskingQuestions {
		m.Advance(context.Background(), s, "secret answer")
	}

	logged, err := events.ReadAll()
	require.NoError(t, err)
	var kinds []string
	for _, ev := range logged {
		kinds = append(kinds, ev.Event)
	}
	assert.Contains(t, kinds, log.EventConsentGiven)
	assert.Contains(t, kinds, log.EventFieldRejected)
	assert.Contains(t, kinds, log.EventQuestionsFallback)
	assert.Contains(t, kinds, log.EventInterviewCompleted)
	assert.Contains(t, kinds, log.EventRecordSaved)

	raw, err := os.ReadFile(events.Path())
	require.NoError(t, err)
	for _, secret := range []string{"Jane", "jane@example.com", "555-0100", "secret answer"} {
		assert.NotContains(t, string(raw), secret)
	}
}

// machine.go drives one interview turn at a time: consent, field
// collection, generated technical questions, then the save directive.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/screenline-dev/screenline/internal/llm"
	"github.com/screenline-dev/screenline/internal/log"
	"github.com/screenline-dev/screenline/internal/store"
	"github.com/screenline-dev/screenline/internal/validate"
)

// saveTimeout bounds the store write on completion.
const saveTimeout = 10 * time.Second

// Options configures the interview flow.
type Options struct {
	Company          string             `yaml:"company" mapstructure:"company"`
	Interviewer      string             `yaml:"interviewer" mapstructure:"interviewer"`
	PrivacyContact   string             `yaml:"privacy_contact" mapstructure:"privacy_contact"`
	MaxReprompts     int                `yaml:"max_reprompts" mapstructure:"max_reprompts"`
	HistoryWindow    int                `yaml:"history_window" mapstructure:"history_window"`
	QuestionsPerTech int                `yaml:"questions_per_tech" mapstructure:"questions_per_tech"`
	MaxTechs         int                `yaml:"max_techs" mapstructure:"max_techs"`
	RetryIntervalMs  int                `yaml:"retry_interval_ms" mapstructure:"retry_interval_ms"`
	PhraseWithLLM    bool               `yaml:"phrase_with_llm" mapstructure:"phrase_with_llm"`
	Affirmative      []string           `yaml:"affirmative" mapstructure:"affirmative"`
	Negative         []string           `yaml:"negative" mapstructure:"negative"`
	RequiredFields   []FieldSpec        `yaml:"required_fields" mapstructure:"required_fields"`
	Phone            validate.PhoneRule `yaml:"phone" mapstructure:"phone"`

	// RetentionDays is quoted in the consent request. It mirrors the
	// store retention setting and is not read from this section.
	RetentionDays int `yaml:"-" mapstructure:"-"`
}

// DefaultOptions returns the stock interview flow.
func DefaultOptions() Options {
	return Options{
		Company:          "PGAGI",
		Interviewer:      "AVA",
		MaxReprompts:     1,
		HistoryWindow:    3,
		QuestionsPerTech: 3,
		MaxTechs:         4,
		RetryIntervalMs:  500,
		PhraseWithLLM:    true,
		Affirmative:      append([]string(nil), DefaultAffirmative...),
		Negative:         append([]string(nil), DefaultNegative...),
		RequiredFields:   DefaultFields(),
		Phone:            validate.DefaultPhoneRule,
		RetentionDays:    365,
	}
}

// Directive tells the host what to do with the turn's outcome.
type Directive string

const (
	DirectiveNone                Directive = "none"
	DirectiveSaveCandidateRecord Directive = "save_candidate_record"
)

// Turn is the outcome of one Advance call.
type Turn struct {
	Reply     string
	Stage     Stage
	Directive Directive
	// Record is set only with DirectiveSaveCandidateRecord.
	Record *store.CandidateRecord
	// RecordID is set when the machine's store accepted Record.
	RecordID string
	// Err carries an internal failure for host logging. It is never
	// part of Reply.
	Err error
}

// Machine advances sessions. It holds no per-session state, so one Machine
// can serve many sessions concurrently.
type Machine struct {
	opts          Options
	fields        []FieldExtractor
	techKey       string
	consent       consentMatcher
	prompts       *PromptBuilder
	texts         texts
	retryInterval time.Duration

	gateway llm.Gateway
	store   store.Store
	events  *log.Logger
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a Machine.
type Option func(*Machine)

// WithStore makes the machine save completed records itself.
func WithStore(s store.Store) Option {
	return func(m *Machine) { m.store = s }
}

// WithEvents records interview events to the JSONL event log.
func WithEvents(l *log.Logger) Option {
	return func(m *Machine) { m.events = l }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// NewMachine validates opts and builds a Machine. A nil gateway behaves as
// a permanently unavailable one.
func NewMachine(opts Options, gateway llm.Gateway, options ...Option) (*Machine, error) {
	if opts.MaxReprompts < 0 {
		return nil, fmt.Errorf("max_reprompts must not be negative")
	}
	if opts.HistoryWindow < 0 {
		return nil, fmt.Errorf("history_window must not be negative")
	}
	if opts.QuestionsPerTech <= 0 {
		opts.QuestionsPerTech = 3
	}
	if opts.MaxTechs <= 0 {
		opts.MaxTechs = 4
	}
	if len(opts.Affirmative) == 0 {
		opts.Affirmative = DefaultAffirmative
	}
	if len(opts.Negative) == 0 {
		opts.Negative = DefaultNegative
	}
	if len(opts.RequiredFields) == 0 {
		opts.RequiredFields = DefaultFields()
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 365
	}

	fields, err := BuildFields(opts.RequiredFields, opts.Phone)
	if err != nil {
		return nil, err
	}
	if gateway == nil {
		gateway = &llm.Unavailable{Provider: "none", Cause: llm.ErrNoCredential}
	}

	m := &Machine{
		opts:          opts,
		fields:        fields,
		consent:       newConsentMatcher(opts.Affirmative, opts.Negative),
		prompts:       NewPromptBuilder(opts.Company, opts.Interviewer, opts.HistoryWindow),
		texts:         newTexts(opts.Company, opts.Interviewer, opts.PrivacyContact, max(opts.RetentionDays/30, 1)),
		retryInterval: time.Duration(opts.RetryIntervalMs) * time.Millisecond,
		gateway:       gateway,
		logger:        slog.Default(),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, f := range opts.RequiredFields {
		if f.Kind == KindTechStack {
			m.techKey = f.Key
			break
		}
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Fields returns the configured field extractors in ask order.
func (m *Machine) Fields() []FieldExtractor {
	return m.fields
}

// NewSession creates a session awaiting consent with every field pending.
func (m *Machine) NewSession() *Session {
	s := &Session{
		ID:            uuid.New().String(),
		Stage:         StageAwaitingConsent,
		CandidateInfo: make(map[string]string),
		StartedAt:     m.now(),
	}
	for _, f := range m.fields {
		s.Pending = append(s.Pending, f.Key())
	}
	m.event(log.LogEvent{Event: log.EventSessionStarted, SessionID: s.ID})
	return s
}

// Start returns the opening message (introduction and consent request)
// and records it in history. On a session that already started it returns
// the last bot message unchanged.
func (m *Machine) Start(s *Session) string {
	if len(s.History) > 0 {
		return s.LastBotMessage()
	}
	s.appendHistory(RoleBot, m.texts.consentRequest, m.now())
	return m.texts.consentRequest
}

// Advance consumes one user message and returns the bot reply. The session
// is updated in place. Terminal sessions are never modified.
func (m *Machine) Advance(ctx context.Context, s *Session, input string) Turn {
	if s == nil {
		return m.failClosed(nil, &ProtocolError{Reason: "nil session"})
	}
	if s.Stage.Terminal() {
		return m.closed(s)
	}
	if err := s.checkInvariants(); err != nil {
		return m.failClosed(s, err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return Turn{
			Reply:     joinParagraphs(emptyInputMsg, m.currentPrompt(s)),
			Stage:     s.Stage,
			Directive: DirectiveNone,
		}
	}

	mark := len(s.History)
	s.appendHistory(RoleUser, input, m.now())

	var (
		turn Turn
		err  error
	)
	switch s.Stage {
	case StageAwaitingConsent:
		turn, err = m.handleConsent(s, input)
	case StageCollectingInfo:
		turn, err = m.handleField(ctx, s, input)
	case StageAskingQuestions:
		turn, err = m.handleAnswer(ctx, s, input)
	}
	if err != nil {
		s.History = s.History[:mark]
		return m.failClosed(s, err)
	}

	turn.Stage = s.Stage
	if turn.Directive == "" {
		turn.Directive = DirectiveNone
	}
	s.appendHistory(RoleBot, turn.Reply, m.now())
	return turn
}

func (m *Machine) handleConsent(s *Session, input string) (Turn, error) {
	switch m.consent.classify(input) {
	case consentYes:
		if err := s.moveTo(StageCollectingInfo); err != nil {
			return Turn{}, err
		}
		s.ConsentGiven = true
		s.ConsentAt = m.now()
		m.event(log.LogEvent{Event: log.EventConsentGiven, SessionID: s.ID})
		return Turn{Reply: joinParagraphs(m.texts.consentGiven, m.currentPrompt(s))}, nil

	case consentNo:
		if err := s.moveTo(StageDeclined); err != nil {
			return Turn{}, err
		}
		m.event(log.LogEvent{Event: log.EventConsentDeclined, SessionID: s.ID, Reason: "declined"})
		return Turn{Reply: m.texts.consentDeclined}, nil
	}

	if s.Reprompts < m.opts.MaxReprompts {
		s.Reprompts++
		m.event(log.LogEvent{Event: log.EventConsentReprompted, SessionID: s.ID, Attempt: s.Reprompts})
		return Turn{Reply: consentRepromptMsg}, nil
	}

	if err := s.moveTo(StageDeclined); err != nil {
		return Turn{}, err
	}
	m.event(log.LogEvent{Event: log.EventConsentDeclined, SessionID: s.ID, Reason: "unrecognized"})
	return Turn{Reply: m.texts.defaultDeclined}, nil
}

func (m *Machine) handleField(ctx context.Context, s *Session, input string) (Turn, error) {
	key := s.Pending[0]
	f := m.field(key)
	if f == nil {
		return Turn{}, &ProtocolError{SessionID: s.ID, Stage: s.Stage, Reason: "unknown pending field " + key}
	}
	if _, filled := s.CandidateInfo[key]; filled {
		return Turn{}, &ProtocolError{SessionID: s.ID, Stage: s.Stage, Reason: "field already filled: " + key}
	}

	value, err := f.Extract(input)
	if err != nil {
		var verr *ValidationError
		reply := "Sorry, I couldn't use that. " + f.Prompt()
		if errors.As(err, &verr) {
			reply = verr.Message
		}
		m.event(log.LogEvent{Event: log.EventFieldRejected, SessionID: s.ID, Field: key})
		return Turn{Reply: reply}, nil
	}

	s.CandidateInfo[key] = value
	s.Pending = s.Pending[1:]
	m.event(log.LogEvent{Event: log.EventFieldAccepted, SessionID: s.ID, Field: key})

	if len(s.Pending) > 0 {
		ack := m.fieldAck(ctx, s, f)
		return Turn{Reply: joinParagraphs(ack, m.currentPrompt(s))}, nil
	}
	return m.startQuestions(ctx, s, f)
}

// startQuestions fills the queue and enters AskingQuestions. The queue is
// set before the stage changes so AskingQuestions never sees it empty.
func (m *Machine) startQuestions(ctx context.Context, s *Session, last FieldExtractor) (Turn, error) {
	questions, fallback := m.generateQuestions(ctx, s)
	if len(questions) == 0 {
		return Turn{}, &ProtocolError{SessionID: s.ID, Stage: s.Stage, Reason: "no questions to ask"}
	}

	s.setQueue(questions)
	s.UsedFallback = fallback
	if err := s.moveTo(StageAskingQuestions); err != nil {
		s.Queue, s.QueueTechs = nil, nil
		return Turn{}, err
	}

	ack := staticFieldAck(last.Key(), s.CandidateInfo)
	return Turn{Reply: joinParagraphs(ack, questionsIntroMsg, m.currentPrompt(s))}, nil
}

func (m *Machine) handleAnswer(ctx context.Context, s *Session, input string) (Turn, error) {
	if !s.ConsentGiven {
		return Turn{}, &ProtocolError{SessionID: s.ID, Stage: s.Stage, Reason: "answer without consent"}
	}

	question, tech := s.popQuestion()
	s.Answers = append(s.Answers, QA{Question: question, Answer: input, Tech: tech})

	if len(s.Queue) == 0 {
		return m.finish(ctx, s)
	}

	ack := m.answerAck(ctx, s, question, input)
	return Turn{Reply: joinParagraphs(ack, m.currentPrompt(s))}, nil
}

// finish moves to Completed and issues the save directive. This is the only
// path into Completed, so the directive is issued once per session.
func (m *Machine) finish(ctx context.Context, s *Session) (Turn, error) {
	if err := s.moveTo(StageCompleted); err != nil {
		return Turn{}, err
	}
	s.CompletedAt = m.now()

	rec := m.record(s)
	m.event(log.LogEvent{
		Event:      log.EventInterviewCompleted,
		SessionID:  s.ID,
		Count:      len(s.Answers),
		DurationMs: s.CompletedAt.Sub(s.StartedAt).Milliseconds(),
	})

	turn := Turn{
		Reply:     m.texts.completed,
		Directive: DirectiveSaveCandidateRecord,
		Record:    rec,
	}
	if m.store == nil {
		return turn, nil
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	id, err := m.store.Save(saveCtx, rec)
	if err != nil {
		m.logger.Error("save candidate record", "session", s.ID, "error", err)
		m.event(log.LogEvent{Event: log.EventRecordSaveFailed, SessionID: s.ID, Error: err.Error()})
		turn.Reply = joinParagraphs(turn.Reply, saveFailedMsg)
		return turn, nil
	}

	s.RecordID = id
	rec.ID = id
	turn.RecordID = id
	m.event(log.LogEvent{Event: log.EventRecordSaved, SessionID: s.ID, RecordID: id})
	return turn, nil
}

// record builds the persisted view of a completed session.
func (m *Machine) record(s *Session) *store.CandidateRecord {
	info := make(map[string]string, len(s.CandidateInfo))
	for k, v := range s.CandidateInfo {
		info[k] = v
	}
	answers := make([]store.QA, len(s.Answers))
	for i, qa := range s.Answers {
		answers[i] = store.QA{Question: qa.Question, Answer: qa.Answer, Tech: qa.Tech}
	}
	return &store.CandidateRecord{
		SessionID:     s.ID,
		CandidateInfo: info,
		Answers:       answers,
		ConsentGiven:  s.ConsentGiven,
		ConsentAt:     s.ConsentAt,
		Timestamp:     s.CompletedAt,
	}
}

// currentPrompt is the question the session is waiting on.
func (m *Machine) currentPrompt(s *Session) string {
	switch s.Stage {
	case StageAwaitingConsent:
		return consentQuestionMsg
	case StageCollectingInfo:
		if len(s.Pending) > 0 {
			if f := m.field(s.Pending[0]); f != nil {
				return f.Prompt()
			}
		}
	case StageAskingQuestions:
		if len(s.Queue) > 0 {
			n := len(s.Answers) + 1
			total := len(s.Answers) + len(s.Queue)
			return fmt.Sprintf("Question %d of %d: %s", n, total, s.Queue[0])
		}
	}
	return ""
}

func (m *Machine) closed(s *Session) Turn {
	reply := closedCompletedMsg
	if s.Stage == StageDeclined {
		reply = closedDeclinedMsg
	}
	return Turn{Reply: reply, Stage: s.Stage, Directive: DirectiveNone}
}

func (m *Machine) failClosed(s *Session, err error) Turn {
	turn := Turn{Reply: protocolFailureMsg, Directive: DirectiveNone, Err: err}
	ev := log.LogEvent{Event: log.EventProtocolViolation, Error: err.Error()}
	if s != nil {
		turn.Stage = s.Stage
		ev.SessionID = s.ID
		ev.Stage = string(s.Stage)
	}
	m.logger.Error("interview protocol violation", "error", err)
	m.event(ev)
	return turn
}

func (m *Machine) field(key string) FieldExtractor {
	for _, f := range m.fields {
		if f.Key() == key {
			return f
		}
	}
	return nil
}

// event appends to the event log when one is configured.
func (m *Machine) event(ev log.LogEvent) {
	if m.events == nil {
		return
	}
	if err := m.events.Append(ev); err != nil {
		m.logger.Warn("append event", "event", ev.Event, "error", err)
	}
}

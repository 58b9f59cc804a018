// Package interview implements the candidate screening conversation.
// This file defines the per-session state the machine mutates.
package interview

import (
	"time"
)

// Stage is one step of the interview's top-level progress.
type Stage string

const (
	StageAwaitingConsent Stage = "awaiting_consent"
	StageCollectingInfo  Stage = "collecting_info"
	StageAskingQuestions Stage = "asking_questions"
	StageCompleted       Stage = "completed"
	StageDeclined        Stage = "declined"
)

// rank orders stages for the forward-only check. Declined and
// CollectingInfo share a rank: each is reachable only from AwaitingConsent.
func (s Stage) rank() int {
	switch s {
	case StageAwaitingConsent:
		return 0
	case StageCollectingInfo, StageDeclined:
		return 1
	case StageAskingQuestions:
		return 2
	case StageCompleted:
		return 3
	}
	return -1
}

// Terminal reports whether no further input changes the session.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageDeclined
}

// canMoveTo reports whether next is a legal successor of s.
func (s Stage) canMoveTo(next Stage) bool {
	switch s {
	case StageAwaitingConsent:
		return next == StageCollectingInfo || next == StageDeclined
	case StageCollectingInfo:
		return next == StageAskingQuestions
	case StageAskingQuestions:
		return next == StageCompleted
	}
	return false
}

// Role identifies who sent a message.
type Role string

const (
	RoleBot  Role = "bot"
	RoleUser Role = "user"
)

// Message is one entry of the conversation history.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// QA pairs a question that was sent with the answer received. Tech is the
// technology the question targets, when known.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Tech     string `json:"tech,omitempty"`
}

// Session is one interview instance. It is owned by a single conversation
// and must not be advanced concurrently.
type Session struct {
	ID            string            `json:"session_id"`
	Stage         Stage             `json:"stage"`
	ConsentGiven  bool              `json:"consent_given"`
	ConsentAt     time.Time         `json:"consent_at,omitempty"`
	Reprompts     int               `json:"reprompts"`
	CandidateInfo map[string]string `json:"candidate_info"`
	Pending       []string          `json:"pending_fields"`
	Queue         []string          `json:"question_queue"`
	QueueTechs    []string          `json:"question_techs,omitempty"`
	Answers       []QA              `json:"answers"`
	History       []Message         `json:"history"`
	UsedFallback  bool              `json:"used_fallback,omitempty"`
	RecordID      string            `json:"record_id,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
	CompletedAt   time.Time         `json:"completed_at,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	cp := *s
	cp.CandidateInfo = make(map[string]string, len(s.CandidateInfo))
	for k, v := range s.CandidateInfo {
		cp.CandidateInfo[k] = v
	}
	cp.Pending = append([]string(nil), s.Pending...)
	cp.Queue = append([]string(nil), s.Queue...)
	cp.QueueTechs = append([]string(nil), s.QueueTechs...)
	cp.Answers = append([]QA(nil), s.Answers...)
	cp.History = append([]Message(nil), s.History...)
	return &cp
}

// CurrentQuestion returns the question awaiting an answer, if any.
func (s *Session) CurrentQuestion() string {
	if s.Stage != StageAskingQuestions || len(s.Queue) == 0 {
		return ""
	}
	return s.Queue[0]
}

// LastBotMessage returns the most recent bot text in the history.
func (s *Session) LastBotMessage() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleBot {
			return s.History[i].Text
		}
	}
	return ""
}

// setQueue replaces the question queue. QueueTechs stays index-aligned
// with Queue.
func (s *Session) setQueue(questions []queuedQuestion) {
	s.Queue = make([]string, len(questions))
	s.QueueTechs = make([]string, len(questions))
	for i, q := range questions {
		s.Queue[i] = q.text
		s.QueueTechs[i] = q.tech
	}
}

// popQuestion removes the head of the queue. A queue set without techs
// yields an empty tech.
func (s *Session) popQuestion() (question, tech string) {
	question = s.Queue[0]
	s.Queue = s.Queue[1:]
	if len(s.QueueTechs) > 0 {
		tech = s.QueueTechs[0]
		s.QueueTechs = s.QueueTechs[1:]
	}
	return question, tech
}

func (s *Session) appendHistory(role Role, text string, at time.Time) {
	s.History = append(s.History, Message{Role: role, Text: text, At: at})
}

// moveTo advances the stage, refusing any transition outside the forward order.
func (s *Session) moveTo(next Stage) error {
	if !s.Stage.canMoveTo(next) || next.rank() < s.Stage.rank() {
		return &ProtocolError{SessionID: s.ID, Stage: s.Stage, Reason: "illegal transition to " + string(next)}
	}
	s.Stage = next
	return nil
}

// checkInvariants reports the first violated session invariant, if any.
func (s *Session) checkInvariants() error {
	fail := func(reason string) error {
		return &ProtocolError{SessionID: s.ID, Stage: s.Stage, Reason: reason}
	}
	switch s.Stage {
	case StageAwaitingConsent:
		if s.ConsentGiven {
			return fail("consent recorded before it was requested")
		}
	case StageCollectingInfo:
		if !s.ConsentGiven {
			return fail("collecting info without consent")
		}
		if len(s.Pending) == 0 {
			return fail("collecting info with no pending fields")
		}
	case StageAskingQuestions:
		if !s.ConsentGiven {
			return fail("asking questions without consent")
		}
		if len(s.Queue) == 0 {
			return fail("asking questions with an empty queue")
		}
	case StageCompleted, StageDeclined:
	default:
		return fail("unknown stage")
	}
	if s.CandidateInfo == nil {
		return fail("missing candidate info")
	}
	return nil
}

// Package store persists consented candidate records.
package store

import (
	"errors"
	"fmt"
	"time"
)

// QA is one asked question and the candidate's answer. Tech names the
// technology the question targets when it is known.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Tech     string `json:"tech,omitempty"`
}

// CandidateRecord is the persisted unit for one completed, consented interview.
type CandidateRecord struct {
	ID            string            `json:"id,omitempty"`
	SessionID     string            `json:"session_id"`
	CandidateInfo map[string]string `json:"candidate_info"`
	Answers       []QA              `json:"answers"`
	ConsentGiven  bool              `json:"consent_given"`
	ConsentAt     time.Time         `json:"consent_at"`
	Timestamp     time.Time         `json:"timestamp"`
	Anonymized    bool              `json:"anonymized,omitempty"`
}

// Summary is a listing view of a stored record.
type Summary struct {
	ID         string
	SessionID  string
	Name       string
	Email      string
	TechStack  string
	Answers    int
	Anonymized bool
	CreatedAt  time.Time
}

// Identifying fields replaced on anonymization.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldTechStack = "tech_stack"
)

var (
	// ErrConsentRequired is returned when saving a record without consent.
	ErrConsentRequired = errors.New("candidate consent is required")
	// ErrDuplicateSession is returned when a session was already saved.
	ErrDuplicateSession = errors.New("session already saved")
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")
)

// PersistenceError wraps any storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// anonymizedValues returns replacement values for identifying fields.
func anonymizedValues(id string) map[string]string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return map[string]string{
		FieldName:  "Anonymized User " + short,
		FieldEmail: "anonymized-" + short + "@example.com",
		FieldPhone: "0000000000",
	}
}

func checkSavable(rec *CandidateRecord) error {
	if rec == nil {
		return errors.New("nil record")
	}
	if !rec.ConsentGiven {
		return ErrConsentRequired
	}
	if rec.SessionID == "" {
		return errors.New("record has no session id")
	}
	return nil
}

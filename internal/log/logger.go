// Package log provides structured event logging.
// This file appends interview events to events.jsonl. Events carry
// identifiers and counts only, never candidate-supplied values.
package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventSessionStarted     = "session_started"
	EventConsentGiven       = "consent_given"
	EventConsentDeclined    = "consent_declined"
	EventConsentReprompted  = "consent_reprompted"
	EventFieldAccepted      = "field_accepted"
	EventFieldRejected      = "field_rejected"
	EventQuestionsGenerated = "questions_generated"
	EventGenerationRetry    = "generation_retry"
	EventQuestionsFallback  = "questions_fallback"
	EventInterviewCompleted = "interview_completed"
	EventRecordSaved        = "record_saved"
	EventRecordSaveFailed   = "record_save_failed"
	EventProtocolViolation  = "protocol_violation"
	EventRecordsAnonymized  = "records_anonymized"
)

// DirName is the per-project state directory.
const DirName = ".screenline"

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time       time.Time              `json:"time"`
	Event      string                 `json:"event"`
	SessionID  string                 `json:"session,omitempty"`
	Stage      string                 `json:"stage,omitempty"`
	Field      string                 `json:"field,omitempty"`
	RecordID   string                 `json:"record,omitempty"`
	Attempt    int                    `json:"attempt,omitempty"`
	Count      int                    `json:"count,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Logger writes append-only JSONL events to a log file.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to .screenline/events.jsonl inside dir.
// Creates the .screenline/ directory if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	stateDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", DirName, err)
	}

	return &Logger{
		path: filepath.Join(stateDir, "events.jsonl"),
	}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Append writes event as one JSON line. A zero Time is stamped with the
// current UTC time. Safe for concurrent use.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(event); err != nil {
		return fmt.Errorf("encode %s event: %w", event.Event, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	_, werr := buf.WriteTo(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append to event log: %w", werr)
	}
	return nil
}

// ReadAll returns every logged event. A missing log is empty, not an error.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	return l.ReadSince(time.Time{})
}

// ReadSince returns the events logged at or after since, in file order.
// A malformed line fails the whole read with its line number.
func (l *Logger) ReadSince(since time.Time) ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []LogEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	events := []LogEvent{}
	r := bufio.NewReader(f)
	for n := 1; ; n++ {
		line, err := r.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var event LogEvent
			if jerr := json.Unmarshal(trimmed, &event); jerr != nil {
				return nil, fmt.Errorf("event log line %d: %w", n, jerr)
			}
			if !event.Time.Before(since) {
				events = append(events, event)
			}
		}
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read event log: %w", err)
		}
	}
}

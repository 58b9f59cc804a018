package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps one row per candidate with JSON-encoded info and answers.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the SQLite database at dbPath and applies migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, persistErr("open", fmt.Errorf("create database directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, persistErr("open", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, persistErr("migrate", err)
	}

	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts rec as a new candidate row and returns its ID.
func (s *SQLiteStore) Save(ctx context.Context, rec *CandidateRecord) (string, error) {
	if err := checkSavable(rec); err != nil {
		return "", persistErr("save", err)
	}

	info, err := json.Marshal(rec.CandidateInfo)
	if err != nil {
		return "", persistErr("save", fmt.Errorf("marshal candidate info: %w", err))
	}
	answers := rec.Answers
	if answers == nil {
		answers = []QA{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", persistErr("save", fmt.Errorf("marshal answers: %w", err))
	}

	id := uuid.New().String()
	created := rec.Timestamp.UTC()
	if rec.Timestamp.IsZero() {
		created = s.now()
	}
	var consentAt sql.NullTime
	if !rec.ConsentAt.IsZero() {
		consentAt = sql.NullTime{Time: rec.ConsentAt.UTC(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO candidates (id, session_id, name, email, phone, tech_stack,
		        candidate_info, answers, consent_given, consent_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		id, rec.SessionID,
		rec.CandidateInfo[FieldName], rec.CandidateInfo[FieldEmail],
		rec.CandidateInfo[FieldPhone], rec.CandidateInfo[FieldTechStack],
		string(info), string(answersJSON), consentAt, created,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: candidates.session_id") {
			return "", persistErr("save", ErrDuplicateSession)
		}
		return "", persistErr("save", fmt.Errorf("insert candidate: %w", err))
	}

	return id, nil
}

// Get retrieves a record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*CandidateRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, candidate_info, answers, consent_given, consent_at, anonymized, created_at
		 FROM candidates WHERE id = ?`,
		id,
	)

	var (
		rec         CandidateRecord
		info        string
		answersJSON string
		consentAt   sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.SessionID, &info, &answersJSON, &rec.ConsentGiven, &consentAt, &rec.Anonymized, &rec.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistErr("get", ErrNotFound)
	}
	if err != nil {
		return nil, persistErr("get", fmt.Errorf("scan candidate: %w", err))
	}

	if err := json.Unmarshal([]byte(info), &rec.CandidateInfo); err != nil {
		return nil, persistErr("get", fmt.Errorf("decode candidate info: %w", err))
	}
	if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
		return nil, persistErr("get", fmt.Errorf("decode answers: %w", err))
	}
	if consentAt.Valid {
		rec.ConsentAt = consentAt.Time
	}

	return &rec, nil
}

// List returns summaries of the most recent records.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.querySummaries(ctx, "list",
		`SELECT id, session_id, name, email, tech_stack, answers, anonymized, created_at
		 FROM candidates
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
}

// Expired returns records created before cutoff that are not yet anonymized.
func (s *SQLiteStore) Expired(ctx context.Context, cutoff time.Time) ([]Summary, error) {
	return s.querySummaries(ctx, "expired",
		`SELECT id, session_id, name, email, tech_stack, answers, anonymized, created_at
		 FROM candidates
		 WHERE anonymized = 0 AND created_at < ?
		 ORDER BY created_at ASC`,
		cutoff.UTC(),
	)
}

func (s *SQLiteStore) querySummaries(ctx context.Context, op, query string, args ...any) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr(op, fmt.Errorf("query candidates: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var (
			sum         Summary
			answersJSON string
		)
		if err := rows.Scan(&sum.ID, &sum.SessionID, &sum.Name, &sum.Email, &sum.TechStack, &answersJSON, &sum.Anonymized, &sum.CreatedAt); err != nil {
			return nil, persistErr(op, fmt.Errorf("scan summary: %w", err))
		}
		var answers []QA
		if err := json.Unmarshal([]byte(answersJSON), &answers); err == nil {
			sum.Answers = len(answers)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, persistErr(op, fmt.Errorf("iterate rows: %w", err))
	}

	return summaries, nil
}

// Delete removes a record. Deleting a missing record returns ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return persistErr("delete", fmt.Errorf("delete candidate: %w", err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return persistErr("delete", fmt.Errorf("check rows affected: %w", err))
	}
	if n == 0 {
		return persistErr("delete", ErrNotFound)
	}
	return nil
}

// Anonymize replaces name, email and phone in both the indexed columns and
// the JSON candidate info. Answers and tech stack are kept.
func (s *SQLiteStore) Anonymize(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	repl := anonymizedValues(id)
	if rec.CandidateInfo == nil {
		rec.CandidateInfo = map[string]string{}
	}
	for k, v := range repl {
		if _, ok := rec.CandidateInfo[k]; ok {
			rec.CandidateInfo[k] = v
		}
	}
	info, err := json.Marshal(rec.CandidateInfo)
	if err != nil {
		return persistErr("anonymize", fmt.Errorf("marshal candidate info: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE candidates
		 SET name = ?, email = ?, phone = ?, candidate_info = ?, anonymized = 1
		 WHERE id = ?`,
		repl[FieldName], repl[FieldEmail], repl[FieldPhone], string(info), id,
	)
	if err != nil {
		return persistErr("anonymize", fmt.Errorf("update candidate: %w", err))
	}
	return nil
}

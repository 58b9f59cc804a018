package store

import (
	"context"
	"time"
)

// Store is the persistence gateway for candidate records. Every failure is
// a *PersistenceError.
type Store interface {
	// Save stores rec and returns its record ID. Records without consent
	// are refused.
	Save(ctx context.Context, rec *CandidateRecord) (string, error)
	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*CandidateRecord, error)
	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)
	// Delete removes a record entirely.
	Delete(ctx context.Context, id string) error
	// Expired lists records created before cutoff that still hold
	// identifying data.
	Expired(ctx context.Context, cutoff time.Time) ([]Summary, error)
	// Anonymize replaces identifying fields of a record.
	Anonymize(ctx context.Context, id string) error
	Close() error
}

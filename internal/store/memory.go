package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. Records are lost on exit.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*CandidateRecord
	now     func() time.Time

	// FailWith, when set, is returned (wrapped) by every Save.
	FailWith error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*CandidateRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, rec *CandidateRecord) (string, error) {
	if err := checkSavable(rec); err != nil {
		return "", persistErr("save", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return "", persistErr("save", m.FailWith)
	}
	for _, r := range m.records {
		if r.SessionID == rec.SessionID {
			return "", persistErr("save", ErrDuplicateSession)
		}
	}

	cp := copyRecord(rec)
	cp.ID = uuid.New().String()
	if cp.Timestamp.IsZero() {
		cp.Timestamp = m.now()
	}
	m.records[cp.ID] = cp
	return cp.ID, nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, id string) (*CandidateRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, persistErr("get", ErrNotFound)
	}
	return copyRecord(rec), nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, summarize(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return persistErr("delete", ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

// Expired implements Store.
func (m *MemoryStore) Expired(ctx context.Context, cutoff time.Time) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Summary
	for _, rec := range m.records {
		if !rec.Anonymized && rec.Timestamp.Before(cutoff) {
			out = append(out, summarize(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Anonymize implements Store.
func (m *MemoryStore) Anonymize(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return persistErr("anonymize", ErrNotFound)
	}
	for k, v := range anonymizedValues(id) {
		if _, ok := rec.CandidateInfo[k]; ok {
			rec.CandidateInfo[k] = v
		}
	}
	rec.Anonymized = true
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}

func summarize(rec *CandidateRecord) Summary {
	return Summary{
		ID:         rec.ID,
		SessionID:  rec.SessionID,
		Name:       rec.CandidateInfo[FieldName],
		Email:      rec.CandidateInfo[FieldEmail],
		TechStack:  rec.CandidateInfo[FieldTechStack],
		Answers:    len(rec.Answers),
		Anonymized: rec.Anonymized,
		CreatedAt:  rec.Timestamp,
	}
}

func copyRecord(rec *CandidateRecord) *CandidateRecord {
	cp := *rec
	cp.CandidateInfo = make(map[string]string, len(rec.CandidateInfo))
	for k, v := range rec.CandidateInfo {
		cp.CandidateInfo[k] = v
	}
	cp.Answers = append([]QA(nil), rec.Answers...)
	return &cp
}

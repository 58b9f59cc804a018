package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/screenline-dev/screenline/internal/store"
)

// saveMockRecord stores a consented record created at ts and returns its ID.
func saveMockRecord(t *testing.T, st store.Store, ts time.Time, name string) string {
	t.Helper()
	id, err := st.Save(context.Background(), &store.CandidateRecord{
		SessionID: "session-" + name,
		CandidateInfo: map[string]string{
			store.FieldName:      name,
			store.FieldEmail:     name + "@example.com",
			store.FieldPhone:     "555-0100",
			store.FieldTechStack: "Go",
		},
		Answers:      []store.QA{{Question: "What is Go?", Answer: "A language."}},
		ConsentGiven: true,
		ConsentAt:    ts,
		Timestamp:    ts,
	})
	if err != nil {
		t.Fatalf("saving mock record %s: %v", name, err)
	}
	return id
}

func TestPruneByAge_AnonymizesOldRecords(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	old := saveMockRecord(t, st, now.AddDate(0, 0, -60), "old")
	recent := saveMockRecord(t, st, now.AddDate(0, 0, -5), "recent")

	pruned, err := PruneByAge(ctx, st, 30, false)
	if err != nil {
		t.Fatalf("PruneByAge failed: %v", err)
	}

	if len(pruned) != 1 || pruned[0] != old {
		t.Errorf("expected pruned=[%s], got %v", old, pruned)
	}

	rec, err := st.Get(ctx, old)
	if err != nil {
		t.Fatalf("old record should still exist: %v", err)
	}
	if !rec.Anonymized || rec.CandidateInfo[store.FieldName] == "old" {
		t.Errorf("expected old record to be anonymized, got %+v", rec.CandidateInfo)
	}
	if len(rec.Answers) != 1 {
		t.Errorf("expected answers to be kept, got %d", len(rec.Answers))
	}

	rec, err = st.Get(ctx, recent)
	if err != nil {
		t.Fatalf("recent record should still exist: %v", err)
	}
	if rec.Anonymized || rec.CandidateInfo[store.FieldName] != "recent" {
		t.Errorf("expected recent record untouched, got %+v", rec.CandidateInfo)
	}
}

func TestPruneByAge_DryRun(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	old := saveMockRecord(t, st, time.Now().AddDate(0, 0, -60), "old")

	pruned, err := PruneByAge(ctx, st, 30, true)
	if err != nil {
		t.Fatalf("PruneByAge dry-run failed: %v", err)
	}

	if len(pruned) != 1 || pruned[0] != old {
		t.Errorf("expected pruned=[%s], got %v", old, pruned)
	}

	rec, _ := st.Get(ctx, old)
	if rec.Anonymized {
		t.Error("expected record to be untouched in dry-run")
	}
}

func TestPruneByAge_SkipsAnonymized(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	saveMockRecord(t, st, time.Now().AddDate(0, 0, -60), "old")

	if _, err := PruneByAge(ctx, st, 30, false); err != nil {
		t.Fatalf("first PruneByAge failed: %v", err)
	}
	pruned, err := PruneByAge(ctx, st, 30, false)
	if err != nil {
		t.Fatalf("second PruneByAge failed: %v", err)
	}

	if len(pruned) != 0 {
		t.Errorf("expected nothing left to prune, got %v", pruned)
	}
}

func TestPruneByAge_EmptyStore(t *testing.T) {
	pruned, err := PruneByAge(context.Background(), store.NewMemoryStore(), 30, false)
	if err != nil {
		t.Fatalf("expected nil error for empty store, got: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("expected empty pruned list, got %v", pruned)
	}
}

func TestPruneKeepRecent_KeepsCorrectCount(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	d1 := saveMockRecord(t, st, now.AddDate(0, 0, -4), "d1")
	d2 := saveMockRecord(t, st, now.AddDate(0, 0, -3), "d2")
	_ = saveMockRecord(t, st, now.AddDate(0, 0, -2), "d3")
	_ = saveMockRecord(t, st, now.AddDate(0, 0, -1), "d4")

	pruned, err := PruneKeepRecent(ctx, st, 2, false)
	if err != nil {
		t.Fatalf("PruneKeepRecent failed: %v", err)
	}

	if len(pruned) != 2 {
		t.Fatalf("expected 2 pruned, got %d: %v", len(pruned), pruned)
	}

	// The two oldest should be removed.
	if pruned[0] != d1 || pruned[1] != d2 {
		t.Errorf("expected pruned=[%s, %s], got %v", d1, d2, pruned)
	}

	remaining, _ := st.List(ctx, 0)
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining records, got %d", len(remaining))
	}
	if _, err := st.Get(ctx, d1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected %s to be deleted, got %v", d1, err)
	}
}

func TestPruneKeepRecent_KeepMoreThanExist(t *testing.T) {
	st := store.NewMemoryStore()
	saveMockRecord(t, st, time.Now().AddDate(0, 0, -1), "only")

	pruned, err := PruneKeepRecent(context.Background(), st, 5, false)
	if err != nil {
		t.Fatalf("PruneKeepRecent failed: %v", err)
	}

	if len(pruned) != 0 {
		t.Errorf("expected no pruned records, got %v", pruned)
	}
}

func TestPruneKeepRecent_DryRun(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	d1 := saveMockRecord(t, st, now.AddDate(0, 0, -3), "d1")
	saveMockRecord(t, st, now.AddDate(0, 0, -1), "d2")

	pruned, err := PruneKeepRecent(ctx, st, 1, true)
	if err != nil {
		t.Fatalf("PruneKeepRecent dry-run failed: %v", err)
	}

	if len(pruned) != 1 || pruned[0] != d1 {
		t.Errorf("expected pruned=[%s], got %v", d1, pruned)
	}

	remaining, _ := st.List(ctx, 0)
	if len(remaining) != 2 {
		t.Errorf("expected 2 records to remain in dry-run, got %d", len(remaining))
	}
}

// Package cleanup implements retention for stored candidate records.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/screenline-dev/screenline/internal/store"
)

// PruneByAge anonymizes records older than maxAgeDays that still carry
// identifying data. If dryRun is true, nothing is changed; the function only
// returns the IDs that would be anonymized. Returns the list of pruned IDs.
func PruneByAge(ctx context.Context, st store.Store, maxAgeDays int, dryRun bool) ([]string, error) {
	return pruneBefore(ctx, st, time.Now().AddDate(0, 0, -maxAgeDays), dryRun)
}

func pruneBefore(ctx context.Context, st store.Store, cutoff time.Time, dryRun bool) ([]string, error) {
	expired, err := st.Expired(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing expired records: %w", err)
	}

	var pruned []string
	for _, rec := range expired {
		if !dryRun {
			if err := st.Anonymize(ctx, rec.ID); err != nil {
				return pruned, fmt.Errorf("anonymizing %s: %w", rec.ID, err)
			}
		}
		pruned = append(pruned, rec.ID)
	}

	return pruned, nil
}

// PruneKeepRecent deletes all records except the most recent keep. If dryRun
// is true, no records are deleted. Returns the list of deleted IDs.
func PruneKeepRecent(ctx context.Context, st store.Store, keep int, dryRun bool) ([]string, error) {
	all, err := st.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	// List is newest first.
	if len(all) <= keep {
		return nil, nil
	}

	var pruned []string
	for i := len(all) - 1; i >= keep; i-- {
		rec := all[i]
		if !dryRun {
			if err := st.Delete(ctx, rec.ID); err != nil {
				return pruned, fmt.Errorf("deleting %s: %w", rec.ID, err)
			}
		}
		pruned = append(pruned, rec.ID)
	}

	return pruned, nil
}

// Package coverage tracks per-user topic exposure. Counters only ever
// increase: answered questions and tagged memories both count, skips
// never do.
package coverage

import (
	"context"
	"time"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/router"
	"github.com/abhisek/memora/internal/store"
)

// Tracker records tag exposure and scores pack coverage for ranking.
type Tracker struct {
	db  *store.DB
	cat *catalog.Catalog
	now func() time.Time
}

// NewTracker builds a Tracker over the given store and catalog.
func NewTracker(db *store.DB, cat *catalog.Catalog) *Tracker {
	return &Tracker{db: db, cat: cat, now: time.Now}
}

// RecordTagExposure increments the user's counter for each distinct
// tag. Tag strings are deduplicated but otherwise passed through
// unchanged: semantics are the classification collaborator's problem.
// Works for first-contact users: the account row is created on demand.
func (t *Tracker) RecordTagExposure(ctx context.Context, userID int64, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	// Coverage rows reference accounts.
	if _, err := t.db.GetOrCreateAccount(ctx, userID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		if err := t.db.IncrementCoverage(ctx, userID, tag, t.now()); err != nil {
			return err
		}
	}
	return nil
}

// TagCoverage returns the user's tag → count map.
func (t *Tracker) TagCoverage(ctx context.Context, userID int64) (map[string]int, error) {
	return t.db.TagCoverage(ctx, userID)
}

// PackCoverageScore returns the mean exposure count across the pack's
// represented tags, 0 when none seen. Used only for ranking.
func (t *Tracker) PackCoverageScore(ctx context.Context, userID int64, p catalog.Pack) (float64, error) {
	counts, err := t.db.TagCoverage(ctx, userID)
	if err != nil {
		return 0, err
	}
	return router.PackCoverageScore(t.cat, p, counts), nil
}

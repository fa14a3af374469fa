// Package followup offers at most one template follow-up prompt per
// answered memory.
package followup

import (
	"context"
	"time"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/store"
)

// Selector picks template follow-ups. No dynamic dispatch: follow-ups
// are a static ordered list on each question.
type Selector struct {
	db  *store.DB
	now func() time.Time
}

// NewSelector builds a Selector.
func NewSelector(db *store.DB) *Selector {
	return &Selector{db: db, now: time.Now}
}

// MaybeFollowup returns the question's first follow-up the first time
// it is called for a memory, and nothing on every later call. The
// per-memory offered flag is claimed atomically in the store, so
// repeated or concurrent calls can never hand out a second prompt.
func (s *Selector) MaybeFollowup(ctx context.Context, q catalog.Question, userID int64, memoryID string) (string, bool, error) {
	if len(q.Followups) == 0 {
		return "", false, nil
	}
	claimed, err := s.db.ClaimFollowup(ctx, memoryID, userID, q.ID, s.now())
	if err != nil {
		return "", false, err
	}
	if !claimed {
		return "", false, nil
	}
	return q.Followups[0], true, nil
}

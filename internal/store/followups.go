package store

import (
	"context"
	"fmt"
	"time"
)

// ClaimFollowup records that a follow-up was offered for a memory.
// Returns true when this call made the claim, false when a follow-up
// was already offered for the memory. INSERT OR IGNORE on the primary
// key makes the claim atomic.
func (db *DB) ClaimFollowup(ctx context.Context, memoryID string, userID int64, questionID string, now time.Time) (bool, error) {
	res, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO followups_offered (memory_id, user_id, question_id, offered_at)
		 VALUES (?, ?, ?, ?)`,
		memoryID, userID, questionID, msec(now))
	if err != nil {
		return false, fmt.Errorf("claim followup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim followup rows: %w", err)
	}
	return n == 1, nil
}

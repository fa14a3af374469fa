package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CoverageEntry is one per-user topic exposure counter.
type CoverageEntry struct {
	UserID     int64
	Tag        string
	Count      int
	LastUsedAt time.Time
}

// upsertCoverage increments a tag counter inside an existing
// transaction, creating the row on first exposure.
func upsertCoverage(ctx context.Context, tx *sql.Tx, userID int64, tag string, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO coverage (user_id, tag, count, last_used_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(user_id, tag) DO UPDATE SET
		   count = count + 1,
		   last_used_at = excluded.last_used_at`,
		userID, tag, msec(now))
	if err != nil {
		return fmt.Errorf("upsert coverage %q: %w", tag, err)
	}
	return nil
}

// IncrementCoverage increments a single tag counter outside any larger
// transaction (free-form intake path).
func (db *DB) IncrementCoverage(ctx context.Context, userID int64, tag string, now time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin coverage: %w", err)
	}
	defer tx.Rollback()

	if err := upsertCoverage(ctx, tx, userID, tag, now); err != nil {
		return err
	}
	return tx.Commit()
}

// TagCoverage returns tag → count for a user.
func (db *DB) TagCoverage(ctx context.Context, userID int64) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT tag, count FROM coverage WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("tag coverage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			tag string
			n   int
		)
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan coverage: %w", err)
		}
		out[tag] = n
	}
	return out, rows.Err()
}

// CoverageEntries returns the user's counters ordered by count
// descending, for progress display.
func (db *DB) CoverageEntries(ctx context.Context, userID int64) ([]CoverageEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT user_id, tag, count, last_used_at FROM coverage
		 WHERE user_id = ? ORDER BY count DESC, tag`, userID)
	if err != nil {
		return nil, fmt.Errorf("coverage entries: %w", err)
	}
	defer rows.Close()

	var out []CoverageEntry
	for rows.Next() {
		var (
			e    CoverageEntry
			used int64
		)
		if err := rows.Scan(&e.UserID, &e.Tag, &e.Count, &used); err != nil {
			return nil, fmt.Errorf("scan coverage entry: %w", err)
		}
		e.LastUsedAt = fromMsec(used)
		out = append(out, e)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LogStatus is the lifecycle state of a question log entry.
type LogStatus string

const (
	StatusAsked    LogStatus = "asked"
	StatusAnswered LogStatus = "answered"
	StatusSkipped  LogStatus = "skipped"
)

// LogEntry is one row of the append-only question log. Created when a
// question is issued; the status transitions to answered or skipped
// exactly once; entries are never deleted.
type LogEntry struct {
	ID               string
	UserID           int64
	QuestionID       string
	AskedAt          time.Time
	Status           LogStatus
	AnsweredMemoryID *string
}

const logColumns = `id, user_id, question_id, asked_at, status, answered_memory_id`

func scanLogEntry(row *sql.Row) (*LogEntry, error) {
	var (
		e      LogEntry
		asked  int64
		memory sql.NullString
	)
	err := row.Scan(&e.ID, &e.UserID, &e.QuestionID, &asked, &e.Status, &memory)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.AskedAt = fromMsec(asked)
	if memory.Valid {
		e.AnsweredMemoryID = &memory.String
	}
	return &e, nil
}

// PendingEntry returns the user's single asked-status entry, or nil.
func (db *DB) PendingEntry(ctx context.Context, userID int64) (*LogEntry, error) {
	e, err := scanLogEntry(db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM question_log
		 WHERE user_id = ? AND status = 'asked'
		 ORDER BY asked_at DESC, id DESC LIMIT 1`, userID))
	if err != nil {
		return nil, fmt.Errorf("pending entry: %w", err)
	}
	return e, nil
}

// LatestEntry returns the most recently asked entry regardless of
// status, or nil if the user has never been asked anything.
func (db *DB) LatestEntry(ctx context.Context, userID int64) (*LogEntry, error) {
	e, err := scanLogEntry(db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM question_log
		 WHERE user_id = ?
		 ORDER BY asked_at DESC, id DESC LIMIT 1`, userID))
	if err != nil {
		return nil, fmt.Errorf("latest entry: %w", err)
	}
	return e, nil
}

// EntryByQuestion returns the user's latest log entry for a question,
// or nil if the question was never issued to them.
func (db *DB) EntryByQuestion(ctx context.Context, userID int64, questionID string) (*LogEntry, error) {
	e, err := scanLogEntry(db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM question_log
		 WHERE user_id = ? AND question_id = ?
		 ORDER BY asked_at DESC, id DESC LIMIT 1`, userID, questionID))
	if err != nil {
		return nil, fmt.Errorf("entry by question: %w", err)
	}
	return e, nil
}

// AskedQuestionIDs returns the set of question ids ever issued to the
// user.
func (db *DB) AskedQuestionIDs(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT question_id FROM question_log WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("asked ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan asked id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// AnsweredQuestionIDs returns the ids of questions the user answered.
func (db *DB) AnsweredQuestionIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT question_id FROM question_log
		 WHERE user_id = ? AND status = 'answered'`, userID)
	if err != nil {
		return nil, fmt.Errorf("answered ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answered id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByStatus returns how many of the user's log entries carry the
// given status.
func (db *DB) CountByStatus(ctx context.Context, userID int64, status LogStatus) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_log WHERE user_id = ? AND status = ?`,
		userID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by status: %w", err)
	}
	return n, nil
}

// IssueAsked inserts a new asked-status log entry, reserving quota in
// the same transaction when reserve is non-nil. A quota failure leaves
// both the counter and the log untouched.
func (db *DB) IssueAsked(ctx context.Context, e LogEntry, reserve *QuotaReserve) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin issue: %w", err)
	}
	defer tx.Rollback()

	if err := reserveQuota(ctx, tx, e.UserID, reserve); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO question_log (id, user_id, question_id, asked_at, status)
		 VALUES (?, ?, ?, ?, 'asked')`,
		e.ID, e.UserID, e.QuestionID, msec(e.AskedAt)); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return tx.Commit()
}

// ReplaceAsked marks the old entry skipped and inserts the replacement
// as a single transaction, so shuffle never leaves two pending entries
// or none.
func (db *DB) ReplaceAsked(ctx context.Context, oldEntryID string, e LogEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE question_log SET status = 'skipped' WHERE id = ? AND status = 'asked'`,
		oldEntryID); err != nil {
		return fmt.Errorf("skip old entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO question_log (id, user_id, question_id, asked_at, status)
		 VALUES (?, ?, ?, ?, 'asked')`,
		e.ID, e.UserID, e.QuestionID, msec(e.AskedAt)); err != nil {
		return fmt.Errorf("insert replacement entry: %w", err)
	}
	return tx.Commit()
}

// MarkAnswered resolves an entry to answered and increments coverage
// for each of the question's tags in the same transaction.
func (db *DB) MarkAnswered(ctx context.Context, entryID, memoryID string, userID int64, tags []string, now time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin answer: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE question_log SET status = 'answered', answered_memory_id = ?
		 WHERE id = ? AND status = 'asked'`,
		memoryID, entryID); err != nil {
		return fmt.Errorf("mark answered: %w", err)
	}
	for _, tag := range tags {
		if err := upsertCoverage(ctx, tx, userID, tag, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// MarkSkipped resolves an entry to skipped. Coverage is untouched.
func (db *DB) MarkSkipped(ctx context.Context, entryID string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE question_log SET status = 'skipped' WHERE id = ? AND status = 'asked'`,
		entryID)
	if err != nil {
		return fmt.Errorf("mark skipped: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Account is the per-user entitlement record.
type Account struct {
	UserID              int64
	IsPremium           bool
	PremiumUntil        *time.Time
	MemoriesCount       int
	ChaptersCount       int
	QuestionsAskedCount int
	CreatedAt           time.Time
}

// QuotaColumn names an account usage counter. Only these columns may be
// targeted by quota reservations.
type QuotaColumn string

const (
	ColMemories  QuotaColumn = "memories_count"
	ColChapters  QuotaColumn = "chapters_count"
	ColQuestions QuotaColumn = "questions_asked_count"
)

func validQuotaColumn(c QuotaColumn) bool {
	return c == ColMemories || c == ColChapters || c == ColQuestions
}

// QuotaReserve describes an atomic check-and-increment against one
// usage counter. A nil *QuotaReserve means no quota applies (premium).
type QuotaReserve struct {
	Column QuotaColumn
	Limit  int
}

// ErrQuotaExceeded is returned when a reservation would push a counter
// past its limit. Nothing is mutated in that case.
var ErrQuotaExceeded = fmt.Errorf("usage quota exceeded")

// GetOrCreateAccount fetches the account for a user, creating an empty
// free-tier record on first contact.
func (db *DB) GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error) {
	a, err := db.Account(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a != nil {
		return a, nil
	}

	now := time.Now()
	_, err = db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, created_at) VALUES (?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID, msec(now))
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return db.Account(ctx, userID)
}

// Account returns the account record, or nil if the user is unknown.
func (db *DB) Account(ctx context.Context, userID int64) (*Account, error) {
	var (
		a       Account
		premium int
		until   sql.NullInt64
		created int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT user_id, is_premium, premium_until, memories_count, chapters_count, questions_asked_count, created_at
		 FROM accounts WHERE user_id = ?`, userID,
	).Scan(&a.UserID, &premium, &until, &a.MemoriesCount, &a.ChaptersCount, &a.QuestionsAskedCount, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.IsPremium = premium != 0
	if until.Valid {
		t := fromMsec(until.Int64)
		a.PremiumUntil = &t
	}
	a.CreatedAt = fromMsec(created)
	return &a, nil
}

// reserveQuota performs the atomic check-and-increment for one counter
// inside the given transaction. The single UPDATE statement makes the
// check and the increment indivisible.
func reserveQuota(ctx context.Context, tx *sql.Tx, userID int64, r *QuotaReserve) error {
	if r == nil {
		return nil
	}
	if !validQuotaColumn(r.Column) {
		return fmt.Errorf("invalid quota column %q", r.Column)
	}
	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE accounts SET %s = %s + 1 WHERE user_id = ? AND %s < ?`,
			r.Column, r.Column, r.Column),
		userID, r.Limit)
	if err != nil {
		return fmt.Errorf("reserve quota: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve quota rows: %w", err)
	}
	if n == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// ReserveQuota performs a standalone check-and-increment in its own
// transaction. Callers that pair a reservation with another write use
// the reserve parameter of that write instead.
func (db *DB) ReserveQuota(ctx context.Context, userID int64, r *QuotaReserve) error {
	if r == nil {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reserve: %w", err)
	}
	defer tx.Rollback()

	if err := reserveQuota(ctx, tx, userID, r); err != nil {
		return err
	}
	return tx.Commit()
}

// ActivatePremium extends a user's premium period by the given number
// of days, starting from the later of now and the current expiry.
func (db *DB) ActivatePremium(ctx context.Context, userID int64, days int, now time.Time) (time.Time, error) {
	a, err := db.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}

	base := now
	if a.PremiumUntil != nil && a.PremiumUntil.After(now) {
		base = *a.PremiumUntil
	}
	until := base.AddDate(0, 0, days)

	_, err = db.ExecContext(ctx,
		`UPDATE accounts SET is_premium = 1, premium_until = ? WHERE user_id = ?`,
		msec(until), userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("activate premium: %w", err)
	}
	return until, nil
}

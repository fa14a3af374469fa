// Package entitlement enforces free-tier usage limits. Premium users
// pass every check without touching the counters.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/memora/internal/store"
)

// ErrUpgradeRequired is returned when a free user is at a usage limit.
// Nothing is mutated in that case.
var ErrUpgradeRequired = errors.New("subscription upgrade required")

// Kind names the resource being reserved.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindChapter  Kind = "chapter"
	KindQuestion Kind = "question"
)

// Limits holds the free-tier caps.
type Limits struct {
	FreeMemories  int
	FreeChapters  int
	FreeQuestions int
}

// DefaultLimits returns the product's free-tier caps.
func DefaultLimits() Limits {
	return Limits{
		FreeMemories:  5,
		FreeChapters:  1,
		FreeQuestions: 3,
	}
}

// Gate performs entitlement checks against the account record.
type Gate struct {
	db     *store.DB
	limits Limits
	now    func() time.Time
}

// NewGate builds a Gate with the given limits.
func NewGate(db *store.DB, limits Limits) *Gate {
	return &Gate{db: db, limits: limits, now: time.Now}
}

// ReservationFor returns the quota reservation to apply for a kind:
// nil when the user is premium (no counting), otherwise the counter
// column and its limit. A free user already at the limit is rejected
// here with ErrUpgradeRequired, before any routing work happens. The
// caller commits the reservation atomically with its own write via the
// store's reserve parameter; the single UPDATE there is the real
// enforcement, this check only fails fast.
func (g *Gate) ReservationFor(ctx context.Context, userID int64, kind Kind) (*store.QuotaReserve, error) {
	account, err := g.db.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.IsPremium && account.PremiumUntil != nil && account.PremiumUntil.After(g.now()) {
		return nil, nil
	}

	var (
		used    int
		reserve *store.QuotaReserve
	)
	switch kind {
	case KindMemory:
		used = account.MemoriesCount
		reserve = &store.QuotaReserve{Column: store.ColMemories, Limit: g.limits.FreeMemories}
	case KindChapter:
		used = account.ChaptersCount
		reserve = &store.QuotaReserve{Column: store.ColChapters, Limit: g.limits.FreeChapters}
	case KindQuestion:
		used = account.QuestionsAskedCount
		reserve = &store.QuotaReserve{Column: store.ColQuestions, Limit: g.limits.FreeQuestions}
	default:
		return nil, fmt.Errorf("unknown entitlement kind %q", kind)
	}
	if used >= reserve.Limit {
		return nil, ErrUpgradeRequired
	}
	return reserve, nil
}

// CheckAndReserve applies a reservation immediately, in its own
// transaction. Returns ErrUpgradeRequired at the limit.
func (g *Gate) CheckAndReserve(ctx context.Context, userID int64, kind Kind) error {
	reserve, err := g.ReservationFor(ctx, userID, kind)
	if err != nil {
		return err
	}
	if err := g.db.ReserveQuota(ctx, userID, reserve); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			return ErrUpgradeRequired
		}
		return err
	}
	return nil
}

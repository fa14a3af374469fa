// Package session owns the per-user interview state machine: IDLE or
// PENDING(question), backed by the append-only question log. All
// mutating operations for one user run inside that user's exclusive
// critical section; different users proceed fully in parallel.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/store"
)

var (
	// ErrAlreadyPending is returned when a question is issued while
	// another is still pending. The caller must resolve it first.
	ErrAlreadyPending = errors.New("a question is already pending")

	// ErrNotFound is returned for a question id that is unknown or was
	// never issued to the user. No state is mutated.
	ErrNotFound = errors.New("question not found")
)

// State is the per-user derived view the router and callers work from.
type State struct {
	// Pending is the single asked-status log entry, nil when IDLE.
	Pending *store.LogEntry

	// PendingQuestion is the catalog question behind Pending.
	PendingQuestion *catalog.Question

	// AskedIDs is the set of question ids ever issued to the user.
	AskedIDs map[string]bool

	// LastTags is the tag set of the most recently asked question,
	// used for no-repeat checks. Skipped questions still count.
	LastTags map[string]bool

	// ComfortAnswered is the number of comfort-pack questions answered.
	ComfortAnswered int
}

// Manager coordinates state transitions for all users.
type Manager struct {
	db  *store.DB
	cat *catalog.Catalog
	now func() time.Time

	mu      sync.Mutex
	users   map[int64]*sync.Mutex
	entropy *ulid.MonotonicEntropy
	entMu   sync.Mutex
}

// NewManager builds a Manager over the given store and catalog.
func NewManager(db *store.DB, cat *catalog.Catalog) *Manager {
	return &Manager{
		db:      db,
		cat:     cat,
		now:     time.Now,
		users:   make(map[int64]*sync.Mutex),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// WithLock runs fn inside the user's exclusive critical section. Every
// mutating operation, and any select that leads to an issue, must run
// through here so that two overlapping requests cannot both observe
// IDLE and both issue.
func (m *Manager) WithLock(userID int64, fn func() error) error {
	m.mu.Lock()
	lock, ok := m.users[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.users[userID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}

// newEntryID mints a sortable log entry id.
func (m *Manager) newEntryID() string {
	m.entMu.Lock()
	defer m.entMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(m.now()), m.entropy).String()
}

// LoadState materializes the user's interview state from the log.
func (m *Manager) LoadState(ctx context.Context, userID int64) (*State, error) {
	s := &State{LastTags: make(map[string]bool)}

	asked, err := m.db.AskedQuestionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.AskedIDs = asked

	pending, err := m.db.PendingEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		s.Pending = pending
		if q, ok := m.cat.Get(pending.QuestionID); ok {
			s.PendingQuestion = &q
		}
	}

	latest, err := m.db.LatestEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		if q, ok := m.cat.Get(latest.QuestionID); ok {
			for _, t := range q.Tags {
				s.LastTags[t] = true
			}
		}
	}

	answered, err := m.db.AnsweredQuestionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range answered {
		if q, ok := m.cat.Get(id); ok && catalog.IsComfort(q.Pack) {
			s.ComfortAnswered++
		}
	}

	return s, nil
}

// Issue transitions IDLE → PENDING(q), creating an asked-status log
// entry. The quota reservation, when non-nil, commits in the same
// transaction as the entry. Must run inside WithLock.
func (m *Manager) Issue(ctx context.Context, userID int64, q catalog.Question, reserve *store.QuotaReserve) (*store.LogEntry, error) {
	pending, err := m.db.PendingEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrAlreadyPending
	}

	entry := store.LogEntry{
		ID:         m.newEntryID(),
		UserID:     userID,
		QuestionID: q.ID,
		AskedAt:    m.now(),
		Status:     store.StatusAsked,
	}
	if err := m.db.IssueAsked(ctx, entry, reserve); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RecordAnswer transitions PENDING(q) → IDLE, linking the memory and
// incrementing coverage for each of q's tags in one transaction.
// Resolving an already-resolved question is an idempotent no-op: the
// question is returned with mutated=false and no error. Must run
// inside WithLock.
func (m *Manager) RecordAnswer(ctx context.Context, userID int64, questionID, memoryID string) (catalog.Question, bool, error) {
	q, entry, err := m.resolveTarget(ctx, userID, questionID)
	if err != nil {
		return catalog.Question{}, false, err
	}
	if entry.Status != store.StatusAsked {
		return q, false, nil
	}

	if err := m.db.MarkAnswered(ctx, entry.ID, memoryID, userID, q.Tags, m.now()); err != nil {
		return catalog.Question{}, false, err
	}
	return q, true, nil
}

// RecordSkip transitions PENDING(q) → IDLE without touching coverage.
// The skipped question's tags still count for no-repeat purposes, via
// its position as the latest log entry. Idempotent like RecordAnswer.
// Must run inside WithLock.
func (m *Manager) RecordSkip(ctx context.Context, userID int64, questionID string) (catalog.Question, bool, error) {
	q, entry, err := m.resolveTarget(ctx, userID, questionID)
	if err != nil {
		return catalog.Question{}, false, err
	}
	if entry.Status != store.StatusAsked {
		return q, false, nil
	}

	if err := m.db.MarkSkipped(ctx, entry.ID); err != nil {
		return catalog.Question{}, false, err
	}
	return q, true, nil
}

// Replace transitions PENDING(q) → PENDING(next): the old entry is
// marked skipped and the replacement issued in a single transaction.
// The caller has already routed next with the old question excluded;
// on routing failure the old question simply stays pending. Must run
// inside WithLock.
func (m *Manager) Replace(ctx context.Context, userID int64, oldEntryID string, next catalog.Question) (*store.LogEntry, error) {
	entry := store.LogEntry{
		ID:         m.newEntryID(),
		UserID:     userID,
		QuestionID: next.ID,
		AskedAt:    m.now(),
		Status:     store.StatusAsked,
	}
	if err := m.db.ReplaceAsked(ctx, oldEntryID, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// resolveTarget locates the question and the user's log entry for it.
func (m *Manager) resolveTarget(ctx context.Context, userID int64, questionID string) (catalog.Question, *store.LogEntry, error) {
	q, ok := m.cat.Get(questionID)
	if !ok {
		return catalog.Question{}, nil, fmt.Errorf("%w: %s", ErrNotFound, questionID)
	}
	entry, err := m.db.EntryByQuestion(ctx, userID, questionID)
	if err != nil {
		return catalog.Question{}, nil, err
	}
	if entry == nil {
		return catalog.Question{}, nil, fmt.Errorf("%w: %s was never issued", ErrNotFound, questionID)
	}
	return q, entry, nil
}

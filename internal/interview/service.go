// Package interview exposes the orchestration engine's operations to
// presentation layers: get the next question, answer, skip, shuffle.
// The shapes returned here are the wire contract regardless of
// transport.
package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/coverage"
	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/followup"
	"github.com/abhisek/memora/internal/router"
	"github.com/abhisek/memora/internal/session"
	"github.com/abhisek/memora/internal/store"
)

// ErrUnknownPack is returned when a pack override does not name one of
// the 13 fixed packs.
var ErrUnknownPack = errors.New("unknown pack")

// NextQuestion is the response shape for an issued question.
type NextQuestion struct {
	QuestionID         string             `json:"question_id"`
	Pack               catalog.Pack       `json:"pack"`
	Text               string             `json:"text"`
	Difficulty         catalog.Difficulty `json:"difficulty"`
	EmotionalIntensity catalog.Intensity  `json:"emotional_intensity"`
	Tags               []string           `json:"tags"`
	SuggestedFollowups []string           `json:"suggested_followups"`
}

// AnswerResult reports the outcome of recording an answer. Followup,
// when non-empty, is the single extra prompt offered for this memory.
type AnswerResult struct {
	Followup string `json:"followup,omitempty"`
}

// Service wires the catalog, router, session manager, entitlement gate
// and follow-up selector behind the wire contract.
type Service struct {
	cat       *catalog.Catalog
	db        *store.DB
	sessions  *session.Manager
	gate      *entitlement.Gate
	followups *followup.Selector
	tracker   *coverage.Tracker
}

// NewService builds the interview service.
func NewService(db *store.DB, cat *catalog.Catalog, limits entitlement.Limits) *Service {
	return &Service{
		cat:       cat,
		db:        db,
		sessions:  session.NewManager(db, cat),
		gate:      entitlement.NewGate(db, limits),
		followups: followup.NewSelector(db),
		tracker:   coverage.NewTracker(db, cat),
	}
}

// Catalog returns the loaded question catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.cat }

// Tracker returns the coverage tracker, for intake collaborators that
// record free-form tag exposure.
func (s *Service) Tracker() *coverage.Tracker { return s.tracker }

// Gate returns the entitlement gate.
func (s *Service) Gate() *entitlement.Gate { return s.gate }

// GetNextQuestion routes and issues the next question for a user.
// Possible failures: entitlement.ErrUpgradeRequired (free quota spent),
// router.ErrExhausted (no eligible question left),
// session.ErrAlreadyPending (previous question unresolved),
// ErrUnknownPack (bad override).
func (s *Service) GetNextQuestion(ctx context.Context, userID int64, pack catalog.Pack) (*NextQuestion, error) {
	if pack != "" && !catalog.ValidPack(pack) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPack, pack)
	}

	var out *NextQuestion
	err := s.sessions.WithLock(userID, func() error {
		state, err := s.sessions.LoadState(ctx, userID)
		if err != nil {
			return err
		}
		if state.Pending != nil {
			return session.ErrAlreadyPending
		}

		reserve, err := s.gate.ReservationFor(ctx, userID, entitlement.KindQuestion)
		if err != nil {
			return err
		}

		counts, err := s.tracker.TagCoverage(ctx, userID)
		if err != nil {
			return err
		}
		q, err := router.Select(router.Inputs{
			Catalog:         s.cat,
			AskedIDs:        state.AskedIDs,
			TagCoverage:     counts,
			LastTags:        state.LastTags,
			ComfortAnswered: state.ComfortAnswered,
			PackOverride:    pack,
		})
		if err != nil {
			return err
		}

		if _, err := s.sessions.Issue(ctx, userID, q, reserve); err != nil {
			if errors.Is(err, store.ErrQuotaExceeded) {
				return entitlement.ErrUpgradeRequired
			}
			return err
		}
		out = toNextQuestion(q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Answer records an answered memory against a question. Duplicate
// deliveries of the same answer are recognized via the already-resolved
// log entry and ignored: the call succeeds without mutating anything
// and without offering a second follow-up.
func (s *Service) Answer(ctx context.Context, userID int64, questionID, memoryID string) (*AnswerResult, error) {
	result := &AnswerResult{}
	err := s.sessions.WithLock(userID, func() error {
		q, mutated, err := s.sessions.RecordAnswer(ctx, userID, questionID, memoryID)
		if err != nil {
			return err
		}
		if !mutated {
			return nil
		}
		prompt, offered, err := s.followups.MaybeFollowup(ctx, q, userID, memoryID)
		if err != nil {
			return err
		}
		if offered {
			result.Followup = prompt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Pending returns the user's unresolved question, or nil when none is
// pending. Lets a client resume an interrupted session instead of
// bouncing off ErrAlreadyPending.
func (s *Service) Pending(ctx context.Context, userID int64) (*NextQuestion, error) {
	entry, err := s.db.PendingEntry(ctx, userID)
	if err != nil || entry == nil {
		return nil, err
	}
	q, ok := s.cat.Get(entry.QuestionID)
	if !ok {
		return nil, fmt.Errorf("pending question %s not in catalog", entry.QuestionID)
	}
	return toNextQuestion(q), nil
}

// Skip resolves the question as skipped. Coverage is untouched; the
// skipped question's tags still block immediate repeats.
func (s *Service) Skip(ctx context.Context, userID int64, questionID string) error {
	return s.sessions.WithLock(userID, func() error {
		_, _, err := s.sessions.RecordSkip(ctx, userID, questionID)
		return err
	})
}

// Shuffle replaces the pending question ("другой вопрос"): the current
// one is marked skipped and an alternative issued, atomically. When no
// alternative exists the pending question stays pending and
// router.ErrExhausted is returned. Shuffle never consumes quota — the
// user already paid for the question being replaced.
func (s *Service) Shuffle(ctx context.Context, userID int64) (*NextQuestion, error) {
	var out *NextQuestion
	err := s.sessions.WithLock(userID, func() error {
		state, err := s.sessions.LoadState(ctx, userID)
		if err != nil {
			return err
		}
		if state.Pending == nil {
			return fmt.Errorf("%w: nothing pending to shuffle", session.ErrNotFound)
		}

		counts, err := s.tracker.TagCoverage(ctx, userID)
		if err != nil {
			return err
		}
		next, err := router.Select(router.Inputs{
			Catalog:         s.cat,
			AskedIDs:        state.AskedIDs,
			TagCoverage:     counts,
			LastTags:        state.LastTags,
			ComfortAnswered: state.ComfortAnswered,
			ExcludeID:       state.Pending.QuestionID,
		})
		if err != nil {
			return err
		}

		if _, err := s.sessions.Replace(ctx, userID, state.Pending.ID, next); err != nil {
			return err
		}
		out = toNextQuestion(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toNextQuestion(q catalog.Question) *NextQuestion {
	return &NextQuestion{
		QuestionID:         q.ID,
		Pack:               q.Pack,
		Text:               q.Text,
		Difficulty:         q.Difficulty,
		EmotionalIntensity: q.EmotionalIntensity,
		Tags:               q.Tags,
		SuggestedFollowups: q.Followups,
	}
}

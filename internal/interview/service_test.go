package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/router"
	"github.com/abhisek/memora/internal/session"
	"github.com/abhisek/memora/internal/store"
)

func testService(t *testing.T, limits entitlement.Limits) (*Service, *store.DB) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load error: %v", err)
	}
	return NewService(db, cat, limits), db
}

// answerPending resolves the current pending question with a fresh
// memory id and returns it.
func answerPending(t *testing.T, s *Service, userID int64, questionID string, seq int) *AnswerResult {
	t.Helper()
	res, err := s.Answer(context.Background(), userID, questionID, fmt.Sprintf("mem-%d", seq))
	if err != nil {
		t.Fatalf("Answer(%s) error: %v", questionID, err)
	}
	return res
}

func TestGetNextQuestionFreshUser(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())

	q, err := s.GetNextQuestion(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetNextQuestion error: %v", err)
	}
	if q.QuestionID != "childhood_001" {
		t.Errorf("fresh user got %s, want childhood_001", q.QuestionID)
	}
	if q.Pack != catalog.PackChildhood {
		t.Errorf("pack = %s", q.Pack)
	}
	if q.Difficulty != catalog.DifficultyEasy || q.EmotionalIntensity != catalog.IntensityLow {
		t.Errorf("fresh user got %s/%s, want easy/low", q.Difficulty, q.EmotionalIntensity)
	}
	if len(q.SuggestedFollowups) == 0 {
		t.Error("childhood_001 should carry follow-up templates")
	}
}

func TestGetNextQuestionWhilePending(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	if _, err := s.GetNextQuestion(ctx, 1, ""); err != nil {
		t.Fatal(err)
	}
	_, err := s.GetNextQuestion(ctx, 1, "")
	if !errors.Is(err, session.ErrAlreadyPending) {
		t.Fatalf("error = %v, want ErrAlreadyPending", err)
	}
}

func TestGetNextQuestionUnknownPack(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())

	_, err := s.GetNextQuestion(context.Background(), 1, "retirement")
	if !errors.Is(err, ErrUnknownPack) {
		t.Fatalf("error = %v, want ErrUnknownPack", err)
	}
}

func TestRoutingAvoidsLastTags(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	q1, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	answerPending(t, s, 1, q1.QuestionID, 1)

	// childhood_001 carries home+childhood: the next question must come
	// from the now least-covered pack and share no tag with the last.
	q2, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if q2.QuestionID != "parents_home_001" {
		t.Errorf("second question = %s, want parents_home_001", q2.QuestionID)
	}
	for _, tag := range q2.Tags {
		if tag == "home" || tag == "childhood" {
			t.Errorf("second question repeats tag %q", tag)
		}
	}
}

func TestFreeUserQuestionLimit(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		q, err := s.GetNextQuestion(ctx, 1, "")
		if err != nil {
			t.Fatalf("question %d error: %v", i, err)
		}
		answerPending(t, s, 1, q.QuestionID, i)
	}

	_, err := s.GetNextQuestion(ctx, 1, "")
	if !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("4th question error = %v, want ErrUpgradeRequired", err)
	}
}

func TestPremiumUserBeyondFreeLimit(t *testing.T) {
	s, db := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	if _, err := db.ActivatePremium(ctx, 1, 90, time.Now()); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 6; i++ {
		q, err := s.GetNextQuestion(ctx, 1, "")
		if err != nil {
			t.Fatalf("premium question %d error: %v", i, err)
		}
		answerPending(t, s, 1, q.QuestionID, i)
	}

	a, err := db.Account(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.QuestionsAskedCount != 0 {
		t.Errorf("premium user counter = %d, want untouched 0", a.QuestionsAskedCount)
	}
}

func TestAnswerIdempotent(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	q, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}

	first, err := s.Answer(ctx, 1, q.QuestionID, "mem-1")
	if err != nil {
		t.Fatal(err)
	}
	if first.Followup == "" {
		t.Error("first answer to childhood_001 should offer a follow-up")
	}

	// Duplicate delivery: success, no second follow-up, no coverage
	// double-count.
	second, err := s.Answer(ctx, 1, q.QuestionID, "mem-1")
	if err != nil {
		t.Fatalf("duplicate Answer error: %v", err)
	}
	if second.Followup != "" {
		t.Errorf("duplicate answer offered follow-up %q", second.Followup)
	}

	counts, err := s.Tracker().TagCoverage(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range q.Tags {
		if counts[tag] != 1 {
			t.Errorf("coverage[%s] = %d, want 1", tag, counts[tag])
		}
	}
}

func TestAnswerUnknownQuestion(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())

	_, err := s.Answer(context.Background(), 1, "nope_001", "mem-1")
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSkipLeavesCoverageUntouched(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	q, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Skip(ctx, 1, q.QuestionID); err != nil {
		t.Fatalf("Skip error: %v", err)
	}

	counts, err := s.Tracker().TagCoverage(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Errorf("coverage after skip = %v, want empty", counts)
	}

	// The skipped question never comes back.
	next, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if next.QuestionID == q.QuestionID {
		t.Errorf("skipped question %s was re-issued", q.QuestionID)
	}
}

func TestShuffleReplacesWithoutQuota(t *testing.T) {
	s, db := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	q, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}

	alt, err := s.Shuffle(ctx, 1)
	if err != nil {
		t.Fatalf("Shuffle error: %v", err)
	}
	if alt.QuestionID == q.QuestionID {
		t.Errorf("shuffle re-issued %s", q.QuestionID)
	}

	// The replaced question is resolved as skipped and the replacement
	// is the single pending one.
	entry, err := db.PendingEntry(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || entry.QuestionID != alt.QuestionID {
		t.Fatalf("pending = %+v, want %s", entry, alt.QuestionID)
	}
	old, err := db.EntryByQuestion(ctx, 1, q.QuestionID)
	if err != nil {
		t.Fatal(err)
	}
	if old.Status != store.StatusSkipped {
		t.Errorf("replaced question status = %s, want skipped", old.Status)
	}

	// One question issued, one shuffle: only one quota unit spent.
	a, err := db.Account(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.QuestionsAskedCount != 1 {
		t.Errorf("counter = %d after shuffle, want 1", a.QuestionsAskedCount)
	}
}

func TestShuffleNothingPending(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())

	_, err := s.Shuffle(context.Background(), 1)
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestExhaustionFallsThrough(t *testing.T) {
	// Generous limits, tiny pack: forcing the same pack repeatedly
	// runs it dry and reports exhaustion.
	s, _ := testService(t, entitlement.Limits{FreeMemories: 100, FreeChapters: 100, FreeQuestions: 100})
	ctx := context.Background()

	packSize := len(s.Catalog().ByPack(catalog.PackFavorites))
	for i := 1; i <= packSize; i++ {
		q, err := s.GetNextQuestion(ctx, 1, catalog.PackFavorites)
		if err != nil {
			t.Fatalf("question %d error: %v", i, err)
		}
		answerPending(t, s, 1, q.QuestionID, i)
	}

	_, err := s.GetNextQuestion(ctx, 1, catalog.PackFavorites)
	if !errors.Is(err, router.ErrExhausted) {
		t.Fatalf("error = %v, want ErrExhausted", err)
	}
}

func TestSensitivePacksGatedInRouting(t *testing.T) {
	s, _ := testService(t, entitlement.Limits{FreeMemories: 100, FreeChapters: 100, FreeQuestions: 100})
	ctx := context.Background()

	// Before the comfort warmup completes, open routing never lands on
	// a sensitive pack.
	for i := 1; i <= router.ComfortWarmupAnswers; i++ {
		q, err := s.GetNextQuestion(ctx, 1, "")
		if err != nil {
			t.Fatalf("question %d error: %v", i, err)
		}
		if catalog.IsSensitive(q.Pack) {
			t.Errorf("question %d from sensitive pack %s before warmup", i, q.Pack)
		}
		answerPending(t, s, 1, q.QuestionID, i)
	}
}

func TestSensitiveOverrideAlwaysAllowed(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())

	q, err := s.GetNextQuestion(context.Background(), 1, catalog.PackHardships)
	if err != nil {
		t.Fatalf("explicit sensitive pack error: %v", err)
	}
	if q.Pack != catalog.PackHardships {
		t.Errorf("pack = %s, want hardships", q.Pack)
	}
}

func TestProgress(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	q, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	answerPending(t, s, 1, q.QuestionID, 1)
	q2, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Skip(ctx, 1, q2.QuestionID); err != nil {
		t.Fatal(err)
	}

	p, err := s.Progress(ctx, 1)
	if err != nil {
		t.Fatalf("Progress error: %v", err)
	}
	if p.Answered != 1 || p.Skipped != 1 || p.Asked != 2 {
		t.Errorf("progress = answered %d skipped %d asked %d, want 1/1/2", p.Answered, p.Skipped, p.Asked)
	}
	if p.IsPremium {
		t.Error("free user reported premium")
	}
	if len(p.Packs) != 13 {
		t.Fatalf("packs = %d, want 13", len(p.Packs))
	}
	var childhood PackProgress
	for _, pp := range p.Packs {
		if pp.Pack == catalog.PackChildhood {
			childhood = pp
		}
	}
	if childhood.Asked != 1 {
		t.Errorf("childhood asked = %d, want 1", childhood.Asked)
	}
	if childhood.Score == 0 {
		t.Error("childhood score still 0 after an answered question")
	}
}

func TestPendingReturnsIssuedQuestion(t *testing.T) {
	s, _ := testService(t, entitlement.DefaultLimits())
	ctx := context.Background()

	if q, err := s.Pending(ctx, 1); err != nil || q != nil {
		t.Fatalf("Pending fresh user = (%v, %v), want (nil, nil)", q, err)
	}

	issued, err := s.GetNextQuestion(ctx, 1, "")
	if err != nil {
		t.Fatalf("GetNextQuestion error: %v", err)
	}

	pending, err := s.Pending(ctx, 1)
	if err != nil {
		t.Fatalf("Pending error: %v", err)
	}
	if pending == nil || pending.QuestionID != issued.QuestionID {
		t.Fatalf("Pending = %+v, want question %s", pending, issued.QuestionID)
	}
	if pending.Text != issued.Text {
		t.Errorf("Pending text = %q, want %q", pending.Text, issued.Text)
	}

	answerPending(t, s, 1, issued.QuestionID, 1)
	if q, err := s.Pending(ctx, 1); err != nil || q != nil {
		t.Fatalf("Pending after answer = (%v, %v), want (nil, nil)", q, err)
	}
}

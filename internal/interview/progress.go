package interview

import (
	"context"
	"time"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/router"
	"github.com/abhisek/memora/internal/store"
)

// PackProgress is one pack's coverage standing.
type PackProgress struct {
	Pack      catalog.Pack `json:"pack"`
	Score     float64      `json:"score"`
	Asked     int          `json:"asked"`
	Remaining int          `json:"remaining"`
}

// Progress summarizes a user's interview journey.
type Progress struct {
	UserID       int64          `json:"user_id"`
	IsPremium    bool           `json:"is_premium"`
	PremiumUntil *time.Time     `json:"premium_until,omitempty"`
	Memories     int            `json:"memories"`
	Asked        int            `json:"asked"`
	Answered     int            `json:"answered"`
	Skipped      int            `json:"skipped"`
	Packs        []PackProgress `json:"packs"`
}

// Progress builds the per-user summary used by the stats command and
// the progress endpoint.
func (s *Service) Progress(ctx context.Context, userID int64) (*Progress, error) {
	account, err := s.db.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Progress{
		UserID:       userID,
		PremiumUntil: account.PremiumUntil,
	}
	p.IsPremium = account.IsPremium && account.PremiumUntil != nil && account.PremiumUntil.After(time.Now())

	if p.Memories, err = s.db.MemoriesCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.Answered, err = s.db.CountByStatus(ctx, userID, store.StatusAnswered); err != nil {
		return nil, err
	}
	if p.Skipped, err = s.db.CountByStatus(ctx, userID, store.StatusSkipped); err != nil {
		return nil, err
	}
	pending, err := s.db.CountByStatus(ctx, userID, store.StatusAsked)
	if err != nil {
		return nil, err
	}
	p.Asked = p.Answered + p.Skipped + pending

	asked, err := s.db.AskedQuestionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.tracker.TagCoverage(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, pack := range catalog.AllPacks() {
		pp := PackProgress{
			Pack:  pack,
			Score: router.PackCoverageScore(s.cat, pack, counts),
		}
		for _, q := range s.cat.ByPack(pack) {
			if asked[q.ID] {
				pp.Asked++
			} else {
				pp.Remaining++
			}
		}
		p.Packs = append(p.Packs, pp)
	}
	return p, nil
}

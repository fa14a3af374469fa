// Package router picks the next interview question for a user. Select
// is a pure function over values materialized by the catalog and the
// coverage tracker: no storage or network calls happen inside it.
package router

import (
	"errors"
	"sort"

	"github.com/abhisek/memora/internal/catalog"
)

// ErrExhausted signals that no eligible question remains under the
// current constraints. It is a normal outcome, not a failure: callers
// fall back to free-form recording.
var ErrExhausted = errors.New("question pool exhausted")

// ComfortWarmupAnswers is the number of answered comfort-pack questions
// required before sensitive packs enter the candidate pool.
const ComfortWarmupAnswers = 3

// Inputs is the materialized per-user view Select operates on.
type Inputs struct {
	// Catalog is the immutable question catalog.
	Catalog *catalog.Catalog

	// AskedIDs is the set of question ids ever issued to the user,
	// regardless of how they were resolved.
	AskedIDs map[string]bool

	// TagCoverage maps tag → exposure count for the user.
	TagCoverage map[string]int

	// LastTags is the tag set of the most recently asked question.
	LastTags map[string]bool

	// ComfortAnswered is the count of comfort-pack questions the user
	// has answered.
	ComfortAnswered int

	// PackOverride restricts selection to a single pack when non-empty.
	PackOverride catalog.Pack

	// ExcludeID removes one extra question from the pool (used by
	// shuffle to avoid re-issuing the question being replaced).
	ExcludeID string
}

// Select returns the next question for the user, or ErrExhausted when
// no unseen, gating-compliant question remains.
func Select(in Inputs) (catalog.Question, error) {
	pool := candidatePool(in)
	if len(pool) == 0 {
		return catalog.Question{}, ErrExhausted
	}

	if in.PackOverride == "" {
		pack := pickPack(in, pool)
		pool = filterByPack(pool, pack)
	}

	pool = preferDifficulty(pool)
	pool = preferIntensity(pool)
	pool = avoidLastTags(pool, in.LastTags)

	// Deterministic tie-break: lexicographically smallest id.
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool[0], nil
}

// candidatePool applies the first two stages: unseen questions,
// restricted to the override pack if given, with sensitive packs gated
// until the user has answered enough comfort-pack questions. Naming a
// sensitive pack explicitly bypasses the gate.
func candidatePool(in Inputs) []catalog.Question {
	gated := in.ComfortAnswered < ComfortWarmupAnswers

	var pool []catalog.Question
	for _, q := range in.Catalog.All() {
		if in.AskedIDs[q.ID] || q.ID == in.ExcludeID {
			continue
		}
		if in.PackOverride != "" {
			if q.Pack != in.PackOverride {
				continue
			}
		} else if gated && catalog.IsSensitive(q.Pack) {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}

// pickPack chooses among packs with at least one candidate: the one
// with the lowest coverage score wins, ties break by the fixed pack
// declaration order.
func pickPack(in Inputs, pool []catalog.Question) catalog.Pack {
	present := make(map[catalog.Pack]bool)
	for _, q := range pool {
		present[q.Pack] = true
	}

	best := catalog.Pack("")
	bestScore := 0.0
	for _, p := range catalog.AllPacks() {
		if !present[p] {
			continue
		}
		score := PackCoverageScore(in.Catalog, p, in.TagCoverage)
		if best == "" || score < bestScore {
			best = p
			bestScore = score
		}
	}
	return best
}

// PackCoverageScore returns the mean exposure count across the tags
// represented in a pack, 0 when the pack has none.
func PackCoverageScore(c *catalog.Catalog, p catalog.Pack, tagCoverage map[string]int) float64 {
	tags := c.PackTags(p)
	if len(tags) == 0 {
		return 0
	}
	total := 0
	for _, t := range tags {
		total += tagCoverage[t]
	}
	return float64(total) / float64(len(tags))
}

func filterByPack(pool []catalog.Question, p catalog.Pack) []catalog.Question {
	var out []catalog.Question
	for _, q := range pool {
		if q.Pack == p {
			out = append(out, q)
		}
	}
	return out
}

// preferDifficulty keeps only easy questions when any remain.
func preferDifficulty(pool []catalog.Question) []catalog.Question {
	var easy []catalog.Question
	for _, q := range pool {
		if q.Difficulty == catalog.DifficultyEasy {
			easy = append(easy, q)
		}
	}
	if len(easy) > 0 {
		return easy
	}
	return pool
}

// preferIntensity keeps only low-intensity questions when any remain.
func preferIntensity(pool []catalog.Question) []catalog.Question {
	var low []catalog.Question
	for _, q := range pool {
		if q.EmotionalIntensity == catalog.IntensityLow {
			low = append(low, q)
		}
	}
	if len(low) > 0 {
		return low
	}
	return pool
}

// avoidLastTags excludes candidates overlapping the last-asked tag set.
// Relaxation, not failure: when the filter would empty the pool it is
// skipped entirely.
func avoidLastTags(pool []catalog.Question, last map[string]bool) []catalog.Question {
	if len(last) == 0 {
		return pool
	}
	var out []catalog.Question
	for _, q := range pool {
		if !q.HasAnyTag(last) {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

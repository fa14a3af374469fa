package catalog

import (
	"fmt"
	"sort"
)

// Catalog is the immutable, process-wide set of interview questions,
// indexed for O(1) lookup by id and enumeration by pack.
type Catalog struct {
	questions []Question
	byID      map[string]*Question
	byPack    map[Pack][]Question
	packTags  map[Pack][]string
}

// New builds a Catalog from a slice of questions, validating every
// structural invariant. Any violation is fatal: the system must not run
// with a partial or inconsistent catalog.
func New(questions []Question) (*Catalog, error) {
	c := &Catalog{
		questions: questions,
		byID:      make(map[string]*Question, len(questions)),
		byPack:    make(map[Pack][]Question),
		packTags:  make(map[Pack][]string),
	}

	for i := range c.questions {
		q := &c.questions[i]
		if q.ID == "" {
			return nil, fmt.Errorf("question at index %d has empty id", i)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if !ValidPack(q.Pack) {
			return nil, fmt.Errorf("question %q references unknown pack %q", q.ID, q.Pack)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %q has empty text", q.ID)
		}
		if q.Difficulty != DifficultyEasy && q.Difficulty != DifficultyMedium {
			return nil, fmt.Errorf("question %q has invalid difficulty %q", q.ID, q.Difficulty)
		}
		if q.EmotionalIntensity != IntensityLow && q.EmotionalIntensity != IntensityMedium {
			return nil, fmt.Errorf("question %q has invalid emotional_intensity %q", q.ID, q.EmotionalIntensity)
		}
		if len(q.Tags) == 0 {
			return nil, fmt.Errorf("question %q has no tags", q.ID)
		}
		if len(q.Followups) > MaxFollowups {
			return nil, fmt.Errorf("question %q has %d follow-ups (max %d)", q.ID, len(q.Followups), MaxFollowups)
		}
		c.byID[q.ID] = q
		c.byPack[q.Pack] = append(c.byPack[q.Pack], *q)
	}

	c.indexPackTags()
	return c, nil
}

// indexPackTags precomputes the sorted set of tags represented in each
// pack, used by coverage scoring.
func (c *Catalog) indexPackTags() {
	for pack, questions := range c.byPack {
		seen := make(map[string]bool)
		for _, q := range questions {
			for _, t := range q.Tags {
				seen[t] = true
			}
		}
		tags := make([]string, 0, len(seen))
		for t := range seen {
			tags = append(tags, t)
		}
		sort.Strings(tags)
		c.packTags[pack] = tags
	}
}

// Get returns the question with the given id, or false if unknown.
func (c *Catalog) Get(id string) (Question, bool) {
	q, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return *q, true
}

// ByPack returns the questions belonging to a pack.
func (c *Catalog) ByPack(p Pack) []Question {
	return c.byPack[p]
}

// All returns every question in load order.
func (c *Catalog) All() []Question {
	return c.questions
}

// PackTags returns the sorted set of tags represented in a pack.
func (c *Catalog) PackTags(p Pack) []string {
	return c.packTags[p]
}

// Len returns the total number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

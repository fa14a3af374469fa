package catalog

// Difficulty grades how much recall effort a question demands.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
)

// Intensity grades the emotional weight of a question.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
)

// MaxFollowups is the maximum number of template follow-ups per question.
const MaxFollowups = 3

// Question is a single interview prompt. Questions are loaded once at
// startup and never mutated.
type Question struct {
	ID                 string     `json:"id"`
	Pack               Pack       `json:"pack"`
	Text               string     `json:"text"`
	Difficulty         Difficulty `json:"difficulty"`
	EmotionalIntensity Intensity  `json:"emotional_intensity"`
	Tags               []string   `json:"tags"`
	Followups          []string   `json:"followups"`
}

// HasAnyTag reports whether the question carries at least one of the
// given tags.
func (q Question) HasAnyTag(tags map[string]bool) bool {
	for _, t := range q.Tags {
		if tags[t] {
			return true
		}
	}
	return false
}

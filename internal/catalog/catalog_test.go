package catalog

import (
	"strings"
	"testing"
)

func validQuestion(id string, pack Pack) Question {
	return Question{
		ID:                 id,
		Pack:               pack,
		Text:               "Расскажите что-нибудь.",
		Difficulty:         DifficultyEasy,
		EmotionalIntensity: IntensityLow,
		Tags:               []string{"misc"},
	}
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Len() < 50 {
		t.Errorf("catalog has %d questions, want at least 50", c.Len())
	}
	for _, p := range AllPacks() {
		if n := len(c.ByPack(p)); n < 3 {
			t.Errorf("pack %s has %d questions, want at least 3", p, n)
		}
	}
}

func TestLoadRejectsBadEnum(t *testing.T) {
	raw := []byte(`[{
		"id": "x_001", "pack": "childhood", "text": "t",
		"difficulty": "brutal", "emotional_intensity": "low",
		"tags": ["a"], "followups": []
	}]`)
	if _, err := load(raw); err == nil {
		t.Fatal("expected schema validation error for bad difficulty")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr string
	}{
		{"empty id", func(q *Question) { q.ID = "" }, "empty id"},
		{"unknown pack", func(q *Question) { q.Pack = "retirement" }, "unknown pack"},
		{"empty text", func(q *Question) { q.Text = "" }, "empty text"},
		{"bad difficulty", func(q *Question) { q.Difficulty = "hard" }, "invalid difficulty"},
		{"bad intensity", func(q *Question) { q.EmotionalIntensity = "high" }, "invalid emotional_intensity"},
		{"no tags", func(q *Question) { q.Tags = nil }, "no tags"},
		{"too many followups", func(q *Question) {
			q.Followups = []string{"a", "b", "c", "d"}
		}, "follow-ups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion("q_001", PackChildhood)
			tt.mutate(&q)
			_, err := New([]Question{q})
			if err == nil {
				t.Fatalf("New accepted invalid question (%s)", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Question{
		validQuestion("q_001", PackChildhood),
		validQuestion("q_001", PackSchool),
	})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestPackTags(t *testing.T) {
	a := validQuestion("q_001", PackChildhood)
	a.Tags = []string{"home", "childhood"}
	b := validQuestion("q_002", PackChildhood)
	b.Tags = []string{"games", "home"}

	c, err := New([]Question{a, b})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	got := c.PackTags(PackChildhood)
	want := []string{"childhood", "games", "home"}
	if len(got) != len(want) {
		t.Fatalf("PackTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PackTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHasAnyTag(t *testing.T) {
	q := validQuestion("q_001", PackChildhood)
	q.Tags = []string{"home", "childhood"}

	if !q.HasAnyTag(map[string]bool{"home": true}) {
		t.Error("expected overlap on home")
	}
	if q.HasAnyTag(map[string]bool{"war": true}) {
		t.Error("unexpected overlap on war")
	}
	if q.HasAnyTag(nil) {
		t.Error("unexpected overlap on empty set")
	}
}

func TestPackClassification(t *testing.T) {
	if len(AllPacks()) != 13 {
		t.Fatalf("AllPacks() has %d entries, want 13", len(AllPacks()))
	}
	if AllPacks()[0] != PackChildhood {
		t.Errorf("first pack = %s, want childhood", AllPacks()[0])
	}

	for _, p := range AllPacks() {
		if !ValidPack(p) {
			t.Errorf("ValidPack(%s) = false", p)
		}
		if IsComfort(p) && IsSensitive(p) {
			t.Errorf("pack %s is both comfort and sensitive", p)
		}
	}
	if ValidPack("retirement") {
		t.Error("ValidPack accepted unknown pack")
	}

	comfort := []Pack{PackChildhood, PackParentsHome, PackTraditions, PackFavorites}
	for _, p := range comfort {
		if !IsComfort(p) {
			t.Errorf("IsComfort(%s) = false", p)
		}
	}
	sensitive := []Pack{PackHardships, PackLove, PackLaterYears}
	for _, p := range sensitive {
		if !IsSensitive(p) {
			t.Errorf("IsSensitive(%s) = false", p)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(PackChildhood); got != "Детство" {
		t.Errorf("DisplayName(childhood) = %q", got)
	}
	if got := DisplayName(Pack("mystery")); got != "mystery" {
		t.Errorf("DisplayName fallback = %q, want raw value", got)
	}
}

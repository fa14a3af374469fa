package config

import (
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MEMORA_DB", "/tmp/memora-test.db")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if s.DBPath != "/tmp/memora-test.db" {
		t.Errorf("DBPath = %q", s.DBPath)
	}
	if s.Addr != ":8787" {
		t.Errorf("Addr = %q, want :8787", s.Addr)
	}
	if s.Limits.FreeMemories != 5 || s.Limits.FreeChapters != 1 || s.Limits.FreeQuestions != 3 {
		t.Errorf("Limits = %+v, want 5/1/3", s.Limits)
	}
	if s.PremiumDays != 90 {
		t.Errorf("PremiumDays = %d, want 90", s.PremiumDays)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MEMORA_DB", "/tmp/memora-test.db")
	t.Setenv("MEMORA_ADDR", "127.0.0.1:9000")
	t.Setenv("MEMORA_FREE_QUESTIONS", "10")
	t.Setenv("MEMORA_PREMIUM_DAYS", "30")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if s.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", s.Addr)
	}
	if s.Limits.FreeQuestions != 10 {
		t.Errorf("FreeQuestions = %d, want 10", s.Limits.FreeQuestions)
	}
	if s.PremiumDays != 30 {
		t.Errorf("PremiumDays = %d, want 30", s.PremiumDays)
	}
}

func TestEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("MEMORA_FREE_QUESTIONS", "many")
	if got := envInt("MEMORA_FREE_QUESTIONS", 3); got != 3 {
		t.Errorf("envInt = %d, want fallback 3", got)
	}

	t.Setenv("MEMORA_FREE_QUESTIONS", "-1")
	if got := envInt("MEMORA_FREE_QUESTIONS", 3); got != 3 {
		t.Errorf("envInt(-1) = %d, want fallback 3", got)
	}
}

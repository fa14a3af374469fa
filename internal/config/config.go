// Package config assembles process configuration from environment
// variables with the MEMORA_ prefix.
package config

import (
	"os"
	"strconv"

	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/llm"
	"github.com/abhisek/memora/internal/store"
)

// DefaultPremiumDays is the length of one premium grant.
const DefaultPremiumDays = 90

// Settings is the resolved process configuration.
type Settings struct {
	// DBPath is the SQLite database file location.
	DBPath string

	// Addr is the HTTP API listen address.
	Addr string

	// Limits are the free-tier caps.
	Limits entitlement.Limits

	// PremiumDays is the duration of one premium grant in days.
	PremiumDays int

	// LLM configures the language-model providers.
	LLM llm.Config
}

// FromEnv resolves Settings from the environment, falling back to
// defaults for unset values.
func FromEnv() (Settings, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		DBPath:      dbPath,
		Addr:        ":8787",
		Limits:      entitlement.DefaultLimits(),
		PremiumDays: DefaultPremiumDays,
		LLM:         llm.ConfigFromEnv(),
	}

	if a := os.Getenv("MEMORA_ADDR"); a != "" {
		s.Addr = a
	}
	s.Limits.FreeMemories = envInt("MEMORA_FREE_MEMORIES", s.Limits.FreeMemories)
	s.Limits.FreeChapters = envInt("MEMORA_FREE_CHAPTERS", s.Limits.FreeChapters)
	s.Limits.FreeQuestions = envInt("MEMORA_FREE_QUESTIONS", s.Limits.FreeQuestions)
	s.PremiumDays = envInt("MEMORA_PREMIUM_DAYS", s.PremiumDays)

	return s, nil
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

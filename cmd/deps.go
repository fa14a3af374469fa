package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/config"
	"github.com/abhisek/memora/internal/intake"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/llm"
	"github.com/abhisek/memora/internal/store"
)

// engine bundles the dependencies shared by every subcommand: the
// resolved settings, the open database, the interview service, and
// the optional LLM intake pipeline.
type engine struct {
	settings config.Settings
	db       *store.DB
	svc      *interview.Service
	pipeline *intake.Pipeline
}

// openEngine resolves configuration, opens the store, and wires the
// interview service. The intake pipeline is only built when an LLM
// provider is configured; callers must handle a nil pipeline.
func openEngine(cmd *cobra.Command) (*engine, error) {
	settings, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	settings.DBPath = dbPath

	db, err := store.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	e := &engine{
		settings: settings,
		db:       db,
		svc:      interview.NewService(db, cat, settings.Limits),
	}

	if provider, perr := llm.NewProvider(settings.LLM); perr == nil {
		cleaner, cerr := llm.NewCleanProvider(settings.LLM)
		if cerr != nil {
			cleaner = provider
		}
		transcriber, terr := llm.NewTranscriber(settings.LLM)
		if terr != nil {
			transcriber = nil
		}
		e.pipeline = intake.NewPipeline(provider, cleaner, transcriber, e.svc, db, intake.DefaultConfig())
	}

	return e, nil
}

func (e *engine) Close() error {
	return e.db.Close()
}

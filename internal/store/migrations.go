package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "accounts: per-user entitlement state",
		SQL: `
CREATE TABLE accounts (
    user_id               INTEGER PRIMARY KEY,
    is_premium            INTEGER NOT NULL DEFAULT 0,
    premium_until         INTEGER,
    memories_count        INTEGER NOT NULL DEFAULT 0,
    chapters_count        INTEGER NOT NULL DEFAULT 0,
    questions_asked_count INTEGER NOT NULL DEFAULT 0,
    created_at            INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "question_log: append-only log of issued questions",
		SQL: `
CREATE TABLE question_log (
    id                 TEXT PRIMARY KEY,
    user_id            INTEGER NOT NULL REFERENCES accounts(user_id),
    question_id        TEXT NOT NULL,
    asked_at           INTEGER NOT NULL,
    status             TEXT NOT NULL DEFAULT 'asked' CHECK (status IN ('asked', 'answered', 'skipped')),
    answered_memory_id TEXT
);

CREATE INDEX idx_qlog_user        ON question_log(user_id, asked_at DESC);
CREATE INDEX idx_qlog_user_status ON question_log(user_id, status);
CREATE INDEX idx_qlog_question    ON question_log(user_id, question_id);
`,
	},
	{
		Version:     3,
		Description: "coverage: per-user topic exposure counters",
		SQL: `
CREATE TABLE coverage (
    user_id      INTEGER NOT NULL REFERENCES accounts(user_id),
    tag          TEXT NOT NULL,
    count        INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
    last_used_at INTEGER NOT NULL,
    PRIMARY KEY (user_id, tag)
);
`,
	},
	{
		Version:     4,
		Description: "followups_offered: at-most-one follow-up per memory",
		SQL: `
CREATE TABLE followups_offered (
    memory_id   TEXT PRIMARY KEY,
    user_id     INTEGER NOT NULL,
    question_id TEXT NOT NULL,
    offered_at  INTEGER NOT NULL
);
`,
	},
	{
		Version:     5,
		Description: "memories: recorded life memories from the intake pipeline",
		SQL: `
CREATE TABLE memories (
    id              TEXT PRIMARY KEY,
    user_id         INTEGER NOT NULL REFERENCES accounts(user_id),
    question_id     TEXT,
    raw_transcript  TEXT,
    cleaned_text    TEXT,
    title           TEXT,
    time_hint_type  TEXT NOT NULL DEFAULT 'unknown' CHECK (time_hint_type IN ('year', 'range', 'relative', 'unknown')),
    time_hint_value TEXT,
    tags            TEXT NOT NULL DEFAULT '[]',
    people          TEXT NOT NULL DEFAULT '[]',
    places          TEXT NOT NULL DEFAULT '[]',
    created_at      INTEGER NOT NULL
);

CREATE INDEX idx_memories_user ON memories(user_id, created_at);
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Memory is a recorded life memory produced by the intake pipeline.
type Memory struct {
	ID            string
	UserID        int64
	QuestionID    *string
	RawTranscript string
	CleanedText   string
	Title         string
	TimeHintType  string
	TimeHintValue string
	Tags          []string
	People        []string
	Places        []string
	CreatedAt     time.Time
}

// InsertMemory stores a memory, reserving memory quota in the same
// transaction when reserve is non-nil.
func (db *DB) InsertMemory(ctx context.Context, m Memory, reserve *QuotaReserve) error {
	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	people, err := json.Marshal(m.People)
	if err != nil {
		return fmt.Errorf("marshal people: %w", err)
	}
	places, err := json.Marshal(m.Places)
	if err != nil {
		return fmt.Errorf("marshal places: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin memory insert: %w", err)
	}
	defer tx.Rollback()

	if err := reserveQuota(ctx, tx, m.UserID, reserve); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO memories (id, user_id, question_id, raw_transcript, cleaned_text, title,
		                       time_hint_type, time_hint_value, tags, people, places, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.QuestionID, m.RawTranscript, m.CleanedText, m.Title,
		m.TimeHintType, m.TimeHintValue, string(tags), string(people), string(places),
		msec(m.CreatedAt)); err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return tx.Commit()
}

// Memory returns a memory by id, or nil if unknown.
func (db *DB) Memory(ctx context.Context, id string) (*Memory, error) {
	var (
		m        Memory
		question sql.NullString
		tags     string
		people   string
		places   string
		created  int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, question_id, raw_transcript, cleaned_text, title,
		        time_hint_type, time_hint_value, tags, people, places, created_at
		 FROM memories WHERE id = ?`, id,
	).Scan(&m.ID, &m.UserID, &question, &m.RawTranscript, &m.CleanedText, &m.Title,
		&m.TimeHintType, &m.TimeHintValue, &tags, &people, &places, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	if question.Valid {
		m.QuestionID = &question.String
	}
	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(people), &m.People); err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}
	if err := json.Unmarshal([]byte(places), &m.Places); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}
	m.CreatedAt = fromMsec(created)
	return &m, nil
}

// MemoriesCount returns how many memories a user has recorded.
func (db *DB) MemoriesCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count memories: %w", err)
	}
	return n, nil
}

package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/llm"
	"github.com/abhisek/memora/internal/store"
)

// ErrEmptyTranscript is returned when transcription or the submitted
// text yields nothing usable.
var ErrEmptyTranscript = errors.New("empty transcript")

// Pipeline runs the full intake flow for a submission.
type Pipeline struct {
	provider    llm.Provider
	cleaner     llm.Provider
	transcriber llm.Transcriber
	svc         *interview.Service
	db          *store.DB
	cfg         Config
	newID       func() string
	now         func() time.Time
}

// NewPipeline builds the intake pipeline on top of the interview
// service's store, gate and coverage tracker.
// The cleaner is the heavier model reserved for transcript cleaning;
// nil falls back to the classification provider.
func NewPipeline(provider, cleaner llm.Provider, transcriber llm.Transcriber, svc *interview.Service, db *store.DB, cfg Config) *Pipeline {
	if cleaner == nil {
		cleaner = provider
	}
	return &Pipeline{
		provider:    provider,
		cleaner:     cleaner,
		transcriber: transcriber,
		svc:         svc,
		db:          db,
		cfg:         cfg,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// IngestVoice transcribes a voice recording and runs the text flow on
// the transcript. questionID is empty for free-form submissions.
func (p *Pipeline) IngestVoice(ctx context.Context, userID int64, questionID, filename string, audio io.Reader) (*Result, error) {
	if p.transcriber == nil {
		return nil, fmt.Errorf("transcribe: no transcription provider configured")
	}
	transcript, err := p.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return p.ingest(ctx, userID, questionID, transcript)
}

// IngestText runs the intake flow on typed or transcribed text.
func (p *Pipeline) IngestText(ctx context.Context, userID int64, questionID, text string) (*Result, error) {
	return p.ingest(ctx, userID, questionID, text)
}

func (p *Pipeline) ingest(ctx context.Context, userID int64, questionID, transcript string) (*Result, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	questionText := ""
	if questionID != "" {
		q, ok := p.svc.Catalog().Get(questionID)
		if !ok {
			return nil, fmt.Errorf("unknown question %q", questionID)
		}
		questionText = q.Text
	}

	cleaned, err := p.clean(ctx, transcript, questionText)
	if err != nil {
		return nil, err
	}
	class, err := p.classify(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	reserve, err := p.svc.Gate().ReservationFor(ctx, userID, entitlement.KindMemory)
	if err != nil {
		return nil, err
	}

	m := store.Memory{
		ID:            p.newID(),
		UserID:        userID,
		RawTranscript: transcript,
		CleanedText:   cleaned,
		Title:         class.Title,
		TimeHintType:  class.TimeHint.Type,
		TimeHintValue: class.TimeHint.Value,
		Tags:          class.Tags,
		People:        class.People,
		Places:        class.Places,
		CreatedAt:     p.now(),
	}
	if questionID != "" {
		m.QuestionID = &questionID
	}
	if err := p.db.InsertMemory(ctx, m, reserve); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			return nil, entitlement.ErrUpgradeRequired
		}
		return nil, err
	}

	// Tagged memories count as topic exposure even on the free-form
	// path, so the router steers away from well-covered ground.
	if err := p.svc.Tracker().RecordTagExposure(ctx, userID, class.Tags...); err != nil {
		return nil, err
	}

	result := &Result{Memory: &m}
	if questionID != "" {
		answer, err := p.svc.Answer(ctx, userID, questionID, m.ID)
		if err != nil {
			return nil, err
		}
		result.Followup = answer.Followup
	}
	return result, nil
}

func (p *Pipeline) clean(ctx context.Context, transcript, questionText string) (string, error) {
	resp, err := p.cleaner.Generate(ctx, llm.Request{
		System: cleanSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCleanUserMessage(transcript, questionText)},
		},
		MaxTokens:   p.cfg.CleanMaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("clean transcript: %w", err)
	}

	cleaned := strings.TrimSpace(string(resp.Content))
	if cleaned == "" {
		// Degraded but usable: keep the raw transcript.
		return transcript, nil
	}
	return cleaned, nil
}

func (p *Pipeline) classify(ctx context.Context, cleaned string) (*Classification, error) {
	resp, err := p.provider.Generate(ctx, llm.Request{
		System: classifySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildClassifyUserMessage(cleaned)},
		},
		Schema:      ClassificationSchema,
		MaxTokens:   p.cfg.ClassifyMaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("classify memory: %w", err)
	}

	var class Classification
	if err := json.Unmarshal(resp.Content, &class); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}
	if class.TimeHint.Type == "" {
		class.TimeHint.Type = "unknown"
	}
	return &class, nil
}

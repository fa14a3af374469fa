package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/router"
	"github.com/abhisek/memora/internal/session"
)

func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	return id, err == nil && id > 0
}

// mapEngineError translates the engine's sentinel errors to HTTP
// statuses. Exhaustion is a normal outcome and reported as 200 by the
// handlers that expect it, so it is not mapped here.
func mapEngineError(err error) (int, string) {
	switch {
	case errors.Is(err, entitlement.ErrUpgradeRequired):
		return http.StatusPaymentRequired, "upgrade_required"
	case errors.Is(err, session.ErrAlreadyPending):
		return http.StatusConflict, "question_already_pending"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "question_not_found"
	case errors.Is(err, interview.ErrUnknownPack):
		return http.StatusBadRequest, "unknown_pack"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Pack string `json:"pack"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	q, err := s.svc.GetNextQuestion(r.Context(), uid, catalog.Pack(req.Pack))
	if errors.Is(err, router.ErrExhausted) {
		writeJSON(w, http.StatusOK, map[string]any{"exhausted": true})
		return
	}
	if err != nil {
		status, msg := mapEngineError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		QuestionID string `json:"question_id"`
		MemoryID   string `json:"memory_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.QuestionID == "" || req.MemoryID == "" {
		writeError(w, http.StatusBadRequest, "question_id and memory_id required")
		return
	}

	res, err := s.svc.Answer(r.Context(), uid, req.QuestionID, req.MemoryID)
	if err != nil {
		status, msg := mapEngineError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		QuestionID string `json:"question_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "question_id required")
		return
	}

	if err := s.svc.Skip(r.Context(), uid, req.QuestionID); err != nil {
		status, msg := mapEngineError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	q, err := s.svc.Shuffle(r.Context(), uid)
	if errors.Is(err, router.ErrExhausted) {
		// No alternative: the pending question stays pending.
		writeJSON(w, http.StatusOK, map[string]any{"exhausted": true})
		return
	}
	if err != nil {
		status, msg := mapEngineError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleSubmitMemory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if s.intake == nil {
		writeError(w, http.StatusServiceUnavailable, "intake not configured")
		return
	}

	var req struct {
		QuestionID string `json:"question_id"`
		Text       string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	res, err := s.intake.IngestText(r.Context(), uid, req.QuestionID, req.Text)
	if err != nil {
		status, msg := mapEngineError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"memory_id": res.Memory.ID,
		"title":     res.Memory.Title,
		"tags":      res.Memory.Tags,
		"followup":  res.Followup,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	p, err := s.svc.Progress(r.Context(), uid)
	if err != nil {
		status, msg := mapEngineError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

package questionnaire

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
	"github.com/serenova-spa/recommend-platform/internal/llm"
	"github.com/serenova-spa/recommend-platform/internal/recommend"
	"github.com/serenova-spa/recommend-platform/pkg/logging"
)

// Handler exposes questionnaire sessions over HTTP.
type Handler struct {
	repo      *Repository
	submitter Submitter
	store     recommend.Store
	catalog   catalog.Catalog
	logger    *logging.Logger
}

// NewHandler creates a questionnaire handler. The store is optional; when
// nil the previous-recommendation endpoint always reports not found.
func NewHandler(repo *Repository, submitter Submitter, store recommend.Store, entries catalog.Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:      repo,
		submitter: submitter,
		store:     store,
		catalog:   entries,
		logger:    logger,
	}
}

type selectRequest struct {
	Value string `json:"value"`
}

type jumpRequest struct {
	Index int `json:"index"`
}

type errorResponse struct {
	Error            string `json:"error"`
	MissingQuestions []int  `json:"missing_questions,omitempty"`
	Retryable        bool   `json:"retryable,omitempty"`
}

// CreateSession handles POST /questionnaire/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	engine := h.repo.Create()
	h.logger.Info("questionnaire session created", "session_id", engine.SessionID())
	writeJSON(w, http.StatusCreated, engine.Snapshot())
}

// GetSession handles GET /questionnaire/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Select handles POST /questionnaire/sessions/{sessionID}/select.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := engine.SelectOption(req.Value); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Next handles POST /questionnaire/sessions/{sessionID}/next. On the last
// question this submits the questionnaire; the response then carries the
// recommendation result.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	if _, err := engine.Next(r.Context(), h.submitter); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Back handles POST /questionnaire/sessions/{sessionID}/back.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	if err := engine.Back(); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Jump handles POST /questionnaire/sessions/{sessionID}/jump.
func (h *Handler) Jump(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := engine.JumpTo(req.Index); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Reset handles POST /questionnaire/sessions/{sessionID}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	engine.Reset()
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// GetRecommendation handles GET
// /questionnaire/sessions/{sessionID}/recommendation: the stored previous
// recommendation, re-parsed and re-matched so a returning user gets
// actionable entries without resubmitting.
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing session id"})
		return
	}
	if h.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no previous recommendation"})
		return
	}

	raw, err := h.store.LoadPrevious(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, recommend.ErrNoPrevious) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no previous recommendation"})
			return
		}
		h.logger.Error("failed to load previous recommendation", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load previous recommendation"})
		return
	}

	writeJSON(w, http.StatusOK, recommend.Resolve(raw, h.catalog))
}

func (h *Handler) engine(w http.ResponseWriter, r *http.Request) (*Engine, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing session id"})
		return nil, false
	}
	engine, err := h.repo.Get(sessionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return nil, false
	}
	return engine, true
}

// writeEngineError maps engine errors onto HTTP statuses: validation is a
// user condition, submission exclusivity a conflict, upstream failure a
// retryable 503.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:            "answer the highlighted questions before continuing",
			MissingQuestions: vErr.MissingQuestions,
		})
	case errors.Is(err, ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrAlreadyCompleted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrSkippingAhead), errors.Is(err, ErrUnknownOption):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, llm.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "recommendation service unavailable, please retry",
			Retryable: true,
		})
	default:
		h.logger.Error("questionnaire request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wordassoc/internal/game"
	"wordassoc/internal/models"
	"wordassoc/internal/service"
)

// GameHandler serves the playing endpoints: next word, submission and
// history.
type GameHandler struct {
	sessions *service.SessionService
}

// NewGameHandler creates a new game handler
func NewGameHandler(sessions *service.SessionService) *GameHandler {
	return &GameHandler{sessions: sessions}
}

// wordResponse is a card plus the requester's progress. The progress
// fields are flattened into the envelope.
type wordResponse struct {
	Word *models.WordCard `json:"word"`
	models.ProgressSnapshot
}

// terminalResponse is returned when no card can be served; the progress
// fields tell the client which empty state to render.
type terminalResponse struct {
	Code string `json:"code"`
	models.ProgressSnapshot
}

// GetWord handles GET /api/v1/word
func (h *GameHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	category := r.URL.Query().Get("category")

	card, snap, err := h.sessions.NextWord(user.ID, category)
	switch {
	case errors.Is(err, game.ErrAllWordsCompleted):
		respondJSON(w, http.StatusNotFound, terminalResponse{Code: "all_complete", ProgressSnapshot: snap})
		return
	case errors.Is(err, game.ErrNoWordsAvailable):
		respondJSON(w, http.StatusNotFound, terminalResponse{Code: "no_words", ProgressSnapshot: snap})
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to pick a word", err)
		return
	}

	respondJSON(w, http.StatusOK, wordResponse{Word: card, ProgressSnapshot: snap})
}

type saveRequest struct {
	CardID       int64  `json:"card_id"`
	Association1 string `json:"association_1"`
	Association2 string `json:"association_2"`
	Association3 string `json:"association_3"`
	TimeTaken    int    `json:"time_taken"`
	TimedOut     bool   `json:"timed_out"`
}

// saveResponse surfaces the generated reflection at the top level next
// to the stored record and the requester's progress.
type saveResponse struct {
	Summary string                    `json:"summary"`
	Record  *models.AssociationRecord `json:"record"`
	models.ProgressSnapshot
}

// SaveAssociations handles POST /api/v1/save
func (h *GameHandler) SaveAssociations(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.sessions.Submit(r.Context(), user.ID, service.SubmitInput{
		CardID:       req.CardID,
		Association1: req.Association1,
		Association2: req.Association2,
		Association3: req.Association3,
		TimeTaken:    req.TimeTaken,
		TimedOut:     req.TimedOut,
	})
	switch {
	case errors.Is(err, service.ErrEmptySubmission):
		respondError(w, http.StatusBadRequest, "at least one association is required", nil)
		return
	case errors.Is(err, service.ErrUnknownCard):
		respondError(w, http.StatusNotFound, "unknown word card", nil)
		return
	case errors.Is(err, service.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "this word is already being saved", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to save your round", err)
		return
	}

	respondJSON(w, http.StatusOK, saveResponse{
		Summary:          result.Record.AISummary,
		Record:           result.Record,
		ProgressSnapshot: result.Progress,
	})
}

// historyResponse carries the records and the same progress envelope as
// the word and save responses.
type historyResponse struct {
	History []models.AssociationRecord `json:"history"`
	models.ProgressSnapshot
}

// GetHistory handles GET /api/v1/history
func (h *GameHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative number", nil)
			return
		}
		limit = n
	}

	records, snap, err := h.sessions.History(user.ID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load history", err)
		return
	}
	if records == nil {
		records = []models.AssociationRecord{}
	}

	respondJSON(w, http.StatusOK, historyResponse{History: records, ProgressSnapshot: snap})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"wordassoc/internal/models"
	"wordassoc/internal/service"
)

// CardCatalog is the card administration surface the admin handler
// needs.
type CardCatalog interface {
	ListAll() ([]models.WordCard, error)
	Create(word, category string) (*models.WordCard, error)
	SetActive(id int64, active bool) error
	Delete(id int64) error
	Categories() ([]string, error)
	GetByID(id int64) (*models.WordCard, error)
}

// ModeConfigStore reads and writes the selection-mode configuration
type ModeConfigStore interface {
	GetModeConfig() (models.ModeConfig, error)
	SetModeConfig(cfg models.ModeConfig) error
}

// AdminHandler serves the card catalogue and game configuration
// endpoints. Every route is behind RequireAdmin.
type AdminHandler struct {
	cards  CardCatalog
	config ModeConfigStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(cards CardCatalog, config ModeConfigStore) *AdminHandler {
	return &AdminHandler{
		cards:  cards,
		config: config,
	}
}

// ListCards handles GET /api/v1/admin/cards
func (h *AdminHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.ListAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list cards", err)
		return
	}
	if cards == nil {
		cards = []models.WordCard{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

type createCardRequest struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

// CreateCard handles POST /api/v1/admin/cards
func (h *AdminHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	req.Word = strings.TrimSpace(req.Word)
	if req.Word == "" {
		respondError(w, http.StatusBadRequest, "word is required", nil)
		return
	}

	card, err := h.cards.Create(req.Word, strings.TrimSpace(req.Category))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create card", err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

type updateCardRequest struct {
	Active bool `json:"active"`
}

// UpdateCard handles PATCH /api/v1/admin/cards/{id}
func (h *AdminHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid card id", nil)
		return
	}

	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	card, err := h.cards.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load card", err)
		return
	}
	if card == nil {
		respondError(w, http.StatusNotFound, "card not found", nil)
		return
	}

	if err := h.cards.SetActive(id, req.Active); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update card", err)
		return
	}

	card.Active = req.Active
	respondJSON(w, http.StatusOK, card)
}

// DeleteCard handles DELETE /api/v1/admin/cards/{id}
func (h *AdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid card id", nil)
		return
	}

	card, err := h.cards.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load card", err)
		return
	}
	if card == nil {
		respondError(w, http.StatusNotFound, "card not found", nil)
		return
	}

	if err := h.cards.Delete(id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete card", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListCategories handles GET /api/v1/admin/categories
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.cards.Categories()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetConfig handles GET /api/v1/admin/config
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.GetModeConfig()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load configuration", err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// UpdateConfig handles PUT /api/v1/admin/config
func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.ModeConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	err := h.config.SetModeConfig(cfg)
	switch {
	case errors.Is(err, service.ErrInvalidConfig):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to store configuration", err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func cardID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

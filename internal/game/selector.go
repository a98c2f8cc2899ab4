package game

import (
	"errors"
	"fmt"

	"wordassoc/internal/models"
)

var (
	// ErrNoWordsAvailable means no active card matches the filter. An
	// expected terminal state, not a fault: callers render an
	// empty-state screen rather than retrying.
	ErrNoWordsAvailable = errors.New("no words available")

	// ErrAllWordsCompleted means the user has finished every card in
	// the fixed set.
	ErrAllWordsCompleted = errors.New("all words completed")
)

// CardSource supplies cards to the selector
type CardSource interface {
	// GetByID returns the card with the given id, or nil when missing
	GetByID(id int64) (*models.WordCard, error)

	// RandomActive returns one uniformly random active card, optionally
	// restricted to a category, or nil when none match
	RandomActive(category string) (*models.WordCard, error)
}

// Selector picks the next card to present under the configured policy
type Selector struct {
	cards CardSource
}

// NewSelector creates a new selector
func NewSelector(cards CardSource) *Selector {
	return &Selector{cards: cards}
}

// Next picks the next card for a user.
//
// Random mode samples uniformly from the active catalogue with no memory
// of past picks; repeats are permitted and expected. Fixed-set mode
// returns the earliest entry in the configured order that the user has
// not completed, so the selection is a pure function of persisted state:
// calling Next again without an intervening submission returns the same
// card. The category filter only applies in random mode; a fixed set's
// sequence is defined entirely by its configuration.
func (s *Selector) Next(cfg models.ModeConfig, snap models.ProgressSnapshot, category string) (*models.WordCard, error) {
	if cfg.Mode == models.ModeFixedSet {
		return s.nextInFixedSet(cfg, snap)
	}
	return s.nextRandom(category)
}

func (s *Selector) nextRandom(category string) (*models.WordCard, error) {
	card, err := s.cards.RandomActive(category)
	if err != nil {
		return nil, fmt.Errorf("failed to pick random card: %w", err)
	}
	if card == nil {
		return nil, ErrNoWordsAvailable
	}
	return card, nil
}

func (s *Selector) nextInFixedSet(cfg models.ModeConfig, snap models.ProgressSnapshot) (*models.WordCard, error) {
	for _, id := range cfg.SelectedWordIDs {
		if snap.CompletedCardIDs[id] {
			continue
		}

		card, err := s.cards.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load card %d: %w", id, err)
		}
		if card == nil {
			// Configured card was deleted after validation; surface it
			// rather than silently skipping ahead in the sequence
			return nil, fmt.Errorf("configured card %d no longer exists", id)
		}
		return card, nil
	}

	return nil, ErrAllWordsCompleted
}

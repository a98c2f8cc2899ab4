package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"wordassoc/internal/ai"
	"wordassoc/internal/game"
	"wordassoc/internal/insight"
	"wordassoc/internal/models"
)

var (
	ErrSubmissionInFlight = errors.New("a submission for this word is already being processed")
	ErrEmptySubmission    = errors.New("at least one association is required")
	ErrUnknownCard        = errors.New("unknown word card")
)

// FallbackInsight is stored when the reflection could not be generated.
// The round itself always saves; the narrative is best-effort.
const FallbackInsight = "Thank you for sharing your associations. We couldn't create your personal reflection this time, but your answers have been saved."

// DefaultHistoryLimit caps how many past rounds a history request
// returns when the caller does not ask for a specific number.
const DefaultHistoryLimit = 10

const maxHistoryLimit = 100

// AssociationStore is the slice of the association log the orchestrator
// needs.
type AssociationStore interface {
	Insert(rec *models.AssociationRecord) (*models.AssociationRecord, error)
	HistoryForUser(userID int64, limit int) ([]models.AssociationRecord, error)
	CompletedCardIDs(userID int64) ([]int64, error)
}

// UserStore resolves submitters to their profile for prompt building
type UserStore interface {
	GetUserByID(id int64) (*models.User, error)
}

// ModeConfigSource supplies the current selection-mode configuration
type ModeConfigSource interface {
	GetModeConfig() (models.ModeConfig, error)
}

// Notifier sends the set-completion email. May be a disabled no-op.
type Notifier interface {
	IsEnabled() bool
	SendSetCompleteEmail(ctx context.Context, toEmail, toName string, totalWords int) error
}

// SessionService orchestrates a playing session: picking the next word,
// accepting a round's submission, and reading history back.
type SessionService struct {
	cards        game.CardSource
	associations AssociationStore
	users        UserStore
	config       ModeConfigSource
	selector     *game.Selector
	generator    ai.Generator
	notifier     Notifier
	aiTimeout    time.Duration

	mu       sync.Mutex
	inflight map[inflightKey]bool
}

type inflightKey struct {
	userID int64
	cardID int64
}

// NewSessionService creates a new session service
func NewSessionService(
	cards game.CardSource,
	associations AssociationStore,
	users UserStore,
	config ModeConfigSource,
	generator ai.Generator,
	notifier Notifier,
	aiTimeout time.Duration,
) *SessionService {
	return &SessionService{
		cards:        cards,
		associations: associations,
		users:        users,
		config:       config,
		selector:     game.NewSelector(cards),
		generator:    generator,
		notifier:     notifier,
		aiTimeout:    aiTimeout,
		inflight:     make(map[inflightKey]bool),
	}
}

// NextWord picks the next card for a user along with their progress
// snapshot. The snapshot is valid even when the pick fails with
// game.ErrAllWordsCompleted or game.ErrNoWordsAvailable, so handlers
// can still render progress on those terminal states.
func (s *SessionService) NextWord(userID int64, category string) (*models.WordCard, models.ProgressSnapshot, error) {
	cfg, err := s.config.GetModeConfig()
	if err != nil {
		return nil, models.ProgressSnapshot{}, err
	}

	completed, err := s.associations.CompletedCardIDs(userID)
	if err != nil {
		return nil, models.ProgressSnapshot{}, fmt.Errorf("failed to load completed cards: %w", err)
	}

	snap := game.Snapshot(cfg, completed)
	card, err := s.selector.Next(cfg, snap, category)
	return card, snap, err
}

// SubmitInput is one finished round as sent by the client
type SubmitInput struct {
	CardID       int64
	Word         string
	Association1 string
	Association2 string
	Association3 string
	TimeTaken    int
	TimedOut     bool
}

// SubmitResult is the stored record plus the progress the submission
// produced.
type SubmitResult struct {
	Record   *models.AssociationRecord
	Progress models.ProgressSnapshot
}

// Submit accepts a round. Empty associations become the stored
// placeholder; an all-empty submission is rejected unless the round
// timed out. The reflection is generated synchronously but the round
// is saved even when generation fails.
//
// Only one submission per (user, card) may be in flight at a time.
// Two submissions that both finish are both kept: the log is
// append-only and duplicates count once towards progress.
func (s *SessionService) Submit(ctx context.Context, userID int64, in SubmitInput) (*SubmitResult, error) {
	a1 := strings.TrimSpace(in.Association1)
	a2 := strings.TrimSpace(in.Association2)
	a3 := strings.TrimSpace(in.Association3)

	if a1 == "" && a2 == "" && a3 == "" && !in.TimedOut {
		return nil, ErrEmptySubmission
	}

	card, err := s.cards.GetByID(in.CardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if card == nil {
		return nil, ErrUnknownCard
	}

	key := inflightKey{userID: userID, cardID: in.CardID}
	s.mu.Lock()
	if s.inflight[key] {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inflight[key] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	if a1 == "" {
		a1 = models.PlaceholderResponse
	}
	if a2 == "" {
		a2 = models.PlaceholderResponse
	}
	if a3 == "" {
		a3 = models.PlaceholderResponse
	}

	cfg, err := s.config.GetModeConfig()
	if err != nil {
		return nil, err
	}
	completedBefore, err := s.associations.CompletedCardIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed cards: %w", err)
	}
	snapBefore := game.Snapshot(cfg, completedBefore)

	summary := s.generateInsight(ctx, userID, card.Word, a1, a2, a3)

	record, err := s.associations.Insert(&models.AssociationRecord{
		UserID:       userID,
		CardID:       card.ID,
		Word:         card.Word,
		Association1: a1,
		Association2: a2,
		Association3: a3,
		TimeTaken:    in.TimeTaken,
		AISummary:    summary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save round: %w", err)
	}

	snap := game.Snapshot(cfg, appendID(completedBefore, card.ID))

	if snap.AllComplete && !snapBefore.AllComplete {
		s.notifySetComplete(userID, snap)
	}

	return &SubmitResult{Record: record, Progress: snap}, nil
}

// generateInsight builds the prompt, calls the generator under its own
// deadline, and normalizes the result. Any failure degrades to the
// fallback text.
func (s *SessionService) generateInsight(ctx context.Context, userID int64, word, a1, a2, a3 string) string {
	displayName := ""
	if user, err := s.users.GetUserByID(userID); err == nil && user != nil {
		displayName = user.DisplayName
	}

	prompt := insight.BuildPrompt(displayName, word, a1, a2, a3)

	genCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	raw, err := s.generator.GenerateText(genCtx, prompt)
	if err != nil {
		log.Printf("Insight generation failed for user %d, word %q: %v", userID, word, err)
		return FallbackInsight
	}

	return insight.Normalize(raw, word, a1, a2, a3)
}

// notifySetComplete emails the player who just finished their set. Sent
// in the background; a failed email never fails the submission.
func (s *SessionService) notifySetComplete(userID int64, snap models.ProgressSnapshot) {
	if s.notifier == nil || !s.notifier.IsEnabled() || snap.TotalRequired == nil {
		return
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil || user == nil || user.Email == "" {
		return
	}

	total := *snap.TotalRequired
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SendSetCompleteEmail(ctx, user.Email, user.DisplayName, total); err != nil {
			log.Printf("Failed to send set-complete email to user %d: %v", userID, err)
		}
	}()
}

// History returns a user's most recent rounds, newest first, along
// with their progress snapshot so the response carries the same
// envelope as every other operation.
func (s *SessionService) History(userID int64, limit int) ([]models.AssociationRecord, models.ProgressSnapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	cfg, err := s.config.GetModeConfig()
	if err != nil {
		return nil, models.ProgressSnapshot{}, err
	}
	completed, err := s.associations.CompletedCardIDs(userID)
	if err != nil {
		return nil, models.ProgressSnapshot{}, fmt.Errorf("failed to load completed cards: %w", err)
	}
	snap := game.Snapshot(cfg, completed)

	records, err := s.associations.HistoryForUser(userID, limit)
	if err != nil {
		return nil, snap, err
	}
	return records, snap, nil
}

func appendID(ids []int64, add int64) []int64 {
	for _, id := range ids {
		if id == add {
			return ids
		}
	}
	return append(ids, add)
}

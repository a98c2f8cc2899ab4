package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"wordassoc/internal/game"
	"wordassoc/internal/models"
)

type fakeCards struct {
	cards map[int64]*models.WordCard
}

func (f *fakeCards) GetByID(id int64) (*models.WordCard, error) {
	return f.cards[id], nil
}

func (f *fakeCards) RandomActive(category string) (*models.WordCard, error) {
	for _, c := range f.cards {
		if c.Active && (category == "" || c.Category == category) {
			return c, nil
		}
	}
	return nil, nil
}

type fakeAssociations struct {
	mu      sync.Mutex
	records []models.AssociationRecord
	nextID  int64
}

func (f *fakeAssociations) Insert(rec *models.AssociationRecord) (*models.AssociationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *rec
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.records = append(f.records, stored)
	return &stored, nil
}

func (f *fakeAssociations) HistoryForUser(userID int64, limit int) ([]models.AssociationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AssociationRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeAssociations) CompletedCardIDs(userID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, rec := range f.records {
		if rec.UserID == userID && !seen[rec.CardID] {
			seen[rec.CardID] = true
			ids = append(ids, rec.CardID)
		}
	}
	return ids, nil
}

type fakeUsers struct {
	users map[int64]*models.User
}

func (f *fakeUsers) GetUserByID(id int64) (*models.User, error) {
	return f.users[id], nil
}

type fakeConfig struct {
	cfg models.ModeConfig
}

func (f *fakeConfig) GetModeConfig() (models.ModeConfig, error) {
	return f.cfg, nil
}

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	block   chan struct{}
	prompts []string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	total int
}

func (n *fakeNotifier) IsEnabled() bool { return true }

func (n *fakeNotifier) SendSetCompleteEmail(ctx context.Context, toEmail, toName string, totalWords int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, toEmail)
	n.total = totalWords
	return nil
}

func (n *fakeNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func newTestService(cfg models.ModeConfig, gen *stubGenerator, notifier Notifier) (*SessionService, *fakeAssociations) {
	cards := &fakeCards{cards: map[int64]*models.WordCard{
		1: {ID: 1, Word: "Success", Category: "emotions", Active: true},
		2: {ID: 2, Word: "Trust", Category: "relationships", Active: true},
		3: {ID: 3, Word: "Freedom", Category: "concepts", Active: true},
	}}
	assocs := &fakeAssociations{}
	users := &fakeUsers{users: map[int64]*models.User{
		7: {ID: 7, Email: "sam@example.com", DisplayName: "Sam Jones"},
	}}
	svc := NewSessionService(cards, assocs, users, &fakeConfig{cfg: cfg}, gen, notifier, time.Second)
	return svc, assocs
}

func fixedSetConfig(ids ...int64) models.ModeConfig {
	return models.ModeConfig{
		Mode:            models.ModeFixedSet,
		WordCount:       len(ids),
		SelectedWordIDs: ids,
	}
}

func TestSubmitStoresPlaceholders(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, assocs := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	result, err := svc.Submit(context.Background(), 7, SubmitInput{
		CardID:       1,
		Association1: "money",
		Association2: "  ",
		TimeTaken:    12,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	rec := result.Record
	if rec.Association1 != "money" {
		t.Errorf("Association1 = %q", rec.Association1)
	}
	if rec.Association2 != models.PlaceholderResponse || rec.Association3 != models.PlaceholderResponse {
		t.Errorf("empty associations not stored as placeholder: %q, %q", rec.Association2, rec.Association3)
	}
	if len(assocs.records) != 1 {
		t.Errorf("stored %d records, want 1", len(assocs.records))
	}
}

func TestSubmitRejectsAllEmpty(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, assocs := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	_, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1})
	if !errors.Is(err, ErrEmptySubmission) {
		t.Fatalf("Submit() error = %v, want ErrEmptySubmission", err)
	}
	if len(assocs.records) != 0 {
		t.Error("rejected submission must not be stored")
	}
}

func TestSubmitAllEmptyTimedOutIsAccepted(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, _ := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	result, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, TimedOut: true})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	for i, a := range []string{result.Record.Association1, result.Record.Association2, result.Record.Association3} {
		if a != models.PlaceholderResponse {
			t.Errorf("association %d = %q, want placeholder", i+1, a)
		}
	}
}

func TestSubmitUnknownCard(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, _ := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	_, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 99, Association1: "x"})
	if !errors.Is(err, ErrUnknownCard) {
		t.Errorf("Submit() error = %v, want ErrUnknownCard", err)
	}
}

func TestSubmitSurvivesGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("service down")}
	svc, assocs := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	result, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, Association1: "money"})
	if err != nil {
		t.Fatalf("Submit() must not fail on generator error, got %v", err)
	}
	if result.Record.AISummary != FallbackInsight {
		t.Errorf("AISummary = %q, want fallback", result.Record.AISummary)
	}
	if len(assocs.records) != 1 {
		t.Error("round must be stored despite generator failure")
	}
}

func TestSubmitNormalizesGeneratedText(t *testing.T) {
	gen := &stubGenerator{text: "# Reflection\nHello Sam.\n\n\n\n*Success and money*: Interesting.\n"}
	svc, _ := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	result, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, Association1: "money", TimedOut: true})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	got := result.Record.AISummary
	if strings.Contains(got, "# Reflection") {
		t.Errorf("summary kept echoed heading:\n%s", got)
	}
	if !strings.Contains(got, "**Success and money**:") {
		t.Errorf("summary missing normalized header:\n%s", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("summary has excess blank lines:\n%q", got)
	}
}

func TestSubmitPromptUsesPlaceholderAndName(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, _ := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	_, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, Association1: "money"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Sam was shown") {
		t.Errorf("prompt missing first name:\n%s", prompt)
	}
	if !strings.Contains(prompt, models.PlaceholderResponse) {
		t.Errorf("prompt missing placeholder for empty association:\n%s", prompt)
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	gen := &stubGenerator{text: "A reflection.", block: make(chan struct{})}
	svc, _ := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, Association1: "money"})
		firstDone <- err
	}()

	// Wait until the first submission is inside the generator
	deadline := time.After(time.Second)
	for {
		gen.mu.Lock()
		started := len(gen.prompts) > 0
		gen.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first submission never reached the generator")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, Association1: "money"})
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("concurrent Submit() error = %v, want ErrSubmissionInFlight", err)
	}

	// A different card for the same user is not blocked
	go func() {
		close(gen.block)
	}()
	if err := <-firstDone; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	if _, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 2, Association1: "friends"}); err != nil {
		t.Errorf("Submit() after release error = %v", err)
	}
}

func TestSubmitProgressInFixedSet(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, _ := newTestService(fixedSetConfig(1, 2, 3), gen, nil)

	result, err := svc.Submit(context.Background(), 7, SubmitInput{CardID: 1, Association1: "money"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snap := result.Progress
	if snap.TotalRequired == nil || *snap.TotalRequired != 3 {
		t.Fatalf("TotalRequired = %v, want 3", snap.TotalRequired)
	}
	if snap.CompletedCount == nil || *snap.CompletedCount != 1 {
		t.Fatalf("CompletedCount = %v, want 1", snap.CompletedCount)
	}
	if snap.AllComplete {
		t.Error("AllComplete must be false with 1 of 3 done")
	}
}

func TestSubmitSendsCompletionEmailOnce(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(fixedSetConfig(1, 2), gen, notifier)

	ctx := context.Background()
	if _, err := svc.Submit(ctx, 7, SubmitInput{CardID: 1, Association1: "a"}); err != nil {
		t.Fatal(err)
	}
	if notifier.sentCount() != 0 {
		t.Fatal("email sent before the set was complete")
	}

	result, err := svc.Submit(ctx, 7, SubmitInput{CardID: 2, Association1: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Progress.AllComplete {
		t.Fatal("expected AllComplete after finishing the set")
	}

	waitFor(t, func() bool { return notifier.sentCount() == 1 })
	if notifier.total != 2 {
		t.Errorf("email reported %d words, want 2", notifier.total)
	}

	// Replaying a completed card must not send another email
	if _, err := svc.Submit(ctx, 7, SubmitInput{CardID: 1, Association1: "again"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if notifier.sentCount() != 1 {
		t.Errorf("email sent %d times, want exactly 1", notifier.sentCount())
	}
}

func TestNextWordFixedSetOrderAndCompletion(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, _ := newTestService(fixedSetConfig(2, 1), gen, nil)

	card, snap, err := svc.NextWord(7, "")
	if err != nil {
		t.Fatalf("NextWord() error = %v", err)
	}
	if card.ID != 2 {
		t.Errorf("NextWord() card = %d, want first configured id 2", card.ID)
	}
	if snap.CompletedCount == nil || *snap.CompletedCount != 0 {
		t.Errorf("CompletedCount = %v, want 0", snap.CompletedCount)
	}

	ctx := context.Background()
	if _, err := svc.Submit(ctx, 7, SubmitInput{CardID: 2, Association1: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(ctx, 7, SubmitInput{CardID: 1, Association1: "y"}); err != nil {
		t.Fatal(err)
	}

	_, snap, err = svc.NextWord(7, "")
	if !errors.Is(err, game.ErrAllWordsCompleted) {
		t.Fatalf("NextWord() error = %v, want ErrAllWordsCompleted", err)
	}
	if !snap.AllComplete {
		t.Error("snapshot must report AllComplete alongside the error")
	}
}

func TestHistoryDefaultLimit(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	svc, assocs := newTestService(models.ModeConfig{Mode: models.ModeRandom}, gen, nil)

	for i := 0; i < 15; i++ {
		assocs.Insert(&models.AssociationRecord{UserID: 7, CardID: 1, Word: "Success"})
	}

	records, snap, err := svc.History(7, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != DefaultHistoryLimit {
		t.Errorf("History() returned %d records, want %d", len(records), DefaultHistoryLimit)
	}
	if snap.Mode != models.ModeRandom || snap.TotalRequired != nil {
		t.Errorf("History() snapshot = %+v, want random mode with nil total", snap)
	}
}

func TestHistoryCarriesFixedSetProgress(t *testing.T) {
	gen := &stubGenerator{text: "A reflection."}
	cfg := models.ModeConfig{
		Mode:            models.ModeFixedSet,
		WordCount:       3,
		SelectedWordIDs: []int64{1, 2, 3},
	}
	svc, assocs := newTestService(cfg, gen, nil)

	assocs.Insert(&models.AssociationRecord{UserID: 7, CardID: 1, Word: "Success"})

	records, snap, err := svc.History(7, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("History() returned %d records, want 1", len(records))
	}
	if snap.TotalRequired == nil || *snap.TotalRequired != 3 {
		t.Errorf("TotalRequired = %v, want 3", snap.TotalRequired)
	}
	if snap.CompletedCount == nil || *snap.CompletedCount != 1 {
		t.Errorf("CompletedCount = %v, want 1", snap.CompletedCount)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition never became true")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

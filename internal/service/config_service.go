package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wordassoc/internal/models"
	"wordassoc/internal/repository"
)

var ErrInvalidConfig = errors.New("invalid mode configuration")

// SettingsStore is the key-value persistence the config service needs
type SettingsStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// CardGetter resolves card ids during configuration validation
type CardGetter interface {
	GetByID(id int64) (*models.WordCard, error)
}

// ConfigService reads and writes the game's selection-mode
// configuration, stored as settings rows.
type ConfigService struct {
	settingsRepo SettingsStore
	cardRepo     CardGetter
}

func NewConfigService(settingsRepo SettingsStore, cardRepo CardGetter) *ConfigService {
	return &ConfigService{
		settingsRepo: settingsRepo,
		cardRepo:     cardRepo,
	}
}

// GetModeConfig loads the current configuration. Missing or corrupt
// settings fall back to random mode so the game keeps working.
func (s *ConfigService) GetModeConfig() (models.ModeConfig, error) {
	cfg := models.ModeConfig{Mode: models.ModeRandom}

	raw, ok, err := s.settingsRepo.GetSetting(repository.SettingMode)
	if err != nil {
		return cfg, fmt.Errorf("failed to read mode setting: %w", err)
	}
	if !ok {
		return cfg, nil
	}

	mode := models.SelectionMode(raw)
	if !mode.Valid() {
		return cfg, nil
	}
	cfg.Mode = mode

	if mode != models.ModeFixedSet {
		return cfg, nil
	}

	countRaw, ok, err := s.settingsRepo.GetSetting(repository.SettingWordCount)
	if err != nil {
		return cfg, fmt.Errorf("failed to read word count setting: %w", err)
	}
	if ok {
		if n, err := strconv.Atoi(countRaw); err == nil {
			cfg.WordCount = n
		}
	}

	idsRaw, ok, err := s.settingsRepo.GetSetting(repository.SettingSelectedWordIDs)
	if err != nil {
		return cfg, fmt.Errorf("failed to read selected words setting: %w", err)
	}
	if ok {
		ids, err := parseIDList(idsRaw)
		if err == nil {
			cfg.SelectedWordIDs = ids
		}
	}

	// A fixed set that does not hold together degrades to random
	// rather than serving a broken game. That covers a corrupt id list
	// as well as a configured card deleted or deactivated after the
	// set was written.
	if cfg.WordCount == 0 || len(cfg.SelectedWordIDs) != cfg.WordCount {
		return models.ModeConfig{Mode: models.ModeRandom}, nil
	}
	for _, id := range cfg.SelectedWordIDs {
		card, err := s.cardRepo.GetByID(id)
		if err != nil {
			return cfg, fmt.Errorf("failed to check word %d: %w", id, err)
		}
		if card == nil || !card.Active {
			return models.ModeConfig{Mode: models.ModeRandom}, nil
		}
	}

	return cfg, nil
}

// SetModeConfig validates and persists a new configuration. The write
// is atomic from the player's point of view only in that readers always
// see a configuration that validates; partially applied writes degrade
// to random mode on read.
func (s *ConfigService) SetModeConfig(cfg models.ModeConfig) error {
	if err := s.validate(cfg); err != nil {
		return err
	}

	if err := s.settingsRepo.SetSetting(repository.SettingMode, string(cfg.Mode)); err != nil {
		return fmt.Errorf("failed to store mode: %w", err)
	}

	if cfg.Mode == models.ModeFixedSet {
		if err := s.settingsRepo.SetSetting(repository.SettingWordCount, strconv.Itoa(cfg.WordCount)); err != nil {
			return fmt.Errorf("failed to store word count: %w", err)
		}
		if err := s.settingsRepo.SetSetting(repository.SettingSelectedWordIDs, joinIDList(cfg.SelectedWordIDs)); err != nil {
			return fmt.Errorf("failed to store selected words: %w", err)
		}
	}

	return nil
}

func (s *ConfigService) validate(cfg models.ModeConfig) error {
	if !cfg.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Mode)
	}
	if cfg.Mode == models.ModeRandom {
		return nil
	}

	if cfg.WordCount < 1 {
		return fmt.Errorf("%w: word count must be at least 1", ErrInvalidConfig)
	}
	if len(cfg.SelectedWordIDs) != cfg.WordCount {
		return fmt.Errorf("%w: %d words selected but count is %d", ErrInvalidConfig, len(cfg.SelectedWordIDs), cfg.WordCount)
	}

	seen := make(map[int64]bool, len(cfg.SelectedWordIDs))
	for _, id := range cfg.SelectedWordIDs {
		if seen[id] {
			return fmt.Errorf("%w: word %d appears more than once", ErrInvalidConfig, id)
		}
		seen[id] = true

		card, err := s.cardRepo.GetByID(id)
		if err != nil {
			return fmt.Errorf("failed to check word %d: %w", id, err)
		}
		if card == nil {
			return fmt.Errorf("%w: word %d does not exist", ErrInvalidConfig, id)
		}
		if !card.Active {
			return fmt.Errorf("%w: word %d is inactive", ErrInvalidConfig, id)
		}
	}

	return nil
}

// parseIDList parses a comma-joined list of card IDs
func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad card id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// joinIDList serializes card IDs preserving their order
func joinIDList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

package service

import (
	"errors"
	"testing"

	"wordassoc/internal/models"
	"wordassoc/internal/repository"
)

type fakeSettings struct {
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) GetSetting(key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) SetSetting(key, value string) error {
	f.values[key] = value
	return nil
}

func newConfigService(settings *fakeSettings) *ConfigService {
	cards := &fakeCards{cards: map[int64]*models.WordCard{
		1: {ID: 1, Word: "Success", Active: true},
		2: {ID: 2, Word: "Trust", Active: true},
		3: {ID: 3, Word: "Freedom", Active: false},
	}}
	return NewConfigService(settings, cards)
}

func TestGetModeConfigDefaultsToRandom(t *testing.T) {
	svc := newConfigService(newFakeSettings())

	cfg, err := svc.GetModeConfig()
	if err != nil {
		t.Fatalf("GetModeConfig() error = %v", err)
	}
	if cfg.Mode != models.ModeRandom {
		t.Errorf("Mode = %q, want random", cfg.Mode)
	}
}

func TestModeConfigRoundTrip(t *testing.T) {
	settings := newFakeSettings()
	svc := newConfigService(settings)

	want := models.ModeConfig{
		Mode:            models.ModeFixedSet,
		WordCount:       2,
		SelectedWordIDs: []int64{2, 1},
	}
	if err := svc.SetModeConfig(want); err != nil {
		t.Fatalf("SetModeConfig() error = %v", err)
	}

	got, err := svc.GetModeConfig()
	if err != nil {
		t.Fatalf("GetModeConfig() error = %v", err)
	}
	if got.Mode != models.ModeFixedSet || got.WordCount != 2 {
		t.Errorf("GetModeConfig() = %+v", got)
	}
	if len(got.SelectedWordIDs) != 2 || got.SelectedWordIDs[0] != 2 || got.SelectedWordIDs[1] != 1 {
		t.Errorf("SelectedWordIDs = %v, want [2 1] in order", got.SelectedWordIDs)
	}
}

func TestSetModeConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.ModeConfig
	}{
		{
			name: "unknown mode",
			cfg:  models.ModeConfig{Mode: "sequential"},
		},
		{
			name: "count mismatch",
			cfg:  models.ModeConfig{Mode: models.ModeFixedSet, WordCount: 3, SelectedWordIDs: []int64{1, 2}},
		},
		{
			name: "zero count",
			cfg:  models.ModeConfig{Mode: models.ModeFixedSet, WordCount: 0},
		},
		{
			name: "duplicate id",
			cfg:  models.ModeConfig{Mode: models.ModeFixedSet, WordCount: 2, SelectedWordIDs: []int64{1, 1}},
		},
		{
			name: "missing card",
			cfg:  models.ModeConfig{Mode: models.ModeFixedSet, WordCount: 1, SelectedWordIDs: []int64{99}},
		},
		{
			name: "inactive card",
			cfg:  models.ModeConfig{Mode: models.ModeFixedSet, WordCount: 1, SelectedWordIDs: []int64{3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newConfigService(newFakeSettings())
			if err := svc.SetModeConfig(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("SetModeConfig() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestGetModeConfigDegradesOnCorruptSet(t *testing.T) {
	settings := newFakeSettings()
	settings.values[repository.SettingMode] = string(models.ModeFixedSet)
	settings.values[repository.SettingWordCount] = "3"
	settings.values[repository.SettingSelectedWordIDs] = "1,2"

	svc := newConfigService(settings)
	cfg, err := svc.GetModeConfig()
	if err != nil {
		t.Fatalf("GetModeConfig() error = %v", err)
	}
	if cfg.Mode != models.ModeRandom {
		t.Errorf("corrupt fixed set must degrade to random, got %q", cfg.Mode)
	}
}

func TestGetModeConfigDegradesOnDanglingCard(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cards *fakeCards)
	}{
		{
			name:   "configured card deleted",
			mutate: func(cards *fakeCards) { delete(cards.cards, 2) },
		},
		{
			name:   "configured card deactivated",
			mutate: func(cards *fakeCards) { cards.cards[2].Active = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := &fakeCards{cards: map[int64]*models.WordCard{
				1: {ID: 1, Word: "Success", Active: true},
				2: {ID: 2, Word: "Trust", Active: true},
			}}
			svc := NewConfigService(newFakeSettings(), cards)

			valid := models.ModeConfig{
				Mode:            models.ModeFixedSet,
				WordCount:       2,
				SelectedWordIDs: []int64{1, 2},
			}
			if err := svc.SetModeConfig(valid); err != nil {
				t.Fatalf("SetModeConfig() error = %v", err)
			}
			tt.mutate(cards)

			got, err := svc.GetModeConfig()
			if err != nil {
				t.Fatalf("GetModeConfig() error = %v", err)
			}
			if got.Mode != models.ModeRandom {
				t.Errorf("fixed set with a dangling card must degrade to random, got %q", got.Mode)
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int64
		wantErr bool
	}{
		{"1,2,3", []int64{1, 2, 3}, false},
		{" 4 , 5 ", []int64{4, 5}, false},
		{"", nil, false},
		{"1,x,3", nil, true},
	}

	for _, tt := range tests {
		got, err := parseIDList(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIDList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseIDList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseIDList(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}

func TestJoinIDList(t *testing.T) {
	if got := joinIDList([]int64{3, 1, 2}); got != "3,1,2" {
		t.Errorf("joinIDList() = %q, want order preserved", got)
	}
	if got := joinIDList(nil); got != "" {
		t.Errorf("joinIDList(nil) = %q, want empty", got)
	}
}

package repository

import (
	"database/sql"

	"wordassoc/internal/database"
)

// Setting keys for the selection policy. selected_word_ids is a
// comma-joined ordered id list; order defines the presentation sequence.
const (
	SettingMode            = "mode"
	SettingWordCount       = "word_count"
	SettingSelectedWordIDs = "selected_word_ids"
)

// SettingsRepository is the key-value store behind the mode
// configuration. Writes are last-writer-wins; there is no versioning.
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key. Returns ok=false when
// the key has never been written.
func (r *SettingsRepository) GetSetting(key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := r.db.Dialect.UpsertSetting()
	_, err := r.db.Exec(query, key, value)
	return err
}

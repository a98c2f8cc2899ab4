package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"wordassoc/internal/database"
)

// BackupData is the complete portable snapshot of the database. It is
// dialect-neutral JSON, so a sqlite deployment can be restored into
// postgres or mysql.
type BackupData struct {
	Version      string              `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	Users        []UserBackup        `json:"users"`
	Cards        []CardBackup        `json:"cards"`
	Associations []AssociationBackup `json:"associations"`
	Settings     []SettingBackup     `json:"settings"`
}

// UserBackup is a user row in a backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	DisplayName   string    `json:"display_name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

// CardBackup is a word card row in a backup
type CardBackup struct {
	ID        int64     `json:"id"`
	Word      string    `json:"word"`
	Category  string    `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AssociationBackup is an association log row in a backup
type AssociationBackup struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CardID       int64     `json:"card_id"`
	Word         string    `json:"word"`
	Association1 string    `json:"association_1"`
	Association2 string    `json:"association_2"`
	Association3 string    `json:"association_3"`
	TimeTaken    int       `json:"time_taken"`
	AISummary    string    `json:"ai_summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// SettingBackup is a settings row in a backup
type SettingBackup struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BackupService handles database export and restore
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete snapshot of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportCards(backup); err != nil {
		return fmt.Errorf("failed to export cards: %w", err)
	}
	if err := s.exportAssociations(backup); err != nil {
		return fmt.Errorf("failed to export associations: %w", err)
	}
	if err := s.exportSettings(backup); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d users, %d cards, %d associations, %d settings",
		len(backup.Users), len(backup.Cards), len(backup.Associations), len(backup.Settings))

	return nil
}

// Import restores a database from a backup file. Rows are inserted in
// dependency order with their original ids preserved.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importCards(backup.Cards); err != nil {
		return fmt.Errorf("failed to import cards: %w", err)
	}
	if err := s.importAssociations(backup.Associations); err != nil {
		return fmt.Errorf("failed to import associations: %w", err)
	}
	if err := s.importSettings(backup.Settings); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

// Clear removes all rows, association log first to respect foreign keys
func (s *BackupService) Clear() error {
	for _, table := range []string{"associations", "settings", "cards", "users"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, COALESCE(password_hash, ''), display_name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_admin, created_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportCards(backup *BackupData) error {
	query := "SELECT id, word, COALESCE(category, ''), active, created_at FROM cards ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CardBackup
		if err := rows.Scan(&c.ID, &c.Word, &c.Category, &c.Active, &c.CreatedAt); err != nil {
			return err
		}
		backup.Cards = append(backup.Cards, c)
	}
	return rows.Err()
}

func (s *BackupService) exportAssociations(backup *BackupData) error {
	query := "SELECT id, user_id, card_id, word, association_1, association_2, association_3, time_taken, COALESCE(ai_summary, ''), created_at FROM associations ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AssociationBackup
		if err := rows.Scan(&a.ID, &a.UserID, &a.CardID, &a.Word, &a.Association1, &a.Association2, &a.Association3, &a.TimeTaken, &a.AISummary, &a.CreatedAt); err != nil {
			return err
		}
		backup.Associations = append(backup.Associations, a)
	}
	return rows.Err()
}

func (s *BackupService) exportSettings(backup *BackupData) error {
	query := "SELECT key, value FROM settings ORDER BY key"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st SettingBackup
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return err
		}
		backup.Settings = append(backup.Settings, st)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	query := "INSERT INTO users (id, email, password_hash, display_name, oauth_provider, oauth_subject, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	for _, u := range users {
		_, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.DisplayName, nullable(u.OAuthProvider), nullable(u.OAuthSubject), u.IsAdmin, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	log.Printf("Imported %d users", len(users))
	return nil
}

func (s *BackupService) importCards(cards []CardBackup) error {
	query := "INSERT INTO cards (id, word, category, active, created_at) VALUES (?, ?, ?, ?, ?)"
	for _, c := range cards {
		_, err := s.db.Exec(query, c.ID, c.Word, nullable(c.Category), c.Active, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("card %d: %w", c.ID, err)
		}
	}
	log.Printf("Imported %d cards", len(cards))
	return nil
}

func (s *BackupService) importAssociations(associations []AssociationBackup) error {
	query := "INSERT INTO associations (id, user_id, card_id, word, association_1, association_2, association_3, time_taken, ai_summary, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	for _, a := range associations {
		_, err := s.db.Exec(query, a.ID, a.UserID, a.CardID, a.Word, a.Association1, a.Association2, a.Association3, a.TimeTaken, nullable(a.AISummary), a.CreatedAt)
		if err != nil {
			return fmt.Errorf("association %d: %w", a.ID, err)
		}
	}
	log.Printf("Imported %d associations", len(associations))
	return nil
}

func (s *BackupService) importSettings(settings []SettingBackup) error {
	for _, st := range settings {
		if _, err := s.db.Exec(s.db.Dialect.UpsertSetting(), st.Key, st.Value); err != nil {
			return fmt.Errorf("setting %q: %w", st.Key, err)
		}
	}
	log.Printf("Imported %d settings", len(settings))
	return nil
}

// nullable stores empty strings as NULL
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

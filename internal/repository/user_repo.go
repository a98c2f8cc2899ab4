package repository

import (
	"database/sql"

	"wordassoc/internal/database"
	"wordassoc/internal/models"
)

// UserRepository handles user account database operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, display_name, oauth_provider, oauth_subject, is_admin, created_at"

// CreateUser creates a new local account
func (r *UserRepository) CreateUser(email, passwordHash, displayName string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name)
		VALUES (?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, email, passwordHash, displayName)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(id)
}

// CreateOAuthUser creates an account backed by an external identity provider
func (r *UserRepository) CreateOAuthUser(email, displayName, provider, subject string) (*models.User, error) {
	query := `
		INSERT INTO users (email, display_name, oauth_provider, oauth_subject)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, email, displayName, provider, subject)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(id)
}

// GetUserByID retrieves a user by ID. Returns nil when not found.
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetUserByEmail retrieves a user by email. Returns nil when not found.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return r.scanUser(r.db.QueryRow(query, email))
}

// GetUserByOAuth retrieves a user by provider identity. Returns nil
// when not found.
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"
	return r.scanUser(r.db.QueryRow(query, provider, subject))
}

// SetAdmin grants or revokes admin rights
func (r *UserRepository) SetAdmin(id int64, isAdmin bool) error {
	query := "UPDATE users SET is_admin = ? WHERE id = ?"
	_, err := r.db.Exec(query, isAdmin, id)
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

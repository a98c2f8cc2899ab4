package models

import "time"

// User represents a player account. OAuth accounts carry the provider
// and subject instead of a password hash.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"display_name"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength    = 8
	maxPasswordLength    = 128
	maxDisplayNameLength = 64
)

// ValidateEmail checks that the address parses and is not absurdly long
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}

// ValidatePassword enforces length bounds only. Composition rules are
// deliberately not enforced.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// ValidateDisplayName checks an optional player-chosen display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLength {
		return fmt.Errorf("display name must be at most %d characters", maxDisplayNameLength)
	}
	if strings.ContainsAny(name, "<>\n\r\t") {
		return fmt.Errorf("display name contains invalid characters")
	}
	return nil
}

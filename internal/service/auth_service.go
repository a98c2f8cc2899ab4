package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"wordassoc/internal/credentials"
	"wordassoc/internal/models"
	"wordassoc/internal/security"
	"wordassoc/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountStore is the user persistence the auth service needs
type AccountStore interface {
	CreateUser(email, passwordHash, displayName string) (*models.User, error)
	CreateOAuthUser(email, displayName, provider, subject string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByOAuth(provider, subject string) (*models.User, error)
}

// AuthService handles account creation and login
type AuthService struct {
	userRepo AccountStore
	tokens   *security.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo AccountStore, tokens *security.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a local account and returns the user with a signed
// bearer token. An empty display name gets a generated one.
func (s *AuthService) Register(email, password, displayName string) (*models.User, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, "", err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		generated, err := credentials.GenerateDisplayName()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate display name: %w", err)
		}
		displayName = generated
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, displayName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a local account and returns a signed bearer token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// OAuthLogin finds or creates the account behind an external identity
// and returns a signed bearer token.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.User, string, error) {
	if provider == "" || subject == "" {
		return nil, "", errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		existing, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			// Same address registered with a password or another
			// provider; refuse rather than silently merge accounts.
			return nil, "", ErrEmailTaken
		}

		if name == "" {
			generated, err := credentials.GenerateDisplayName()
			if err != nil {
				return nil, "", fmt.Errorf("failed to generate display name: %w", err)
			}
			name = generated
		}

		user, err = s.userRepo.CreateOAuthUser(email, name, provider, subject)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create oauth user: %w", err)
		}
		log.Printf("Created account via %s sign-in: user=%d", provider, user.ID)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// VerifyToken resolves a bearer token to its user. Returns nil when
// the token is valid but the account no longer exists.
func (s *AuthService) VerifyToken(token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(userID)
}

package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"wordassoc/internal/models"
	"wordassoc/internal/security"
)

type fakeAccounts struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: make(map[int64]*models.User)}
}

func (f *fakeAccounts) CreateUser(email, passwordHash, displayName string) (*models.User, error) {
	f.nextID++
	user := &models.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeAccounts) CreateOAuthUser(email, displayName, provider, subject string) (*models.User, error) {
	f.nextID++
	user := &models.User{
		ID:            f.nextID,
		Email:         email,
		DisplayName:   displayName,
		OAuthProvider: provider,
		OAuthSubject:  subject,
		CreatedAt:     time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeAccounts) GetUserByID(id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeAccounts) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) GetUserByOAuth(provider, subject string) (*models.User, error) {
	for _, u := range f.users {
		if u.OAuthProvider == provider && u.OAuthSubject == subject {
			return u, nil
		}
	}
	return nil, nil
}

func newAuthService() (*AuthService, *fakeAccounts) {
	accounts := newFakeAccounts()
	tokens := security.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(accounts, tokens), accounts
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()

	user, token, err := svc.Register("Sam@Example.com", "long enough password", "Sam Jones")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "sam@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if token == "" {
		t.Error("Register() returned empty token")
	}
	if user.PasswordHash == "long enough password" {
		t.Error("password stored in plaintext")
	}

	loggedIn, loginToken, err := svc.Login("sam@example.com", "long enough password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn.ID != user.ID || loginToken == "" {
		t.Errorf("Login() = user %d, token %q", loggedIn.ID, loginToken)
	}

	resolved, err := svc.VerifyToken(loginToken)
	if err != nil || resolved == nil || resolved.ID != user.ID {
		t.Errorf("VerifyToken() = %v, %v", resolved, err)
	}
}

func TestRegisterGeneratesDisplayName(t *testing.T) {
	svc, _ := newAuthService()

	user, _, err := svc.Register("ana@example.com", "long enough password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.DisplayName == "" {
		t.Error("blank display name was not replaced with a generated one")
	}
	if !strings.Contains(user.DisplayName, "-") {
		t.Errorf("generated display name = %q, want adjective-noun", user.DisplayName)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	if _, _, err := svc.Register("sam@example.com", "long enough password", "Sam"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register("sam@example.com", "another password", "Sam"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "long enough password"},
		{"short password", "sam@example.com", "short"},
		{"empty email", "", "long enough password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Register(tt.email, tt.password, ""); err == nil {
				t.Error("Register() accepted invalid input")
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	if _, _, err := svc.Register("sam@example.com", "long enough password", "Sam"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login("sam@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "long enough password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() for unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestOAuthLoginCreatesThenReuses(t *testing.T) {
	svc, accounts := newAuthService()

	first, token, err := svc.OAuthLogin("google", "subject-1", "sam@example.com", "Sam Jones")
	if err != nil {
		t.Fatalf("OAuthLogin() error = %v", err)
	}
	if token == "" || first.OAuthProvider != "google" {
		t.Errorf("OAuthLogin() = %+v, token %q", first, token)
	}

	second, _, err := svc.OAuthLogin("google", "subject-1", "sam@example.com", "Sam Jones")
	if err != nil {
		t.Fatalf("second OAuthLogin() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second sign-in created a new account: %d != %d", second.ID, first.ID)
	}
	if len(accounts.users) != 1 {
		t.Errorf("account count = %d, want 1", len(accounts.users))
	}
}

func TestOAuthLoginRefusesExistingLocalEmail(t *testing.T) {
	svc, _ := newAuthService()
	if _, _, err := svc.Register("sam@example.com", "long enough password", "Sam"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.OAuthLogin("google", "subject-1", "sam@example.com", "Sam"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("OAuthLogin() error = %v, want ErrEmailTaken", err)
	}
}

package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/oauth2"

	"wordassoc/internal/models"
	"wordassoc/internal/service"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	googleOAuth *oauth2.Config
}

// NewAuthHandler creates a new auth handler. googleOAuth may be nil
// when Google sign-in is not configured.
func NewAuthHandler(authService *service.AuthService, googleOAuth *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		googleOAuth: googleOAuth,
	}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, token, err := h.authService.Register(req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already taken", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// GoogleStart handles GET /api/v1/auth/google/start
func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil {
		respondError(w, http.StatusNotFound, "google sign-in is not configured", nil)
		return
	}

	state, err := randomState()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to start sign-in", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.googleOAuth.AuthCodeURL(state), http.StatusSeeOther)
}

// GoogleCallback handles GET /api/v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil {
		respondError(w, http.StatusNotFound, "google sign-in is not configured", nil)
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, http.StatusBadRequest, "invalid oauth state", nil)
		return
	}

	// State cookie is single use
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	oauthToken, err := h.googleOAuth.Exchange(r.Context(), code)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to exchange authorization code", err)
		return
	}

	info, err := h.fetchGoogleProfile(r, oauthToken)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to fetch google profile", err)
		return
	}

	user, token, err := h.authService.OAuthLogin("google", info.ID, info.Email, info.Name)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, "this email is already registered with a password", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "sign-in failed", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) fetchGoogleProfile(r *http.Request, token *oauth2.Token) (*googleProfile, error) {
	client := h.googleOAuth.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

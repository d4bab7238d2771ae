package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"TodoList/server/internal/appMiddleware"
	"TodoList/server/internal/auth"
	"TodoList/server/internal/models"
	"TodoList/server/internal/services"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthHandler struct {
	users      services.UserService
	tokens     services.RefreshTokenService
	tm         *auth.TokenManager
	refreshTTL time.Duration
}

func NewAuthHandler(users services.UserService, tokens services.RefreshTokenService, tm *auth.TokenManager, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:      users,
		tokens:     tokens,
		tm:         tm,
		refreshTTL: refreshTTL,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email, password, and username are required")
		return
	}

	if req.Email == "" || req.Password == "" || req.Username == "" {
		sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email, password, and username are required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		sendError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format")
		return
	}
	if utf8.RuneCountInString(req.Password) < 8 {
		sendError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters long")
		return
	}
	if n := utf8.RuneCountInString(req.Username); n < 2 || n > 50 {
		sendError(w, http.StatusBadRequest, "INVALID_USERNAME", "Username must be between 2 and 50 characters")
		return
	}

	ctx := r.Context()

	// Fast path only: the unique constraint on users.email is the real
	// guard against the check/insert race.
	exists, err := h.users.EmailExists(ctx, req.Email)
	if err != nil {
		log.Printf("Registration error: %v", err)
		sendError(w, http.StatusInternalServerError, "REGISTRATION_ERROR", "An error occurred during registration")
		return
	}
	if exists {
		sendError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		sendError(w, http.StatusInternalServerError, "REGISTRATION_ERROR", "An error occurred during registration")
		return
	}

	user, err := h.users.CreateUser(ctx, req.Email, hash, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrEmailExists) {
			sendError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already exists")
			return
		}
		log.Printf("Registration error: %v", err)
		sendError(w, http.StatusInternalServerError, "REGISTRATION_ERROR", "An error occurred during registration")
		return
	}

	sendSuccess(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		sendError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format")
		return
	}

	ctx := r.Context()

	// Unknown email and wrong password must be indistinguishable to the
	// caller (anti-enumeration).
	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			sendError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "Invalid email or password")
			return
		}
		log.Printf("Login error: %v", err)
		sendError(w, http.StatusInternalServerError, "LOGIN_ERROR", "An error occurred during login")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		sendError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "Invalid email or password")
		return
	}

	accessToken, err := h.tm.IssueAccess(user.ID.String(), user.Email)
	if err != nil {
		log.Printf("Error issuing access token for user %s: %v", user.ID, err)
		sendError(w, http.StatusInternalServerError, "LOGIN_ERROR", "An error occurred during login")
		return
	}

	refreshToken, err := h.tm.IssueRefresh(user.ID.String())
	if err != nil {
		log.Printf("Error issuing refresh token for user %s: %v", user.ID, err)
		sendError(w, http.StatusInternalServerError, "LOGIN_ERROR", "An error occurred during login")
		return
	}

	if err := h.tokens.Create(ctx, user.ID, refreshToken, time.Now().Add(h.refreshTTL)); err != nil {
		log.Printf("Error storing refresh token for user %s: %v", user.ID, err)
		sendError(w, http.StatusInternalServerError, "LOGIN_ERROR", "An error occurred during login")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// Refresh exchanges a stored, still-valid refresh token for a new access
// token. The refresh token itself is not rotated; stored rows that turn out
// dead (bad signature, expired, orphaned) are deleted on sight.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		sendError(w, http.StatusUnauthorized, "NO_REFRESH_TOKEN", "Refresh token is required")
		return
	}
	if !strings.Contains(req.RefreshToken, ".") {
		sendError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
		return
	}

	ctx := r.Context()

	stored, err := h.tokens.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			sendError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
			return
		}
		log.Printf("Refresh error: %v", err)
		sendError(w, http.StatusInternalServerError, "REFRESH_ERROR", "An error occurred during token refresh")
		return
	}

	if _, err := h.tm.VerifyRefresh(req.RefreshToken); err != nil {
		if err := h.tokens.DeleteById(ctx, stored.ID); err != nil {
			log.Printf("Error cleaning up dead refresh token %s: %v", stored.ID, err)
		}
		sendError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
		return
	}

	user, err := h.users.GetUserById(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if err := h.tokens.DeleteById(ctx, stored.ID); err != nil {
				log.Printf("Error cleaning up orphaned refresh token %s: %v", stored.ID, err)
			}
			sendError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
			return
		}
		log.Printf("Refresh error: %v", err)
		sendError(w, http.StatusInternalServerError, "REFRESH_ERROR", "An error occurred during token refresh")
		return
	}

	accessToken, err := h.tm.IssueAccess(user.ID.String(), user.Email)
	if err != nil {
		log.Printf("Error issuing access token for user %s: %v", user.ID, err)
		sendError(w, http.StatusInternalServerError, "REFRESH_ERROR", "An error occurred during token refresh")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{"accessToken": accessToken})
}

// Logout revokes every refresh token the authenticated user owns, ending
// all of their sessions rather than only the current one.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFromContext(r.Context())
	if !ok {
		log.Println("Missing identity in request context")
		sendError(w, http.StatusInternalServerError, "AUTH_ERROR", "Authentication failed")
		return
	}

	if err := h.tokens.DeleteByUserId(r.Context(), identity.UserID); err != nil {
		log.Printf("Logout error for user %s: %v", identity.UserID, err)
		sendError(w, http.StatusInternalServerError, "LOGOUT_ERROR", "An error occurred during logout")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

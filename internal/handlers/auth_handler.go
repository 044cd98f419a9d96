package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"caseclash/internal/models"
	"caseclash/internal/service"
	"caseclash/internal/validation"
)

// AuthHandler handles registration, login and password reset endpoints
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type playerResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsPro       bool   `json:"isPro"`
}

type authResponse struct {
	Player playerResponse `json:"player"`
	Token  string         `json:"token"`
}

func toPlayerResponse(p *models.Player) playerResponse {
	return playerResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		IsPro:       p.IsPro,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, token, err := h.auth.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			log.Printf("Registration failed: %v", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Player: toPlayerResponse(player), Token: token})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Printf("Login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Player: toPlayerResponse(player), Token: token})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	if err := h.auth.Logout(token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		log.Printf("Logout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// ForgotPassword handles POST /api/auth/forgot-password. It always responds
// with success so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.auth.RequestPasswordReset(req.Email); err != nil {
		log.Printf("Password reset request failed: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "if the account exists, an email has been sent"})
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.auth.ResetPassword(req.Token, req.Password); err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, service.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		default:
			log.Printf("Password reset failed: %v", err)
			writeError(w, http.StatusInternalServerError, "password reset failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/app/auth"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type AuthHandler struct {
	service interfaces.AuthService
	logger  logger.Logger
}

func NewAuthHandler(service interfaces.AuthService, lg logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: lg}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	// Self-registration always yields a customer account; staff roles are
	// granted out of band.
	id, err := h.service.Register(r.Context(), req.Username, req.Password, req.Email, domain.RoleCustomer)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			respondError(w, "Username already exists", http.StatusConflict, nil)
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"user_id": id})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password, r.RemoteAddr, r.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, "Invalid username or password", http.StatusUnauthorized, nil)
			return
		}
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout_failed", "Failed to delete session", "", nil, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "session_token",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

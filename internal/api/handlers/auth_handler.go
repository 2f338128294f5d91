package handlers

import (
	"net/http"

	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/application/services"
)

// AuthHandler handles registration, login and session management
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := decodeJSONBody(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := decodeJSONBody(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	input.UserAgent = r.UserAgent()
	input.IPAddress = r.RemoteAddr

	user, pair, err := h.authService.Login(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"tokens": pair,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest
	if err := decodeJSONBody(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), input.RefreshToken, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"tokens": pair})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest
	if err := decodeJSONBody(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.authService.Logout(r.Context(), input.RefreshToken); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.authService.GetUser(r.Context(), caller.UserID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// ListMySessions handles GET /api/auth/sessions
func (h *AuthHandler) ListMySessions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := r.URL.Query()
	sessions, err := h.authService.ListSessions(r.Context(), caller.UserID,
		parseIntParam(query.Get("limit"), 20), parseIntParam(query.Get("offset"), 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// RevokeMySessions handles POST /api/auth/sessions/revoke-all
func (h *AuthHandler) RevokeMySessions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.authService.LogoutAll(r.Context(), caller.UserID); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

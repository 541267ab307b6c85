package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/api/middleware"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// SessionService defines the interface for sign-in and account operations
type SessionService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Current(ctx context.Context, userID string) (*entities.User, error)
	RequestedRole(ctx context.Context) (entities.Role, bool, error)
	SwitchRole(ctx context.Context, userID string, role entities.Role) error
	UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (*entities.User, error)
	Register(ctx context.Context, reg entities.Registration) error
	ChangePassword(ctx context.Context, userID string, change services.PasswordChange) error
}

// SessionHandler handles session requests
type SessionHandler struct {
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// callerID returns the user id of the verified token, or "" for anonymous requests
func callerID(r *http.Request) string {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), callerID(r)); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/session/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Current(r.Context(), callerID(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// GetRequestedRole handles GET /api/session/requested-role
func (h *SessionHandler) GetRequestedRole(w http.ResponseWriter, r *http.Request) {
	role, found, err := h.service.RequestedRole(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !found {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"role": nil})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"role": role})
}

type switchRoleRequest struct {
	Role string `json:"role"`
}

// SwitchRole handles POST /api/session/switch-role
func (h *SessionHandler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	var req switchRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	role, err := entities.ParseRole(req.Role)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.SwitchRole(r.Context(), callerID(r), role); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile handles PATCH /api/session/profile
func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update entities.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), callerID(r), update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// Register handles POST /api/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg entities.Registration
	if err := decodeJSON(r, &reg); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.service.Register(r.Context(), reg); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// ChangePassword handles POST /api/session/password
func (h *SessionHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var change services.PasswordChange
	if err := decodeJSON(r, &change); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.service.ChangePassword(r.Context(), callerID(r), change); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rafid/ideafeed/internal/auth"
	"github.com/rafid/ideafeed/internal/service"
)

// IdentityHandler owns registration, login/logout and the user directory.
type IdentityHandler struct {
	identity *service.IdentityService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewIdentityHandler creates an IdentityHandler.
func NewIdentityHandler(identity *service.IdentityService, tokens *auth.TokenService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		identity: identity,
		tokens:   tokens,
		logger:   logger,
	}
}

// HandleRegister creates a new account and logs it in.
//
// HTTP: POST /api/register
// Body: {"name":"...","alias":"...","email":"...","password":"...","confirmation":"..."}
func (h *IdentityHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid registration JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.identity.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := auth.SetSession(w, h.tokens, user.ID); err != nil {
		h.logger.Error("failed to issue session", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// loginRequest is the login form.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session cookie.
//
// HTTP: POST /api/login
// Body: {"email":"...","password":"..."}
func (h *IdentityHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := auth.SetSession(w, h.tokens, user.ID); err != nil {
		h.logger.Error("failed to issue session", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the session cookie. The token stays valid until it
// expires, but without the cookie the browser cannot send it.
//
// HTTP: POST /api/logout
func (h *IdentityHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the logged-in user's own account.
//
// HTTP: GET /api/me
// Auth: required
func (h *IdentityHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, kept for direct use.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "please log in",
		})
		return
	}

	user, err := h.identity.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleListUsers returns the user directory.
//
// HTTP: GET /api/users?limit=50&offset=0
// Auth: required
func (h *IdentityHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)

	users, err := h.identity.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

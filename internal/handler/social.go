package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafid/ideafeed/internal/auth"
	"github.com/rafid/ideafeed/internal/service"
)

// SocialHandler owns the follow graph endpoints.
type SocialHandler struct {
	social *service.SocialService
	logger *slog.Logger
}

// NewSocialHandler creates a SocialHandler.
func NewSocialHandler(social *service.SocialService, logger *slog.Logger) *SocialHandler {
	return &SocialHandler{social: social, logger: logger}
}

// HandleFollow adds a follow edge from the logged-in user to {id}. Following
// an already-followed user is a no-op; following yourself is rejected.
//
// HTTP: POST /api/users/{id}/follow
// Auth: required
func (h *SocialHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if err := h.social.Follow(r.Context(), userID, targetID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUnfollow removes the follow edge if present.
//
// HTTP: DELETE /api/users/{id}/follow
// Auth: required
func (h *SocialHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if err := h.social.Unfollow(r.Context(), userID, targetID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFollowers lists the users following {id}.
//
// HTTP: GET /api/users/{id}/followers
// Auth: required
func (h *SocialHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	followers, err := h.social.Followers(r.Context(), targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, followers)
}

// HandleFollowing lists the users {id} follows.
//
// HTTP: GET /api/users/{id}/following
// Auth: required
func (h *SocialHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	following, err := h.social.Following(r.Context(), targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, following)
}

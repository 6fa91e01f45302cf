package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafid/ideafeed/internal/auth"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/service"
)

// FeedHandler owns the timeline and profile endpoints.
type FeedHandler struct {
	feeds  *service.FeedService
	social *service.SocialService
	logger *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feeds *service.FeedService, social *service.SocialService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		feeds:  feeds,
		social: social,
		logger: logger,
	}
}

// profileResponse bundles the viewed account with the follow state and the
// idea list shown on the profile page.
type profileResponse struct {
	User      *model.User  `json:"user"`
	Following bool         `json:"following"`
	Ideas     []model.Idea `json:"ideas"`
}

// HandleFeed returns the logged-in user's timeline: their own ideas plus
// those of everyone they follow, most recent first.
//
// HTTP: GET /api/feed?limit=50&offset=0
// Auth: required
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	limit, offset := listParams(r)

	ideas, err := h.feeds.FeedFor(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ideas)
}

// HandleProfile returns the profile page data for user {id}: the account,
// whether the viewer follows them, and the idea list.
//
// HTTP: GET /api/users/{id}/profile
// Auth: required
func (h *FeedHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())
	viewedID := chi.URLParam(r, "id")

	viewed, ideas, err := h.feeds.ProfileFeed(r.Context(), viewerID, viewedID)
	if err != nil {
		writeError(w, err)
		return
	}

	following, err := h.social.IsFollowing(r.Context(), viewerID, viewedID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:      viewed,
		Following: following,
		Ideas:     ideas,
	})
}

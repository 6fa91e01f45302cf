package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rafid/ideafeed/internal/auth"
	"github.com/rafid/ideafeed/internal/service"
)

// IdeaHandler owns the idea lifecycle and the like endpoints.
type IdeaHandler struct {
	ideas  *service.IdeaService
	logger *slog.Logger
}

// NewIdeaHandler creates an IdeaHandler.
func NewIdeaHandler(ideas *service.IdeaService, logger *slog.Logger) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, logger: logger}
}

// ideaRequest carries the message for create and update.
type ideaRequest struct {
	Message string `json:"message"`
}

// ideaResponse is an idea decorated with its engagement state for the
// requesting user.
type ideaResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	AuthorID  string    `json:"authorId"`
	LikeCount int64     `json:"likeCount"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HandleCreate posts a new idea authored by the logged-in user.
//
// HTTP: POST /api/ideas
// Body: {"message":"..."}
// Auth: required
func (h *IdeaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req ideaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid idea JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	idea, err := h.ideas.Create(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, idea)
}

// HandleGet returns one idea with its like count and whether the requesting
// user has liked it.
//
// HTTP: GET /api/ideas/{id}
// Auth: required
func (h *IdeaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	ideaID := chi.URLParam(r, "id")

	idea, err := h.ideas.Get(r.Context(), ideaID)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.ideas.LikeCount(r.Context(), ideaID)
	if err != nil {
		writeError(w, err)
		return
	}
	liked, err := h.ideas.HasLiked(r.Context(), userID, ideaID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ideaResponse{
		ID:        idea.ID,
		Message:   idea.Message,
		AuthorID:  idea.AuthorID,
		LikeCount: count,
		Liked:     liked,
		CreatedAt: idea.CreatedAt,
		UpdatedAt: idea.UpdatedAt,
	})
}

// HandleUpdate replaces the message of the logged-in user's own idea.
//
// HTTP: PUT /api/ideas/{id}
// Body: {"message":"..."}
// Auth: required, author only
func (h *IdeaHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	ideaID := chi.URLParam(r, "id")

	var req ideaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid idea JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	idea, err := h.ideas.Update(r.Context(), ideaID, userID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, idea)
}

// HandleDelete removes the logged-in user's own idea and its likes.
//
// HTTP: DELETE /api/ideas/{id}
// Auth: required, author only
func (h *IdeaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	ideaID := chi.URLParam(r, "id")

	if err := h.ideas.Delete(r.Context(), ideaID, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLike records a like. Liking twice is a no-op, so the endpoint is
// safe to retry.
//
// HTTP: POST /api/ideas/{id}/like
// Auth: required
func (h *IdeaHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	ideaID := chi.URLParam(r, "id")

	if err := h.ideas.Like(r.Context(), userID, ideaID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUnlike removes a like if present.
//
// HTTP: DELETE /api/ideas/{id}/like
// Auth: required
func (h *IdeaHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	ideaID := chi.URLParam(r, "id")

	if err := h.ideas.Unlike(r.Context(), userID, ideaID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLikers lists the users who liked an idea.
//
// HTTP: GET /api/ideas/{id}/likes
// Auth: required
func (h *IdeaHandler) HandleLikers(w http.ResponseWriter, r *http.Request) {
	ideaID := chi.URLParam(r, "id")

	if _, err := h.ideas.Get(r.Context(), ideaID); err != nil {
		writeError(w, err)
		return
	}

	likers, err := h.ideas.Likers(r.Context(), ideaID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likers)
}

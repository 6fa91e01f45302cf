package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/rafid/ideafeed/internal/apperror"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// IdeaService handles the idea lifecycle and the like relation.
type IdeaService struct {
	ideas  repository.IdeaRepository
	likes  repository.LikeRepository
	logger *slog.Logger
}

// NewIdeaService creates an IdeaService.
func NewIdeaService(ideas repository.IdeaRepository, likes repository.LikeRepository, logger *slog.Logger) *IdeaService {
	return &IdeaService{
		ideas:  ideas,
		likes:  likes,
		logger: logger,
	}
}

// checkMessage enforces the two message rules shared by Create and Update.
func checkMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperror.ValidationFailed("message", "message must not be empty")
	}
	if utf8.RuneCountInString(message) > model.MaxIdeaMessageLength {
		return "", apperror.ValidationFailed("message",
			fmt.Sprintf("message must be %d characters or less", model.MaxIdeaMessageLength))
	}
	return message, nil
}

// Create persists a new idea for authorID with server-assigned timestamps.
func (s *IdeaService) Create(ctx context.Context, authorID, message string) (*model.Idea, error) {
	message, err := checkMessage(message)
	if err != nil {
		return nil, err
	}

	idea := &model.Idea{
		Message:  message,
		AuthorID: authorID,
	}

	if err := s.ideas.Create(ctx, idea); err != nil {
		s.logger.Error("failed to create idea",
			slog.String("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/idea: creating idea: %w", err)
	}

	s.logger.Info("idea created",
		slog.String("ideaID", idea.ID),
		slog.String("authorID", authorID),
	)
	return idea, nil
}

// Get returns an idea by id, or ErrNotFound.
func (s *IdeaService) Get(ctx context.Context, id string) (*model.Idea, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "idea ID is required")
	}
	return s.ideas.GetByID(ctx, id)
}

// Update replaces the message of an idea. Only the author may edit; anyone
// else gets ErrForbidden regardless of what they send.
func (s *IdeaService) Update(ctx context.Context, ideaID, requesterID, message string) (*model.Idea, error) {
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if idea.AuthorID != requesterID {
		return nil, apperror.Forbidden("only the author may edit an idea")
	}

	message, err = checkMessage(message)
	if err != nil {
		return nil, err
	}

	idea.Message = message
	if err := s.ideas.Update(ctx, idea); err != nil {
		s.logger.Error("failed to update idea",
			slog.String("ideaID", ideaID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/idea: updating idea: %w", err)
	}

	s.logger.Info("idea updated", slog.String("ideaID", ideaID))
	return idea, nil
}

// Delete removes an idea and, through the store's cascade, its like rows.
// Only the author may delete.
func (s *IdeaService) Delete(ctx context.Context, ideaID, requesterID string) error {
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}

	if idea.AuthorID != requesterID {
		return apperror.Forbidden("only the author may delete an idea")
	}

	if err := s.ideas.Delete(ctx, ideaID); err != nil {
		s.logger.Error("failed to delete idea",
			slog.String("ideaID", ideaID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/idea: deleting idea: %w", err)
	}

	s.logger.Info("idea deleted", slog.String("ideaID", ideaID))
	return nil
}

// Like records that userID likes ideaID. Liking an already-liked idea is a
// no-op — the store's unique pair absorbs the duplicate.
func (s *IdeaService) Like(ctx context.Context, userID, ideaID string) error {
	if _, err := s.ideas.GetByID(ctx, ideaID); err != nil {
		return err
	}

	if err := s.likes.Create(ctx, userID, ideaID); err != nil {
		s.logger.Error("failed to create like",
			slog.String("userID", userID),
			slog.String("ideaID", ideaID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/idea: liking: %w", err)
	}
	return nil
}

// Unlike removes userID's like of ideaID if present; unliking something
// never liked is a no-op.
func (s *IdeaService) Unlike(ctx context.Context, userID, ideaID string) error {
	if err := s.likes.Delete(ctx, userID, ideaID); err != nil {
		s.logger.Error("failed to delete like",
			slog.String("userID", userID),
			slog.String("ideaID", ideaID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/idea: unliking: %w", err)
	}
	return nil
}

// LikeCount returns how many users have liked the idea.
func (s *IdeaService) LikeCount(ctx context.Context, ideaID string) (int64, error) {
	return s.likes.CountByIdea(ctx, ideaID)
}

// HasLiked reports whether userID has liked ideaID.
func (s *IdeaService) HasLiked(ctx context.Context, userID, ideaID string) (bool, error) {
	return s.likes.Exists(ctx, userID, ideaID)
}

// Likers lists the users who liked the idea.
func (s *IdeaService) Likers(ctx context.Context, ideaID string) ([]model.User, error) {
	likers, err := s.likes.Likers(ctx, ideaID, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("service/idea: listing likers: %w", err)
	}
	return likers, nil
}

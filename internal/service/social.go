package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rafid/ideafeed/internal/apperror"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// SocialService maintains the directed follow graph.
type SocialService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

// NewSocialService creates a SocialService.
func NewSocialService(follows repository.FollowRepository, users repository.UserRepository, logger *slog.Logger) *SocialService {
	return &SocialService{
		follows: follows,
		users:   users,
		logger:  logger,
	}
}

// Follow adds the edge follower→followed. Idempotent: following an already-
// followed user changes nothing. Self-follow is rejected.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return apperror.ValidationFailed("followedId", "cannot follow yourself")
	}

	// Surface a clean NotFound for a bogus target instead of a foreign-key
	// violation from the store.
	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		return err
	}

	if err := s.follows.Create(ctx, followerID, followedID); err != nil {
		s.logger.Error("failed to create follow",
			slog.String("followerID", followerID),
			slog.String("followedID", followedID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/social: following: %w", err)
	}

	s.logger.Info("user followed",
		slog.String("followerID", followerID),
		slog.String("followedID", followedID),
	)
	return nil
}

// Unfollow removes the edge if present; unfollowing someone never followed
// is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if err := s.follows.Delete(ctx, followerID, followedID); err != nil {
		s.logger.Error("failed to delete follow",
			slog.String("followerID", followerID),
			slog.String("followedID", followedID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/social: unfollowing: %w", err)
	}

	s.logger.Info("user unfollowed",
		slog.String("followerID", followerID),
		slog.String("followedID", followedID),
	)
	return nil
}

// IsFollowing reports whether follower→followed is in the edge set.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.follows.Exists(ctx, followerID, followedID)
}

// Followers lists the users following userID, in edge-insertion order.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]model.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	followers, err := s.follows.Followers(ctx, userID, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("service/social: listing followers: %w", err)
	}
	return followers, nil
}

// Following lists the users userID follows, in edge-insertion order.
func (s *SocialService) Following(ctx context.Context, userID string) ([]model.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	following, err := s.follows.Following(ctx, userID, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("service/social: listing following: %w", err)
	}
	return following, nil
}

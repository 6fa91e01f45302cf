package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// FeedService composes timelines from the follow graph and the idea store.
type FeedService struct {
	ideas  repository.IdeaRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewFeedService creates a FeedService.
func NewFeedService(ideas repository.IdeaRepository, users repository.UserRepository, logger *slog.Logger) *FeedService {
	return &FeedService{
		ideas:  ideas,
		users:  users,
		logger: logger,
	}
}

// FeedFor returns the timeline visible to userID: every idea authored by
// userID or by an author userID follows, most recent first.
func (s *FeedService) FeedFor(ctx context.Context, userID string, limit, offset int) ([]model.Idea, error) {
	ideas, err := s.ideas.Feed(ctx, userID, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to compose feed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/feed: composing feed: %w", err)
	}
	return ideas, nil
}

// ProfileFeed returns the viewed user's record together with the ideas the
// *viewer* can see. The idea list is scoped to the viewer's own feed, not
// to the profile owner's posts; the frontend currently depends on this.
//
// TODO: confirm with the product owner whether the profile page should show
// the owner's ideas instead; IdeaRepository.ListByAuthor already supports it.
func (s *FeedService) ProfileFeed(ctx context.Context, viewerID, viewedID string) (*model.User, []model.Idea, error) {
	viewed, err := s.users.GetByID(ctx, viewedID)
	if err != nil {
		return nil, nil, err
	}

	ideas, err := s.FeedFor(ctx, viewerID, 0, 0)
	if err != nil {
		return nil, nil, err
	}

	return viewed, ideas, nil
}

// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/rafid/ideafeed/internal/model"
)

// ListOptions carries limit/offset pagination for enumeration queries.
// Zero values mean "use the implementation's defaults".
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail returns every account registered under the email, in
	// insertion order. Authentication needs the full set: login only
	// succeeds when exactly one account matches.
	FindByEmail(ctx context.Context, email string) ([]model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
}

// IdeaRepository persists posts and answers the feed query.
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.Idea) error
	GetByID(ctx context.Context, id string) (*model.Idea, error)
	Update(ctx context.Context, idea *model.Idea) error
	// Delete removes the idea and, via the store's cascade, its like rows.
	Delete(ctx context.Context, id string) error
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Idea, error)
	// Feed returns the ideas visible to userID: everything authored by
	// userID or by anyone userID follows, most recent first.
	Feed(ctx context.Context, userID string, opts ListOptions) ([]model.Idea, error)
}

// FollowRepository maintains the directed follow edge set.
// Create must be idempotent; the store's unique (follower, followed) pair is
// the mechanism, not application-level locking.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID string) error
	Delete(ctx context.Context, followerID, followedID string) error
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	// Followers lists the users following userID; Following lists the users
	// userID follows. Both are views over the same edge table, ordered by
	// edge insertion.
	Followers(ctx context.Context, userID string, opts ListOptions) ([]model.User, error)
	Following(ctx context.Context, userID string, opts ListOptions) ([]model.User, error)
}

// LikeRepository maintains the (user, idea) like edge set, with the same
// idempotency contract as FollowRepository.
type LikeRepository interface {
	Create(ctx context.Context, userID, ideaID string) error
	Delete(ctx context.Context, userID, ideaID string) error
	Exists(ctx context.Context, userID, ideaID string) (bool, error)
	CountByIdea(ctx context.Context, ideaID string) (int64, error)
	Likers(ctx context.Context, ideaID string, opts ListOptions) ([]model.User, error)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/rafid/ideafeed/internal/apperror"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// mockStore is an in-memory stand-in for the sqlite package. It mirrors the
// same shape — one store, four repository views — so the services under
// test are wired exactly as in production, minus the database.
type mockStore struct {
	users   []*model.User
	ideas   []*model.Idea
	follows []model.Follow
	likes   []model.Like

	nextID int
	clock  time.Time
}

func newMockStore() *mockStore {
	return &mockStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockStore) Users() *mockUsers     { return &mockUsers{m} }
func (m *mockStore) Ideas() *mockIdeas     { return &mockIdeas{m} }
func (m *mockStore) Follows() *mockFollows { return &mockFollows{m} }
func (m *mockStore) Likes() *mockLikes     { return &mockLikes{m} }

func (m *mockStore) genID() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

// tick returns a strictly increasing timestamp so "most recent first" is
// deterministic in tests.
func (m *mockStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// --- users ---

type mockUsers struct{ s *mockStore }

var _ repository.UserRepository = (*mockUsers)(nil)

func (r *mockUsers) Create(_ context.Context, user *model.User) error {
	user.ID = r.s.genID()
	now := r.s.tick()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.s.users = append(r.s.users, &stored)
	return nil
}

func (r *mockUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (r *mockUsers) FindByEmail(_ context.Context, email string) ([]model.User, error) {
	var matches []model.User
	for _, u := range r.s.users {
		if u.Email == email {
			matches = append(matches, *u)
		}
	}
	return matches, nil
}

func (r *mockUsers) List(_ context.Context, _ repository.ListOptions) ([]model.User, error) {
	result := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		result = append(result, *u)
	}
	return result, nil
}

// --- ideas ---

type mockIdeas struct{ s *mockStore }

var _ repository.IdeaRepository = (*mockIdeas)(nil)

func (r *mockIdeas) Create(_ context.Context, idea *model.Idea) error {
	idea.ID = r.s.genID()
	now := r.s.tick()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	stored := *idea
	r.s.ideas = append(r.s.ideas, &stored)
	return nil
}

func (r *mockIdeas) GetByID(_ context.Context, id string) (*model.Idea, error) {
	for _, i := range r.s.ideas {
		if i.ID == id {
			result := *i
			return &result, nil
		}
	}
	return nil, apperror.NotFound("idea", id)
}

func (r *mockIdeas) Update(_ context.Context, idea *model.Idea) error {
	for _, i := range r.s.ideas {
		if i.ID == idea.ID {
			i.Message = idea.Message
			i.UpdatedAt = r.s.tick()
			idea.UpdatedAt = i.UpdatedAt
			return nil
		}
	}
	return apperror.NotFound("idea", idea.ID)
}

func (r *mockIdeas) Delete(_ context.Context, id string) error {
	for n, i := range r.s.ideas {
		if i.ID == id {
			r.s.ideas = append(r.s.ideas[:n], r.s.ideas[n+1:]...)
			// Cascade, as the real store's foreign key does.
			kept := r.s.likes[:0]
			for _, l := range r.s.likes {
				if l.IdeaID != id {
					kept = append(kept, l)
				}
			}
			r.s.likes = kept
			return nil
		}
	}
	return apperror.NotFound("idea", id)
}

func (r *mockIdeas) ListByAuthor(_ context.Context, authorID string, _ repository.ListOptions) ([]model.Idea, error) {
	var result []model.Idea
	for _, i := range r.s.ideas {
		if i.AuthorID == authorID {
			result = append(result, *i)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *mockIdeas) Feed(_ context.Context, userID string, _ repository.ListOptions) ([]model.Idea, error) {
	visible := map[string]bool{userID: true}
	for _, f := range r.s.follows {
		if f.FollowerID == userID {
			visible[f.FollowedID] = true
		}
	}

	result := []model.Idea{}
	for _, i := range r.s.ideas {
		if visible[i.AuthorID] {
			result = append(result, *i)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func sortNewestFirst(ideas []model.Idea) {
	sort.SliceStable(ideas, func(a, b int) bool {
		return ideas[a].CreatedAt.After(ideas[b].CreatedAt)
	})
}

// --- follows ---

type mockFollows struct{ s *mockStore }

var _ repository.FollowRepository = (*mockFollows)(nil)

func (r *mockFollows) Create(_ context.Context, followerID, followedID string) error {
	for _, f := range r.s.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return nil // unique pair: duplicate is a no-op
		}
	}
	r.s.follows = append(r.s.follows, model.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  r.s.tick(),
	})
	return nil
}

func (r *mockFollows) Delete(_ context.Context, followerID, followedID string) error {
	for n, f := range r.s.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			r.s.follows = append(r.s.follows[:n], r.s.follows[n+1:]...)
			return nil
		}
	}
	return nil
}

func (r *mockFollows) Exists(_ context.Context, followerID, followedID string) (bool, error) {
	for _, f := range r.s.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockFollows) Followers(ctx context.Context, userID string, _ repository.ListOptions) ([]model.User, error) {
	result := []model.User{}
	for _, f := range r.s.follows {
		if f.FollowedID == userID {
			u, err := r.s.Users().GetByID(ctx, f.FollowerID)
			if err != nil {
				return nil, err
			}
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *mockFollows) Following(ctx context.Context, userID string, _ repository.ListOptions) ([]model.User, error) {
	result := []model.User{}
	for _, f := range r.s.follows {
		if f.FollowerID == userID {
			u, err := r.s.Users().GetByID(ctx, f.FollowedID)
			if err != nil {
				return nil, err
			}
			result = append(result, *u)
		}
	}
	return result, nil
}

// --- likes ---

type mockLikes struct{ s *mockStore }

var _ repository.LikeRepository = (*mockLikes)(nil)

func (r *mockLikes) Create(_ context.Context, userID, ideaID string) error {
	for _, l := range r.s.likes {
		if l.UserID == userID && l.IdeaID == ideaID {
			return nil // unique pair: duplicate is a no-op
		}
	}
	r.s.likes = append(r.s.likes, model.Like{
		UserID:    userID,
		IdeaID:    ideaID,
		CreatedAt: r.s.tick(),
	})
	return nil
}

func (r *mockLikes) Delete(_ context.Context, userID, ideaID string) error {
	for n, l := range r.s.likes {
		if l.UserID == userID && l.IdeaID == ideaID {
			r.s.likes = append(r.s.likes[:n], r.s.likes[n+1:]...)
			return nil
		}
	}
	return nil
}

func (r *mockLikes) Exists(_ context.Context, userID, ideaID string) (bool, error) {
	for _, l := range r.s.likes {
		if l.UserID == userID && l.IdeaID == ideaID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockLikes) CountByIdea(_ context.Context, ideaID string) (int64, error) {
	var count int64
	for _, l := range r.s.likes {
		if l.IdeaID == ideaID {
			count++
		}
	}
	return count, nil
}

func (r *mockLikes) Likers(ctx context.Context, ideaID string, _ repository.ListOptions) ([]model.User, error) {
	result := []model.User{}
	for _, l := range r.s.likes {
		if l.IdeaID == ideaID {
			u, err := r.s.Users().GetByID(ctx, l.UserID)
			if err != nil {
				return nil, err
			}
			result = append(result, *u)
		}
	}
	return result, nil
}

// --- shared helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

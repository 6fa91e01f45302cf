package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// FollowDB maintains the directed follow edge set. Obtain one via DB.Follows().
type FollowDB struct {
	conn *sql.DB
}

// Compile-time check that *FollowDB implements repository.FollowRepository.
var _ repository.FollowRepository = (*FollowDB)(nil)

// Create adds the edge follower→followed. INSERT OR IGNORE against the
// composite primary key makes re-following a no-op — idempotency comes from
// the store's uniqueness constraint, not from a read-then-write race.
func (r *FollowDB) Create(ctx context.Context, followerID, followedID string) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (follower_id, followed_id, created_at)
		 VALUES (?, ?, ?)`,
		followerID, followedID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating follow %s->%s: %w", followerID, followedID, err)
	}
	return nil
}

// Delete removes the edge if present; removing a missing edge is a no-op.
func (r *FollowDB) Delete(ctx context.Context, followerID, followedID string) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting follow %s->%s: %w", followerID, followedID, err)
	}
	return nil
}

// Exists reports whether follower→followed is in the edge set.
func (r *FollowDB) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking follow %s->%s: %w", followerID, followedID, err)
	}
	return count > 0, nil
}

// Followers lists the users following userID, in edge-insertion order.
// One edge table, two directional accessors — no self-join re-derivation.
func (r *FollowDB) Followers(ctx context.Context, userID string, opts repository.ListOptions) ([]model.User, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := r.conn.QueryContext(ctx,
		`SELECT u.id, u.name, u.alias, u.email, u.password_hash, u.created_at, u.updated_at
		 FROM follows f
		 JOIN users u ON u.id = f.follower_id
		 WHERE f.followed_id = ?
		 ORDER BY f.created_at, f.follower_id
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing followers of %s: %w", userID, err)
	}
	defer rows.Close()

	return collectUsers(rows, limit)
}

// Following lists the users userID follows, in edge-insertion order.
func (r *FollowDB) Following(ctx context.Context, userID string, opts repository.ListOptions) ([]model.User, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := r.conn.QueryContext(ctx,
		`SELECT u.id, u.name, u.alias, u.email, u.password_hash, u.created_at, u.updated_at
		 FROM follows f
		 JOIN users u ON u.id = f.followed_id
		 WHERE f.follower_id = ?
		 ORDER BY f.created_at, f.followed_id
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing following of %s: %w", userID, err)
	}
	defer rows.Close()

	return collectUsers(rows, limit)
}

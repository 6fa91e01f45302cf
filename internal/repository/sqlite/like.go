package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// LikeDB maintains the (user, idea) like edge set. Obtain one via DB.Likes().
type LikeDB struct {
	conn *sql.DB
}

// Compile-time check that *LikeDB implements repository.LikeRepository.
var _ repository.LikeRepository = (*LikeDB)(nil)

// Create records that userID likes ideaID. INSERT OR IGNORE against the
// composite primary key makes re-liking a no-op.
func (r *LikeDB) Create(ctx context.Context, userID, ideaID string) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO likes (user_id, idea_id, created_at)
		 VALUES (?, ?, ?)`,
		userID, ideaID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating like %s->%s: %w", userID, ideaID, err)
	}
	return nil
}

// Delete removes the like if present; unliking something never liked is a
// no-op.
func (r *LikeDB) Delete(ctx context.Context, userID, ideaID string) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND idea_id = ?`,
		userID, ideaID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like %s->%s: %w", userID, ideaID, err)
	}
	return nil
}

// Exists reports whether userID has liked ideaID.
func (r *LikeDB) Exists(ctx context.Context, userID, ideaID string) (bool, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE user_id = ? AND idea_id = ?`,
		userID, ideaID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking like %s->%s: %w", userID, ideaID, err)
	}
	return count > 0, nil
}

// CountByIdea returns how many users have liked the idea.
func (r *LikeDB) CountByIdea(ctx context.Context, ideaID string) (int64, error) {
	var count int64
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE idea_id = ?`, ideaID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes of idea %s: %w", ideaID, err)
	}
	return count, nil
}

// Likers lists the users who liked the idea, in like-insertion order.
func (r *LikeDB) Likers(ctx context.Context, ideaID string, opts repository.ListOptions) ([]model.User, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := r.conn.QueryContext(ctx,
		`SELECT u.id, u.name, u.alias, u.email, u.password_hash, u.created_at, u.updated_at
		 FROM likes l
		 JOIN users u ON u.id = l.user_id
		 WHERE l.idea_id = ?
		 ORDER BY l.created_at, l.user_id
		 LIMIT ? OFFSET ?`,
		ideaID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing likers of idea %s: %w", ideaID, err)
	}
	defer rows.Close()

	return collectUsers(rows, limit)
}

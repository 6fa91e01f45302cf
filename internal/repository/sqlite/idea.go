package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/rafid/ideafeed/internal/apperror"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// IdeaDB persists ideas and answers the feed query. Obtain one via DB.Ideas().
type IdeaDB struct {
	conn *sql.DB
}

// Compile-time check that *IdeaDB implements repository.IdeaRepository.
var _ repository.IdeaRepository = (*IdeaDB)(nil)

const ideaColumns = `id, message, author_id, created_at, updated_at`

func scanIdea(row interface{ Scan(...any) error }, i *model.Idea) error {
	return row.Scan(
		&i.ID,
		&i.Message,
		&i.AuthorID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

// Create inserts a new idea, filling in the generated ID and timestamps.
func (r *IdeaDB) Create(ctx context.Context, idea *model.Idea) error {
	idea.ID = xid.New().String()
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO ideas (id, message, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		idea.ID,
		idea.Message,
		idea.AuthorID,
		idea.CreatedAt,
		idea.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating idea: %w", err)
	}

	return nil
}

// GetByID returns the idea or apperror.ErrNotFound.
func (r *IdeaDB) GetByID(ctx context.Context, id string) (*model.Idea, error) {
	var i model.Idea
	err := scanIdea(r.conn.QueryRowContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id,
	), &i)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("idea", id)
		}
		return nil, fmt.Errorf("sqlite: getting idea %s: %w", id, err)
	}
	return &i, nil
}

// Update rewrites the message and bumps updated_at. ID, author and
// created_at are immutable. RowsAffected detects "not found" without a
// second query.
func (r *IdeaDB) Update(ctx context.Context, idea *model.Idea) error {
	idea.UpdatedAt = time.Now().UTC()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE ideas SET message = ?, updated_at = ? WHERE id = ?`,
		idea.Message,
		idea.UpdatedAt,
		idea.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating idea %s: %w", idea.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("idea", idea.ID)
	}

	return nil
}

// Delete removes the idea. Its like rows go with it — the likes table
// declares ON DELETE CASCADE on idea_id and foreign keys are enabled at
// connection time.
func (r *IdeaDB) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM ideas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting idea %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("idea", id)
	}

	return nil
}

// ListByAuthor returns one author's ideas, most recent first.
func (r *IdeaDB) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Idea, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas
		 WHERE author_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		authorID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ideas by author %s: %w", authorID, err)
	}
	defer rows.Close()

	return collectIdeas(rows, limit)
}

// Feed returns the timeline visible to userID: ideas authored by userID or
// by anyone userID follows, most recent first. created_at DESC with id DESC
// as a stable tiebreak (xid values sort by creation time).
func (r *IdeaDB) Feed(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Idea, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas
		 WHERE author_id = ?
		    OR author_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying feed for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectIdeas(rows, limit)
}

func collectIdeas(rows *sql.Rows, capacity int) ([]model.Idea, error) {
	ideas := make([]model.Idea, 0, capacity)
	for rows.Next() {
		var i model.Idea
		if err := scanIdea(rows, &i); err != nil {
			return nil, fmt.Errorf("sqlite: scanning idea row: %w", err)
		}
		ideas = append(ideas, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ideas: %w", err)
	}
	return ideas, nil
}

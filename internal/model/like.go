package model

import "time"

// Like records that a user has endorsed an idea.
//
// At most one row may exist per (user_id, idea_id) pair; the composite
// primary key enforces it. Like rows are owned by their idea — deleting the
// idea cascades to them.
type Like struct {
	UserID    string    `json:"userId"    db:"user_id"`
	IdeaID    string    `json:"ideaId"    db:"idea_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

package model

import "time"

// Idea is a short text post, owned exclusively by its author.
//
// Message is bounded to MaxIdeaMessageLength characters and must be
// non-empty; the service layer enforces both before anything is persisted.
type Idea struct {
	ID        string    `json:"id"        db:"id"`
	Message   string    `json:"message"   db:"message"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MaxIdeaMessageLength caps an idea's message, counted in runes.
const MaxIdeaMessageLength = 140

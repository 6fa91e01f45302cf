// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, no C
// toolchain, cross-compiles everywhere Go does. The blank import below
// registers it with database/sql under the driver name "sqlite".
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB owns the sql.DB pool. The per-entity repositories (Users, Ideas, Likes,
// Follows) share it; DB itself controls the lifecycle and migrations.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single pooled connection keeps the PRAGMAs below in effect for
	// every query (they are per-connection in SQLite), serialises writers,
	// and makes ":memory:" behave as one database instead of one per
	// connection.
	conn.SetMaxOpenConns(1)

	// sql.Open is lazy; Ping surfaces a bad path or permissions now
	// instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during a write — one writer never blocks
	// the request handlers that only read.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. The like cascade on idea
	// deletion depends on them being on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the account repository backed by this database.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Ideas returns the idea repository backed by this database.
func (db *DB) Ideas() *IdeaDB { return &IdeaDB{conn: db.conn} }

// Likes returns the like-edge repository backed by this database.
func (db *DB) Likes() *LikeDB { return &LikeDB{conn: db.conn} }

// Follows returns the follow-edge repository backed by this database.
func (db *DB) Follows() *FollowDB { return &FollowDB{conn: db.conn} }

// migrate creates the four tables. CREATE TABLE IF NOT EXISTS keeps it safe
// to run on every startup.
//
// Layout invariants the schema enforces (services rely on these):
//   - likes:   PRIMARY KEY (user_id, idea_id)        → at most one like per pair
//   - follows: PRIMARY KEY (follower_id, followed_id) → at most one edge per pair
//   - likes.idea_id ON DELETE CASCADE                 → no orphaned likes
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			alias         TEXT NOT NULL,
			email         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS ideas (
			id         TEXT PRIMARY KEY,
			message    TEXT NOT NULL,
			author_id  TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_ideas_author ON ideas(author_id);
		CREATE INDEX IF NOT EXISTS idx_ideas_created_at ON ideas(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating ideas table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS likes (
			user_id    TEXT NOT NULL REFERENCES users(id),
			idea_id    TEXT NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, idea_id)
		);
		CREATE INDEX IF NOT EXISTS idx_likes_idea ON likes(idea_id);
	`)
	if err != nil {
		return fmt.Errorf("creating likes table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS follows (
			follower_id TEXT NOT NULL REFERENCES users(id),
			followed_id TEXT NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (follower_id, followed_id)
		);
		CREATE INDEX IF NOT EXISTS idx_follows_followed ON follows(followed_id);
	`)
	if err != nil {
		return fmt.Errorf("creating follows table: %w", err)
	}

	return nil
}

// clampList applies the package's pagination defaults.
func clampList(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

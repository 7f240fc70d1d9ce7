// Package store provides the SQLite-backed persistence layer. The Store is
// opened once at process start, passed by reference to every component, and
// closed once at shutdown; all writes serialize through its single
// connection.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS agents (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	description TEXT DEFAULT '',
	karma INTEGER DEFAULT 0,
	follower_count INTEGER DEFAULT 0,
	following_count INTEGER DEFAULT 0,
	is_claimed BOOLEAN DEFAULT FALSE,
	owner_x_handle TEXT DEFAULT '',
	avatar_url TEXT DEFAULT '',
	first_seen_at TIMESTAMP,
	last_seen_at TIMESTAMP,
	created_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	agent_id TEXT REFERENCES agents(id),
	agent_name TEXT,
	submolt TEXT,
	title TEXT DEFAULT '',
	content TEXT DEFAULT '',
	url TEXT DEFAULT '',
	score INTEGER DEFAULT 0,
	comment_count INTEGER DEFAULT 0,
	is_pinned BOOLEAN DEFAULT FALSE,
	created_at TIMESTAMP,
	fetched_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	post_id TEXT REFERENCES posts(id),
	agent_id TEXT REFERENCES agents(id),
	agent_name TEXT,
	parent_id TEXT,
	content TEXT DEFAULT '',
	score INTEGER DEFAULT 0,
	created_at TIMESTAMP,
	fetched_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS submolts (
	name TEXT PRIMARY KEY,
	display_name TEXT DEFAULT '',
	description TEXT DEFAULT '',
	subscriber_count INTEGER DEFAULT 0,
	post_count INTEGER DEFAULT 0,
	avatar_url TEXT DEFAULT '',
	banner_url TEXT DEFAULT '',
	created_at TIMESTAMP,
	first_seen_at TIMESTAMP
);

-- Follow edges observed between agents (social graph)
CREATE TABLE IF NOT EXISTS follows (
	follower_id TEXT REFERENCES agents(id),
	following_id TEXT REFERENCES agents(id),
	first_seen_at TIMESTAMP,
	PRIMARY KEY (follower_id, following_id)
);

-- Additive hourly time series driving trend detection. Rows are never
-- deleted or overwritten, only incremented.
CREATE TABLE IF NOT EXISTS word_frequency (
	word TEXT,
	hour TIMESTAMP,
	count INTEGER,
	PRIMARY KEY (word, hour)
);

-- Immutable point-in-time rollups, one row per snapshot tick.
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TIMESTAMP,
	total_agents INTEGER,
	total_posts INTEGER,
	total_comments INTEGER,
	active_agents_24h INTEGER,
	avg_sentiment REAL,
	top_words TEXT
);

CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_posts_fetched_at ON posts(fetched_at);
CREATE INDEX IF NOT EXISTS idx_posts_submolt ON posts(submolt);
CREATE INDEX IF NOT EXISTS idx_posts_agent_id ON posts(agent_id);
CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
CREATE INDEX IF NOT EXISTS idx_agents_karma ON agents(karma DESC);
CREATE INDEX IF NOT EXISTS idx_word_frequency_hour ON word_frequency(hour DESC);
`

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Single logical connection: the store is the serialization point for
	// all interleaved job writes.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return err
	}
	_, err := s.db.Exec(schema)
	return err
}

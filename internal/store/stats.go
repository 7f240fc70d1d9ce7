package store

import (
	"context"
	"time"
)

// Counts holds the platform-wide entity totals.
type Counts struct {
	Agents   int
	Posts    int
	Comments int
	Submolts int
}

// EntityCounts returns the total number of rows per entity table.
func (s *Store) EntityCounts(ctx context.Context) (*Counts, error) {
	var c Counts
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM agents`, &c.Agents},
		{`SELECT COUNT(*) FROM posts`, &c.Posts},
		{`SELECT COUNT(*) FROM comments`, &c.Comments},
		{`SELECT COUNT(*) FROM submolts`, &c.Submolts},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// PostsCreatedSinceCount returns the number of posts created upstream at or
// after the given time.
func (s *Store) PostsCreatedSinceCount(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE created_at >= ?`, since.UTC(),
	).Scan(&count)
	return count, err
}

// ActiveAgentCount returns the number of distinct agents that posted at or
// after the given time.
func (s *Store) ActiveAgentCount(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT agent_name) FROM posts
		WHERE created_at >= ?
	`, since.UTC()).Scan(&count)
	return count, err
}

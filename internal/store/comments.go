package store

import (
	"context"
	"database/sql"
)

// CommentExists checks if a comment ID already exists
func (s *Store) CommentExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE id = ?)`, id,
	).Scan(&exists)
	return exists, err
}

// UpsertComment inserts a comment or refreshes its score when re-observed.
// The parent comment row must already exist when ParentID is set.
func (s *Store) UpsertComment(ctx context.Context, c *Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, agent_id, agent_name, parent_id, content, score, created_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score
	`, c.ID, c.PostID, nullString(c.AgentID), c.AgentName, c.ParentID, c.Content,
		c.Score, nullTime(c.CreatedAt), c.FetchedAt.UTC())
	return err
}

// GetComment returns a single comment by ID, or nil when unseen.
func (s *Store) GetComment(ctx context.Context, id string) (*Comment, error) {
	var (
		c                    Comment
		agentID              sql.NullString
		parentID             sql.NullString
		createdAt, fetchedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, post_id, agent_id, agent_name, parent_id, content, score, created_at, fetched_at
		FROM comments WHERE id = ?
	`, id).Scan(
		&c.ID, &c.PostID, &agentID, &c.AgentName, &parentID, &c.Content, &c.Score,
		&createdAt, &fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.AgentID = agentID.String
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	c.CreatedAt = timeOf(createdAt)
	c.FetchedAt = timeOf(fetchedAt)
	return &c, nil
}

// CommentCountForPost returns the number of stored comment rows for a post.
func (s *Store) CommentCountForPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID,
	).Scan(&count)
	return count, err
}

package store

import (
	"context"
	"database/sql"
	"time"
)

// PostExists checks if a post ID already exists
func (s *Store) PostExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)`, id,
	).Scan(&exists)
	return exists, err
}

// UpsertPost inserts a post or, when the row already exists, refreshes only
// the fields the upstream feed is authoritative for on every fetch. Title,
// content and URL are never overwritten. The conflict clause makes a lost
// race between interleaved jobs benign.
func (s *Store) UpsertPost(ctx context.Context, p *Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, agent_id, agent_name, submolt, title, content, url,
			score, comment_count, is_pinned, created_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			comment_count = excluded.comment_count,
			is_pinned = excluded.is_pinned
	`, p.ID, nullString(p.AgentID), p.AgentName, p.Submolt, p.Title, p.Content, p.URL,
		p.Score, p.CommentCount, p.IsPinned, nullTime(p.CreatedAt), p.FetchedAt.UTC())
	return err
}

// GetPost returns a single post by ID, or nil when unseen.
func (s *Store) GetPost(ctx context.Context, id string) (*Post, error) {
	var (
		p                    Post
		agentID              sql.NullString
		createdAt, fetchedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, agent_id, agent_name, submolt, title, content, url,
			score, comment_count, is_pinned, created_at, fetched_at
		FROM posts WHERE id = ?
	`, id).Scan(
		&p.ID, &agentID, &p.AgentName, &p.Submolt, &p.Title, &p.Content, &p.URL,
		&p.Score, &p.CommentCount, &p.IsPinned, &createdAt, &fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.AgentID = agentID.String
	p.CreatedAt = timeOf(createdAt)
	p.FetchedAt = timeOf(fetchedAt)
	return &p, nil
}

// PostsNeedingComments returns IDs of posts whose stored comment rows lag
// behind the upstream-reported comment count, most recently fetched first.
func (s *Store) PostsNeedingComments(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id FROM posts p
		WHERE p.comment_count > (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		ORDER BY p.fetched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PostTextsFetchedSince returns title+content of posts fetched at or after
// the given time. Used by the word-frequency aggregator.
func (s *Store) PostTextsFetchedSince(ctx context.Context, since time.Time) ([]string, error) {
	return s.postTexts(ctx, `SELECT title, content FROM posts WHERE fetched_at >= ?`, since)
}

// PostTextsCreatedSince returns title+content of posts created upstream at
// or after the given time. Used by the sentiment window.
func (s *Store) PostTextsCreatedSince(ctx context.Context, since time.Time) ([]string, error) {
	return s.postTexts(ctx, `SELECT title, content FROM posts WHERE created_at >= ?`, since)
}

func (s *Store) postTexts(ctx context.Context, query string, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var title, content string
		if err := rows.Scan(&title, &content); err != nil {
			return nil, err
		}
		texts = append(texts, title+" "+content)
	}
	return texts, rows.Err()
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

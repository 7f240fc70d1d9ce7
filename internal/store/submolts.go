package store

import (
	"context"
	"database/sql"
	"time"
)

// UpsertSubmolt inserts or refreshes a community. Subscriber and post counts
// are authoritative on every fetch; descriptive fields never regress to
// empty.
func (s *Store) UpsertSubmolt(ctx context.Context, m *Submolt) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submolts (name, display_name, description, subscriber_count, post_count, avatar_url, banner_url, created_at, first_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			display_name = CASE WHEN excluded.display_name = '' THEN submolts.display_name ELSE excluded.display_name END,
			description = CASE WHEN excluded.description = '' THEN submolts.description ELSE excluded.description END,
			subscriber_count = excluded.subscriber_count,
			post_count = excluded.post_count,
			avatar_url = CASE WHEN excluded.avatar_url = '' THEN submolts.avatar_url ELSE excluded.avatar_url END,
			banner_url = CASE WHEN excluded.banner_url = '' THEN submolts.banner_url ELSE excluded.banner_url END,
			created_at = COALESCE(excluded.created_at, submolts.created_at)
	`, m.Name, m.DisplayName, m.Description, m.SubscriberCount, m.PostCount,
		m.AvatarURL, m.BannerURL, nullTime(m.CreatedAt), now)
	return err
}

// GetSubmolt returns a single submolt by name, or nil when unseen.
func (s *Store) GetSubmolt(ctx context.Context, name string) (*Submolt, error) {
	var (
		m                    Submolt
		createdAt, firstSeen sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, display_name, description, subscriber_count, post_count,
			avatar_url, banner_url, created_at, first_seen_at
		FROM submolts WHERE name = ?
	`, name).Scan(
		&m.Name, &m.DisplayName, &m.Description, &m.SubscriberCount, &m.PostCount,
		&m.AvatarURL, &m.BannerURL, &createdAt, &firstSeen,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.CreatedAt = timeOf(createdAt)
	m.FirstSeenAt = timeOf(firstSeen)
	return &m, nil
}

package store

import (
	"context"
	"database/sql"
	"time"
)

// nullTime maps the zero time to NULL so absent upstream timestamps are not
// stored as year-one sentinels.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func timeOf(nt sql.NullTime) time.Time {
	if !nt.Valid {
		return time.Time{}
	}
	return nt.Time
}

// UpsertAgentStub makes sure an agent row exists for the given identity. A
// previously unseen agent is inserted with whatever fields the reference
// carried; a known agent only gets its last_seen_at bumped. The stub must be
// committed before any post or comment that references the agent.
func (s *Store) UpsertAgentStub(ctx context.Context, a *Agent) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (id, name, description, karma, follower_count, following_count, is_claimed, first_seen_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			last_seen_at = excluded.last_seen_at
	`, a.ID, a.Name, a.Description, a.Karma, a.FollowerCount, a.FollowingCount, a.IsClaimed, now, now)
	return err
}

// UpsertAgentProfile reconciles a fully fetched profile. Counters are
// authoritative on every fetch; descriptive fields only ever move from empty
// to populated, never back.
func (s *Store) UpsertAgentProfile(ctx context.Context, a *Agent) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (id, name, description, karma, follower_count, following_count, is_claimed, owner_x_handle, avatar_url, first_seen_at, last_seen_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = CASE WHEN excluded.description = '' THEN agents.description ELSE excluded.description END,
			karma = excluded.karma,
			follower_count = excluded.follower_count,
			following_count = excluded.following_count,
			is_claimed = excluded.is_claimed,
			owner_x_handle = CASE WHEN excluded.owner_x_handle = '' THEN agents.owner_x_handle ELSE excluded.owner_x_handle END,
			avatar_url = CASE WHEN excluded.avatar_url = '' THEN agents.avatar_url ELSE excluded.avatar_url END,
			created_at = COALESCE(excluded.created_at, agents.created_at),
			last_seen_at = excluded.last_seen_at
	`, a.ID, a.Name, a.Description, a.Karma, a.FollowerCount, a.FollowingCount, a.IsClaimed,
		a.OwnerXHandle, a.AvatarURL, now, now, nullTime(a.CreatedAt))
	return err
}

// AgentIDByName returns the stored id for the named agent.
func (s *Store) AgentIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM agents WHERE name = ?`, name,
	).Scan(&id)
	return id, err
}

// AgentExists checks if an agent with the given name is already stored.
func (s *Store) AgentExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM agents WHERE name = ?)`, name,
	).Scan(&exists)
	return exists, err
}

// GetAgent returns a single agent by name, or nil when unseen.
func (s *Store) GetAgent(ctx context.Context, name string) (*Agent, error) {
	var (
		a                              Agent
		firstSeen, lastSeen, createdAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, karma, follower_count, following_count,
			is_claimed, owner_x_handle, avatar_url, first_seen_at, last_seen_at, created_at
		FROM agents WHERE name = ?
	`, name).Scan(
		&a.ID, &a.Name, &a.Description, &a.Karma, &a.FollowerCount, &a.FollowingCount,
		&a.IsClaimed, &a.OwnerXHandle, &a.AvatarURL, &firstSeen, &lastSeen, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.FirstSeenAt = timeOf(firstSeen)
	a.LastSeenAt = timeOf(lastSeen)
	a.CreatedAt = timeOf(createdAt)
	return &a, nil
}

// LeastRecentlySeenAgents returns the names of the n agents whose profiles
// have gone longest without a refresh.
func (s *Store) LeastRecentlySeenAgents(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM agents
		ORDER BY last_seen_at ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// NewAgentsSince returns agents first seen at or after the given time,
// newest first, capped at limit.
func (s *Store) NewAgentsSince(ctx context.Context, since time.Time, limit int) ([]Agent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, karma, first_seen_at
		FROM agents
		WHERE first_seen_at >= ?
		ORDER BY first_seen_at DESC
		LIMIT ?
	`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var (
			a         Agent
			firstSeen sql.NullTime
		)
		if err := rows.Scan(&a.Name, &a.Description, &a.Karma, &firstSeen); err != nil {
			return nil, err
		}
		a.FirstSeenAt = timeOf(firstSeen)
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

package store

import (
	"context"
	"encoding/json"
	"time"
)

// InsertSnapshot appends one immutable rollup row. There is deliberately no
// update path for snapshots.
func (s *Store) InsertSnapshot(ctx context.Context, snap *Snapshot) error {
	topWordsJSON, err := json.Marshal(snap.TopWords)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (timestamp, total_agents, total_posts, total_comments, active_agents_24h, avg_sentiment, top_words)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, snap.Timestamp.UTC(), snap.TotalAgents, snap.TotalPosts, snap.TotalComments,
		snap.ActiveAgents24h, snap.AvgSentiment, string(topWordsJSON))
	return err
}

// SnapshotsSince returns snapshot rows taken at or after start, oldest
// first.
func (s *Store) SnapshotsSince(ctx context.Context, start time.Time) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, total_agents, total_posts, total_comments, active_agents_24h, avg_sentiment, top_words
		FROM snapshots
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
	`, start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var (
			snap         Snapshot
			topWordsJSON string
		)
		err := rows.Scan(
			&snap.ID, &snap.Timestamp, &snap.TotalAgents, &snap.TotalPosts,
			&snap.TotalComments, &snap.ActiveAgents24h, &snap.AvgSentiment, &topWordsJSON,
		)
		if err != nil {
			return nil, err
		}
		if topWordsJSON != "" {
			// A corrupt top_words blob degrades to an empty list, not an error.
			json.Unmarshal([]byte(topWordsJSON), &snap.TopWords)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

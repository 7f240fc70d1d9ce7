package analyzer

import (
	"context"
	"fmt"
	"time"

	"moltscope/internal/store"
)

// PlatformStats are the live platform-wide counters.
type PlatformStats struct {
	TotalAgents     int `json:"total_agents"`
	TotalPosts      int `json:"total_posts"`
	TotalComments   int `json:"total_comments"`
	TotalSubmolts   int `json:"total_submolts"`
	PostsToday      int `json:"posts_today"`
	ActiveAgents1h  int `json:"active_agents_1h"`
	ActiveAgents24h int `json:"active_agents_24h"`
}

// Stats computes the current platform counters from committed state.
func (a *Analyzer) Stats(ctx context.Context) (*PlatformStats, error) {
	counts, err := a.store.EntityCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("entity counts: %w", err)
	}

	now := time.Now().UTC()
	todayStart := now.Truncate(24 * time.Hour)

	postsToday, err := a.store.PostsCreatedSinceCount(ctx, todayStart)
	if err != nil {
		return nil, fmt.Errorf("posts today: %w", err)
	}
	active1h, err := a.store.ActiveAgentCount(ctx, now.Add(-time.Hour))
	if err != nil {
		return nil, fmt.Errorf("active agents 1h: %w", err)
	}
	active24h, err := a.store.ActiveAgentCount(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("active agents 24h: %w", err)
	}

	return &PlatformStats{
		TotalAgents:     counts.Agents,
		TotalPosts:      counts.Posts,
		TotalComments:   counts.Comments,
		TotalSubmolts:   counts.Submolts,
		PostsToday:      postsToday,
		ActiveAgents1h:  active1h,
		ActiveAgents24h: active24h,
	}, nil
}

// CreateSnapshot captures one immutable rollup row: entity totals, trailing
// 24h active agents, trailing-hour average sentiment and trailing-hour top
// vocabulary. Snapshots are never updated or merged after insertion.
func (a *Analyzer) CreateSnapshot(ctx context.Context) error {
	stats, err := a.Stats(ctx)
	if err != nil {
		return err
	}
	sentiment, err := a.RecentSentiment(ctx, 1)
	if err != nil {
		return err
	}
	topWords, err := a.TopWords(ctx, 1, 10)
	if err != nil {
		return err
	}

	words := make([]string, 0, len(topWords))
	for _, wc := range topWords {
		words = append(words, wc.Word)
	}

	return a.store.InsertSnapshot(ctx, &store.Snapshot{
		Timestamp:       time.Now().UTC(),
		TotalAgents:     stats.TotalAgents,
		TotalPosts:      stats.TotalPosts,
		TotalComments:   stats.TotalComments,
		ActiveAgents24h: stats.ActiveAgents24h,
		AvgSentiment:    sentiment.Polarity,
		TopWords:        words,
	})
}

// SnapshotHistory returns the snapshot series for the trailing window,
// oldest first.
func (a *Analyzer) SnapshotHistory(ctx context.Context, hours int) ([]store.Snapshot, error) {
	start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return a.store.SnapshotsSince(ctx, start)
}

// NewAgentsToday returns agents first observed since midnight UTC.
func (a *Analyzer) NewAgentsToday(ctx context.Context) ([]store.Agent, error) {
	todayStart := time.Now().UTC().Truncate(24 * time.Hour)
	return a.store.NewAgentsSince(ctx, todayStart, 10)
}

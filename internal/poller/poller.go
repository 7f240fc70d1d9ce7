// Package poller holds the job bodies the scheduler drives: polling the
// upstream feed, merging the results and triggering the derived aggregates.
package poller

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"moltscope/internal/analyzer"
	"moltscope/internal/ingest"
	"moltscope/internal/moltbook"
	"moltscope/internal/store"
)

// agentBatchSize caps how many stale agent profiles one tick refreshes.
const agentBatchSize = 20

// commentBatchSize caps how many posts one tick fetches comments for.
const commentBatchSize = 10

// profileFetchConcurrency bounds parallel profile requests.
const profileFetchConcurrency = 5

// Feed is the slice of the upstream API the poll jobs consume.
type Feed interface {
	GetPosts(ctx context.Context, sort string, limit int, submolt string) ([]moltbook.Post, error)
	GetPost(ctx context.Context, id string) (*moltbook.PostDetail, error)
	GetSubmolts(ctx context.Context) ([]moltbook.Submolt, error)
	GetAgentProfile(ctx context.Context, name string) (*moltbook.AgentProfile, error)
}

// Poller owns the recurring job bodies. Each method is one scheduled job; a
// returned error aborts only that tick.
type Poller struct {
	feed     Feed
	merger   *ingest.Merger
	analyzer *analyzer.Analyzer
	store    *store.Store
	logger   *slog.Logger
}

func New(feed Feed, merger *ingest.Merger, an *analyzer.Analyzer, st *store.Store, logger *slog.Logger) *Poller {
	return &Poller{
		feed:     feed,
		merger:   merger,
		analyzer: an,
		store:    st,
		logger:   logger,
	}
}

// PollPosts fetches the newest posts and the currently hot posts and merges
// both batches.
func (p *Poller) PollPosts(ctx context.Context) error {
	posts, err := p.feed.GetPosts(ctx, "new", 50, "")
	if err != nil {
		return fmt.Errorf("fetch new posts: %w", err)
	}
	newCount, err := p.merger.MergePosts(ctx, posts)
	if err != nil {
		return fmt.Errorf("merge new posts: %w", err)
	}
	if newCount > 0 {
		p.logger.Info("fetched new posts", "count", newCount)
	}

	// Hot posts catch trending content the "new" page has already scrolled
	// past.
	hot, err := p.feed.GetPosts(ctx, "hot", 25, "")
	if err != nil {
		return fmt.Errorf("fetch hot posts: %w", err)
	}
	if _, err := p.merger.MergePosts(ctx, hot); err != nil {
		return fmt.Errorf("merge hot posts: %w", err)
	}
	return nil
}

// PollSubmolts refreshes the community list.
func (p *Poller) PollSubmolts(ctx context.Context) error {
	submolts, err := p.feed.GetSubmolts(ctx)
	if err != nil {
		return fmt.Errorf("fetch submolts: %w", err)
	}
	count, err := p.merger.MergeSubmolts(ctx, submolts)
	if err != nil {
		return fmt.Errorf("merge submolts: %w", err)
	}
	p.logger.Info("updated submolts", "count", count)
	return nil
}

// PollAgents refreshes the profiles of the least-recently-seen agents.
// Profiles are fetched concurrently; a failed fetch is logged and skipped so
// one bad profile never aborts the batch. Merging stays sequential.
func (p *Poller) PollAgents(ctx context.Context) error {
	names, err := p.store.LeastRecentlySeenAgents(ctx, agentBatchSize)
	if err != nil {
		return fmt.Errorf("list stale agents: %w", err)
	}
	if len(names) == 0 {
		return nil
	}

	profiles := make([]*moltbook.AgentProfile, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFetchConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			profile, err := p.feed.GetAgentProfile(gctx, name)
			if err != nil {
				p.logger.Warn("fetch agent profile failed", "agent", name, "error", err)
				return nil
			}
			profiles[i] = profile
			return nil
		})
	}
	// Goroutines never return errors; per-profile failures are logged above.
	_ = g.Wait()

	updated := 0
	for _, profile := range profiles {
		if profile == nil {
			continue
		}
		if err := p.merger.MergeAgentProfile(ctx, profile); err != nil {
			return fmt.Errorf("merge agent profile: %w", err)
		}
		updated++
	}
	if updated > 0 {
		p.logger.Info("updated agent profiles", "count", updated)
	}
	return nil
}

// PollComments fetches comment trees for posts whose stored comments lag the
// upstream-reported count. A failed post fetch is logged and the tick moves
// on to the next post.
func (p *Poller) PollComments(ctx context.Context) error {
	ids, err := p.store.PostsNeedingComments(ctx, commentBatchSize)
	if err != nil {
		return fmt.Errorf("list posts needing comments: %w", err)
	}

	total := 0
	for _, id := range ids {
		detail, err := p.feed.GetPost(ctx, id)
		if err != nil {
			p.logger.Warn("fetch post comments failed", "post_id", id, "error", err)
			continue
		}
		newCount, err := p.merger.MergeComments(ctx, id, detail.Comments)
		if err != nil {
			return fmt.Errorf("merge comments for %s: %w", id, err)
		}
		total += newCount
	}
	if total > 0 {
		p.logger.Info("fetched new comments", "count", total)
	}
	return nil
}

// ComputeTrends re-runs the word-frequency aggregation over recently fetched
// content.
func (p *Poller) ComputeTrends(ctx context.Context) error {
	return p.analyzer.UpdateWordFrequency(ctx)
}

// TakeSnapshot records one immutable platform rollup.
func (p *Poller) TakeSnapshot(ctx context.Context) error {
	if err := p.analyzer.CreateSnapshot(ctx); err != nil {
		return err
	}
	p.logger.Info("snapshot created")
	return nil
}

// RunInitial performs the synchronous eager pass at startup: communities
// first, then posts, so the dashboard has data before the first scheduled
// ticks. Failures are logged, not fatal; the recurring schedule will catch
// up.
func (p *Poller) RunInitial(ctx context.Context) {
	p.logger.Info("running initial data fetch")
	if err := p.PollSubmolts(ctx); err != nil {
		p.logger.Warn("initial submolt fetch failed", "error", err)
	}
	if err := p.PollPosts(ctx); err != nil {
		p.logger.Warn("initial post fetch failed", "error", err)
	}
	p.logger.Info("initial fetch complete")
}

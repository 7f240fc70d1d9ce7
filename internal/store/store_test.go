package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertPostRefreshesCountersOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	p := &Post{
		ID:           "p1",
		AgentName:    "crabby",
		Submolt:      "general",
		Title:        "original title",
		Content:      "original content",
		Score:        5,
		CommentCount: 1,
		FetchedAt:    now,
	}
	require.NoError(t, s.UpsertPost(ctx, p))

	// Re-observation with drifted counters and a mangled title.
	p2 := *p
	p2.Title = "mangled"
	p2.Content = ""
	p2.Score = 9
	p2.CommentCount = 4
	p2.IsPinned = true
	require.NoError(t, s.UpsertPost(ctx, &p2))

	got, err := s.GetPost(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "original title", got.Title)
	assert.Equal(t, "original content", got.Content)
	assert.Equal(t, 9, got.Score)
	assert.Equal(t, 4, got.CommentCount)
	assert.True(t, got.IsPinned)
}

func TestUpsertAgentProfileNeverBlanksFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertAgentProfile(ctx, &Agent{
		ID:          "a1",
		Name:        "crabby",
		Description: "a thoughtful crustacean",
		Karma:       10,
	}))

	// Later fetch with an empty description must not regress it.
	require.NoError(t, s.UpsertAgentProfile(ctx, &Agent{
		ID:    "a1",
		Name:  "crabby",
		Karma: 25,
	}))

	got, err := s.GetAgent(ctx, "crabby")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a thoughtful crustacean", got.Description)
	assert.Equal(t, 25, got.Karma)
}

func TestUpsertAgentStubThenEnrich(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertAgentStub(ctx, &Agent{ID: "molty", Name: "molty"}))

	got, err := s.GetAgent(ctx, "molty")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "molty", got.ID)
	assert.False(t, got.FirstSeenAt.IsZero())

	require.NoError(t, s.UpsertAgentProfile(ctx, &Agent{
		ID:          "molty",
		Name:        "molty",
		Description: "enriched",
		Karma:       3,
	}))

	got, err = s.GetAgent(ctx, "molty")
	require.NoError(t, err)
	assert.Equal(t, "enriched", got.Description)
	assert.Equal(t, 3, got.Karma)
}

func TestAddWordCountAccumulates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hour := time.Now().UTC().Truncate(time.Hour)
	require.NoError(t, s.AddWordCount(ctx, "molt", hour, 3))
	require.NoError(t, s.AddWordCount(ctx, "molt", hour, 3))

	counts, err := s.WordCountsSince(ctx, hour.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 6, counts["molt"])
}

func TestWordCountsBetweenExcludesEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cutoff := time.Now().UTC().Truncate(time.Hour)
	inside := cutoff.Add(-2 * time.Hour)
	require.NoError(t, s.AddWordCount(ctx, "shell", inside, 5))
	require.NoError(t, s.AddWordCount(ctx, "shell", cutoff, 7))

	counts, err := s.WordCountsBetween(ctx, inside.Add(-time.Hour), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 5, counts["shell"])
}

func TestSnapshotRowsAreImmutable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	taken := time.Now().UTC()
	require.NoError(t, s.InsertSnapshot(ctx, &Snapshot{
		Timestamp:    taken,
		TotalAgents:  2,
		TotalPosts:   5,
		AvgSentiment: 0.25,
		TopWords:     []string{"molt", "shell"},
	}))

	// Live state changes after the snapshot was taken.
	require.NoError(t, s.UpsertAgentStub(ctx, &Agent{ID: "late", Name: "late"}))

	snaps, err := s.SnapshotsSince(ctx, taken.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].TotalAgents)
	assert.Equal(t, 5, snaps[0].TotalPosts)
	assert.InDelta(t, 0.25, snaps[0].AvgSentiment, 1e-9)
	assert.Equal(t, []string{"molt", "shell"}, snaps[0].TopWords)
}

func TestPostsNeedingComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.UpsertAgentStub(ctx, &Agent{ID: "a", Name: "a"}))
	require.NoError(t, s.UpsertPost(ctx, &Post{ID: "p1", AgentID: "a", AgentName: "a", CommentCount: 2, FetchedAt: now}))
	require.NoError(t, s.UpsertPost(ctx, &Post{ID: "p2", AgentID: "a", AgentName: "a", CommentCount: 1, FetchedAt: now}))

	require.NoError(t, s.UpsertComment(ctx, &Comment{ID: "c1", PostID: "p2", AgentID: "a", AgentName: "a", FetchedAt: now}))

	ids, err := s.PostsNeedingComments(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)
}

func TestLeastRecentlySeenAgents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertAgentStub(ctx, &Agent{ID: "old", Name: "old"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.UpsertAgentStub(ctx, &Agent{ID: "fresh", Name: "fresh"}))

	names, err := s.LeastRecentlySeenAgents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, names)
}

func TestActiveAgentCountDistinct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.UpsertAgentStub(ctx, &Agent{ID: "a", Name: "a"}))
	require.NoError(t, s.UpsertPost(ctx, &Post{ID: "p1", AgentID: "a", AgentName: "a", CreatedAt: now, FetchedAt: now}))
	require.NoError(t, s.UpsertPost(ctx, &Post{ID: "p2", AgentID: "a", AgentName: "a", CreatedAt: now, FetchedAt: now}))

	count, err := s.ActiveAgentCount(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

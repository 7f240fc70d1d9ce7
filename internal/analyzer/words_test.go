package analyzer

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moltscope/internal/ingest"
	"moltscope/internal/moltbook"
	"moltscope/internal/store"
)

func newTestAnalyzer(t *testing.T) (*Analyzer, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, LexiconScorer{}, logger), st
}

func mergeTestPosts(t *testing.T, st *store.Store, posts []moltbook.Post) {
	t.Helper()
	m := ingest.New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := m.MergePosts(context.Background(), posts)
	require.NoError(t, err)
}

func TestExtractWords(t *testing.T) {
	words := ExtractWords("The crabs are MOLTING! Molting is a big event, ok?")
	assert.Equal(t, []string{"crabs", "molting", "molting", "big", "event"}, words)
}

func TestExtractWordsDropsShortAndStopWords(t *testing.T) {
	assert.Empty(t, ExtractWords("it is so to a we"))
	assert.Empty(t, ExtractWords(""))
	assert.Equal(t, []string{"sea"}, ExtractWords("at sea in it"))
}

func TestUpdateWordFrequencyCountsRecentPosts(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()

	mergeTestPosts(t, st, []moltbook.Post{
		{ID: "p1", Title: "molting season", Content: "molting tips", Author: moltbook.AgentRef{Name: "crabby"}},
		{ID: "p2", Title: "molting again", Author: moltbook.AgentRef{Name: "molty"}},
	})

	require.NoError(t, a.UpdateWordFrequency(ctx))

	counts, err := st.WordCountsSince(ctx, time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, counts["molting"])
	assert.Equal(t, 1, counts["season"])
	assert.Equal(t, 1, counts["tips"])
}

func TestUpdateWordFrequencyIsAdditive(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()

	mergeTestPosts(t, st, []moltbook.Post{
		{ID: "p1", Title: "shell shell shell", Author: moltbook.AgentRef{Name: "crabby"}},
	})

	require.NoError(t, a.UpdateWordFrequency(ctx))
	require.NoError(t, a.UpdateWordFrequency(ctx))

	counts, err := st.WordCountsSince(ctx, time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 6, counts["shell"])
}

func TestTopCountsOrderAndCap(t *testing.T) {
	counts := map[string]int{"zeta": 3, "alpha": 3, "molt": 9, "rare": 1}

	top := topCounts(counts, 3)
	require.Len(t, top, 3)
	assert.Equal(t, store.WordCount{Word: "molt", Count: 9}, top[0])
	assert.Equal(t, store.WordCount{Word: "alpha", Count: 3}, top[1])
	assert.Equal(t, store.WordCount{Word: "zeta", Count: 3}, top[2])
}

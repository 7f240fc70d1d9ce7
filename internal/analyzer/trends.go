package analyzer

import (
	"context"
	"sort"
	"time"

	"moltscope/internal/store"
)

// newWordChange is the change value assigned to a word that had no previous
// window presence. Large but finite, so genuinely new breakout terms rank
// first without producing an unsortable infinity.
const newWordChange = 999

// trendCandidates caps how many current-window words are considered per
// calculation.
const trendCandidates = 50

// minTrendCount is the minimum current-window occurrences for a word to be
// ranked at all.
const minTrendCount = 3

// TrendingWord is one ranked entry in a trend calculation.
type TrendingWord struct {
	Word          string  `json:"word"`
	Count         int     `json:"count"`
	PreviousCount int     `json:"previous_count"`
	ChangePercent float64 `json:"change_percent"`
}

// TrendingWords ranks words by relative frequency change between the
// trailing window of the given length and the window of equal length
// immediately before it. Pure read; no writes.
func (a *Analyzer) TrendingWords(ctx context.Context, hours, limit int) ([]TrendingWord, error) {
	now := time.Now().UTC()
	currentStart := now.Add(-time.Duration(hours) * time.Hour)
	previousStart := now.Add(-2 * time.Duration(hours) * time.Hour)

	current, err := a.store.TopWords(ctx, currentStart, trendCandidates)
	if err != nil {
		return nil, err
	}
	previous, err := a.store.WordCountsBetween(ctx, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	trends := make([]TrendingWord, 0, len(current))
	for _, wc := range current {
		if wc.Count < minTrendCount {
			continue
		}

		prev := previous[wc.Word]
		var change float64
		switch {
		case prev == 0 && wc.Count > 2:
			change = newWordChange
		case prev == 0:
			change = 0
		default:
			change = float64(wc.Count-prev) / float64(prev) * 100
		}

		trends = append(trends, TrendingWord{
			Word:          wc.Word,
			Count:         wc.Count,
			PreviousCount: prev,
			ChangePercent: change,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].ChangePercent > trends[j].ChangePercent
	})
	if len(trends) > limit {
		trends = trends[:limit]
	}
	return trends, nil
}

// TopWords returns the most frequent words over the trailing window.
func (a *Analyzer) TopWords(ctx context.Context, hours, limit int) ([]store.WordCount, error) {
	start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return a.store.TopWords(ctx, start, limit)
}

// WordHistory returns the hourly frequency series for one word over the
// trailing number of days.
func (a *Analyzer) WordHistory(ctx context.Context, word string, days int) ([]store.HourCount, error) {
	start := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return a.store.WordHistory(ctx, word, start)
}

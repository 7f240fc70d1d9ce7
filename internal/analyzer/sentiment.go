package analyzer

import (
	"context"
	"math"
	"strings"
	"time"
)

// Sentiment is the aggregate polarity over a sample of recent posts.
type Sentiment struct {
	Polarity   float64 `json:"polarity"`
	Label      string  `json:"label"`
	SampleSize int     `json:"sample_size"`
}

// SentimentLabel maps a polarity to a human-readable label.
func SentimentLabel(polarity float64) string {
	switch {
	case polarity >= 0.3:
		return "positive"
	case polarity <= -0.3:
		return "negative"
	default:
		return "neutral"
	}
}

// RecentSentiment averages the scorer's polarity over posts created in the
// trailing window.
func (a *Analyzer) RecentSentiment(ctx context.Context, hours int) (*Sentiment, error) {
	start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	texts, err := a.store.PostTextsCreatedSince(ctx, start)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return &Sentiment{Polarity: 0, Label: "neutral", SampleSize: 0}, nil
	}

	var sum float64
	scored := 0
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		sum += a.scorer.Score(text)
		scored++
	}

	avg := 0.0
	if scored > 0 {
		avg = math.Round(sum/float64(scored)*100) / 100
	}
	return &Sentiment{
		Polarity:   avg,
		Label:      SentimentLabel(avg),
		SampleSize: len(texts),
	}, nil
}

// LexiconScorer is the default Scorer: a small keyword-polarity lexicon.
// It stands in for whatever real scorer gets plugged in and exists so the
// pipeline has a working end-to-end default.
type LexiconScorer struct{}

var positiveWords = wordSet(
	"good", "great", "love", "loved", "awesome", "excellent", "happy",
	"amazing", "wonderful", "best", "nice", "cool", "fun", "win", "winning",
	"beautiful", "excited", "exciting", "brilliant", "fantastic", "helpful",
	"perfect", "thanks", "thank", "glad", "enjoy", "enjoyed", "impressive",
	"success", "successful", "works", "useful", "clever", "delightful",
)

var negativeWords = wordSet(
	"bad", "terrible", "hate", "hated", "awful", "worst", "sad", "angry",
	"horrible", "broken", "fail", "failed", "failure", "wrong", "annoying",
	"ugly", "boring", "stupid", "useless", "disappointing", "disappointed",
	"problem", "problems", "bug", "bugs", "crash", "crashed", "slow", "scam",
	"afraid", "fear", "worse", "garbage", "trash",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Score counts lexicon hits and returns their normalized balance in [-1, 1].
// Text with no lexicon hits is neutral.
func (LexiconScorer) Score(text string) float64 {
	if text == "" {
		return 0
	}

	var pos, neg int
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:'\"()[]*")
		if _, ok := positiveWords[tok]; ok {
			pos++
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

package analyzer

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"moltscope/internal/store"
)

// topWordsPerRun bounds how many words one aggregation run persists.
const topWordsPerRun = 100

// stopWords is the fixed set of function words excluded from the
// vocabulary. Deliberately a plain in-repo set, not a stemmer or an NLP
// package: the filter has to stay cheap, deterministic and testable.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "is", "are", "was", "were", "i", "you", "we", "they",
		"it", "this", "that", "to", "of", "and", "or", "for", "in", "on", "at",
		"be", "have", "has", "had", "do", "does", "did", "but", "not", "what",
		"all", "would", "there", "their", "from", "with", "as", "my", "just",
		"been", "being", "can", "could", "will", "should", "may", "might",
		"must", "shall", "if", "then", "else", "when", "where", "why", "how",
		"which", "who", "whom", "whose", "than", "too", "very", "much", "many",
		"some", "any", "no", "nor", "only", "own", "same", "so", "such",
		"also", "about", "into", "through", "during", "before", "after",
		"above", "below", "between", "under", "again", "further", "once",
		"here", "each", "few", "more", "most", "other",
		"these", "those", "your", "its", "his", "her", "our", "out", "up",
		"down", "off", "over",
		"even", "now", "well", "back", "way", "new", "one",
		"two", "first", "like", "get", "got", "make", "made", "know", "think",
		"see", "come", "want", "look", "use", "find", "give", "tell", "try",
		"really", "still", "thing", "things", "something", "anything", "nothing",
	} {
		stopWords[w] = struct{}{}
	}
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// ExtractWords pulls the normalized vocabulary out of a piece of text:
// lower-cased alphabetic tokens of three or more letters, minus stop words.
func ExtractWords(text string) []string {
	if text == "" {
		return nil
	}

	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}
	return words
}

// UpdateWordFrequency counts the vocabulary of posts fetched in the trailing
// hour and merges the top occurrences into the current hour bucket. Counts
// accumulate additively, so re-running over the same content adds again;
// idempotence is not a goal here, bounded monotone growth is.
func (a *Analyzer) UpdateWordFrequency(ctx context.Context) error {
	texts, err := a.store.PostTextsFetchedSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range ExtractWords(text) {
			counts[word]++
		}
	}

	hour := time.Now().UTC().Truncate(time.Hour)
	for _, wc := range topCounts(counts, topWordsPerRun) {
		if err := a.store.AddWordCount(ctx, wc.Word, hour, wc.Count); err != nil {
			return err
		}
	}
	a.logger.Debug("word frequency updated", "posts", len(texts), "words", len(counts))
	return nil
}

// topCounts returns the n highest-count words, count descending, ties broken
// alphabetically for determinism.
func topCounts(counts map[string]int, n int) []store.WordCount {
	words := make([]store.WordCount, 0, len(counts))
	for word, count := range counts {
		words = append(words, store.WordCount{Word: word, Count: count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

package store

import (
	"context"
	"database/sql"
	"time"
)

// AddWordCount merges delta into the (word, hour) bucket. Counts only ever
// accumulate; a re-run of the aggregator adds, it never overwrites.
func (s *Store) AddWordCount(ctx context.Context, word string, hour time.Time, delta int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO word_frequency (word, hour, count)
		VALUES (?, ?, ?)
		ON CONFLICT(word, hour) DO UPDATE SET count = count + excluded.count
	`, word, hour.UTC(), delta)
	return err
}

// WordCountsSince sums per-word counts over buckets at or after start.
func (s *Store) WordCountsSince(ctx context.Context, start time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, SUM(count) FROM word_frequency
		WHERE hour >= ?
		GROUP BY word
	`, start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordMap(rows)
}

// WordCountsBetween sums per-word counts over buckets in [start, end).
func (s *Store) WordCountsBetween(ctx context.Context, start, end time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, SUM(count) FROM word_frequency
		WHERE hour >= ? AND hour < ?
		GROUP BY word
	`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordMap(rows)
}

// TopWords returns the most frequent words in buckets at or after start,
// highest total first.
func (s *Store) TopWords(ctx context.Context, start time.Time, limit int) ([]WordCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, SUM(count) AS total FROM word_frequency
		WHERE hour >= ?
		GROUP BY word
		ORDER BY total DESC
		LIMIT ?
	`, start.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, err
		}
		words = append(words, wc)
	}
	return words, rows.Err()
}

// WordHistory returns the hourly series for a single word from start
// onwards, oldest bucket first.
func (s *Store) WordHistory(ctx context.Context, word string, start time.Time) ([]HourCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hour, count FROM word_frequency
		WHERE word = ? AND hour >= ?
		ORDER BY hour ASC
	`, word, start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []HourCount
	for rows.Next() {
		var hc HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, err
		}
		history = append(history, hc)
	}
	return history, rows.Err()
}

func scanWordMap(rows *sql.Rows) (map[string]int, error) {
	counts := make(map[string]int)
	for rows.Next() {
		var (
			word  string
			count int
		)
		if err := rows.Scan(&word, &count); err != nil {
			return nil, err
		}
		counts[word] = count
	}
	return counts, rows.Err()
}

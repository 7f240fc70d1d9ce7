// Package analyzer derives vocabulary, trend, sentiment and snapshot
// aggregates from the harvested data, and exposes the read-only query
// surface the dashboard layer consumes. All reads see committed store state
// only.
package analyzer

import (
	"log/slog"

	"moltscope/internal/store"
)

// Scorer produces a sentiment polarity in [-1, 1] for a piece of text. The
// scoring algorithm is a pluggable collaborator; the pipeline only depends
// on this contract.
type Scorer interface {
	Score(text string) float64
}

// Analyzer computes the windowed aggregates.
type Analyzer struct {
	store  *store.Store
	scorer Scorer
	logger *slog.Logger
}

func New(st *store.Store, scorer Scorer, logger *slog.Logger) *Analyzer {
	return &Analyzer{store: st, scorer: scorer, logger: logger}
}

// Package stats derives per-subtopic performance and maintains the
// aggregate counters a quiz submission feeds.
package stats

import (
	"context"
	"fmt"

	"github.com/abhisek/quizard/internal/store"
)

const (
	DefaultWeakThreshold   = 60.0
	DefaultWeakMinAttempts = 3
)

// Reader is the read side of the stats store.
type Reader interface {
	SubtopicStats(ctx context.Context, userID string) ([]store.SubtopicStat, error)
}

// Accuracy returns correct/total as a percentage, or 0 when total is 0.
func Accuracy(total, correct int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) * 100 / float64(total)
}

// SubtopicSummary is one row of a user's per-subtopic performance.
type SubtopicSummary struct {
	Subtopic string
	Total    int
	Correct  int
	Accuracy float64
	Weak     bool
}

// Analyzer classifies subtopics as weak.
type Analyzer struct {
	reader      Reader
	threshold   float64
	minAttempts int
}

// NewAnalyzer creates an Analyzer. Non-positive arguments select the
// defaults.
func NewAnalyzer(reader Reader, threshold float64, minAttempts int) *Analyzer {
	if threshold <= 0 {
		threshold = DefaultWeakThreshold
	}
	if minAttempts <= 0 {
		minAttempts = DefaultWeakMinAttempts
	}
	return &Analyzer{reader: reader, threshold: threshold, minAttempts: minAttempts}
}

// IsWeak reports whether a subtopic with these counters counts as weak:
// enough attempts and accuracy strictly below the threshold.
func (a *Analyzer) IsWeak(total, correct int) bool {
	return total >= a.minAttempts && Accuracy(total, correct) < a.threshold
}

// WeakSubtopics returns the user's weak subtopics in subtopic order. An
// empty result means generation is unweighted.
func (a *Analyzer) WeakSubtopics(ctx context.Context, userID string) ([]string, error) {
	rows, err := a.reader.SubtopicStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading subtopic stats: %w", err)
	}

	var weak []string
	for _, r := range rows {
		if a.IsWeak(r.Total, r.Correct) {
			weak = append(weak, r.Subtopic)
		}
	}
	return weak, nil
}

// Summaries returns every subtopic the user has answered, with derived
// accuracy and the weak flag.
func (a *Analyzer) Summaries(ctx context.Context, userID string) ([]SubtopicSummary, error) {
	rows, err := a.reader.SubtopicStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading subtopic stats: %w", err)
	}

	out := make([]SubtopicSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, SubtopicSummary{
			Subtopic: r.Subtopic,
			Total:    r.Total,
			Correct:  r.Correct,
			Accuracy: Accuracy(r.Total, r.Correct),
			Weak:     a.IsWeak(r.Total, r.Correct),
		})
	}
	return out, nil
}

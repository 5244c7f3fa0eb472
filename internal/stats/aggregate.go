package stats

import (
	"context"
	"fmt"
	"sort"
)

// Graded is one graded answer as the aggregator sees it.
type Graded struct {
	Subtopic string
	Correct  bool
}

// SubtopicDelta is the counter increment for one subtopic.
type SubtopicDelta struct {
	Subtopic string
	Total    int
	Correct  int
}

// Writer is the write side of the stats store. Both methods must be
// atomic increments.
type Writer interface {
	IncrementSubtopic(ctx context.Context, userID, subtopic string, total, correct int) error
	AddLeaderboardScore(ctx context.Context, userID string, score int) error
}

// Aggregate groups graded answers by subtopic. The result is sorted by
// subtopic so concurrent writers touch rows in the same order.
func Aggregate(graded []Graded) []SubtopicDelta {
	bySub := make(map[string]*SubtopicDelta)
	for _, g := range graded {
		d, ok := bySub[g.Subtopic]
		if !ok {
			d = &SubtopicDelta{Subtopic: g.Subtopic}
			bySub[g.Subtopic] = d
		}
		d.Total++
		if g.Correct {
			d.Correct++
		}
	}

	out := make([]SubtopicDelta, 0, len(bySub))
	for _, d := range bySub {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subtopic < out[j].Subtopic })
	return out
}

// Aggregator applies a completed session to the stats and leaderboard.
type Aggregator struct{}

// Apply increments per-subtopic counters and adds score to the user's
// leaderboard entry. w is expected to be bound to the submission
// transaction.
func (Aggregator) Apply(ctx context.Context, w Writer, userID string, graded []Graded, score int) error {
	for _, d := range Aggregate(graded) {
		if err := w.IncrementSubtopic(ctx, userID, d.Subtopic, d.Total, d.Correct); err != nil {
			return fmt.Errorf("incrementing subtopic %q: %w", d.Subtopic, err)
		}
	}
	if err := w.AddLeaderboardScore(ctx, userID, score); err != nil {
		return fmt.Errorf("updating leaderboard: %w", err)
	}
	return nil
}

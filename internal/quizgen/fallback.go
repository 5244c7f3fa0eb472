package quizgen

import (
	"context"
	"log/slog"
)

// FallbackSource serves from a primary source and falls back to a static
// source when the primary fails.
type FallbackSource struct {
	primary  Source
	fallback *StaticSource
	logger   *slog.Logger
}

// NewFallbackSource wraps primary. A nil primary means every request is
// served from the static set.
func NewFallbackSource(primary Source, fallback *StaticSource, logger *slog.Logger) *FallbackSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackSource) Generate(ctx context.Context, input GenerateInput) ([]Candidate, error) {
	if f.primary == nil {
		return f.fallback.Generate(ctx, input)
	}

	qs, err := f.primary.Generate(ctx, input)
	if err == nil {
		return qs, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	f.logger.Warn("quiz generation failed, serving static questions",
		"topic", input.Topic,
		"weak_subtopics", len(input.WeakSubtopics),
		"error", err)
	return f.fallback.Generate(ctx, input)
}

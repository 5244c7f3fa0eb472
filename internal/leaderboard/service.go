package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/abhisek/quizard/internal/quiz"
	"github.com/abhisek/quizard/internal/store"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Source is the authoritative leaderboard store. *store.StatsRepo
// satisfies it.
type Source interface {
	TopScores(ctx context.Context, limit int) ([]store.LeaderboardEntry, error)
	LeaderboardEntries(ctx context.Context, userIDs []string) ([]store.LeaderboardEntry, error)
}

// Cache is a fast ranking index.
type Cache interface {
	Top(ctx context.Context, limit int) ([]Ranked, error)
	Replace(ctx context.Context, entries []store.LeaderboardEntry) error
	Add(ctx context.Context, userID string, score int) error
}

// Service answers leaderboard queries from the cache once it has been
// warmed and falls back to the database otherwise. A failed increment
// marks the cache cold until the next successful Warm.
type Service struct {
	source Source
	cache  Cache
	warm   atomic.Bool
	logger *slog.Logger
}

// NewService creates a Service. cache may be nil.
func NewService(source Source, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: cache, logger: logger}
}

// ClampLimit maps a requested size onto [1, MaxLimit], using DefaultLimit
// for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Top returns the highest totals, ties broken by user id.
func (s *Service) Top(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	limit = ClampLimit(limit)

	if s.cache != nil && s.warm.Load() {
		entries, err := s.fromCache(ctx, limit)
		if err != nil {
			s.logger.Warn("leaderboard cache unavailable, reading database", "error", err)
		} else if entries != nil {
			return entries, nil
		}
	}

	entries, err := s.source.TopScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return entries, nil
}

// fromCache returns nil entries when the cache cannot answer on its own:
// a short ranking may be missing users whose increments never landed, and
// a tie across the cutoff is ordered differently by Redis.
func (s *Service) fromCache(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	ranked, err := s.cache.Top(ctx, limit+1)
	if err != nil || len(ranked) < limit {
		return nil, err
	}
	if len(ranked) > limit {
		if ranked[limit].Score == ranked[limit-1].Score {
			return nil, nil
		}
		ranked = ranked[:limit]
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.UserID
	}
	entries, err := s.source.LeaderboardEntries(ctx, ids)
	if err != nil || len(entries) != len(ranked) {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Warm rebuilds the cache from the database.
func (s *Service) Warm(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	entries, err := s.source.TopScores(ctx, 0)
	if err != nil {
		return fmt.Errorf("reading leaderboard: %w", err)
	}
	if err := s.cache.Replace(ctx, entries); err != nil {
		s.warm.Store(false)
		return err
	}
	s.warm.Store(true)
	s.logger.Info("leaderboard cache warmed", "entries", len(entries))
	return nil
}

// Warmed reports whether Top is currently served from the cache.
func (s *Service) Warmed() bool { return s.cache != nil && s.warm.Load() }

// SessionCompleted mirrors a completed quiz into the cache.
func (s *Service) SessionCompleted(ctx context.Context, c quiz.Completion) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Add(ctx, c.UserID, c.Score); err != nil {
		if s.warm.Swap(false) {
			s.logger.Warn("leaderboard cache marked cold", "error", err)
		}
		return err
	}
	return nil
}

func sortEntries(entries []store.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})
}

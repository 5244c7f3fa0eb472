// Package leaderboard serves the global score ranking, optionally mirrored
// in a Redis sorted set.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/quizard/internal/store"
)

// DefaultKey is the sorted set holding total scores by user id.
const DefaultKey = "quizard:leaderboard:score"

// Ranked is one member of the cached ranking.
type Ranked struct {
	UserID string
	Score  int
}

// RedisCache mirrors leaderboard totals in a sorted set. The database stays
// authoritative; the cache only decides who is in the top N.
type RedisCache struct {
	client redis.UniversalClient
	key    string
}

func NewRedisCache(client redis.UniversalClient, key string) *RedisCache {
	if key == "" {
		key = DefaultKey
	}
	return &RedisCache{client: client, key: key}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Add increments the user's cached total by score.
func (c *RedisCache) Add(ctx context.Context, userID string, score int) error {
	if err := c.client.ZIncrBy(ctx, c.key, float64(score), userID).Err(); err != nil {
		return fmt.Errorf("redis zincrby: %w", err)
	}
	return nil
}

// Top returns up to limit members, highest score first.
func (c *RedisCache) Top(ctx context.Context, limit int) ([]Ranked, error) {
	if limit <= 0 {
		return nil, nil
	}
	zs, err := c.client.ZRevRangeWithScores(ctx, c.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrevrange: %w", err)
	}

	out := make([]Ranked, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, Ranked{UserID: id, Score: int(z.Score)})
	}
	return out, nil
}

// Replace overwrites the sorted set with the given entries atomically.
func (c *RedisCache) Replace(ctx context.Context, entries []store.LeaderboardEntry) error {
	members := make([]redis.Z, len(entries))
	for i, e := range entries {
		members[i] = redis.Z{Score: float64(e.TotalScore), Member: e.UserID}
	}

	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, c.key)
		if len(members) > 0 {
			p.ZAdd(ctx, c.key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace leaderboard: %w", err)
	}
	return nil
}

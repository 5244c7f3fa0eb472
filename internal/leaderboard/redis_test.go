package leaderboard

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/abhisek/quizard/internal/store"
)

func startRedis(ctx context.Context, t *testing.T) string {
	t.Helper()
	if os.Getenv("QUIZARD_INTEGRATION") != "1" {
		t.Skip("set QUIZARD_INTEGRATION=1 to run container tests")
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Terminate(ctx)) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	addr := startRedis(ctx, t)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisCache(client, "test:leaderboard")
	require.NoError(t, cache.Ping(ctx))

	require.NoError(t, cache.Replace(ctx, []store.LeaderboardEntry{
		{UserID: "a", TotalScore: 100},
		{UserID: "b", TotalScore: 40},
	}))

	require.NoError(t, cache.Add(ctx, "b", 90))
	require.NoError(t, cache.Add(ctx, "c", 10))

	top, err := cache.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []Ranked{{"b", 130}, {"a", 100}}, top)

	require.NoError(t, cache.Replace(ctx, nil))
	top, err = cache.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

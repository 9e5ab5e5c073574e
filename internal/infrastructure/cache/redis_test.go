package cache

import (
	"context"
	"testing"
	"time"

	"skill-match/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedis_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	r := NewRedis(ctx, config.RedisConfig{Enabled: false}, nil)

	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, 0))
	var out map[string]int
	hit, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Error(t, r.Ping(ctx))
	assert.NoError(t, r.Delete(ctx, "k"))
	assert.NoError(t, r.DeleteByPattern(ctx, "match:*"))
	assert.NoError(t, r.Close())
}

func TestRedis_WarnsOnceWhenUnreachable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedisWithClient(client, time.Minute, zap.New(core))
	t.Cleanup(func() { _ = r.Close() })

	ctx := context.Background()
	var out map[string]int
	_, err1 := r.GetJSON(ctx, "k", &out)
	err2 := r.SetJSON(ctx, "k", 1, 0)
	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 1, logs.FilterMessage("redis unavailable, bypassing cache").Len())
}

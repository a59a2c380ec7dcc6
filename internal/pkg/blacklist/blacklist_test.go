package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestBlacklist_AddAndContains(t *testing.T) {
	client, _ := setupTestRedis(t)
	bl := New(client)
	ctx := context.Background()

	err := bl.Add(ctx, "jti-123", time.Hour)
	require.NoError(t, err)

	revoked, err := bl.Contains(ctx, "jti-123")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.Contains(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklist_Add_ExpiredTokenNoop(t *testing.T) {
	client, _ := setupTestRedis(t)
	bl := New(client)
	ctx := context.Background()

	// 剩余有效期为零的令牌无需入名单
	err := bl.Add(ctx, "jti-expired", 0)
	require.NoError(t, err)

	revoked, err := bl.Contains(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklist_EntryExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	bl := New(client)
	ctx := context.Background()

	err := bl.Add(ctx, "jti-ttl", time.Minute)
	require.NoError(t, err)

	// 过了 TTL 之后条目自动消失
	mr.FastForward(2 * time.Minute)

	revoked, err := bl.Contains(ctx, "jti-ttl")
	require.NoError(t, err)
	assert.False(t, revoked)
}

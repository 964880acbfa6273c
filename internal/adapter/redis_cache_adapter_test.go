package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"medquest/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaderboardKey = "medquest:ranking:leaderboard:top:3"

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectGet("k").SetVal("v")
	val, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	mock.ExpectGet("k").SetErr(redis.Nil)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	boom := errors.New("connection refused")
	mock.ExpectGet("k").SetErr(boom)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_SetNX(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "medquest:chat:finalize:01J0"

	mock.ExpectSetNX(key, "1", time.Minute).SetVal(true)
	ok, err := cache.SetNX(ctx, key, "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectSetNX(key, "1", time.Minute).SetVal(false)
	ok, err = cache.SetNX(ctx, key, "1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_IncrAndDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()
	genKey := "medquest:ranking:leaderboard:generation"

	mock.ExpectIncr(genKey).SetVal(1)
	n, err := cache.Incr(ctx, genKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectIncr(genKey).SetErr(errors.New("WRONGTYPE"))
	_, err = cache.Incr(ctx, genKey)
	assert.Error(t, err)

	mock.ExpectDel("k").SetVal(0)
	assert.NoError(t, cache.Delete(ctx, "k"), "deleting an absent key is not an error")

	boom := errors.New("readonly replica")
	mock.ExpectDel("k").SetErr(boom)
	assert.ErrorIs(t, cache.Delete(ctx, "k"), boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Hash(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectHSet(leaderboardKey, "10", "[]").SetVal(1)
	require.NoError(t, cache.HSet(ctx, leaderboardKey, "10", "[]"))

	mock.ExpectExpire(leaderboardKey, 5*time.Minute).SetVal(true)
	require.NoError(t, cache.Expire(ctx, leaderboardKey, 5*time.Minute))

	mock.ExpectHGet(leaderboardKey, "10").SetVal("[]")
	val, err := cache.HGet(ctx, leaderboardKey, "10")
	require.NoError(t, err)
	assert.Equal(t, "[]", val)

	mock.ExpectHGet(leaderboardKey, "25").RedisNil()
	_, err = cache.HGet(ctx, leaderboardKey, "25")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, cache.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, cache.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

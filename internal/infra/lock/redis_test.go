package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestLockIsExclusive(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLocker(client, time.Minute)
	l.Wait = 100 * time.Millisecond
	l.Retry = 10 * time.Millisecond

	ctx := context.Background()

	unlock, err := l.Lock(ctx, "appointment:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:appointment:1"))

	_, err = l.Lock(ctx, "appointment:1")
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	unlock()
	assert.False(t, mr.Exists("lock:appointment:1"))

	unlock2, err := l.Lock(ctx, "appointment:1")
	require.NoError(t, err)
	unlock2()
}

func TestUnlockDoesNotStealForeignLock(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLocker(client, time.Second)

	unlock, err := l.Lock(context.Background(), "appointment:2")
	require.NoError(t, err)

	// expired and taken by someone else
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:appointment:2", "other"))

	unlock()
	got, err := mr.Get("lock:appointment:2")
	require.NoError(t, err)
	assert.Equal(t, "other", got)
}

func TestNoop(t *testing.T) {
	unlock, err := Noop{}.Lock(context.Background(), "x")
	require.NoError(t, err)
	assert.NotPanics(t, unlock)
}

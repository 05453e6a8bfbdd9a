package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

const keyPrefix = "lock:"

// release only deletes the key while we still own it
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Wait   time.Duration
	Retry  time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &RedisLocker{
		Client: client,
		TTL:    ttl,
		Wait:   3 * time.Second,
		Retry:  50 * time.Millisecond,
	}
}

// Lock spins on SetNX until the key is free or Wait elapses.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := keyPrefix + key
	owner := uuid.NewString()
	deadline := time.Now().Add(l.Wait)

	for {
		ok, err := l.Client.SetNX(ctx, k, owner, l.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				release.Run(context.Background(), l.Client, []string{k}, owner)
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, httperr.ErrConflict("resource_busy", "Another change is in progress, try again.")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Retry):
		}
	}
}

// Noop is used when redis is disabled; row locks still serialise writers.
type Noop struct{}

func (Noop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := NewRedisLocker(client, zerolog.Nop())
	locker.retryDelay = time.Millisecond
	return locker, srv
}

func TestRedisLockerExcludesSecondHolder(t *testing.T) {
	locker, srv := newTestLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "bed_charge_lock:adm-1")
	assert.NoError(t, err)
	assert.True(t, srv.Exists("bed_charge_lock:adm-1"))

	_, err = locker.Acquire(ctx, "bed_charge_lock:adm-1")
	assert.True(t, errors.Is(err, ErrLockNotAcquired), "got %v", err)

	other, err := locker.Acquire(ctx, "bed_charge_lock:adm-2")
	assert.NoError(t, err)
	other()

	release()
	assert.False(t, srv.Exists("bed_charge_lock:adm-1"))

	again, err := locker.Acquire(ctx, "bed_charge_lock:adm-1")
	assert.NoError(t, err)
	again()
}

func TestRedisLockerKeepsForeignLock(t *testing.T) {
	locker, srv := newTestLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "bed_charge_lock:adm-1")
	assert.NoError(t, err)

	// The lock expired and another worker took it; releasing must not drop theirs.
	assert.NoError(t, srv.Set("bed_charge_lock:adm-1", "someone-else"))
	release()

	value, err := srv.Get("bed_charge_lock:adm-1")
	assert.NoError(t, err)
	assert.Equal(t, "someone-else", value)
}

func TestRedisLockerExpires(t *testing.T) {
	locker, srv := newTestLocker(t)

	_, err := locker.Acquire(context.Background(), "bed_charge_lock:adm-1")
	assert.NoError(t, err)
	srv.FastForward(locker.ttl + time.Second)
	assert.False(t, srv.Exists("bed_charge_lock:adm-1"))
}

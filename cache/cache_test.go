package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestNewCacheRequiresClient(t *testing.T) {
	_, err := NewCache(nil)
	assert.Error(t, err)
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.NoError(t, c.SetJSON(ctx, "ledger_cache:adm-1", []string{"a"}, time.Minute))
	assert.NoError(t, c.Delete(ctx, "ledger_cache:adm-1"))

	var dst []string
	hit, err := c.GetJSON(ctx, "ledger_cache:adm-1", &dst)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c, err := NewCache(client)
	assert.NoError(t, err)
	return c, srv
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	assert.NoError(t, c.SetJSON(ctx, "patient_cache:HP-000001", map[string]string{"id": "HP-000001"}, time.Minute))
	var dst map[string]string
	hit, err := c.GetJSON(ctx, "patient_cache:HP-000001", &dst)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "HP-000001", dst["id"])

	assert.NoError(t, c.Delete(ctx, "patient_cache:HP-000001"))
	hit, err = c.GetJSON(ctx, "patient_cache:HP-000001", &dst)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestVersionedKeyRetiresListsReadBeforeAWrite(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	const versionKey, prefix = "ledger_version:adm-1", "ledger_cache:adm-1"

	// A reader resolves its key and reads the table.
	readerKey, err := c.VersionedKey(ctx, versionKey, prefix)
	assert.NoError(t, err)
	assert.Equal(t, "ledger_cache:adm-1:v0", readerKey)

	// A writer commits and bumps before the reader stores what it read.
	assert.NoError(t, c.Bump(ctx, versionKey))
	assert.NoError(t, c.SetJSON(ctx, readerKey, []string{"txn-1"}, time.Minute))

	nextKey, err := c.VersionedKey(ctx, versionKey, prefix)
	assert.NoError(t, err)
	assert.Equal(t, "ledger_cache:adm-1:v1", nextKey)

	var dst []string
	hit, err := c.GetJSON(ctx, nextKey, &dst)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestVersionedKeyOnNilCache(t *testing.T) {
	var c *Cache
	key, err := c.VersionedKey(context.Background(), "ledger_version:adm-1", "ledger_cache:adm-1")
	assert.NoError(t, err)
	assert.Equal(t, "ledger_cache:adm-1:v0", key)
	assert.NoError(t, c.Bump(context.Background(), "ledger_version:adm-1"))
}

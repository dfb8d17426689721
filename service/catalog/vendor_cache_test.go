package catalog

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"giftshop.GO/core/cache"
)

func TestMemoryVendorCache(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	c := NewMemoryVendorCache(time.Minute, cache.WithClock(func() time.Time { return now }))

	c.Put(ctx, "v1", "Acme")
	c.Put(ctx, "v2", "Globex")
	name, ok := c.Get(ctx, "v1")
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)

	c.Invalidate(ctx, "v1")
	_, ok = c.Get(ctx, "v1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "v2")
	assert.True(t, ok)

	c.Invalidate(ctx)
	_, ok = c.Get(ctx, "v2")
	assert.False(t, ok)

	c.Put(ctx, "v3", "Initech")
	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "v3")
	assert.False(t, ok, "entry outlived its ttl")
}

func TestRedisVendorCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	c := NewRedisVendorCache(client, "giftshop-test", time.Minute, nil)
	c.Invalidate(ctx)

	c.Put(ctx, "v1", "Acme")
	c.Put(ctx, "v2", "Globex")
	name, ok := c.Get(ctx, "v1")
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)

	c.Invalidate(ctx, "v1")
	_, ok = c.Get(ctx, "v1")
	assert.False(t, ok)

	c.Invalidate(ctx)
	_, ok = c.Get(ctx, "v2")
	assert.False(t, ok)
}

// failingDel answers SCAN with a fixed page and fails every DEL without
// touching the network.
type failingDel struct{ keys []string }

func (h failingDel) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no network in tests")
	}
}

func (h failingDel) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch c := cmd.(type) {
		case *redis.ScanCmd:
			c.SetVal(h.keys, 0)
			return nil
		case *redis.IntCmd:
			if cmd.Name() == "del" {
				err := errors.New("READONLY You can't write against a read only replica")
				c.SetErr(err)
				return err
			}
		}
		return next(ctx, cmd)
	}
}

func (h failingDel) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisVendorCache_FlushLogsDelErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	client.AddHook(failingDel{keys: []string{"giftshop-test:vendor:v1", "giftshop-test:vendor:v2"}})

	c := NewRedisVendorCache(client, "giftshop-test", time.Minute, zap.New(core))
	c.Invalidate(context.Background())

	entries := logs.FilterMessage("vendor cache flush").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["keys"])
	assert.Contains(t, entries[0].ContextMap()["error"], "READONLY")
}

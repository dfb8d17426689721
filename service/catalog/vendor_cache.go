package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"giftshop.GO/core/cache"
)

// VendorCache remembers vendor display names by vendor id.
type VendorCache interface {
	Get(ctx context.Context, id string) (string, bool)
	Put(ctx context.Context, id, name string)
	// Invalidate drops the given ids, or every entry when none are given.
	Invalidate(ctx context.Context, ids ...string)
}

const vendorTag = "vendors"

// MemoryVendorCache keeps vendor names in process.
type MemoryVendorCache struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewMemoryVendorCache returns a cache whose entries live for ttl (0 = forever).
func NewMemoryVendorCache(ttl time.Duration, opts ...cache.Option) *MemoryVendorCache {
	return &MemoryVendorCache{c: cache.NewCache(opts...), ttl: ttl}
}

func (m *MemoryVendorCache) Get(_ context.Context, id string) (string, bool) {
	v, ok := m.c.Get(id)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func (m *MemoryVendorCache) Put(_ context.Context, id, name string) {
	m.c.Set(id, name, m.ttl, []string{vendorTag})
}

func (m *MemoryVendorCache) Invalidate(_ context.Context, ids ...string) {
	if len(ids) == 0 {
		m.c.DeleteByTag(vendorTag)
		return
	}
	m.c.Invalidate(ids...)
}

// RedisVendorCache shares vendor names across instances. Redis failures
// degrade to cache misses.
type RedisVendorCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisVendorCache(client *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *RedisVendorCache {
	if prefix == "" {
		prefix = "giftshop"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisVendorCache{client: client, prefix: prefix + ":vendor:", ttl: ttl, log: log}
}

func (r *RedisVendorCache) Get(ctx context.Context, id string) (string, bool) {
	name, err := r.client.Get(ctx, r.prefix+id).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		r.log.Warn("vendor cache get", zap.String("vendor_id", id), zap.Error(err))
		return "", false
	}
	return name, true
}

func (r *RedisVendorCache) Put(ctx context.Context, id, name string) {
	if err := r.client.Set(ctx, r.prefix+id, name, r.ttl).Err(); err != nil {
		r.log.Warn("vendor cache put", zap.String("vendor_id", id), zap.Error(err))
	}
}

func (r *RedisVendorCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = r.prefix + id
		}
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.log.Warn("vendor cache invalidate", zap.Strings("vendor_ids", ids), zap.Error(err))
		}
		return
	}
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			r.del(ctx, batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		r.del(ctx, batch)
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("vendor cache flush", zap.Error(err))
	}
}

func (r *RedisVendorCache) del(ctx context.Context, keys []string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn("vendor cache flush", zap.Int("keys", len(keys)), zap.Error(err))
	}
}

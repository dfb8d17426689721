package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe in-process key-value store with optional TTL and
// tags. Each owner creates its own instance; there is no package singleton.
type Cache struct {
	mu       sync.Mutex
	items    map[string]cacheItem
	tagIndex map[string]map[string]struct{}
	now      func() time.Time
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt time.Time // zero means no expiration
	Tags      []string
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a new Cache instance.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		items:    make(map[string]cacheItem),
		tagIndex: make(map[string]map[string]struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores a value. ttl <= 0 never expires.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, tags []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(key)
	item := cacheItem{Value: value, Tags: tags}
	if ttl > 0 {
		item.ExpiresAt = c.now().Add(ttl)
	}
	c.items[key] = item
	for _, tag := range tags {
		keys, ok := c.tagIndex[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tagIndex[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// Get returns (value, true) if key is present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !item.ExpiresAt.IsZero() && c.now().After(item.ExpiresAt) {
		c.deleteLocked(key)
		return nil, false
	}
	return item.Value, true
}

// Delete removes a key from the cache and from its tags.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	c.deleteLocked(key)
	c.mu.Unlock()
}

// Invalidate drops the given keys, or everything when none are given.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.items = make(map[string]cacheItem)
		c.tagIndex = make(map[string]map[string]struct{})
		return
	}
	for _, k := range keys {
		c.deleteLocked(k)
	}
}

// Len counts stored entries, expired ones included until they are read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) deleteLocked(key string) {
	item, ok := c.items[key]
	if !ok {
		return
	}
	delete(c.items, key)
	for _, tag := range item.Tags {
		if keys, ok := c.tagIndex[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.tagIndex, tag)
			}
		}
	}
}

// DeleteByTag deletes all cache entries assigned to a tag.
func (c *Cache) DeleteByTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.tagIndex[tag] {
		c.deleteLocked(k)
	}
	delete(c.tagIndex, tag)
}

package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance
var RedisClient *redis.Client

// Accessed as config.RedisClient in other files

// InitRedis connects when REDIS_ADDR is set and leaves RedisClient nil otherwise.
func InitRedis(c *Config) {
	if c.RedisAddr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPass,
		DB:       0,
	})
}

func RedisCtx() context.Context {
	return context.Background()
}

package database

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/linguavox/internal/config"
)

// NewRedis connects and pings; callers fall back to memory on error.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Pass, // Add via env if needed
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Addr, err)
	}
	return client, nil
}

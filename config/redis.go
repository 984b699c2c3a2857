package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis returns a Redis client, or nil when REDIS_ADDR is unset or
// the server does not answer. Agent creation then relies on the unique
// email index alone.
func ConnectRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR not set, email reservation disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		slog.Warn("Redis connection failed, email reservation disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("connected to Redis", "addr", cfg.RedisAddr)
	return client
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/product_catalog/internal/config"
)

// NewClient builds a Redis client without contacting the server.
// go-redis dials lazily, so the client recovers once Redis becomes reachable.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// Ping verifies the client can reach Redis
func Ping(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// WaitForRedis waits for Redis to become available with retries.
// The client is returned even on failure so callers may run degraded.
func WaitForRedis(cfg *config.Config, maxRetries int, retryDelay time.Duration) (*redis.Client, error) {
	client := NewClient(cfg)

	var err error
	for i := 0; i < maxRetries; i++ {
		err = Ping(client)
		if err == nil {
			return client, nil
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return client, fmt.Errorf("failed to connect to Redis after %d retries: %w", maxRetries, err)
}

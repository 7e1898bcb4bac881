package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"institute-app-go/internal/config"
	"institute-app-go/pkg/logger"
)

const redisPingTimeout = 5 * time.Second

// NewRedis returns nil without error when no address is configured.
func NewRedis(cfg config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		log.Info("redis: REDIS_ADDR not set, skipping")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("redis: connected", "addr", cfg.Addr)
	return client, nil
}

package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/payments-engine/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisDB struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisDB(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (*RedisDB, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Connected to Redis", "addr", cfg.Addr, "db", cfg.DB)

	return &RedisDB{
		client: client,
		logger: logger,
	}, nil
}

func (r *RedisDB) Client() *redis.Client {
	return r.client
}

func (r *RedisDB) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	r.logger.Info("Closed Redis connection")
	return nil
}

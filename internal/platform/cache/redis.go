package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Address  string
	Password string
	DB       int
}

func NewRedisClient(ctx context.Context, cfg Config, log *slog.Logger) (*redis.Client, error) {
	log.Info("connecting to redis", slog.String("addr", cfg.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info("redis connected")
	return client, nil
}

package database

import (
	"context"
	"fmt"
	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

type redisTimeSeries struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisTimeSeries(cfg *config.RedisConfig, log logger.Logger) TimeSeriesDatabase {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithFields(map[string]any{
			"error": err.Error(),
		}).Warn("Failed to connect to Redis")
	}

	return &redisTimeSeries{
		client: client,
		log:    log,
	}
}

func (r *redisTimeSeries) GetClient() *redis.Client {
	return r.client
}

func (r *redisTimeSeries) Close() error {
	return r.client.Close()
}

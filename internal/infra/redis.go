package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"itinera/pkg/logger"
)

// InitRedis returns nil when no address is configured or the server does not
// answer; callers fall back to in-process stores.
func InitRedis(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: "",
		DB:       0,
		PoolSize: 20,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.LogError(logger.GetLogger(), "infra", "InitRedis", "ping", cfg.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}

	logger.GetLogger().WithField("addr", cfg.RedisAddr).Info("connected to redis")
	return rdb
}

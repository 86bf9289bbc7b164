package redis_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"itinera/internal/infra"
)

// Module provides a *redis.Client that is nil when Redis is not configured
// or unreachable.
var Module = fx.Provide(provideRedis)

func provideRedis(lc fx.Lifecycle, cfg infra.Config) *redis.Client {
	rdb := infra.InitRedis(cfg)
	if rdb != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return rdb.Close()
			},
		})
	}
	return rdb
}

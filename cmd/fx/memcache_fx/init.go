package memcache_fx

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"itinera/internal/infra"
	"itinera/pkg/logger"
	mem "itinera/pkg/memcache"
)

var Module = fx.Provide(provideReferralStore)

func provideReferralStore(cfg infra.Config, rdb *redis.Client) mem.ReferralStore {
	if rdb != nil {
		return mem.NewRedisReferrals(rdb, cfg.ReferralTTL)
	}
	logger.GetLogger().Info("referral pointers kept in process memory")
	return mem.NewReferrals(cfg.ReferralTTL)
}

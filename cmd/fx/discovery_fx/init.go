package discovery_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"itinera/internal/repositories"
	"itinera/internal/services"
	mem "itinera/pkg/memcache"
)

var Module = fx.Provide(
	providePartnerRepo, provideCatalogRepo, provideVideoRepo,
	provideCatalogService, provideFeedService)

func providePartnerRepo(db *gorm.DB) repositories.PartnerListingRepository {
	return repositories.NewPartnerListingRepository(db)
}

func provideCatalogRepo(db *gorm.DB) repositories.CatalogPlaceRepository {
	return repositories.NewCatalogPlaceRepository(db)
}

func provideVideoRepo(db *gorm.DB) repositories.CreatorVideoRepository {
	return repositories.NewCreatorVideoRepository(db)
}

func provideCatalogService(
	partnerRepo repositories.PartnerListingRepository,
	catalogRepo repositories.CatalogPlaceRepository,
	external services.ExternalPlaceSearch,
	cfg services.AggregatorConfig,
) services.CatalogServiceInterface {
	return services.NewCatalogService(partnerRepo, catalogRepo, external, cfg)
}

func provideFeedService(
	catalogService services.CatalogServiceInterface,
	videoRepo repositories.CreatorVideoRepository,
	referrals mem.ReferralStore,
) services.FeedServiceInterface {
	return services.NewFeedService(catalogService, videoRepo, referrals)
}

package place_search_fx

import (
	"context"

	"go.uber.org/fx"

	"itinera/internal/infra"
	"itinera/internal/services"
)

var Module = fx.Provide(providePlaceSearch)

func providePlaceSearch(lc fx.Lifecycle, cfg infra.Config) services.ExternalPlaceSearch {
	client := services.NewGooglePlacesClient(
		cfg.GoogleMapsAPIKey,
		services.NewInMemorySearchCache(),
		cfg.SearchCacheTTL,
		cfg.ExternalSearchRadiusM,
		cfg.ExternalSearchLimit,
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// the hook context ends with startup; the client outlives it
			client.Start(context.Background())
			return nil
		},
	})
	return client
}

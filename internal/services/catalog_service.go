package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"itinera/internal/discovery"
	"itinera/internal/repositories"
	"itinera/pkg/logger"
	"itinera/pkg/utils"
)

const (
	PartnerTierLimit = 20
	CatalogTierLimit = 30
)

type CatalogServiceInterface interface {
	// Aggregate merges partner, catalog and (on a thin result) external
	// places in that priority. Provider failures are logged and skipped.
	Aggregate(ctx context.Context, filter discovery.Filter) []discovery.DiscoveredPlace
	// FeaturedPlaces lists partner listings, then featured catalog places,
	// then the rest of the catalog.
	FeaturedPlaces(ctx context.Context, limit int) []discovery.DiscoveredPlace
	Destinations(ctx context.Context) ([]string, error)
	GetPlace(ctx context.Context, placeID string) (*discovery.DiscoveredPlace, error)
}

type AggregatorConfig struct {
	FallbackThreshold int
	ProviderTimeout   time.Duration
}

type CatalogService struct {
	partnerRepository repositories.PartnerListingRepository
	catalogRepository repositories.CatalogPlaceRepository
	external          ExternalPlaceSearch
	cfg               AggregatorConfig
}

func NewCatalogService(
	partnerRepository repositories.PartnerListingRepository,
	catalogRepository repositories.CatalogPlaceRepository,
	external ExternalPlaceSearch,
	cfg AggregatorConfig,
) CatalogServiceInterface {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 3 * time.Second
	}
	return &CatalogService{
		partnerRepository: partnerRepository,
		catalogRepository: catalogRepository,
		external:          external,
		cfg:               cfg,
	}
}

type tierFetch func(ctx context.Context) ([]discovery.DiscoveredPlace, error)

func (s *CatalogService) Aggregate(ctx context.Context, filter discovery.Filter) []discovery.DiscoveredPlace {
	var partners, catalog []discovery.DiscoveredPlace

	var g errgroup.Group
	g.Go(func() error {
		partners = s.runTier(ctx, discovery.ProviderPartner, filter, s.partnerTier(filter))
		return nil
	})
	g.Go(func() error {
		catalog = s.runTier(ctx, discovery.ProviderCatalog, filter, s.catalogTier(filter))
		return nil
	})
	_ = g.Wait()

	tiers := [][]discovery.DiscoveredPlace{partners, catalog}

	if len(partners)+len(catalog) < s.cfg.FallbackThreshold && s.external != nil && s.external.Ready() {
		query := ExternalSearchQuery{Filter: filter, Center: firstCoordinate(partners, catalog)}
		tiers = append(tiers, s.runTier(ctx, discovery.ProviderExternal, filter, func(ctx context.Context) ([]discovery.DiscoveredPlace, error) {
			return s.external.Search(ctx, query)
		}))
	}

	return mergeTiers(tiers...)
}

func (s *CatalogService) FeaturedPlaces(ctx context.Context, limit int) []discovery.DiscoveredPlace {
	if limit <= 0 {
		return []discovery.DiscoveredPlace{}
	}

	var partners, catalog []discovery.DiscoveredPlace
	var g errgroup.Group
	g.Go(func() error {
		partners = s.runTier(ctx, discovery.ProviderPartner, discovery.Filter{}, s.partnerTier(discovery.Filter{}))
		return nil
	})
	g.Go(func() error {
		catalog = s.runTier(ctx, discovery.ProviderCatalog, discovery.Filter{}, s.catalogTier(discovery.Filter{}))
		return nil
	})
	_ = g.Wait()

	var featured, rest []discovery.DiscoveredPlace
	for _, p := range catalog {
		if p.IsFeatured {
			featured = append(featured, p)
		} else {
			rest = append(rest, p)
		}
	}

	merged := mergeTiers(partners, featured, rest)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func (s *CatalogService) Destinations(ctx context.Context) ([]string, error) {
	destinations, err := s.catalogRepository.Destinations(ctx)
	if err != nil {
		logger.LogError(logger.GetLogger(), "services", "Destinations", "catalogRepository.Destinations", nil, err)
		return nil, utils.DatabaseError(err)
	}
	if destinations == nil {
		return []string{}, nil
	}
	return destinations, nil
}

func (s *CatalogService) GetPlace(ctx context.Context, placeID string) (*discovery.DiscoveredPlace, error) {
	ref, err := discovery.ParsePlaceID(placeID)
	if err != nil {
		return nil, err
	}

	switch ref.Provider {
	case discovery.ProviderPartner:
		id, err := uuid.Parse(ref.NativeID)
		if err != nil {
			return nil, utils.ErrPlaceNotFound
		}
		listing, err := s.partnerRepository.GetByID(ctx, id)
		if err != nil {
			return nil, utils.DatabaseError(err)
		}
		if listing == nil {
			return nil, utils.ErrPlaceNotFound
		}
		place := listing.ToDiscoveredPlace()
		return &place, nil

	case discovery.ProviderCatalog:
		id, err := uuid.Parse(ref.NativeID)
		if err != nil {
			return nil, utils.ErrPlaceNotFound
		}
		p, err := s.catalogRepository.GetByID(ctx, id)
		if err != nil {
			return nil, utils.DatabaseError(err)
		}
		if p == nil {
			return nil, utils.ErrPlaceNotFound
		}
		place := p.ToDiscoveredPlace()
		return &place, nil

	default:
		if s.external == nil || !s.external.Ready() {
			return nil, utils.ErrProviderUnavailable
		}
		tctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
		defer cancel()
		place, err := s.external.Get(tctx, ref.NativeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
		}
		if place == nil {
			return nil, utils.ErrPlaceNotFound
		}
		return place, nil
	}
}

func (s *CatalogService) partnerTier(filter discovery.Filter) tierFetch {
	return func(ctx context.Context) ([]discovery.DiscoveredPlace, error) {
		listings, err := s.partnerRepository.Search(ctx, filter, PartnerTierLimit)
		if err != nil {
			return nil, err
		}
		out := make([]discovery.DiscoveredPlace, 0, len(listings))
		for i := range listings {
			out = append(out, listings[i].ToDiscoveredPlace())
		}
		return out, nil
	}
}

func (s *CatalogService) catalogTier(filter discovery.Filter) tierFetch {
	return func(ctx context.Context) ([]discovery.DiscoveredPlace, error) {
		rows, err := s.catalogRepository.Search(ctx, filter, CatalogTierLimit)
		if err != nil {
			return nil, err
		}
		out := make([]discovery.DiscoveredPlace, 0, len(rows))
		for i := range rows {
			out = append(out, rows[i].ToDiscoveredPlace())
		}
		return out, nil
	}
}

type tierResult struct {
	places []discovery.DiscoveredPlace
	err    error
}

// runTier bounds one provider call by the provider timeout. A failure or
// timeout is logged and yields no places.
func (s *CatalogService) runTier(ctx context.Context, tier discovery.ProviderTag, filter discovery.Filter, fetch tierFetch) []discovery.DiscoveredPlace {
	tctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	done := make(chan tierResult, 1)
	go func() {
		places, err := fetch(tctx)
		done <- tierResult{places: places, err: err}
	}()

	var res tierResult
	select {
	case res = <-done:
	case <-tctx.Done():
		res.err = tctx.Err()
	}

	if res.err != nil {
		logger.LogWarn(logger.GetLogger(), "services", "Aggregate", string(tier),
			fmt.Errorf("%s tier: %w: %v", tier, utils.ErrProviderUnavailable, res.err))
		return nil
	}

	kept := res.places[:0:0]
	for _, p := range res.places {
		if filter.Matches(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// mergeTiers concatenates tiers in priority order, keeping the first place
// seen for each composite id.
func mergeTiers(tiers ...[]discovery.DiscoveredPlace) []discovery.DiscoveredPlace {
	seen := make(map[string]struct{})
	out := make([]discovery.DiscoveredPlace, 0)
	for _, tier := range tiers {
		for _, p := range tier {
			key := p.ID.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func firstCoordinate(tiers ...[]discovery.DiscoveredPlace) *discovery.Coordinate {
	for _, tier := range tiers {
		for _, p := range tier {
			if p.Coordinates != nil {
				return p.Coordinates
			}
		}
	}
	return nil
}

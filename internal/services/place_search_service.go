package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	places "google.golang.org/api/places/v1"

	"itinera/internal/discovery"
	"itinera/pkg/logger"
)

// ExternalSearchQuery is one live search. Center, when known, biases results
// to a circle of the configured radius.
type ExternalSearchQuery struct {
	Filter discovery.Filter
	Center *discovery.Coordinate
}

// ExternalPlaceSearch is the third, live provider tier.
type ExternalPlaceSearch interface {
	// Ready reports whether the client finished its asynchronous setup.
	Ready() bool
	Search(ctx context.Context, q ExternalSearchQuery) ([]discovery.DiscoveredPlace, error)
	Get(ctx context.Context, nativeID string) (*discovery.DiscoveredPlace, error)
}

var errExternalNotReady = errors.New("external place search is not initialised")

// --------- In-memory cache per (region, category) ---------

// searchKey includes the location bias, rounded to about a kilometre, since
// the same text query returns different places around different centres.
type searchKey struct {
	Region    string
	Category  discovery.Category
	HasCenter bool
	Lat, Lng  float64
}

func newSearchKey(q ExternalSearchQuery) searchKey {
	key := searchKey{Region: strings.ToLower(strings.TrimSpace(q.Filter.Region)), Category: q.Filter.Category}
	if q.Center != nil {
		key.HasCenter = true
		key.Lat = math.Round(q.Center.Lat*100) / 100
		key.Lng = math.Round(q.Center.Lng*100) / 100
	}
	return key
}

type searchCacheEntry struct {
	Places    []discovery.DiscoveredPlace
	ExpiresAt time.Time
}

type PlaceSearchCache interface {
	Get(k searchKey) ([]discovery.DiscoveredPlace, bool)
	Set(k searchKey, v []discovery.DiscoveredPlace, ttl time.Duration)
}

type inMemorySearchCache struct {
	mu    sync.RWMutex
	store map[searchKey]searchCacheEntry
}

func NewInMemorySearchCache() PlaceSearchCache {
	return &inMemorySearchCache{store: make(map[searchKey]searchCacheEntry)}
}

func (c *inMemorySearchCache) Get(k searchKey) ([]discovery.DiscoveredPlace, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.ExpiresAt) {
		return nil, false
	}
	return it.Places, true
}

func (c *inMemorySearchCache) Set(k searchKey, v []discovery.DiscoveredPlace, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = searchCacheEntry{Places: v, ExpiresAt: time.Now().Add(ttl)}
}

// -------------- Google Places (New) text search client ---------------

const placeFields = "id,displayName,formattedAddress,shortFormattedAddress,location,rating,userRatingCount,types,primaryType,photos,editorialSummary"

type GooglePlacesClient struct {
	APIKey     string
	Cache      PlaceSearchCache
	DefaultTTL time.Duration
	RadiusM    float64
	MaxResults int64

	svc   atomic.Pointer[places.Service]
	ready atomic.Bool
}

func NewGooglePlacesClient(apiKey string, cache PlaceSearchCache, ttl time.Duration, radiusM float64, maxResults int) *GooglePlacesClient {
	return &GooglePlacesClient{
		APIKey:     apiKey,
		Cache:      cache,
		DefaultTTL: ttl,
		RadiusM:    radiusM,
		MaxResults: int64(maxResults),
	}
}

// Start builds the underlying service in the background. Without an API key
// the client never becomes ready and the external tier stays off.
func (c *GooglePlacesClient) Start(ctx context.Context) {
	if c.APIKey == "" {
		logger.GetLogger().Warn("GOOGLE_MAPS_API_KEY is empty, external place search disabled")
		return
	}
	go func() {
		svc, err := places.NewService(ctx, option.WithAPIKey(c.APIKey))
		if err != nil {
			logger.LogError(logger.GetLogger(), "services", "GooglePlacesClient.Start", "places.NewService", nil, err)
			return
		}
		c.svc.Store(svc)
		c.ready.Store(true)
		logger.GetLogger().Info("external place search ready")
	}()
}

func (c *GooglePlacesClient) Ready() bool {
	return c.ready.Load()
}

func (c *GooglePlacesClient) Search(ctx context.Context, q ExternalSearchQuery) ([]discovery.DiscoveredPlace, error) {
	svc := c.svc.Load()
	if svc == nil {
		return nil, errExternalNotReady
	}

	key := newSearchKey(q)
	if v, ok := c.Cache.Get(key); ok {
		return v, nil
	}

	req := &places.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:      textQuery(q.Filter),
		MaxResultCount: c.MaxResults,
	}
	if q.Center != nil {
		req.LocationBias = &places.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Circle: &places.GoogleMapsPlacesV1Circle{
				Center: &places.GoogleTypeLatLng{Latitude: q.Center.Lat, Longitude: q.Center.Lng},
				Radius: c.RadiusM,
			},
		}
	}

	resp, err := svc.Places.SearchText(req).
		Fields(googleapi.Field(prefixFields("places."))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}

	out := make([]discovery.DiscoveredPlace, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p == nil || p.Id == "" {
			continue
		}
		out = append(out, toDiscoveredPlace(p, q.Filter.Region, c.photoURL))
	}

	c.Cache.Set(key, out, c.DefaultTTL)
	return out, nil
}

func (c *GooglePlacesClient) Get(ctx context.Context, nativeID string) (*discovery.DiscoveredPlace, error) {
	svc := c.svc.Load()
	if svc == nil {
		return nil, errExternalNotReady
	}

	p, err := svc.Places.Get("places/" + nativeID).
		Fields(googleapi.Field(placeFields)).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("places get: %w", err)
	}

	place := toDiscoveredPlace(p, "", c.photoURL)
	return &place, nil
}

func prefixFields(prefix string) string {
	parts := strings.Split(placeFields, ",")
	for i := range parts {
		parts[i] = prefix + parts[i]
	}
	return strings.Join(parts, ",")
}

func textQuery(f discovery.Filter) string {
	var what string
	switch f.Category {
	case discovery.CategoryStay:
		what = "hotels"
	case discovery.CategoryEat:
		what = "restaurants"
	case discovery.CategoryDo:
		what = "things to do"
	default:
		what = "tourist attractions"
	}
	if f.Region == "" {
		return what
	}
	return what + " in " + f.Region
}

const photoMaxWidthPx = 800

// photoURL renders a photo resource name ("places/<id>/photos/<ref>") as the
// media endpoint that redirects to the image.
func (c *GooglePlacesClient) photoURL(name string) string {
	v := url.Values{}
	v.Set("maxWidthPx", strconv.Itoa(photoMaxWidthPx))
	v.Set("key", c.APIKey)
	return "https://places.googleapis.com/v1/" + name + "/media?" + v.Encode()
}

func toDiscoveredPlace(p *places.GoogleMapsPlacesV1Place, region string, photoURL func(name string) string) discovery.DiscoveredPlace {
	placeType := p.PrimaryType
	if placeType == "" && len(p.Types) > 0 {
		placeType = p.Types[0]
	}

	location := region
	if location == "" {
		location = p.ShortFormattedAddress
	}

	place := discovery.DiscoveredPlace{
		ID:          discovery.PlaceRef{Provider: discovery.ProviderExternal, NativeID: p.Id},
		Location:    location,
		Address:     p.FormattedAddress,
		Category:    discovery.Classify(placeType),
		PlaceType:   placeType,
		Photos:      []string{},
		Rating:      p.Rating,
		ReviewCount: int(p.UserRatingCount),
		Source:      discovery.ProviderExternal,
		SourceID:    p.Id,
		Tags:        p.Types,
	}
	if p.DisplayName != nil {
		place.Name = p.DisplayName.Text
	}
	if p.EditorialSummary != nil {
		place.Description = p.EditorialSummary.Text
	}
	if p.Location != nil {
		place.Coordinates = &discovery.Coordinate{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	for _, ph := range p.Photos {
		if ph != nil && ph.Name != "" {
			place.Photos = append(place.Photos, photoURL(ph.Name))
		}
	}
	return place
}

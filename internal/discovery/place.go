package discovery

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DiscoveredPlace is the provider-agnostic view of a point of interest. It is
// built fresh for every query and never written back.
type DiscoveredPlace struct {
	ID            PlaceRef            `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Location      string              `json:"location"`
	Address       string              `json:"address,omitempty"`
	Coordinates   *Coordinate         `json:"coordinates,omitempty"`
	Category      Category            `json:"category"`
	PlaceType     string              `json:"place_type"`
	Photos        []string            `json:"photos"`
	Rating        float64             `json:"rating"`
	ReviewCount   int                 `json:"review_count"`
	EstimatedCost decimal.NullDecimal `json:"estimated_cost"`
	Source        ProviderTag         `json:"source"`
	SourceID      string              `json:"source_id"`
	Tags          []string            `json:"tags,omitempty"`
	IsFeatured    bool                `json:"is_featured"`
}

func (p DiscoveredPlace) FirstPhoto() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

// Filter narrows an aggregation. Zero values mean "no filter".
type Filter struct {
	Region   string
	Category Category
}

// Matches applies the region substring test (case-insensitive) and the
// classified-category test.
func (f Filter) Matches(p DiscoveredPlace) bool {
	if f.Region != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Region)) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

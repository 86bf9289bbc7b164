package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"itinera/internal/discovery"
)

// PartnerListing is a sponsored supplier listing.
type PartnerListing struct {
	BaseModel
	Title         string              `gorm:"not null"`
	Description   string
	Location      string              `gorm:"index"`
	ListingType   string
	Latitude      *float64
	Longitude     *float64
	Photos        pq.StringArray      `gorm:"type:text[]"`
	AverageRating float64             `gorm:"not null;default:0"`
	TotalReviews  int                 `gorm:"not null;default:0"`
	Price         decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	IsActive      bool                `gorm:"not null;default:true"`
}

// CatalogPlace is a first-party curated place.
type CatalogPlace struct {
	BaseModel
	Name          string              `gorm:"not null"`
	Description   string
	Location      string              `gorm:"index"`
	Address       string
	PlaceType     string
	Latitude      *float64
	Longitude     *float64
	Photos        pq.StringArray      `gorm:"type:text[]"`
	AverageRating float64             `gorm:"not null;default:0"`
	TotalReviews  int                 `gorm:"not null;default:0"`
	EstimatedCost decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Tags          pq.StringArray      `gorm:"type:text[]"`
	IsFeatured    bool                `gorm:"not null;default:false"`
	IsActive      bool                `gorm:"not null;default:true"`
}

type CreatorVideo struct {
	BaseModel
	CreatorID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title           string         `gorm:"not null"`
	Description     string
	VideoURL        string         `gorm:"not null"`
	VideoType       string
	ThumbnailURL    string
	DurationSeconds int
	Location        string
	Destinations    pq.StringArray `gorm:"type:text[]"`
	Views           int64          `gorm:"not null;default:0"`
	Likes           int64          `gorm:"not null;default:0"`
	IsFeatured      bool           `gorm:"not null;default:false"`
	IsActive        bool           `gorm:"not null;default:true"`
}

func coordinate(lat, lng *float64) *discovery.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &discovery.Coordinate{Lat: *lat, Lng: *lng}
}

func photos(p pq.StringArray) []string {
	if p == nil {
		return []string{}
	}
	return []string(p)
}

// Partner listings are always featured.
func (l *PartnerListing) ToDiscoveredPlace() discovery.DiscoveredPlace {
	native := l.ID.String()
	return discovery.DiscoveredPlace{
		ID:            discovery.PlaceRef{Provider: discovery.ProviderPartner, NativeID: native},
		Name:          l.Title,
		Description:   l.Description,
		Location:      l.Location,
		Address:       l.Location,
		Coordinates:   coordinate(l.Latitude, l.Longitude),
		Category:      discovery.Classify(l.ListingType),
		PlaceType:     l.ListingType,
		Photos:        photos(l.Photos),
		Rating:        l.AverageRating,
		ReviewCount:   l.TotalReviews,
		EstimatedCost: l.Price,
		Source:        discovery.ProviderPartner,
		SourceID:      native,
		IsFeatured:    true,
	}
}

func (p *CatalogPlace) ToDiscoveredPlace() discovery.DiscoveredPlace {
	native := p.ID.String()
	return discovery.DiscoveredPlace{
		ID:            discovery.PlaceRef{Provider: discovery.ProviderCatalog, NativeID: native},
		Name:          p.Name,
		Description:   p.Description,
		Location:      p.Location,
		Address:       p.Address,
		Coordinates:   coordinate(p.Latitude, p.Longitude),
		Category:      discovery.Classify(p.PlaceType),
		PlaceType:     p.PlaceType,
		Photos:        photos(p.Photos),
		Rating:        p.AverageRating,
		ReviewCount:   p.TotalReviews,
		EstimatedCost: p.EstimatedCost,
		Source:        discovery.ProviderCatalog,
		SourceID:      native,
		Tags:          []string(p.Tags),
		IsFeatured:    p.IsFeatured,
	}
}

func (v *CreatorVideo) ToVideo() discovery.Video {
	return discovery.Video{
		ID:              v.ID,
		CreatorID:       v.CreatorID,
		Title:           v.Title,
		Description:     v.Description,
		VideoURL:        v.VideoURL,
		VideoType:       v.VideoType,
		ThumbnailURL:    v.ThumbnailURL,
		DurationSeconds: v.DurationSeconds,
		Location:        v.Location,
		Destinations:    []string(v.Destinations),
		Views:           v.Views,
		Likes:           v.Likes,
		IsFeatured:      v.IsFeatured,
	}
}

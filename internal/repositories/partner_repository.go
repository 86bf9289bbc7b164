package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"itinera/internal/discovery"
	"itinera/internal/models/db_models"
)

type PartnerListingRepository interface {
	// Search returns active listings, best rated first.
	Search(ctx context.Context, filter discovery.Filter, limit int) ([]db_models.PartnerListing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.PartnerListing, error)
}

type partnerListingRepository struct {
	db *gorm.DB
}

func NewPartnerListingRepository(db *gorm.DB) PartnerListingRepository {
	return &partnerListingRepository{db: db}
}

func (r *partnerListingRepository) Search(ctx context.Context, filter discovery.Filter, limit int) ([]db_models.PartnerListing, error) {
	var listings []db_models.PartnerListing
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	q = scopeFilter(q, "location", "listing_type", filter)

	err := q.Order("average_rating DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *partnerListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.PartnerListing, error) {
	var listing db_models.PartnerListing
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

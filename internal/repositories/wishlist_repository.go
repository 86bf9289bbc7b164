package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"itinera/internal/discovery"
	dbm "itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

type WishlistRepository interface {
	// Insert returns utils.ErrConstraintViolation when the owner already
	// saved the same place.
	Insert(ctx context.Context, item *dbm.WishlistItem) error
	// UpdateSnapshot rewrites the snapshot and referral columns of the row
	// the owner saved under item's reference.
	UpdateSnapshot(ctx context.Context, item *dbm.WishlistItem) error
	FindByRef(ctx context.Context, ownerID uuid.UUID, ref discovery.SavedRef) (*dbm.WishlistItem, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) (*dbm.WishlistItem, error)
	Delete(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) error
	SetVisited(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, visitedAt *time.Time) (bool, error)
	UpdateNote(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, note string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dbm.WishlistItem, error)
	ListUnvisited(ctx context.Context, ownerID uuid.UUID) ([]dbm.WishlistItem, error)
	ListUnvisitedByLocation(ctx context.Context, ownerID uuid.UUID, location string) ([]dbm.WishlistItem, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Insert(ctx context.Context, item *dbm.WishlistItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("wishlist item: %w", utils.ErrConstraintViolation)
	}
	return err
}

func (r *wishlistRepository) UpdateSnapshot(ctx context.Context, item *dbm.WishlistItem) error {
	q, err := whereRef(r.db.WithContext(ctx).Model(&dbm.WishlistItem{}), item.OwnerID, item.Ref())
	if err != nil {
		return err
	}
	return q.Updates(map[string]any{
		"place_name":               item.PlaceName,
		"place_location":           item.PlaceLocation,
		"place_category":           item.PlaceCategory,
		"place_image_url":          item.PlaceImageURL,
		"place_estimated_cost":     item.PlaceEstimatedCost,
		"referred_by_creator_id":   item.ReferredByCreatorID,
		"referred_from_content_id": item.ReferredFromContentID,
	}).Error
}

func (r *wishlistRepository) FindByRef(ctx context.Context, ownerID uuid.UUID, ref discovery.SavedRef) (*dbm.WishlistItem, error) {
	q, err := whereRef(r.db.WithContext(ctx), ownerID, ref)
	if err != nil {
		return nil, err
	}

	var item dbm.WishlistItem
	if err := q.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) GetByID(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) (*dbm.WishlistItem, error) {
	var item dbm.WishlistItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", itemID, ownerID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) Delete(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", itemID, ownerID).
		Delete(&dbm.WishlistItem{}).Error
}

func (r *wishlistRepository) SetVisited(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, visitedAt *time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.WishlistItem{}).
		Where("id = ? AND owner_id = ?", itemID, ownerID).
		Updates(map[string]any{
			"is_visited": visitedAt != nil,
			"visited_at": visitedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *wishlistRepository) UpdateNote(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, note string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.WishlistItem{}).
		Where("id = ? AND owner_id = ?", itemID, ownerID).
		Update("notes", note)
	return res.RowsAffected > 0, res.Error
}

func (r *wishlistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dbm.WishlistItem, error) {
	var items []dbm.WishlistItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListUnvisited is ordered oldest first so trips seeded from it keep the
// order in which places were saved.
func (r *wishlistRepository) ListUnvisited(ctx context.Context, ownerID uuid.UUID) ([]dbm.WishlistItem, error) {
	var items []dbm.WishlistItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_visited = ?", ownerID, false).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) ListUnvisitedByLocation(ctx context.Context, ownerID uuid.UUID, location string) ([]dbm.WishlistItem, error) {
	var items []dbm.WishlistItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_visited = ?", ownerID, false).
		Where("place_location ILIKE ?", "%"+escapeLike(location)+"%").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func whereRef(q *gorm.DB, ownerID uuid.UUID, ref discovery.SavedRef) (*gorm.DB, error) {
	q = q.Where("owner_id = ?", ownerID)
	if id, ok := ref.Internal(); ok {
		return q.Where("internal_place_id = ?", id), nil
	}
	if ext, ok := ref.External(); ok {
		return q.Where("external_place_id = ?", ext), nil
	}
	return nil, utils.ErrInvalidPlaceID
}

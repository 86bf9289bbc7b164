package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"itinera/internal/discovery"
	"itinera/internal/models/db_models"
	"itinera/internal/repositories"
	"itinera/pkg/logger"
	"itinera/pkg/utils"
)

// OtherLocation groups saved places that carry no location.
const OtherLocation = "Other"

type WishlistServiceInterface interface {
	// Add saves place for the owner, or refreshes the snapshot and referral
	// when it is already saved. There is never more than one row per place.
	Add(ctx context.Context, ownerID uuid.UUID, place discovery.DiscoveredPlace, referral *discovery.Referral) (*db_models.WishlistItem, error)
	Remove(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) error
	SetVisited(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, visited bool) (*db_models.WishlistItem, error)
	UpdateNote(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, note string) (*db_models.WishlistItem, error)
	IsSaved(ctx context.Context, ownerID uuid.UUID, placeID string) (bool, error)
	Find(ctx context.Context, ownerID uuid.UUID, placeID string) (*db_models.WishlistItem, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]db_models.WishlistItem, error)
	ListByLocation(ctx context.Context, ownerID uuid.UUID, location string) ([]db_models.WishlistItem, error)
	Grouped(ctx context.Context, ownerID uuid.UUID) (map[string][]db_models.WishlistItem, error)
}

type WishlistService struct {
	wishlistRepository repositories.WishlistRepository
	now                func() time.Time
}

func NewWishlistService(wishlistRepository repositories.WishlistRepository) WishlistServiceInterface {
	return &WishlistService{
		wishlistRepository: wishlistRepository,
		now:                time.Now,
	}
}

func (s *WishlistService) Add(ctx context.Context, ownerID uuid.UUID, place discovery.DiscoveredPlace, referral *discovery.Referral) (*db_models.WishlistItem, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}

	ref, err := discovery.SavedRefFor(place.ID)
	if err != nil {
		return nil, err
	}

	item := &db_models.WishlistItem{
		OwnerID:            ownerID,
		PlaceName:          place.Name,
		PlaceLocation:      place.Location,
		PlaceCategory:      string(place.Category),
		PlaceImageURL:      place.FirstPhoto(),
		PlaceEstimatedCost: place.EstimatedCost,
	}
	item.SetRef(ref)
	item.SetReferral(referral)

	err = s.wishlistRepository.Insert(ctx, item)
	switch {
	case errors.Is(err, utils.ErrConstraintViolation):
		if err := s.wishlistRepository.UpdateSnapshot(ctx, item); err != nil {
			logger.LogError(logger.GetLogger(), "services", "WishlistService.Add", "UpdateSnapshot", ref.PlaceID(), err)
			return nil, utils.DatabaseError(err)
		}
	case err != nil:
		logger.LogError(logger.GetLogger(), "services", "WishlistService.Add", "Insert", ref.PlaceID(), err)
		return nil, utils.DatabaseError(err)
	}

	stored, err := s.wishlistRepository.FindByRef(ctx, ownerID, ref)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if stored == nil {
		return nil, utils.ErrWishlistItemNotFound
	}
	return stored, nil
}

func (s *WishlistService) Remove(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return utils.ErrUnauthenticated
	}
	if err := s.wishlistRepository.Delete(ctx, ownerID, itemID); err != nil {
		return utils.DatabaseError(err)
	}
	return nil
}

func (s *WishlistService) SetVisited(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, visited bool) (*db_models.WishlistItem, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}

	var visitedAt *time.Time
	if visited {
		now := s.now()
		visitedAt = &now
	}

	found, err := s.wishlistRepository.SetVisited(ctx, ownerID, itemID, visitedAt)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if !found {
		return nil, utils.ErrWishlistItemNotFound
	}
	return s.get(ctx, ownerID, itemID)
}

func (s *WishlistService) UpdateNote(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID, note string) (*db_models.WishlistItem, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}

	found, err := s.wishlistRepository.UpdateNote(ctx, ownerID, itemID, note)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if !found {
		return nil, utils.ErrWishlistItemNotFound
	}
	return s.get(ctx, ownerID, itemID)
}

func (s *WishlistService) IsSaved(ctx context.Context, ownerID uuid.UUID, placeID string) (bool, error) {
	item, err := s.Find(ctx, ownerID, placeID)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

// Find looks the place up by the reference column matching its tag.
func (s *WishlistService) Find(ctx context.Context, ownerID uuid.UUID, placeID string) (*db_models.WishlistItem, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}

	ref, err := discovery.ParsePlaceID(placeID)
	if err != nil {
		return nil, err
	}
	saved, err := discovery.SavedRefFor(ref)
	if err != nil {
		return nil, err
	}

	item, err := s.wishlistRepository.FindByRef(ctx, ownerID, saved)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	return item, nil
}

func (s *WishlistService) List(ctx context.Context, ownerID uuid.UUID) ([]db_models.WishlistItem, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}
	items, err := s.wishlistRepository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if items == nil {
		return []db_models.WishlistItem{}, nil
	}
	return items, nil
}

// ListByLocation returns unvisited places whose location contains location.
func (s *WishlistService) ListByLocation(ctx context.Context, ownerID uuid.UUID, location string) ([]db_models.WishlistItem, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}
	items, err := s.wishlistRepository.ListUnvisitedByLocation(ctx, ownerID, location)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if items == nil {
		return []db_models.WishlistItem{}, nil
	}
	return items, nil
}

func (s *WishlistService) Grouped(ctx context.Context, ownerID uuid.UUID) (map[string][]db_models.WishlistItem, error) {
	items, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return GroupByLocation(items), nil
}

// GroupByLocation buckets items by location, keeping their order within each
// bucket.
func GroupByLocation(items []db_models.WishlistItem) map[string][]db_models.WishlistItem {
	groups := make(map[string][]db_models.WishlistItem)
	for _, item := range items {
		key := item.PlaceLocation
		if key == "" {
			key = OtherLocation
		}
		groups[key] = append(groups[key], item)
	}
	return groups
}

func (s *WishlistService) get(ctx context.Context, ownerID uuid.UUID, itemID uuid.UUID) (*db_models.WishlistItem, error) {
	item, err := s.wishlistRepository.GetByID(ctx, ownerID, itemID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if item == nil {
		return nil, utils.ErrWishlistItemNotFound
	}
	return item, nil
}

package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"itinera/internal/discovery"
)

// WishlistItem keeps the two place reference columns of the table, but they
// are only read and written through Ref and SetRef.
type WishlistItem struct {
	BaseModel
	OwnerID               uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_wishlist_owner_internal;uniqueIndex:idx_wishlist_owner_external" json:"owner_id"`
	InternalPlaceID       *uuid.UUID          `gorm:"type:uuid;uniqueIndex:idx_wishlist_owner_internal" json:"-"`
	ExternalPlaceID       *string             `gorm:"uniqueIndex:idx_wishlist_owner_external" json:"-"`
	PlaceName             string              `gorm:"not null" json:"place_name"`
	PlaceLocation         string              `json:"place_location"`
	PlaceCategory         string              `json:"place_category"`
	PlaceImageURL         string              `json:"place_image_url,omitempty"`
	PlaceEstimatedCost    decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"place_estimated_cost"`
	Notes                 string              `json:"notes,omitempty"`
	IsVisited             bool                `gorm:"not null;default:false" json:"is_visited"`
	VisitedAt             *time.Time          `json:"visited_at,omitempty"`
	ReferredByCreatorID   *uuid.UUID          `gorm:"type:uuid" json:"referred_by_creator_id,omitempty"`
	ReferredFromContentID *uuid.UUID          `gorm:"type:uuid" json:"referred_from_content_id,omitempty"`
}

func (w *WishlistItem) Ref() discovery.SavedRef {
	if w.InternalPlaceID != nil {
		return discovery.InternalRef(*w.InternalPlaceID)
	}
	if w.ExternalPlaceID != nil {
		ref, err := discovery.ParsePlaceID(*w.ExternalPlaceID)
		if err == nil {
			return discovery.ExternalRef(ref)
		}
	}
	return discovery.SavedRef{}
}

func (w *WishlistItem) SetRef(ref discovery.SavedRef) {
	w.InternalPlaceID, w.ExternalPlaceID = nil, nil
	if id, ok := ref.Internal(); ok {
		w.InternalPlaceID = &id
	}
	if ext, ok := ref.External(); ok {
		w.ExternalPlaceID = &ext
	}
}

// PlaceID is the composite id of the saved place.
func (w *WishlistItem) PlaceID() string {
	return w.Ref().PlaceID()
}

func (w *WishlistItem) SetReferral(r *discovery.Referral) {
	if r == nil {
		w.ReferredByCreatorID, w.ReferredFromContentID = nil, nil
		return
	}
	creator, content := r.CreatorID, r.ContentID
	w.ReferredByCreatorID, w.ReferredFromContentID = &creator, &content
}

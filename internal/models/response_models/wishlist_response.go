package response_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"itinera/internal/models/db_models"
)

type WishlistItemResponse struct {
	ID                    uuid.UUID           `json:"id"`
	PlaceID               string              `json:"place_id"`
	PlaceName             string              `json:"place_name"`
	PlaceLocation         string              `json:"place_location"`
	PlaceCategory         string              `json:"place_category"`
	PlaceImageURL         string              `json:"place_image_url,omitempty"`
	PlaceEstimatedCost    decimal.NullDecimal `json:"place_estimated_cost"`
	Notes                 string              `json:"notes,omitempty"`
	IsVisited             bool                `json:"is_visited"`
	VisitedAt             *time.Time          `json:"visited_at,omitempty"`
	ReferredByCreatorID   *uuid.UUID          `json:"referred_by_creator_id,omitempty"`
	ReferredFromContentID *uuid.UUID          `json:"referred_from_content_id,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
}

func NewWishlistItemResponse(item *db_models.WishlistItem) WishlistItemResponse {
	return WishlistItemResponse{
		ID:                    item.ID,
		PlaceID:               item.PlaceID(),
		PlaceName:             item.PlaceName,
		PlaceLocation:         item.PlaceLocation,
		PlaceCategory:         item.PlaceCategory,
		PlaceImageURL:         item.PlaceImageURL,
		PlaceEstimatedCost:    item.PlaceEstimatedCost,
		Notes:                 item.Notes,
		IsVisited:             item.IsVisited,
		VisitedAt:             item.VisitedAt,
		ReferredByCreatorID:   item.ReferredByCreatorID,
		ReferredFromContentID: item.ReferredFromContentID,
		CreatedAt:             item.CreatedAt,
	}
}

func NewWishlistItemResponses(items []db_models.WishlistItem) []WishlistItemResponse {
	out := make([]WishlistItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewWishlistItemResponse(&items[i]))
	}
	return out
}

type SavedStatusResponse struct {
	PlaceID string                `json:"place_id"`
	Saved   bool                  `json:"saved"`
	Item    *WishlistItemResponse `json:"item,omitempty"`
}

package request_models

import "github.com/shopspring/decimal"

// AddWishlistItemRequest saves a discovered place. When Name is sent the
// client's snapshot is stored as is, otherwise the place is looked up.
type AddWishlistItemRequest struct {
	PlaceID       string           `json:"place_id" binding:"required"`
	Name          string           `json:"name"`
	Location      string           `json:"location"`
	Category      string           `json:"category"`
	ImageURL      string           `json:"image_url"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
}

type SetVisitedRequest struct {
	Visited *bool `json:"visited" binding:"required"`
}

type UpdateNoteRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

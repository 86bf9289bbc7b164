package request_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"itinera/pkg/utils"
)

// TripInput is a validated trip header.
type TripInput struct {
	Title         string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	TotalBudget   decimal.NullDecimal
	CoverImageURL string
	IsPublic      bool
}

type CreateTripRequest struct {
	Title         string           `json:"title" binding:"required,max=200"`
	Description   string           `json:"description"`
	StartDate     string           `json:"start_date" binding:"required"`
	EndDate       string           `json:"end_date" binding:"required"`
	TotalBudget   *decimal.Decimal `json:"total_budget"`
	CoverImageURL string           `json:"cover_image_url"`
	IsPublic      bool             `json:"is_public"`
}

func (r CreateTripRequest) ToInput() (TripInput, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return TripInput{}, err
	}
	end, err := utils.ParseDate(r.EndDate)
	if err != nil {
		return TripInput{}, err
	}

	in := TripInput{
		Title:         r.Title,
		Description:   r.Description,
		StartDate:     start,
		EndDate:       end,
		CoverImageURL: r.CoverImageURL,
		IsPublic:      r.IsPublic,
	}
	if r.TotalBudget != nil {
		in.TotalBudget = decimal.NewNullDecimal(*r.TotalBudget)
	}
	return in, nil
}

// TripPatch carries only the fields being changed.
type TripPatch struct {
	Title         *string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	TotalBudget   *decimal.Decimal
	CoverImageURL *string
	IsPublic      *bool
}

type UpdateTripRequest struct {
	Title         *string          `json:"title" binding:"omitempty,max=200"`
	Description   *string          `json:"description"`
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	TotalBudget   *decimal.Decimal `json:"total_budget"`
	CoverImageURL *string          `json:"cover_image_url"`
	IsPublic      *bool            `json:"is_public"`
}

func (r UpdateTripRequest) ToPatch() (TripPatch, error) {
	patch := TripPatch{
		Title:         r.Title,
		Description:   r.Description,
		TotalBudget:   r.TotalBudget,
		CoverImageURL: r.CoverImageURL,
		IsPublic:      r.IsPublic,
	}
	if r.StartDate != nil {
		start, err := utils.ParseDate(*r.StartDate)
		if err != nil {
			return TripPatch{}, err
		}
		patch.StartDate = &start
	}
	if r.EndDate != nil {
		end, err := utils.ParseDate(*r.EndDate)
		if err != nil {
			return TripPatch{}, err
		}
		patch.EndDate = &end
	}
	return patch, nil
}

type DayInput struct {
	Title           *string          `json:"title" binding:"omitempty,max=200"`
	Notes           *string          `json:"notes"`
	EstimatedBudget *decimal.Decimal `json:"estimated_budget"`
}

type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// ActivityInput doubles as create body and patch body; nil fields are left
// alone on update. Title is required on create.
type ActivityInput struct {
	Title         *string          `json:"title" binding:"omitempty,max=200"`
	Description   *string          `json:"description"`
	StartTime     *string          `json:"start_time"`
	EndTime       *string          `json:"end_time"`
	Location      *string          `json:"location"`
	Latitude      *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude     *float64         `json:"longitude" binding:"omitempty,longitude"`
	PlaceType     *string          `json:"place_type"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
	BookingID     *uuid.UUID       `json:"booking_id"`
	Notes         *string          `json:"notes"`
	Position      *int             `json:"position" binding:"omitempty,min=0"`
}

type MoveActivityRequest struct {
	TargetDayID uuid.UUID `json:"target_day_id" binding:"required"`
}

package db_models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Trip struct {
	BaseModel
	OwnerID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title         string              `gorm:"not null" json:"title"`
	Description   string              `json:"description"`
	StartDate     time.Time           `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time           `gorm:"type:date;not null" json:"end_date"`
	Destinations  pq.StringArray      `gorm:"type:text[]" json:"destinations"`
	TotalBudget   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"total_budget"`
	ActualSpent   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"actual_spent"`
	CoverImageURL string              `json:"cover_image_url,omitempty"`
	IsPublic      bool                `gorm:"not null;default:false" json:"is_public"`
	ViewsCount    int64               `gorm:"not null;default:0" json:"views_count"`
	CopiesCount   int64               `gorm:"not null;default:0" json:"copies_count"`

	Days []Day `gorm:"constraint:OnDelete:CASCADE" json:"days,omitempty"`
}

// DayCount is the inclusive number of calendar days between start and end.
func (t *Trip) DayCount() int {
	return DaysBetween(t.StartDate, t.EndDate) + 1
}

type Day struct {
	BaseModel
	TripID          uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_days_trip_day_number" json:"trip_id"`
	DayNumber       int                 `gorm:"not null;uniqueIndex:idx_days_trip_day_number" json:"day_number"`
	Date            time.Time           `gorm:"type:date;not null" json:"date"`
	Title           string              `json:"title,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	EstimatedBudget decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"estimated_budget"`
	ActualSpent     decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"actual_spent"`

	Activities []Activity `gorm:"constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}

// NewDay builds day n of a trip starting on start.
func NewDay(tripID uuid.UUID, n int, start time.Time) Day {
	return Day{
		TripID:    tripID,
		DayNumber: n,
		Date:      DateOnly(start).AddDate(0, 0, n-1),
		Title:     fmt.Sprintf("Day %d", n),
	}
}

type Activity struct {
	BaseModel
	DayID         uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_activities_day_order" json:"day_id"`
	Title         string              `gorm:"not null" json:"title"`
	Description   string              `json:"description,omitempty"`
	StartTime     *string             `gorm:"type:varchar(5)" json:"start_time,omitempty"`
	EndTime       *string             `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	Location      string              `json:"location"`
	Latitude      *float64            `json:"latitude,omitempty"`
	Longitude     *float64            `json:"longitude,omitempty"`
	PlaceType     string              `json:"place_type,omitempty"`
	EstimatedCost decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"estimated_cost"`
	ActualCost    decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"actual_cost"`
	BookingID     *uuid.UUID          `gorm:"type:uuid" json:"booking_id,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	OrderIndex    int                 `gorm:"not null;uniqueIndex:idx_activities_day_order" json:"order_index"`
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b; negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

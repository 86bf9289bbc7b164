package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/pkg/utils"
)

func (s *TripService) AddDay(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID, in request_models.DayInput) (*db_models.Day, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	day := &db_models.Day{ActualSpent: decimal.Zero}
	if err := applyDayInput(day, in); err != nil {
		return nil, err
	}
	if err := s.dayRepository.Append(ctx, trip, day, MaxTripDays); err != nil {
		return nil, storeError(err)
	}
	return day, nil
}

func (s *TripService) UpdateDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, in request_models.DayInput) (*db_models.Day, error) {
	day, _, err := s.ownedDay(ctx, ownerID, dayID)
	if err != nil {
		return nil, err
	}
	if err := applyDayInput(day, in); err != nil {
		return nil, err
	}
	if err := s.dayRepository.Update(ctx, day); err != nil {
		return nil, utils.DatabaseError(err)
	}
	return day, nil
}

// DeleteDay keeps at least one day on the trip.
func (s *TripService) DeleteDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID) error {
	day, trip, err := s.ownedDay(ctx, ownerID, dayID)
	if err != nil {
		return err
	}

	days, err := s.dayRepository.ListByTrip(ctx, trip.ID)
	if err != nil {
		return utils.DatabaseError(err)
	}
	if len(days) <= 1 {
		return fmt.Errorf("%w: a trip needs at least one day", utils.ErrInvalidInput)
	}

	if err := s.dayRepository.DeleteAndRenumber(ctx, day); err != nil {
		return utils.DatabaseError(err)
	}
	_, err = s.budgetService.Sync(ctx, trip.ID)
	return err
}

func (s *TripService) ReorderDays(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID, dayIDs []uuid.UUID) ([]db_models.Day, error) {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	if err := s.dayRepository.Reorder(ctx, tripID, dayIDs); err != nil {
		return nil, storeError(err)
	}
	days, err := s.dayRepository.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	return days, nil
}

func (s *TripService) AddActivity(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, in request_models.ActivityInput) (*db_models.Activity, error) {
	day, trip, err := s.ownedDay(ctx, ownerID, dayID)
	if err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
	}

	activity := &db_models.Activity{DayID: day.ID}
	if err := applyActivityInput(activity, in); err != nil {
		return nil, err
	}
	if err := s.activityRepository.Insert(ctx, activity, in.Position); err != nil {
		return nil, utils.DatabaseError(err)
	}

	if activity.ActualCost.Valid {
		if _, err := s.budgetService.Sync(ctx, trip.ID); err != nil {
			return nil, err
		}
	}
	return activity, nil
}

// UpdateActivity applies a partial update; a cost change resyncs the budget.
func (s *TripService) UpdateActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID, in request_models.ActivityInput) (*db_models.Activity, error) {
	activity, trip, err := s.ownedActivity(ctx, ownerID, activityID)
	if err != nil {
		return nil, err
	}

	before := activity.ActualCost
	if err := applyActivityInput(activity, in); err != nil {
		return nil, err
	}
	if err := s.activityRepository.Update(ctx, activity); err != nil {
		return nil, utils.DatabaseError(err)
	}

	if !nullDecimalEqual(before, activity.ActualCost) {
		if _, err := s.budgetService.Sync(ctx, trip.ID); err != nil {
			return nil, err
		}
	}
	return activity, nil
}

func (s *TripService) DeleteActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID) error {
	activity, trip, err := s.ownedActivity(ctx, ownerID, activityID)
	if err != nil {
		return err
	}
	if err := s.activityRepository.Delete(ctx, activity); err != nil {
		return utils.DatabaseError(err)
	}
	if activity.ActualCost.Valid {
		_, err = s.budgetService.Sync(ctx, trip.ID)
	}
	return err
}

func (s *TripService) ReorderActivities(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, activityIDs []uuid.UUID) ([]db_models.Activity, error) {
	if _, _, err := s.ownedDay(ctx, ownerID, dayID); err != nil {
		return nil, err
	}
	if err := s.activityRepository.Reorder(ctx, dayID, activityIDs); err != nil {
		return nil, storeError(err)
	}
	activities, err := s.activityRepository.ListByDay(ctx, dayID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	return activities, nil
}

// MoveActivity appends the activity to another day of the same trip.
func (s *TripService) MoveActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID, targetDayID uuid.UUID) (*db_models.Activity, error) {
	activity, trip, err := s.ownedActivity(ctx, ownerID, activityID)
	if err != nil {
		return nil, err
	}
	target, err := s.dayRepository.GetByID(ctx, targetDayID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if target == nil {
		return nil, utils.ErrDayNotFound
	}
	if target.TripID != trip.ID {
		return nil, fmt.Errorf("%w: target day belongs to another trip", utils.ErrInvalidInput)
	}

	if err := s.activityRepository.Move(ctx, activity, targetDayID); err != nil {
		return nil, utils.DatabaseError(err)
	}
	if activity.ActualCost.Valid {
		if _, err := s.budgetService.Sync(ctx, trip.ID); err != nil {
			return nil, err
		}
	}
	return activity, nil
}

// AddWishlistItemToDay plans a saved place as the last activity of a day.
func (s *TripService) AddWishlistItemToDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, itemID uuid.UUID) (*db_models.Activity, error) {
	day, _, err := s.ownedDay(ctx, ownerID, dayID)
	if err != nil {
		return nil, err
	}
	item, err := s.wishlistRepository.GetByID(ctx, ownerID, itemID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if item == nil {
		return nil, utils.ErrWishlistItemNotFound
	}

	activity := &db_models.Activity{
		DayID:         day.ID,
		Title:         item.PlaceName,
		Location:      item.PlaceLocation,
		PlaceType:     item.PlaceCategory,
		EstimatedCost: item.PlaceEstimatedCost,
		Notes:         item.Notes,
	}
	if err := s.activityRepository.Insert(ctx, activity, nil); err != nil {
		return nil, utils.DatabaseError(err)
	}
	return activity, nil
}

func (s *TripService) ownedDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID) (*db_models.Day, *db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, nil, utils.ErrUnauthenticated
	}
	day, err := s.dayRepository.GetByID(ctx, dayID)
	if err != nil {
		return nil, nil, utils.DatabaseError(err)
	}
	if day == nil {
		return nil, nil, utils.ErrDayNotFound
	}
	trip, err := s.ownedTrip(ctx, ownerID, day.TripID)
	if err != nil {
		return nil, nil, err
	}
	return day, trip, nil
}

func (s *TripService) ownedActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID) (*db_models.Activity, *db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, nil, utils.ErrUnauthenticated
	}
	activity, err := s.activityRepository.GetByID(ctx, activityID)
	if err != nil {
		return nil, nil, utils.DatabaseError(err)
	}
	if activity == nil {
		return nil, nil, utils.ErrActivityNotFound
	}
	_, trip, err := s.ownedDay(ctx, ownerID, activity.DayID)
	if err != nil {
		return nil, nil, err
	}
	return activity, trip, nil
}

func applyDayInput(day *db_models.Day, in request_models.DayInput) error {
	if in.Title != nil {
		day.Title = strings.TrimSpace(*in.Title)
	}
	if in.Notes != nil {
		day.Notes = *in.Notes
	}
	if in.EstimatedBudget != nil {
		if in.EstimatedBudget.IsNegative() {
			return fmt.Errorf("%w: estimated budget must not be negative", utils.ErrInvalidInput)
		}
		day.EstimatedBudget = decimal.NewNullDecimal(*in.EstimatedBudget)
	}
	return nil
}

func applyActivityInput(a *db_models.Activity, in request_models.ActivityInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
		}
		a.Title = title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.StartTime != nil {
		clock, err := utils.ParseClock(*in.StartTime)
		if err != nil {
			return err
		}
		a.StartTime = &clock
	}
	if in.EndTime != nil {
		clock, err := utils.ParseClock(*in.EndTime)
		if err != nil {
			return err
		}
		a.EndTime = &clock
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	if in.Latitude != nil {
		a.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		a.Longitude = in.Longitude
	}
	if in.PlaceType != nil {
		a.PlaceType = *in.PlaceType
	}
	if in.EstimatedCost != nil {
		if in.EstimatedCost.IsNegative() {
			return fmt.Errorf("%w: estimated cost must not be negative", utils.ErrInvalidInput)
		}
		a.EstimatedCost = decimal.NewNullDecimal(*in.EstimatedCost)
	}
	if in.ActualCost != nil {
		if in.ActualCost.IsNegative() {
			return fmt.Errorf("%w: actual cost must not be negative", utils.ErrInvalidInput)
		}
		a.ActualCost = decimal.NewNullDecimal(*in.ActualCost)
	}
	if in.BookingID != nil {
		a.BookingID = in.BookingID
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	return nil
}

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// storeError keeps validation failures raised inside a repository
// transaction visible to the caller.
func storeError(err error) error {
	if errors.Is(err, utils.ErrInvalidInput) || errors.Is(err, utils.ErrTripTooLong) {
		return err
	}
	return utils.DatabaseError(err)
}

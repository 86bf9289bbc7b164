package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

type DayRepository interface {
	GetByID(ctx context.Context, dayID uuid.UUID) (*dbm.Day, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Day, error)
	// Append adds day N+1 dated the day after the trip's current end and
	// moves the end date with it. It fails with utils.ErrTripTooLong when the
	// trip already has maxDays days; the count is taken under the trip lock.
	Append(ctx context.Context, trip *dbm.Trip, day *dbm.Day, maxDays int) error
	Update(ctx context.Context, day *dbm.Day) error
	// DeleteAndRenumber removes the day with its activities, renumbers the
	// remaining days densely and shrinks the trip's end date.
	DeleteAndRenumber(ctx context.Context, day *dbm.Day) error
	// Reorder renumbers days 1..N following dayIDs, which must be a
	// permutation of the trip's days. Dates follow the new numbers.
	Reorder(ctx context.Context, tripID uuid.UUID, dayIDs []uuid.UUID) error
}

type dayRepository struct {
	db *gorm.DB
}

func NewDayRepository(db *gorm.DB) DayRepository {
	return &dayRepository{db: db}
}

func (r *dayRepository) GetByID(ctx context.Context, dayID uuid.UUID) (*dbm.Day, error) {
	var day dbm.Day
	err := r.db.WithContext(ctx).Where("id = ?", dayID).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

func (r *dayRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Day, error) {
	var days []dbm.Day
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("day_number ASC").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (r *dayRepository) Append(ctx context.Context, trip *dbm.Trip, day *dbm.Day, maxDays int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked dbm.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", trip.ID).
			First(&locked).Error; err != nil {
			return err
		}

		var maxNumber int
		if err := tx.Model(&dbm.Day{}).
			Where("trip_id = ?", trip.ID).
			Select("COALESCE(MAX(day_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		if maxNumber >= maxDays {
			return fmt.Errorf("%w: a trip has at most %d days", utils.ErrTripTooLong, maxDays)
		}

		next := dbm.NewDay(trip.ID, maxNumber+1, locked.StartDate)
		day.TripID, day.DayNumber, day.Date = next.TripID, next.DayNumber, next.Date
		if day.Title == "" {
			day.Title = next.Title
		}
		if err := tx.Create(day).Error; err != nil {
			return err
		}

		if day.Date.After(dbm.DateOnly(locked.EndDate)) {
			if err := tx.Model(&dbm.Trip{}).
				Where("id = ?", trip.ID).
				Update("end_date", day.Date).Error; err != nil {
				return err
			}
			trip.EndDate = day.Date
		}
		return nil
	})
}

func (r *dayRepository) Update(ctx context.Context, day *dbm.Day) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(day).Error
}

func (r *dayRepository) DeleteAndRenumber(ctx context.Context, day *dbm.Day) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip dbm.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", day.TripID).
			First(&trip).Error; err != nil {
			return err
		}

		if err := tx.Where("day_id = ?", day.ID).Delete(&dbm.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", day.ID).Delete(&dbm.Day{}).Error; err != nil {
			return err
		}

		var remaining []uuid.UUID
		if err := tx.Model(&dbm.Day{}).
			Where("trip_id = ?", day.TripID).
			Order("day_number ASC").
			Pluck("id", &remaining).Error; err != nil {
			return err
		}
		if err := renumberDays(tx, &trip, remaining); err != nil {
			return err
		}

		if len(remaining) == 0 {
			return nil
		}
		end := dbm.DateOnly(trip.StartDate).AddDate(0, 0, len(remaining)-1)
		return tx.Model(&dbm.Trip{}).Where("id = ?", trip.ID).Update("end_date", end).Error
	})
}

func (r *dayRepository) Reorder(ctx context.Context, tripID uuid.UUID, dayIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip dbm.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", tripID).
			First(&trip).Error; err != nil {
			return err
		}

		var current []uuid.UUID
		if err := tx.Model(&dbm.Day{}).Where("trip_id = ?", tripID).Pluck("id", &current).Error; err != nil {
			return err
		}
		if !isPermutation(current, dayIDs) {
			return errNotPermutation
		}
		return renumberDays(tx, &trip, dayIDs)
	})
}

func renumberDays(tx *gorm.DB, trip *dbm.Trip, dayIDs []uuid.UUID) error {
	if err := resequence(tx, &dbm.Day{}, "trip_id", trip.ID, "day_number", dayIDs, 1); err != nil {
		return err
	}
	start := dbm.DateOnly(trip.StartDate)
	for i, id := range dayIDs {
		if err := tx.Model(&dbm.Day{}).
			Where("id = ?", id).
			UpdateColumn("date", start.AddDate(0, 0, i)).Error; err != nil {
			return err
		}
	}
	return nil
}

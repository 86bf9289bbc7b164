package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "itinera/internal/models/db_models"
)

type TripRepository interface {
	// CreateWithDays inserts the trip and its days (with any nested
	// activities) atomically.
	CreateWithDays(ctx context.Context, trip *dbm.Trip, days []dbm.Day) error
	GetByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	GetDetail(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page int, pageSize int) ([]dbm.Trip, error)
	Update(ctx context.Context, trip *dbm.Trip) error
	// UpdateSchedule saves the trip and fits its days to the new date range:
	// surplus days go with their activities, missing days are appended and
	// every day is re-dated from the start date.
	UpdateSchedule(ctx context.Context, trip *dbm.Trip) error
	Delete(ctx context.Context, tripID uuid.UUID) error
	IncrementViews(ctx context.Context, tripID uuid.UUID) error
	IncrementCopies(ctx context.Context, tripID uuid.UUID) error
	// SaveSpend writes the recomputed actual spend of the trip and its days.
	SaveSpend(ctx context.Context, trip *dbm.Trip, days []dbm.Day) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreateWithDays(ctx context.Context, trip *dbm.Trip, days []dbm.Day) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(trip).Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		for i := range days {
			days[i].TripID = trip.ID
		}
		if err := tx.Create(&days).Error; err != nil {
			return err
		}
		trip.Days = days
		return nil
	})
}

func (r *tripRepository) GetByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetDetail(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Where("id = ?", tripID).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Days.Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&trip).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page int, pageSize int) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	offset := (page - 1) * pageSize

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("start_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *dbm.Trip) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(trip).Error
}

func (r *tripRepository) UpdateSchedule(ctx context.Context, trip *dbm.Trip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(trip).Error; err != nil {
			return err
		}

		count := trip.DayCount()
		surplus := tx.Model(&dbm.Day{}).Select("id").Where("trip_id = ? AND day_number > ?", trip.ID, count)
		if err := tx.Where("day_id IN (?)", surplus).Delete(&dbm.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ? AND day_number > ?", trip.ID, count).Delete(&dbm.Day{}).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&dbm.Day{}).Where("trip_id = ?", trip.ID).Count(&existing).Error; err != nil {
			return err
		}
		for n := int(existing) + 1; n <= count; n++ {
			day := dbm.NewDay(trip.ID, n, trip.StartDate)
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
		}

		return tx.Model(&dbm.Day{}).
			Where("trip_id = ?", trip.ID).
			UpdateColumn("date", gorm.Expr("CAST(? AS date) + (day_number - 1)", dbm.DateOnly(trip.StartDate))).Error
	})
}

// Delete removes the trip with its days and activities in one transaction.
func (r *tripRepository) Delete(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dayIDs := tx.Model(&dbm.Day{}).Select("id").Where("trip_id = ?", tripID)
		if err := tx.Where("day_id IN (?)", dayIDs).Delete(&dbm.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&dbm.Day{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", tripID).Delete(&dbm.Trip{}).Error
	})
}

func (r *tripRepository) IncrementViews(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Trip{}).
		Where("id = ?", tripID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *tripRepository) IncrementCopies(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Trip{}).
		Where("id = ?", tripID).
		UpdateColumn("copies_count", gorm.Expr("copies_count + 1")).Error
}

func (r *tripRepository) SaveSpend(ctx context.Context, trip *dbm.Trip, days []dbm.Day) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range days {
			if err := tx.Model(&dbm.Day{}).
				Where("id = ?", d.ID).
				Update("actual_spent", d.ActualSpent).Error; err != nil {
				return err
			}
		}
		return tx.Model(&dbm.Trip{}).
			Where("id = ?", trip.ID).
			Update("actual_spent", trip.ActualSpent).Error
	})
}

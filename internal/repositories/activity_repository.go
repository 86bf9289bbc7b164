package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "itinera/internal/models/db_models"
)

type ActivityRepository interface {
	GetByID(ctx context.Context, activityID uuid.UUID) (*dbm.Activity, error)
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]dbm.Activity, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Activity, error)
	// Insert appends the activity to its day, or places it at position when
	// one is given and shifts the rest down.
	Insert(ctx context.Context, activity *dbm.Activity, position *int) error
	Update(ctx context.Context, activity *dbm.Activity) error
	// Delete removes the activity and compacts its day's order.
	Delete(ctx context.Context, activity *dbm.Activity) error
	Reorder(ctx context.Context, dayID uuid.UUID, activityIDs []uuid.UUID) error
	// Move appends the activity to targetDayID and compacts the source day.
	Move(ctx context.Context, activity *dbm.Activity, targetDayID uuid.UUID) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) GetByID(ctx context.Context, activityID uuid.UUID) (*dbm.Activity, error) {
	var activity dbm.Activity
	err := r.db.WithContext(ctx).Where("id = ?", activityID).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) ListByDay(ctx context.Context, dayID uuid.UUID) ([]dbm.Activity, error) {
	var activities []dbm.Activity
	err := r.db.WithContext(ctx).
		Where("day_id = ?", dayID).
		Order("order_index ASC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Activity, error) {
	var activities []dbm.Activity
	err := r.db.WithContext(ctx).
		Model(&dbm.Activity{}).
		Joins("JOIN days ON activities.day_id = days.id").
		Where("days.trip_id = ?", tripID).
		Order("days.day_number ASC, activities.order_index ASC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) Insert(ctx context.Context, activity *dbm.Activity, position *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDay(tx, activity.DayID); err != nil {
			return err
		}

		existing, err := orderedActivityIDs(tx, activity.DayID)
		if err != nil {
			return err
		}

		activity.OrderIndex = len(existing)
		if err := tx.Omit(clause.Associations).Create(activity).Error; err != nil {
			return err
		}
		if position == nil || *position >= len(existing) {
			return nil
		}

		at := max(*position, 0)
		ordered := make([]uuid.UUID, 0, len(existing)+1)
		ordered = append(ordered, existing[:at]...)
		ordered = append(ordered, activity.ID)
		ordered = append(ordered, existing[at:]...)
		if err := resequence(tx, &dbm.Activity{}, "day_id", activity.DayID, "order_index", ordered, 0); err != nil {
			return err
		}
		activity.OrderIndex = at
		return nil
	})
}

func (r *activityRepository) Update(ctx context.Context, activity *dbm.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, activity *dbm.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDay(tx, activity.DayID); err != nil {
			return err
		}
		if err := tx.Where("id = ?", activity.ID).Delete(&dbm.Activity{}).Error; err != nil {
			return err
		}
		return compactDay(tx, activity.DayID)
	})
}

func (r *activityRepository) Reorder(ctx context.Context, dayID uuid.UUID, activityIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDay(tx, dayID); err != nil {
			return err
		}
		current, err := orderedActivityIDs(tx, dayID)
		if err != nil {
			return err
		}
		if !isPermutation(current, activityIDs) {
			return errNotPermutation
		}
		return resequence(tx, &dbm.Activity{}, "day_id", dayID, "order_index", activityIDs, 0)
	})
}

func (r *activityRepository) Move(ctx context.Context, activity *dbm.Activity, targetDayID uuid.UUID) error {
	if activity.DayID == targetDayID {
		return nil
	}
	sourceDayID := activity.DayID

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both days in a stable order.
		first, second := sourceDayID, targetDayID
		if second.String() < first.String() {
			first, second = second, first
		}
		if err := lockDay(tx, first); err != nil {
			return err
		}
		if err := lockDay(tx, second); err != nil {
			return err
		}

		var next int
		if err := tx.Model(&dbm.Activity{}).
			Where("day_id = ?", targetDayID).
			Select("COALESCE(MAX(order_index) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}

		if err := tx.Model(&dbm.Activity{}).
			Where("id = ?", activity.ID).
			Updates(map[string]any{"day_id": targetDayID, "order_index": next}).Error; err != nil {
			return err
		}
		if err := compactDay(tx, sourceDayID); err != nil {
			return err
		}

		activity.DayID = targetDayID
		activity.OrderIndex = next
		return nil
	})
}

func lockDay(tx *gorm.DB, dayID uuid.UUID) error {
	var day dbm.Day
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", dayID).
		First(&day).Error
}

func orderedActivityIDs(tx *gorm.DB, dayID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&dbm.Activity{}).
		Where("day_id = ?", dayID).
		Order("order_index ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func compactDay(tx *gorm.DB, dayID uuid.UUID) error {
	ids, err := orderedActivityIDs(tx, dayID)
	if err != nil {
		return err
	}
	return resequence(tx, &dbm.Activity{}, "day_id", dayID, "order_index", ids, 0)
}

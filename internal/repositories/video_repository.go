package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"itinera/internal/models/db_models"
)

type CreatorVideoRepository interface {
	ListFeatured(ctx context.Context, limit int) ([]db_models.CreatorVideo, error)
	// ListByDestination matches the video location by substring or any
	// destination tag exactly (case-insensitive), most viewed first.
	ListByDestination(ctx context.Context, destination string, limit int) ([]db_models.CreatorVideo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.CreatorVideo, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type creatorVideoRepository struct {
	db *gorm.DB
}

func NewCreatorVideoRepository(db *gorm.DB) CreatorVideoRepository {
	return &creatorVideoRepository{db: db}
}

func (r *creatorVideoRepository) ListFeatured(ctx context.Context, limit int) ([]db_models.CreatorVideo, error) {
	var videos []db_models.CreatorVideo
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *creatorVideoRepository) ListByDestination(ctx context.Context, destination string, limit int) ([]db_models.CreatorVideo, error) {
	var videos []db_models.CreatorVideo
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(
			r.db.Where("location ILIKE ?", "%"+escapeLike(destination)+"%").
				Or("EXISTS (SELECT 1 FROM unnest(destinations) d WHERE LOWER(d) = LOWER(?))", destination),
		).
		Order("views DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *creatorVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.CreatorVideo, error) {
	var video db_models.CreatorVideo
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (r *creatorVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.CreatorVideo{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

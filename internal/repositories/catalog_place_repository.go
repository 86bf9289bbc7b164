package repositories

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"itinera/internal/discovery"
	"itinera/internal/models/db_models"
)

type CatalogPlaceRepository interface {
	// Search returns active places, featured first, then by rating.
	Search(ctx context.Context, filter discovery.Filter, limit int) ([]db_models.CatalogPlace, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.CatalogPlace, error)
	// Destinations lists the distinct locations of active places, sorted.
	Destinations(ctx context.Context) ([]string, error)
}

type catalogPlaceRepository struct {
	db *gorm.DB
}

func NewCatalogPlaceRepository(db *gorm.DB) CatalogPlaceRepository {
	return &catalogPlaceRepository{db: db}
}

func (r *catalogPlaceRepository) Search(ctx context.Context, filter discovery.Filter, limit int) ([]db_models.CatalogPlace, error) {
	var places []db_models.CatalogPlace
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	q = scopeFilter(q, "location", "place_type", filter)

	err := q.Order("is_featured DESC").
		Order("average_rating DESC").
		Limit(limit).
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

func (r *catalogPlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.CatalogPlace, error) {
	var place db_models.CatalogPlace
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *catalogPlaceRepository) Destinations(ctx context.Context) ([]string, error) {
	var locations []string
	err := r.db.WithContext(ctx).
		Model(&db_models.CatalogPlace{}).
		Where("is_active = ? AND location <> ''", true).
		Distinct().
		Pluck("location", &locations).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(locations)
	return locations, nil
}

// scopeFilter pushes the region and category filters into SQL so the row
// limit applies to matching rows only. "see" also covers every unknown type,
// so it is written as the complement of the other categories.
func scopeFilter(q *gorm.DB, locationColumn, typeColumn string, filter discovery.Filter) *gorm.DB {
	if filter.Region != "" {
		q = q.Where(locationColumn+" ILIKE ?", "%"+escapeLike(filter.Region)+"%")
	}

	normalized := "LOWER(REPLACE(REPLACE(TRIM(" + typeColumn + "), ' ', '_'), '-', '_'))"
	switch filter.Category {
	case "":
	case discovery.CategorySee:
		q = q.Where("("+typeColumn+" IS NULL OR "+normalized+" NOT IN ?)", typesOutside(discovery.CategorySee))
	default:
		q = q.Where(normalized+" IN ?", discovery.TypesFor(filter.Category))
	}
	return q
}

func typesOutside(c discovery.Category) []string {
	var out []string
	for _, other := range discovery.AllCategories {
		if other != c {
			out = append(out, discovery.TypesFor(other)...)
		}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

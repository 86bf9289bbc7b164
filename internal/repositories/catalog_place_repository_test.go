package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"itinera/internal/discovery"
	"itinera/internal/models/db_models"
)

// text[] columns are plain TEXT here; pq.StringArray reads and writes its
// literal form either way.
const catalogPlacesDDL = `CREATE TABLE catalog_places (
	id TEXT PRIMARY KEY,
	created_at DATETIME,
	updated_at DATETIME,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	place_type TEXT,
	latitude REAL,
	longitude REAL,
	photos TEXT,
	average_rating REAL NOT NULL DEFAULT 0,
	total_reviews INTEGER NOT NULL DEFAULT 0,
	estimated_cost NUMERIC,
	tags TEXT,
	is_featured NUMERIC NOT NULL DEFAULT 0,
	is_active NUMERIC NOT NULL DEFAULT 1
)`

func newCatalogDB(t *testing.T) *gorm.DB {
	db := newTestDB(t)
	require.NoError(t, db.Exec(catalogPlacesDDL).Error)
	return db
}

func seedPlace(t *testing.T, db *gorm.DB, name, placeType string, rating float64) {
	t.Helper()
	require.NoError(t, db.Create(&db_models.CatalogPlace{
		Name:          name,
		Location:      "Da Lat",
		PlaceType:     placeType,
		AverageRating: rating,
		IsActive:      true,
	}).Error)
}

func placeNames(places []db_models.CatalogPlace) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.Name)
	}
	return out
}

func TestCatalogPlaceRepository_Search_SeeIsFilteredBeforeLimit(t *testing.T) {
	db := newCatalogDB(t)
	ctx := context.Background()

	for i := 0; i < 35; i++ {
		seedPlace(t, db, fmt.Sprintf("restaurant %d", i), "restaurant", 4.9)
	}
	seedPlace(t, db, "Datanla Falls", "waterfall", 4.0)
	seedPlace(t, db, "Langbiang", "Natural Feature", 3.9)
	seedPlace(t, db, "Hidden alley", "street_art", 3.8)
	seedPlace(t, db, "Dalat Palace", " Hotel ", 5.0)
	require.NoError(t, db.Exec(
		"INSERT INTO catalog_places (id, created_at, updated_at, name, place_type, average_rating) VALUES (?, ?, ?, ?, NULL, ?)",
		uuid.NewString(), time.Now(), time.Now(), "Untyped spot", 3.0,
	).Error)

	repo := NewCatalogPlaceRepository(db)

	see, err := repo.Search(ctx, discovery.Filter{Category: discovery.CategorySee}, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"Datanla Falls", "Langbiang", "Hidden alley", "Untyped spot"}, placeNames(see))

	eat, err := repo.Search(ctx, discovery.Filter{Category: discovery.CategoryEat}, 30)
	require.NoError(t, err)
	assert.Len(t, eat, 30)

	stay, err := repo.Search(ctx, discovery.Filter{Category: discovery.CategoryStay}, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dalat Palace"}, placeNames(stay), "type is trimmed and lowercased like Classify")

	all, err := repo.Search(ctx, discovery.Filter{}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestCatalogPlaceRepository_SearchMatchesClassify(t *testing.T) {
	db := newCatalogDB(t)
	ctx := context.Background()
	types := []string{"hotel", "cafe", "museum", "tour", "Spa", "diving-site", "unknown", ""}
	for i, typ := range types {
		seedPlace(t, db, fmt.Sprintf("p%d", i), typ, 1)
	}
	repo := NewCatalogPlaceRepository(db)

	for _, cat := range discovery.AllCategories {
		got, err := repo.Search(ctx, discovery.Filter{Category: cat}, 50)
		require.NoError(t, err)
		for _, p := range got {
			assert.Equal(t, cat, discovery.Classify(p.PlaceType), "%s in %s", p.PlaceType, cat)
		}
		var want int
		for _, typ := range types {
			if discovery.Classify(typ) == cat {
				want++
			}
		}
		assert.Len(t, got, want, string(cat))
	}
}

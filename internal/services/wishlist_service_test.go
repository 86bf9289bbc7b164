package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/internal/discovery"
	"itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

func catalogPlace(native uuid.UUID, name, location string) discovery.DiscoveredPlace {
	return discovery.DiscoveredPlace{
		ID:       discovery.PlaceRef{Provider: discovery.ProviderCatalog, NativeID: native.String()},
		Name:     name,
		Location: location,
		Category: discovery.CategorySee,
		Photos:   []string{"https://img.example/" + name + ".jpg"},
	}
}

func externalPlace(native, name, location string) discovery.DiscoveredPlace {
	return discovery.DiscoveredPlace{
		ID:       discovery.PlaceRef{Provider: discovery.ProviderExternal, NativeID: native},
		Name:     name,
		Location: location,
		Category: discovery.CategoryEat,
	}
}

func newWishlistFixture() (*WishlistService, fakeWishlistRepo) {
	repo := fakeWishlistRepo{newMemStore()}
	svc := NewWishlistService(repo).(*WishlistService)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestWishlistService_Add_SecondSaveUpdatesSnapshot(t *testing.T) {
	svc, repo := newWishlistFixture()
	ctx := context.Background()
	owner := uuid.New()
	native := uuid.New()

	first, err := svc.Add(ctx, owner, catalogPlace(native, "Crazy House", "Da Lat"), nil)
	require.NoError(t, err)

	renamed := catalogPlace(native, "Hang Nga Guesthouse", "Da Lat, Lam Dong")
	renamed.EstimatedCost = decimal.NewNullDecimal(decimal.NewFromInt(3))
	referral := &discovery.Referral{CreatorID: uuid.New(), ContentID: uuid.New()}

	second, err := svc.Add(ctx, owner, renamed, referral)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "one row per owner and place")
	assert.Len(t, repo.wishlist, 1)
	assert.Equal(t, "Hang Nga Guesthouse", second.PlaceName)
	assert.Equal(t, "Da Lat, Lam Dong", second.PlaceLocation)
	require.NotNil(t, second.ReferredFromContentID)
	assert.Equal(t, referral.ContentID, *second.ReferredFromContentID)
	assert.Equal(t, referral.CreatorID, *second.ReferredByCreatorID)
}

func TestWishlistService_Add_ReferencesByProvider(t *testing.T) {
	svc, _ := newWishlistFixture()
	ctx := context.Background()
	owner := uuid.New()
	native := uuid.New()

	internal, err := svc.Add(ctx, owner, catalogPlace(native, "Crazy House", "Da Lat"), nil)
	require.NoError(t, err)
	require.NotNil(t, internal.InternalPlaceID)
	assert.Equal(t, native, *internal.InternalPlaceID)
	assert.Nil(t, internal.ExternalPlaceID)
	assert.Equal(t, "catalog-"+native.String(), internal.PlaceID())

	external, err := svc.Add(ctx, owner, externalPlace("ChIJabc", "Banh Mi Phuong", "Hoi An"), nil)
	require.NoError(t, err)
	assert.Nil(t, external.InternalPlaceID)
	require.NotNil(t, external.ExternalPlaceID)
	assert.Equal(t, "external-ChIJabc", *external.ExternalPlaceID)
}

func TestWishlistService_Add_SamePlaceForDifferentOwners(t *testing.T) {
	svc, repo := newWishlistFixture()
	ctx := context.Background()
	place := catalogPlace(uuid.New(), "Crazy House", "Da Lat")

	_, err := svc.Add(ctx, uuid.New(), place, nil)
	require.NoError(t, err)
	_, err = svc.Add(ctx, uuid.New(), place, nil)
	require.NoError(t, err)
	assert.Len(t, repo.wishlist, 2)
}

func TestWishlistService_RequiresOwner(t *testing.T) {
	svc, _ := newWishlistFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, uuid.Nil, catalogPlace(uuid.New(), "x", "y"), nil)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	_, err = svc.List(ctx, uuid.Nil)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	_, err = svc.IsSaved(ctx, uuid.Nil, "catalog-"+uuid.NewString())
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Remove(ctx, uuid.Nil, uuid.New()), utils.ErrUnauthenticated)
}

func TestWishlistService_IsSaved(t *testing.T) {
	svc, _ := newWishlistFixture()
	ctx := context.Background()
	owner := uuid.New()
	native := uuid.New()

	_, err := svc.Add(ctx, owner, catalogPlace(native, "Crazy House", "Da Lat"), nil)
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner, externalPlace("ChIJabc", "Banh Mi Phuong", "Hoi An"), nil)
	require.NoError(t, err)

	tests := []struct {
		placeID string
		want    bool
	}{
		{"catalog-" + native.String(), true},
		{"external-ChIJabc", true},
		{"external-ChIJother", false},
		{"catalog-" + uuid.NewString(), false},
	}
	for _, tc := range tests {
		saved, err := svc.IsSaved(ctx, owner, tc.placeID)
		require.NoError(t, err, tc.placeID)
		assert.Equal(t, tc.want, saved, tc.placeID)
	}

	saved, err := svc.IsSaved(ctx, uuid.New(), "catalog-"+native.String())
	require.NoError(t, err)
	assert.False(t, saved, "saves are per owner")

	_, err = svc.IsSaved(ctx, owner, "google-ChIJabc")
	assert.ErrorIs(t, err, utils.ErrInvalidPlaceID)
}

func TestWishlistService_SetVisitedAndNote(t *testing.T) {
	svc, _ := newWishlistFixture()
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.Add(ctx, owner, catalogPlace(uuid.New(), "Crazy House", "Da Lat"), nil)
	require.NoError(t, err)

	visited, err := svc.SetVisited(ctx, owner, item.ID, true)
	require.NoError(t, err)
	assert.True(t, visited.IsVisited)
	require.NotNil(t, visited.VisitedAt)
	assert.Equal(t, svc.now(), *visited.VisitedAt)

	cleared, err := svc.SetVisited(ctx, owner, item.ID, false)
	require.NoError(t, err)
	assert.False(t, cleared.IsVisited)
	assert.Nil(t, cleared.VisitedAt)

	noted, err := svc.UpdateNote(ctx, owner, item.ID, "go at sunset")
	require.NoError(t, err)
	assert.Equal(t, "go at sunset", noted.Notes)

	_, err = svc.SetVisited(ctx, uuid.New(), item.ID, true)
	assert.ErrorIs(t, err, utils.ErrWishlistItemNotFound)
	_, err = svc.UpdateNote(ctx, owner, uuid.New(), "x")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestWishlistService_ListByLocation_UnvisitedOnly(t *testing.T) {
	svc, _ := newWishlistFixture()
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Add(ctx, owner, catalogPlace(uuid.New(), "Crazy House", "Da Lat"), nil)
	require.NoError(t, err)
	seen, err := svc.Add(ctx, owner, catalogPlace(uuid.New(), "Langbiang", "Da Lat"), nil)
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner, catalogPlace(uuid.New(), "Ba Na Hills", "Da Nang"), nil)
	require.NoError(t, err)
	_, err = svc.SetVisited(ctx, owner, seen.ID, true)
	require.NoError(t, err)

	items, err := svc.ListByLocation(ctx, owner, "da lat")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Crazy House", items[0].PlaceName)

	none, err := svc.ListByLocation(ctx, owner, "Hue")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWishlistService_Remove(t *testing.T) {
	svc, repo := newWishlistFixture()
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.Add(ctx, owner, catalogPlace(uuid.New(), "Crazy House", "Da Lat"), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, uuid.New(), item.ID))
	assert.Len(t, repo.wishlist, 1, "other owners cannot remove it")

	require.NoError(t, svc.Remove(ctx, owner, item.ID))
	assert.Empty(t, repo.wishlist)
}

func TestGroupByLocation(t *testing.T) {
	items := []db_models.WishlistItem{
		{PlaceName: "Crazy House", PlaceLocation: "Da Lat"},
		{PlaceName: "Mystery spot"},
		{PlaceName: "Langbiang", PlaceLocation: "Da Lat"},
		{PlaceName: "Ba Na Hills", PlaceLocation: "Da Nang"},
	}

	groups := GroupByLocation(items)

	require.Len(t, groups, 3)
	require.Len(t, groups["Da Lat"], 2)
	assert.Equal(t, "Crazy House", groups["Da Lat"][0].PlaceName)
	assert.Equal(t, "Langbiang", groups["Da Lat"][1].PlaceName)
	assert.Equal(t, "Mystery spot", groups[OtherLocation][0].PlaceName)
	assert.Empty(t, GroupByLocation(nil))
}

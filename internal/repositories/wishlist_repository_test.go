package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/internal/discovery"
	dbm "itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

func newWishlistRepo(t *testing.T) WishlistRepository {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&dbm.WishlistItem{}))
	return NewWishlistRepository(db)
}

func savedItem(owner uuid.UUID, ref discovery.SavedRef, name string) *dbm.WishlistItem {
	item := &dbm.WishlistItem{OwnerID: owner, PlaceName: name}
	item.SetRef(ref)
	return item
}

func externalRef(native string) discovery.SavedRef {
	return discovery.ExternalRef(discovery.PlaceRef{Provider: discovery.ProviderExternal, NativeID: native})
}

func TestWishlistRepository_Insert_DuplicateIsConstraintViolation(t *testing.T) {
	repo := newWishlistRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	internal := discovery.InternalRef(uuid.New())

	require.NoError(t, repo.Insert(ctx, savedItem(owner, internal, "Crazy House")))
	err := repo.Insert(ctx, savedItem(owner, internal, "Crazy House again"))
	assert.ErrorIs(t, err, utils.ErrConstraintViolation)

	require.NoError(t, repo.Insert(ctx, savedItem(uuid.New(), internal, "Crazy House")), "other owners may save it")

	require.NoError(t, repo.Insert(ctx, savedItem(owner, externalRef("ChIJabc"), "Banh Mi Phuong")))
	err = repo.Insert(ctx, savedItem(owner, externalRef("ChIJabc"), "Banh Mi Phuong"))
	assert.ErrorIs(t, err, utils.ErrConstraintViolation)

	require.NoError(t, repo.Insert(ctx, savedItem(owner, externalRef("ChIJother"), "Hoi An market")),
		"a NULL internal id does not collide")
}

func TestWishlistRepository_FindByRef_UsesMatchingColumn(t *testing.T) {
	repo := newWishlistRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	internal := discovery.InternalRef(uuid.New())
	external := externalRef("ChIJ-abc-def")

	require.NoError(t, repo.Insert(ctx, savedItem(owner, internal, "Crazy House")))
	require.NoError(t, repo.Insert(ctx, savedItem(owner, external, "Banh Mi Phuong")))

	got, err := repo.FindByRef(ctx, owner, internal)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Crazy House", got.PlaceName)
	assert.True(t, got.Ref().Equal(internal))

	got, err = repo.FindByRef(ctx, owner, external)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Banh Mi Phuong", got.PlaceName)
	assert.Equal(t, "external-ChIJ-abc-def", got.PlaceID())

	got, err = repo.FindByRef(ctx, uuid.New(), internal)
	require.NoError(t, err)
	assert.Nil(t, got, "scoped to the owner")

	got, err = repo.FindByRef(ctx, owner, externalRef("ChIJmissing"))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.FindByRef(ctx, owner, discovery.SavedRef{})
	assert.ErrorIs(t, err, utils.ErrInvalidPlaceID)
}

func TestWishlistRepository_UpdateSnapshot(t *testing.T) {
	repo := newWishlistRepo(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	ref := discovery.InternalRef(uuid.New())

	require.NoError(t, repo.Insert(ctx, savedItem(owner, ref, "Crazy House")))
	require.NoError(t, repo.Insert(ctx, savedItem(other, ref, "Crazy House")))

	update := savedItem(owner, ref, "Hang Nga Guesthouse")
	update.SetReferral(&discovery.Referral{CreatorID: uuid.New(), ContentID: uuid.New()})
	require.NoError(t, repo.UpdateSnapshot(ctx, update))

	mine, err := repo.FindByRef(ctx, owner, ref)
	require.NoError(t, err)
	assert.Equal(t, "Hang Nga Guesthouse", mine.PlaceName)
	require.NotNil(t, mine.ReferredFromContentID)
	assert.Equal(t, *update.ReferredFromContentID, *mine.ReferredFromContentID)

	theirs, err := repo.FindByRef(ctx, other, ref)
	require.NoError(t, err)
	assert.Equal(t, "Crazy House", theirs.PlaceName)
	assert.Nil(t, theirs.ReferredFromContentID)
}

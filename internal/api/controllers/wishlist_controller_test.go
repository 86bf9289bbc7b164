package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/internal/discovery"
	mem "itinera/pkg/memcache"
	"itinera/pkg/middleware"
)

func requestContext(userID uuid.UUID, sessionHeader string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/wishlist", nil)
	if sessionHeader != "" {
		c.Request.Header.Set(middleware.SessionKeyHeader, sessionHeader)
	}
	if userID != uuid.Nil {
		c.Set(middleware.UserIDKey, userID)
	}
	return c
}

func TestWishlistController_LastReferral_SpoofedHeaderIgnored(t *testing.T) {
	store := mem.NewReferrals(time.Hour)
	w := &WishlistController{referrals: store}
	ctx := context.Background()
	victim := uuid.New()

	attacker := requestContext(uuid.Nil, victim.String())
	forged := discovery.Referral{CreatorID: uuid.New(), ContentID: uuid.New()}
	require.NoError(t, store.Set(ctx, middleware.SessionKey(attacker), forged))

	assert.Nil(t, w.lastReferral(requestContext(victim, "")))

	watched := discovery.Referral{CreatorID: uuid.New(), ContentID: uuid.New()}
	require.NoError(t, store.Set(ctx, middleware.SessionKey(requestContext(victim, "")), watched))

	got := w.lastReferral(requestContext(victim, ""))
	require.NotNil(t, got)
	assert.Equal(t, watched, *got)
}

func TestWishlistController_LastReferral_AnonymousBeforeSignIn(t *testing.T) {
	store := mem.NewReferrals(time.Hour)
	w := &WishlistController{referrals: store}
	ctx := context.Background()
	owner := uuid.New()

	before := discovery.Referral{CreatorID: uuid.New(), ContentID: uuid.New()}
	require.NoError(t, store.Set(ctx, middleware.SessionKey(requestContext(uuid.Nil, "browser-7")), before))

	got := w.lastReferral(requestContext(owner, "browser-7"))
	require.NotNil(t, got)
	assert.Equal(t, before, *got)

	after := discovery.Referral{CreatorID: uuid.New(), ContentID: uuid.New()}
	require.NoError(t, store.Set(ctx, middleware.SessionKey(requestContext(owner, "")), after))

	got = w.lastReferral(requestContext(owner, "browser-7"))
	require.NotNil(t, got)
	assert.Equal(t, after, *got, "the signed-in pointer wins")

	assert.Nil(t, w.lastReferral(requestContext(uuid.Nil, "")))
}

package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"itinera/internal/discovery"
	"itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/internal/services"
	"itinera/pkg/logger"
	mem "itinera/pkg/memcache"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

type WishlistController struct {
	wishlistService services.WishlistServiceInterface
	catalogService  services.CatalogServiceInterface
	referrals       mem.ReferralStore
}

func NewWishlistController(
	wishlistService services.WishlistServiceInterface,
	catalogService services.CatalogServiceInterface,
	referrals mem.ReferralStore,
) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
		catalogService:  catalogService,
		referrals:       referrals,
	}
}

// ListWishlist godoc
// @Summary List saved places
// @Description All saved places of the user, newest first. With location, only unvisited places in that location
// @Tags Wishlist
// @Produce json
// @Param location query string false "Location substring"
// @Success 200 {array} response_models.WishlistItemResponse
// @Security BearerAuth
// @Router /wishlist [get]
func (w *WishlistController) ListWishlist(c *gin.Context) {
	ownerID := middleware.CurrentUserID(c)

	var (
		items []db_models.WishlistItem
		err   error
	)
	if location := c.Query("location"); location != "" {
		items, err = w.wishlistService.ListByLocation(c.Request.Context(), ownerID, location)
	} else {
		items, err = w.wishlistService.List(c.Request.Context(), ownerID)
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewWishlistItemResponses(items), "Wishlist fetched successfully")
}

// GroupedWishlist godoc
// @Summary Saved places grouped by location
// @Tags Wishlist
// @Produce json
// @Success 200 {object} map[string][]response_models.WishlistItemResponse
// @Security BearerAuth
// @Router /wishlist/grouped [get]
func (w *WishlistController) GroupedWishlist(c *gin.Context) {
	groups, err := w.wishlistService.Grouped(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make(map[string][]response_models.WishlistItemResponse, len(groups))
	for location, items := range groups {
		out[location] = response_models.NewWishlistItemResponses(items)
	}
	utils.RespondSuccess(c, out, "Wishlist fetched successfully")
}

// AddToWishlist godoc
// @Summary Save a place
// @Description Saves a discovered place. Saving the same place again refreshes the stored snapshot. The last video viewed in this session is recorded as the referral
// @Tags Wishlist
// @Accept json
// @Produce json
// @Param request body request_models.AddWishlistItemRequest true "Place to save"
// @Param X-Session-ID header string false "Session key used when the video was viewed anonymously"
// @Success 201 {object} response_models.WishlistItemResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wishlist [post]
func (w *WishlistController) AddToWishlist(c *gin.Context) {
	var req request_models.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	place, err := w.resolvePlace(c, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	item, err := w.wishlistService.Add(c.Request.Context(), middleware.CurrentUserID(c), *place, w.lastReferral(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, response_models.NewWishlistItemResponse(item), "Place saved to wishlist")
}

// lastReferral looks under the signed-in user first, then under the anonymous
// session the video may have been watched in before signing in.
func (w *WishlistController) lastReferral(c *gin.Context) *discovery.Referral {
	keys := []string{middleware.SessionKey(c)}
	if anon := middleware.AnonymousSessionKey(c); anon != keys[0] {
		keys = append(keys, anon)
	}

	for _, key := range keys {
		if key == "" {
			continue
		}
		referral, err := w.referrals.Get(c.Request.Context(), key)
		if err != nil {
			// attribution is best effort
			logger.LogError(logger.GetLogger(), "controllers", "WishlistController.lastReferral", "referrals.Get", key, err)
			continue
		}
		if referral != nil {
			return referral
		}
	}
	return nil
}

func (w *WishlistController) resolvePlace(c *gin.Context, req request_models.AddWishlistItemRequest) (*discovery.DiscoveredPlace, error) {
	if req.Name == "" {
		return w.catalogService.GetPlace(c.Request.Context(), req.PlaceID)
	}

	ref, err := discovery.ParsePlaceID(req.PlaceID)
	if err != nil {
		return nil, err
	}
	category, err := discovery.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	place := &discovery.DiscoveredPlace{
		ID:       ref,
		Name:     req.Name,
		Location: req.Location,
		Category: category,
	}
	if req.ImageURL != "" {
		place.Photos = []string{req.ImageURL}
	}
	if req.EstimatedCost != nil {
		place.EstimatedCost = decimal.NewNullDecimal(*req.EstimatedCost)
	}
	return place, nil
}

// RemoveFromWishlist godoc
// @Summary Remove a saved place
// @Tags Wishlist
// @Produce json
// @Param itemId path string true "Wishlist item ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wishlist/{itemId} [delete]
func (w *WishlistController) RemoveFromWishlist(c *gin.Context) {
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	if err := w.wishlistService.Remove(c.Request.Context(), middleware.CurrentUserID(c), itemID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Place removed from wishlist")
}

// SetVisited godoc
// @Summary Mark a saved place visited or unvisited
// @Tags Wishlist
// @Accept json
// @Produce json
// @Param itemId path string true "Wishlist item ID"
// @Param request body request_models.SetVisitedRequest true "Visited flag"
// @Success 200 {object} response_models.WishlistItemResponse
// @Security BearerAuth
// @Router /wishlist/{itemId}/visited [patch]
func (w *WishlistController) SetVisited(c *gin.Context) {
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	var req request_models.SetVisitedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	item, err := w.wishlistService.SetVisited(c.Request.Context(), middleware.CurrentUserID(c), itemID, *req.Visited)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewWishlistItemResponse(item), "Wishlist item updated")
}

// UpdateNote godoc
// @Summary Update the note of a saved place
// @Tags Wishlist
// @Accept json
// @Produce json
// @Param itemId path string true "Wishlist item ID"
// @Param request body request_models.UpdateNoteRequest true "Note"
// @Success 200 {object} response_models.WishlistItemResponse
// @Security BearerAuth
// @Router /wishlist/{itemId}/note [patch]
func (w *WishlistController) UpdateNote(c *gin.Context) {
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	var req request_models.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	item, err := w.wishlistService.UpdateNote(c.Request.Context(), middleware.CurrentUserID(c), itemID, req.Notes)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewWishlistItemResponse(item), "Wishlist item updated")
}

// IsSaved godoc
// @Summary Check whether a place is saved
// @Tags Wishlist
// @Produce json
// @Param placeId path string true "Composite place id"
// @Success 200 {object} response_models.SavedStatusResponse
// @Security BearerAuth
// @Router /wishlist/saved/{placeId} [get]
func (w *WishlistController) IsSaved(c *gin.Context) {
	placeID := c.Param("placeId")

	item, err := w.wishlistService.Find(c.Request.Context(), middleware.CurrentUserID(c), placeID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	status := response_models.SavedStatusResponse{PlaceID: placeID, Saved: item != nil}
	if item != nil {
		resp := response_models.NewWishlistItemResponse(item)
		status.Item = &resp
	}
	utils.RespondSuccess(c, status, "Saved status fetched successfully")
}

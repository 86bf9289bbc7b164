package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itinera/internal/discovery"
	"itinera/internal/services"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

const defaultFeedLimit = 20

type DiscoverController struct {
	catalogService services.CatalogServiceInterface
	feedService    services.FeedServiceInterface
}

func NewDiscoverController(catalogService services.CatalogServiceInterface, feedService services.FeedServiceInterface) *DiscoverController {
	return &DiscoverController{
		catalogService: catalogService,
		feedService:    feedService,
	}
}

// SearchPlaces godoc
// @Summary Discover places
// @Description Merge partner, catalog and live search results for a region and category
// @Tags Discover
// @Produce json
// @Param region query string false "Region (substring of location)"
// @Param category query string false "stay, eat, see, do or all"
// @Success 200 {array} discovery.DiscoveredPlace
// @Router /discover/places [get]
func (d *DiscoverController) SearchPlaces(c *gin.Context) {
	category, err := discovery.ParseCategory(c.Query("category"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	filter := discovery.Filter{Region: c.Query("region"), Category: category}
	places := d.catalogService.Aggregate(c.Request.Context(), filter)

	utils.RespondSuccess(c, places, "Places fetched successfully")
}

// GetPlace godoc
// @Summary Get a place by composite id
// @Tags Discover
// @Produce json
// @Param placeId path string true "Composite place id, e.g. catalog-<uuid>"
// @Success 200 {object} discovery.DiscoveredPlace
// @Failure 404 {object} utils.APIResponse
// @Router /discover/places/{placeId} [get]
func (d *DiscoverController) GetPlace(c *gin.Context) {
	place, err := d.catalogService.GetPlace(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place fetched successfully")
}

// ListDestinations godoc
// @Summary List destinations
// @Tags Discover
// @Produce json
// @Success 200 {array} string
// @Router /discover/destinations [get]
func (d *DiscoverController) ListDestinations(c *gin.Context) {
	destinations, err := d.catalogService.Destinations(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, destinations, "Destinations fetched successfully")
}

// GetFeed godoc
// @Summary Mixed place and video feed
// @Description Three places for every video, optionally for one destination
// @Tags Discover
// @Produce json
// @Param limit query int false "Number of items" default(20) minimum(1) maximum(100)
// @Param destination query string false "Destination"
// @Success 200 {array} discovery.FeedItem
// @Router /discover/feed [get]
func (d *DiscoverController) GetFeed(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultFeedLimit)))
	if err != nil || limit < 1 || limit > services.MaxFeedLimit {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
		return
	}

	var feed []discovery.FeedItem
	if destination := c.Query("destination"); destination != "" {
		feed = d.feedService.FeedByDestination(c.Request.Context(), destination, limit)
	} else {
		feed = d.feedService.Feed(c.Request.Context(), limit)
	}

	utils.RespondSuccess(c, feed, "Feed fetched successfully")
}

// RecordVideoView godoc
// @Summary Record a video view
// @Description Counts the view and remembers the video for referral attribution on the next wishlist save
// @Tags Discover
// @Produce json
// @Param videoId path string true "Video ID"
// @Param X-Session-ID header string false "Session key for anonymous viewers"
// @Success 200 {object} discovery.Referral
// @Router /discover/videos/{videoId}/view [post]
func (d *DiscoverController) RecordVideoView(c *gin.Context) {
	videoID, ok := uuidParam(c, "videoId")
	if !ok {
		return
	}

	referral, err := d.feedService.RecordVideoView(c.Request.Context(), middleware.SessionKey(c), videoID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, referral, "View recorded")
}

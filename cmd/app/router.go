package main

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"itinera/internal/api/controllers"
	"itinera/internal/infra"
	"itinera/pkg/logger"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

func ProvideRouter(
	cfg infra.Config,
	jwtManager *utils.JWTManager,
	discoverController *controllers.DiscoverController,
	wishlistController *controllers.WishlistController,
	tripController *controllers.TripController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	if cfg.NewRelicLicense != "" {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName("Itinera API"),
			newrelic.ConfigLicense(cfg.NewRelicLicense),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			logger.LogError(logger.GetLogger(), "main", "ProvideRouter", "newrelic.NewApplication", nil, err)
		} else {
			r.Use(nrgin.Middleware(app))
		}
	}

	RegisterRoutes(r, jwtManager, discoverController, wishlistController, tripController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	jwtManager *utils.JWTManager,
	discoverController *controllers.DiscoverController,
	wishlistController *controllers.WishlistController,
	tripController *controllers.TripController) {

	optional := middleware.OptionalAuthMiddleware(jwtManager)
	auth := middleware.JWTAuthMiddleware(jwtManager)

	discoverGroup := r.Group("/discover", optional)
	discoverGroup.GET("/places", discoverController.SearchPlaces)
	discoverGroup.GET("/places/:placeId", discoverController.GetPlace)
	discoverGroup.GET("/destinations", discoverController.ListDestinations)
	discoverGroup.GET("/feed", discoverController.GetFeed)
	discoverGroup.POST("/videos/:videoId/view", discoverController.RecordVideoView)

	wishlistGroup := r.Group("/wishlist", auth)
	wishlistGroup.GET("", wishlistController.ListWishlist)
	wishlistGroup.POST("", wishlistController.AddToWishlist)
	wishlistGroup.GET("/grouped", wishlistController.GroupedWishlist)
	wishlistGroup.GET("/saved/:placeId", wishlistController.IsSaved)
	wishlistGroup.DELETE("/:itemId", wishlistController.RemoveFromWishlist)
	wishlistGroup.PATCH("/:itemId/visited", wishlistController.SetVisited)
	wishlistGroup.PATCH("/:itemId/note", wishlistController.UpdateNote)

	publicTrips := r.Group("/trips", optional)
	publicTrips.GET("/:tripId", tripController.GetTrip)
	publicTrips.GET("/:tripId/budget", tripController.GetBudget)
	publicTrips.GET("/:tripId/budget/export", tripController.ExportBudget)

	tripGroup := r.Group("/trips", auth)
	tripGroup.POST("", tripController.CreateTrip)
	tripGroup.POST("/from-wishlist", tripController.CreateTripFromWishlist)
	tripGroup.GET("", tripController.ListTrips)
	tripGroup.PATCH("/:tripId", tripController.UpdateTrip)
	tripGroup.DELETE("/:tripId", tripController.DeleteTrip)
	tripGroup.POST("/:tripId/copy", tripController.CopyTrip)
	tripGroup.POST("/:tripId/days", tripController.AddDay)
	tripGroup.PUT("/:tripId/days/order", tripController.ReorderDays)

	dayGroup := r.Group("/days", auth)
	dayGroup.PATCH("/:dayId", tripController.UpdateDay)
	dayGroup.DELETE("/:dayId", tripController.DeleteDay)
	dayGroup.POST("/:dayId/activities", tripController.AddActivity)
	dayGroup.PUT("/:dayId/activities/order", tripController.ReorderActivities)
	dayGroup.POST("/:dayId/wishlist/:itemId", tripController.AddWishlistItemToDay)

	activityGroup := r.Group("/activities", auth)
	activityGroup.PATCH("/:activityId", tripController.UpdateActivity)
	activityGroup.DELETE("/:activityId", tripController.DeleteActivity)
	activityGroup.POST("/:activityId/move", tripController.MoveActivity)
}

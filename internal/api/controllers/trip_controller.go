package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	"itinera/internal/services"
	"itinera/pkg/logger"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TripController struct {
	tripService   services.TripServiceInterface
	budgetService services.BudgetServiceInterface
}

func NewTripController(tripService services.TripServiceInterface, budgetService services.BudgetServiceInterface) *TripController {
	return &TripController{
		tripService:   tripService,
		budgetService: budgetService,
	}
}

// CreateTrip godoc
// @Summary Create a trip
// @Description Creates a trip with one day per calendar date between start_date and end_date (inclusive, at most 30)
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip"
// @Success 201 {object} db_models.Trip
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	in, ok := bindTripInput(c)
	if !ok {
		return
	}

	trip, err := t.tripService.CreateTrip(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, trip, "Trip created successfully")
}

// CreateTripFromWishlist godoc
// @Summary Create a trip from the wishlist
// @Description Like CreateTrip, with destinations, description and budget seeded from unvisited saved places
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip"
// @Success 201 {object} db_models.Trip
// @Security BearerAuth
// @Router /trips/from-wishlist [post]
func (t *TripController) CreateTripFromWishlist(c *gin.Context) {
	in, ok := bindTripInput(c)
	if !ok {
		return
	}

	trip, err := t.tripService.CreateTripFromWishlist(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, trip, "Trip created successfully")
}

func bindTripInput(c *gin.Context) (request_models.TripInput, bool) {
	var req request_models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return request_models.TripInput{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		utils.HandleServiceError(c, err)
		return request_models.TripInput{}, false
	}
	return in, true
}

// ListTrips godoc
// @Summary List my trips
// @Tags Trip
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {array} db_models.Trip
// @Security BearerAuth
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), middleware.CurrentUserID(c), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}

// GetTrip godoc
// @Summary Get trip details
// @Description Trip with its days, activities and budget rollup. Public trips are visible to everyone
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripDetail
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	viewerID := middleware.CurrentUserID(c)
	detail, err := t.tripService.GetTripDetail(c.Request.Context(), viewerID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if detail.Trip.OwnerID != viewerID {
		if err := t.tripService.IncrementViews(c.Request.Context(), tripID); err != nil {
			logger.LogError(logger.GetLogger(), "controllers", "TripController.GetTrip", "IncrementViews", tripID.String(), err)
		}
	}

	utils.RespondSuccess(c, detail, "Trip fetched successfully")
}

// UpdateTrip godoc
// @Summary Update a trip
// @Description Partial update. Changing the dates adds or removes days at the end
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.UpdateTripRequest true "Fields to change"
// @Success 200 {object} db_models.Trip
// @Security BearerAuth
// @Router /trips/{tripId} [patch]
func (t *TripController) UpdateTrip(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	var req request_models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	trip, err := t.tripService.UpdateTrip(c.Request.Context(), middleware.CurrentUserID(c), tripID, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip updated successfully")
}

// DeleteTrip godoc
// @Summary Delete a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	if err := t.tripService.DeleteTrip(c.Request.Context(), middleware.CurrentUserID(c), tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Trip deleted successfully")
}

// CopyTrip godoc
// @Summary Copy a trip
// @Description Copies an own or public trip with its days and activities. Actual costs and bookings are not copied
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 201 {object} db_models.Trip
// @Security BearerAuth
// @Router /trips/{tripId}/copy [post]
func (t *TripController) CopyTrip(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	trip, err := t.tripService.CopyTrip(c.Request.Context(), middleware.CurrentUserID(c), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, trip, "Trip copied successfully")
}

// GetBudget godoc
// @Summary Budget rollup of a trip
// @Tags Budget
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} budget.Summary
// @Router /trips/{tripId}/budget [get]
func (t *TripController) GetBudget(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	summary, err := t.budgetService.Summary(c.Request.Context(), middleware.CurrentUserID(c), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Budget fetched successfully")
}

// ExportBudget godoc
// @Summary Export the budget as a spreadsheet
// @Tags Budget
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param tripId path string true "Trip ID"
// @Success 200 {file} file
// @Router /trips/{tripId}/budget/export [get]
func (t *TripController) ExportBudget(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	f, filename, err := t.budgetService.Export(c.Request.Context(), middleware.CurrentUserID(c), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		logger.LogError(logger.GetLogger(), "controllers", "TripController.ExportBudget", "Write", tripID.String(), err)
	}
}

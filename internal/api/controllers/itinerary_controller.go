package controllers

import (
	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

// AddDay godoc
// @Summary Append a day
// @Description Adds a day after the last one and moves the trip's end date
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.DayInput false "Day"
// @Success 201 {object} db_models.Day
// @Security BearerAuth
// @Router /trips/{tripId}/days [post]
func (t *TripController) AddDay(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	var in request_models.DayInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			utils.RespondValidationError(c, err)
			return
		}
	}

	day, err := t.tripService.AddDay(c.Request.Context(), middleware.CurrentUserID(c), tripID, in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, day, "Day added successfully")
}

// UpdateDay godoc
// @Summary Update a day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param dayId path string true "Day ID"
// @Param request body request_models.DayInput true "Fields to change"
// @Success 200 {object} db_models.Day
// @Security BearerAuth
// @Router /days/{dayId} [patch]
func (t *TripController) UpdateDay(c *gin.Context) {
	dayID, ok := uuidParam(c, "dayId")
	if !ok {
		return
	}

	var in request_models.DayInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	day, err := t.tripService.UpdateDay(c.Request.Context(), middleware.CurrentUserID(c), dayID, in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, day, "Day updated successfully")
}

// DeleteDay godoc
// @Summary Delete a day
// @Description Removes the day with its activities and renumbers the remaining days
// @Tags Itinerary
// @Produce json
// @Param dayId path string true "Day ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /days/{dayId} [delete]
func (t *TripController) DeleteDay(c *gin.Context) {
	dayID, ok := uuidParam(c, "dayId")
	if !ok {
		return
	}

	if err := t.tripService.DeleteDay(c.Request.Context(), middleware.CurrentUserID(c), dayID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Day deleted successfully")
}

// ReorderDays godoc
// @Summary Reorder the days of a trip
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.ReorderRequest true "All day IDs in their new order"
// @Success 200 {array} db_models.Day
// @Security BearerAuth
// @Router /trips/{tripId}/days/order [put]
func (t *TripController) ReorderDays(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	var req request_models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	days, err := t.tripService.ReorderDays(c.Request.Context(), middleware.CurrentUserID(c), tripID, req.IDs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, days, "Days reordered successfully")
}

// AddActivity godoc
// @Summary Add an activity to a day
// @Description Appended at the end unless position is given
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param dayId path string true "Day ID"
// @Param request body request_models.ActivityInput true "Activity"
// @Success 201 {object} db_models.Activity
// @Security BearerAuth
// @Router /days/{dayId}/activities [post]
func (t *TripController) AddActivity(c *gin.Context) {
	dayID, ok := uuidParam(c, "dayId")
	if !ok {
		return
	}

	var in request_models.ActivityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	activity, err := t.tripService.AddActivity(c.Request.Context(), middleware.CurrentUserID(c), dayID, in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, activity, "Activity added successfully")
}

// AddWishlistItemToDay godoc
// @Summary Plan a saved place
// @Description Adds a wishlist item as the last activity of a day
// @Tags Itinerary
// @Produce json
// @Param dayId path string true "Day ID"
// @Param itemId path string true "Wishlist item ID"
// @Success 201 {object} db_models.Activity
// @Security BearerAuth
// @Router /days/{dayId}/wishlist/{itemId} [post]
func (t *TripController) AddWishlistItemToDay(c *gin.Context) {
	dayID, ok := uuidParam(c, "dayId")
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	activity, err := t.tripService.AddWishlistItemToDay(c.Request.Context(), middleware.CurrentUserID(c), dayID, itemID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, activity, "Activity added successfully")
}

// ReorderActivities godoc
// @Summary Reorder the activities of a day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param dayId path string true "Day ID"
// @Param request body request_models.ReorderRequest true "All activity IDs in their new order"
// @Success 200 {array} db_models.Activity
// @Security BearerAuth
// @Router /days/{dayId}/activities/order [put]
func (t *TripController) ReorderActivities(c *gin.Context) {
	dayID, ok := uuidParam(c, "dayId")
	if !ok {
		return
	}

	var req request_models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	activities, err := t.tripService.ReorderActivities(c.Request.Context(), middleware.CurrentUserID(c), dayID, req.IDs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activities, "Activities reordered successfully")
}

// UpdateActivity godoc
// @Summary Update an activity
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param activityId path string true "Activity ID"
// @Param request body request_models.ActivityInput true "Fields to change"
// @Success 200 {object} db_models.Activity
// @Security BearerAuth
// @Router /activities/{activityId} [patch]
func (t *TripController) UpdateActivity(c *gin.Context) {
	activityID, ok := uuidParam(c, "activityId")
	if !ok {
		return
	}

	var in request_models.ActivityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	activity, err := t.tripService.UpdateActivity(c.Request.Context(), middleware.CurrentUserID(c), activityID, in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activity, "Activity updated successfully")
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Tags Itinerary
// @Produce json
// @Param activityId path string true "Activity ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /activities/{activityId} [delete]
func (t *TripController) DeleteActivity(c *gin.Context) {
	activityID, ok := uuidParam(c, "activityId")
	if !ok {
		return
	}

	if err := t.tripService.DeleteActivity(c.Request.Context(), middleware.CurrentUserID(c), activityID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Activity deleted successfully")
}

// MoveActivity godoc
// @Summary Move an activity to another day
// @Description The activity goes to the end of the target day, which must belong to the same trip
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param activityId path string true "Activity ID"
// @Param request body request_models.MoveActivityRequest true "Target day"
// @Success 200 {object} db_models.Activity
// @Security BearerAuth
// @Router /activities/{activityId}/move [post]
func (t *TripController) MoveActivity(c *gin.Context) {
	activityID, ok := uuidParam(c, "activityId")
	if !ok {
		return
	}

	var req request_models.MoveActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	activity, err := t.tripService.MoveActivity(c.Request.Context(), middleware.CurrentUserID(c), activityID, req.TargetDayID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activity, "Activity moved successfully")
}

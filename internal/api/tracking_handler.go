package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriai/meal-planner/internal/progress"
	"nutriai/meal-planner/internal/service"
)

type TrackingHandler struct {
	trackingService service.TrackingService
}

func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

type ToggleMealRequest struct {
	Day       string `json:"day" binding:"required"`
	MealType  string `json:"mealType" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

func (h *TrackingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, progress.ErrInvalidOperation):
		abortWithError(c, http.StatusForbidden, "you can only track meals for the current day")
	case errors.Is(err, service.ErrUnknownMeal):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: Tracking request failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// ToggleMeal godoc
// @Summary Mark a meal of today as done or undone
// @Tags Tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ToggleMealRequest true "Meal to toggle"
// @Success 200 {object} service.TrackingOverview
// @Failure 400 {object} gin.H "Unknown meal"
// @Failure 403 {object} gin.H "Not the current plan day"
// @Failure 404 {object} gin.H "No active plan"
// @Router /tracking [post]
func (h *TrackingHandler) ToggleMeal(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ToggleMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	overview, err := h.trackingService.Toggle(c.Request.Context(), userID, req.Day, req.MealType, *req.Completed)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetTracking godoc
// @Summary Progress of the active plan
// @Description Tracking state, completion counts, streak and today's macros.
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TrackingOverview
// @Failure 404 {object} gin.H "No active plan"
// @Router /tracking [get]
func (h *TrackingHandler) GetTracking(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	overview, err := h.trackingService.Overview(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

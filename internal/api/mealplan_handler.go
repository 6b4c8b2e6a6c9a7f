package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/progress"
	"nutriai/meal-planner/internal/service"
)

// statusClientClosedRequest is nginx's non-standard code for a client that
// went away before the response was written.
const statusClientClosedRequest = 499

type MealPlanHandler struct {
	mealPlanService service.MealPlanService
}

func NewMealPlanHandler(mealPlanService service.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{mealPlanService: mealPlanService}
}

type GenerateMealPlanRequest struct {
	PlanDuration int `json:"planDuration" binding:"required"`
}

// PlanDayResponse is one plan day in calendar order.
type PlanDayResponse struct {
	Day       string   `json:"day"`
	Date      string   `json:"date,omitempty"` // YYYY-MM-DD, UTC
	MealTypes []string `json:"mealTypes"`
}

// MealPlanResponse is a stored plan with its days listed in order.
type MealPlanResponse struct {
	ID           string            `json:"id"`
	Days         []string          `json:"days"`
	Schedule     []PlanDayResponse `json:"schedule"`
	MealPlan     domain.MealPlan   `json:"mealPlan"`
	Period       domain.PlanPeriod `json:"period"`
	DurationDays int               `json:"durationDays"`
	Archived     bool              `json:"archived"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func MapMealPlanToResponse(plan *domain.StoredMealPlan) MealPlanResponse {
	days := plan.Plan.DayKeys()
	schedule := make([]PlanDayResponse, 0, len(days))
	for _, key := range days {
		entry := PlanDayResponse{Day: key, MealTypes: plan.Plan[key].MealTypes()}
		if date, err := progress.DayDate(plan.Period, key); err == nil {
			entry.Date = date.Format(time.DateOnly)
		}
		schedule = append(schedule, entry)
	}
	return MealPlanResponse{
		ID:           plan.ID.Hex(),
		Days:         days,
		Schedule:     schedule,
		MealPlan:     plan.Plan,
		Period:       plan.Period,
		DurationDays: plan.DurationDays,
		Archived:     plan.ArchiveKey != "",
		CreatedAt:    plan.CreatedAt,
	}
}

func (h *MealPlanHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDuration), errors.Is(err, service.ErrProfileRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGenerationTimeout):
		abortWithError(c, http.StatusGatewayTimeout, "Request timed out. Please try again with fewer days or simplified requirements.")
	case errors.Is(err, service.ErrArchiveUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		log.Printf("ERROR: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to generate meal plan. Try again with fewer days or simplified requirements.")
	case errors.Is(err, context.Canceled):
		log.Printf("INFO: Meal plan request abandoned by client: %v", err)
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		log.Printf("ERROR: Meal plan request failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// GenerateMealPlan godoc
// @Summary Generate a meal plan
// @Description Generates a 3, 5 or 7 day plan from the user's profile. The plan starts today (UTC).
// @Tags MealPlan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateMealPlanRequest true "Plan duration in days"
// @Success 201 {object} MealPlanResponse
// @Failure 400 {object} gin.H "Invalid duration or missing profile"
// @Failure 409 {object} gin.H "A plan already exists"
// @Failure 429 {object} gin.H "Too many requests"
// @Failure 504 {object} gin.H "Generation timed out"
// @Router /mealplan/generate [post]
func (h *MealPlanHandler) GenerateMealPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req GenerateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.mealPlanService.Generate(c.Request.Context(), userID, req.PlanDuration)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapMealPlanToResponse(plan))
}

// GetMealPlan godoc
// @Summary Get the active meal plan
// @Tags MealPlan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MealPlanResponse
// @Failure 404 {object} gin.H "No active plan"
// @Router /mealplan [get]
func (h *MealPlanHandler) GetMealPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.mealPlanService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMealPlanToResponse(plan))
}

// QuitMealPlan godoc
// @Summary Quit the active meal plan
// @Description Deletes the plan, its completion history and its archive.
// @Tags MealPlan
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "No active plan"
// @Router /mealplan [delete]
func (h *MealPlanHandler) QuitMealPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.mealPlanService.Quit(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal plan deleted"})
}

// ExportMealPlan godoc
// @Summary Download link for the generated plan
// @Tags MealPlan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "url and expiry"
// @Failure 404 {object} gin.H "No active plan"
// @Failure 503 {object} gin.H "Archive not configured"
// @Router /mealplan/export [get]
func (h *MealPlanHandler) ExportMealPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	url, err := h.mealPlanService.ExportURL(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest is the fitness questionnaire. Body figures are strings as
// entered (cm, kg, years).
type ProfileRequest struct {
	Age                string               `json:"age" binding:"required"`
	Height             string               `json:"height" binding:"required"`
	Weight             string               `json:"weight" binding:"required"`
	Gender             domain.Gender        `json:"gender" binding:"required"`
	FitnessGoal        domain.FitnessGoal   `json:"fitnessGoal" binding:"required"`
	Allergies          string               `json:"allergies"`
	Activities         []string             `json:"activities"`
	ActivityLevel      domain.ActivityLevel `json:"activityLevel" binding:"required"`
	MealsPerDay        string               `json:"mealsPerDay"`
	DietaryPreferences []string             `json:"dietaryPreferences"`
}

func (r ProfileRequest) toInput() service.ProfileInput {
	return service.ProfileInput{
		Age:                r.Age,
		Height:             r.Height,
		Weight:             r.Weight,
		Gender:             r.Gender,
		FitnessGoal:        r.FitnessGoal,
		Allergies:          r.Allergies,
		Activities:         r.Activities,
		ActivityLevel:      r.ActivityLevel,
		MealsPerDay:        r.MealsPerDay,
		DietaryPreferences: r.DietaryPreferences,
	}
}

func (h *ProfileHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProfile):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProfileExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: Profile request failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// CreateProfile godoc
// @Summary Submit the fitness questionnaire
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Questionnaire"
// @Success 201 {object} service.ProfileDetails
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Profile already exists"
// @Router /profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetProfile godoc
// @Summary Get the questionnaire and BMR
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileDetails
// @Failure 404 {object} gin.H "No profile yet"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Replace the questionnaire
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Questionnaire"
// @Success 200 {object} service.ProfileDetails
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "No profile yet"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

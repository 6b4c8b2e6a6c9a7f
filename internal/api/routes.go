package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriai/meal-planner/internal/config"
	"nutriai/meal-planner/internal/service"
)

// Services bundles the use cases served over HTTP.
type Services struct {
	Auth     service.AuthService
	Profile  service.ProfileService
	MealPlan service.MealPlanService
	Tracking service.TrackingService
}

func SetupRoutes(router *gin.Engine, cfg config.Config, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	profileHandler := NewProfileHandler(services.Profile)
	mealPlanHandler := NewMealPlanHandler(services.MealPlan)
	trackingHandler := NewTrackingHandler(services.Tracking)

	router.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth.GetJWTSecret()))
	{
		protected.GET("/me", authHandler.Me)

		profileGroup := protected.Group("/profile")
		{
			profileGroup.POST("", profileHandler.CreateProfile)
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.PUT("", profileHandler.UpdateProfile)
		}

		mealPlanGroup := protected.Group("/mealplan")
		{
			// Generation calls the model; keep it bounded per user.
			mealPlanGroup.POST("/generate", RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst), mealPlanHandler.GenerateMealPlan)
			mealPlanGroup.GET("", mealPlanHandler.GetMealPlan)
			mealPlanGroup.DELETE("", mealPlanHandler.QuitMealPlan)
			mealPlanGroup.GET("/export", mealPlanHandler.ExportMealPlan)
		}

		trackingGroup := protected.Group("/tracking")
		{
			trackingGroup.POST("", trackingHandler.ToggleMeal)
			trackingGroup.GET("", trackingHandler.GetTracking)
		}
	}
}

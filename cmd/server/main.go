package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"nutriai/meal-planner/internal/api"
	"nutriai/meal-planner/internal/config"
	"nutriai/meal-planner/internal/generator"
	"nutriai/meal-planner/internal/repository"
	"nutriai/meal-planner/internal/repository/memory"
	"nutriai/meal-planner/internal/repository/mongo"
	"nutriai/meal-planner/internal/service"
	"nutriai/meal-planner/internal/storage"
)

type repositories struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	plans     repository.MealPlanRepository
	tracking  repository.TrackingRepository
	lifecycle repository.PlanLifecycle
}

// openRepositories connects the configured backend. The returned func
// releases it.
func openRepositories(cfg config.DatabaseConfig) (repositories, func()) {
	if cfg.Driver == "memory" {
		log.Println("WARN: Using in-memory storage, data is lost on restart.")
		store := memory.NewStore()
		return repositories{
			users:     store.Users(),
			profiles:  store.Profiles(),
			plans:     store.MealPlans(),
			tracking:  store.Tracking(),
			lifecycle: store.Lifecycle(),
		}, func() {}
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	appDB := dbClient.Database(cfg.Name)
	log.Println("Database connection established.")

	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	repos := repositories{
		users:     mongo.NewMongoUserRepository(appDB),
		profiles:  mongo.NewMongoProfileRepository(appDB),
		plans:     mongo.NewMongoMealPlanRepository(appDB),
		tracking:  mongo.NewMongoTrackingRepository(appDB),
		lifecycle: mongo.NewMongoPlanLifecycle(appDB),
	}
	return repos, func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}
}

// @title NutriAI Meal Planner API
// @version 1.0
// @description Meal plan generation and daily tracking.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Meal Planner Server...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid config: %v", err)
	}
	log.Println("Configuration loaded.")

	repos, closeRepos := openRepositories(cfg.Database)
	defer closeRepos()

	// --- Plan archive (optional) ---
	var archive storage.FileStorage
	if cfg.S3.Enabled() {
		log.Println("Initializing file storage service...")
		archive, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: No S3 bucket configured, plan archive and export are disabled.")
	}

	// --- Generator ---
	gen, err := generator.New(context.Background(), cfg.Generator)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize meal plan generator: %v", err)
	}
	defer gen.Close()

	log.Println("Initializing services...")
	services := api.Services{
		Auth:     service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration, service.SystemClock),
		Profile:  service.NewProfileService(repos.profiles, service.SystemClock),
		MealPlan: service.NewMealPlanService(repos.plans, repos.profiles, repos.lifecycle, gen, archive, cfg.Generator.Timeout, service.SystemClock),
		Tracking: service.NewTrackingService(repos.plans, repos.tracking, service.SystemClock),
	}

	router := gin.Default()
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg, services)

	// Generation requests may run for the whole generator timeout.
	writeTimeout := cfg.Generator.Timeout + 10*time.Second
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

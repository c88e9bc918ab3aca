package main

import (
	"log"
	"net/http"
	"os"

	_ "smartmess/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"smartmess/internal/auth"
	"smartmess/internal/cache"
	"smartmess/internal/config"
	"smartmess/internal/db"
	"smartmess/internal/handler"
	"smartmess/internal/model"
	"smartmess/internal/repository"
	"smartmess/internal/router"
	"smartmess/internal/service"
)

// @title Smart Mess API
// @version 1.0
// @description Mess management API with weekly menu voting, meal bookings, QR check-in, waste ratings, and gamified points.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Booking{},
			&model.Vote{},
			&model.MealOption{},
			&model.WeeklyMenu{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.WeeklyMenu{},
		&model.MealOption{},
		&model.Vote{},
		&model.Booking{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)
	voteRepo := repository.NewVoteRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	menuService := service.NewMenuService(menuRepo, voteRepo, userRepo)
	bookingService := service.NewBookingService(bookingRepo, userRepo)
	checkinService := service.NewCheckinService(bookingRepo, userRepo)
	nutritionService := service.NewNutritionService(nil, cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.MealImageBaseURL)
	analyticsService := service.NewAnalyticsService(userRepo, bookingRepo, voteRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	menuHandler := handler.NewMenuHandler(menuService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	checkinHandler := handler.NewCheckinHandler(checkinService)
	nutritionHandler := handler.NewNutritionHandler(nutritionService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		menuHandler,
		bookingHandler,
		checkinHandler,
		nutritionHandler,
		analyticsHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

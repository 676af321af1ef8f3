// backend/cmd/server/main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/api/handlers"
	"github.com/frontdeskhq/frontdesk/backend/internal/config"
	"github.com/frontdeskhq/frontdesk/backend/internal/database"
	"github.com/frontdeskhq/frontdesk/backend/internal/health"
	"github.com/frontdeskhq/frontdesk/backend/internal/matching"
	"github.com/frontdeskhq/frontdesk/backend/internal/middleware"
	"github.com/frontdeskhq/frontdesk/backend/internal/repository"
	"github.com/frontdeskhq/frontdesk/backend/internal/services"
	"github.com/frontdeskhq/frontdesk/backend/internal/token"
	"github.com/frontdeskhq/frontdesk/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting FrontDesk backend...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize database and cache
	dbConfig := &database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	dbManager, err := database.NewManager(dbConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	cache := database.NewCache(dbManager.Redis, logger)
	repoManager := repository.NewRepositoryManager(dbManager.DB)

	// Core services
	engine := matching.NewEngine(matching.NewKeywordOverlapFilter())
	kbService := services.NewKBService(repoManager.KnowledgeBase, cache, logger)
	helpdeskService := services.NewHelpDeskService(repoManager.HelpRequest, kbService, engine, cfg.KB.TopK, logger)

	issuer := token.NewIssuer(cfg.Livekit.APIKey, cfg.Livekit.APISecret)

	// Health checks
	checker := health.NewHealthChecker(dbManager, cache, logger)
	healthCtx, cancelHealth := context.WithCancel(context.Background())
	defer cancelHealth()
	go checker.PeriodicHealthCheck(healthCtx, 30*time.Second)

	// Handlers
	helpdeskHandler := handlers.NewHelpDeskHandler(helpdeskService, cfg, logger)
	kbHandler := handlers.NewKBHandler(kbService, logger)
	systemHandler := handlers.NewSystemHandler(issuer, cfg.Livekit.URL, checker, logger)

	// Router
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(120)
	router.Use(rateLimiter.RateLimit())

	router.POST("/help-requests", helpdeskHandler.HandleCreate)
	router.GET("/help-requests", helpdeskHandler.HandleList)
	router.POST("/help-requests/:id/respond", helpdeskHandler.HandleRespond)
	router.POST("/help-requests/:id/follow-up", helpdeskHandler.HandleFollowUp)

	router.GET("/kb/search", kbHandler.HandleSearch)
	router.GET("/learned-answers", kbHandler.HandleList)
	router.POST("/learned-answers", kbHandler.HandleCreate)

	router.POST("/token", systemHandler.HandleToken)
	router.GET("/health", systemHandler.HandleHealth)

	logger.WithField("port", cfg.Server.Port).Info("FrontDesk backend listening")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server terminated")
	}
}

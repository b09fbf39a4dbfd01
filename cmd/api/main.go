package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/adapter"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/metrics"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/recommendation"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/repository"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/utils"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/worker"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "trendmatrix"

func main() {
	// A missing .env file is fine, the environment may already be populated
	_ = godotenv.Load()

	// Load configuration from an optional YAML file, overlaid by environment variables
	cfg, err := config.LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with validation and defaults
	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	appLogger.Info("Starting TrendMatrix recommendation service")

	// Initialize the recommendation engine; the index is built lazily on first use
	engineOpts, err := recommendation.OptionsFromConfig(&cfg.Catalog)
	if err != nil {
		appLogger.Fatal("Invalid catalog configuration: " + err.Error())
	}
	catalogPath := recommendation.CatalogPath(&cfg.Catalog)
	engine := recommendation.NewContentBasedEngine(recommendation.FileCatalog(catalogPath), engineOpts, appLogger)
	appLogger.Info("Recommendation engine configured with catalog " + catalogPath)

	go func() {
		if err := engine.Ready(); err != nil {
			appLogger.Error("Catalog unavailable, serving degraded responses: " + err.Error())
		}
	}()

	// Open the persistence backend for users and interactions
	stores, err := repository.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open store: " + err.Error())
	}

	// Initialize business services with dependency injection
	var (
		history            recommendation.HistoryProvider
		userHandler        *user.Handler
		interactionHandler *interaction.Handler
		historyPruner      *worker.ScheduledWorker
	)
	if stores.Enabled() {
		userService, err := user.NewService(&cfg.JWT, stores.Users, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize user service: " + err.Error())
		}
		interactionService := interaction.NewService(stores.Interactions, adapter.NewEngineItemChecker(engine), appLogger)
		history = adapter.NewInteractionHistory(interactionService, 0)

		userHandler = user.NewHandler(userService)
		interactionHandler = interaction.NewHandler(interactionService)

		// Initialize background worker for history retention
		historyPruner, err = worker.NewHistoryPruner(&cfg.Worker, interactionService, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize history pruner: " + err.Error())
		}
		if err := historyPruner.Start(); err != nil {
			appLogger.Error("Failed to start history pruner: " + err.Error())
		}
	}

	recommendationService := recommendation.NewService(engine, history, appLogger)
	recommendationHandler := recommendation.NewHandler(recommendationService)

	serverEnvironment := cfg.Server.Environment
	if serverEnvironment == "" {
		serverEnvironment = "development" // default
	}
	if serverEnvironment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup HTTP router with middleware
	router := gin.New()

	// Configure standard middleware stack
	router.Use(requestid.New())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(metrics.GinMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	router.GET("/health/detailed", func(c *gin.Context) {
		status := "healthy"
		catalogStatus := "ready"
		if err := engine.Ready(); err != nil {
			status = "degraded"
			catalogStatus = err.Error()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":         status,
			"timestamp":      time.Now(),
			"service":        serviceName,
			"engine":         engine.Name(),
			"catalog":        catalogStatus,
			"catalog_items":  engine.Size(),
			"store":          stores.Driver,
			"history_pruner": historyPruner != nil && historyPruner.IsRunning(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtSecret := user.JWTSecret(&cfg.JWT)
	authMiddleware := utils.AuthMiddleware(jwtSecret)
	optionalAuth := utils.OptionalAuthMiddleware(jwtSecret)

	// API v1 routes
	registerAPIRoutes(router.Group("/api/v1"), apiHandlers{
		recommendations: recommendationHandler,
		users:           userHandler,
		interactions:    interactionHandler,
	}, authMiddleware, optionalAuth)

	// Parse server configuration with defaults
	serverPort := cfg.Server.Port
	if serverPort == "" {
		serverPort = "8080" // default
	}

	serverReadTimeout := 30 * time.Second // default
	if cfg.Server.ReadTimeout != "" {
		if duration, err := time.ParseDuration(cfg.Server.ReadTimeout); err == nil {
			serverReadTimeout = duration
		}
	}

	serverWriteTimeout := 30 * time.Second // default
	if cfg.Server.WriteTimeout != "" {
		if duration, err := time.ParseDuration(cfg.Server.WriteTimeout); err == nil {
			serverWriteTimeout = duration
		}
	}

	// Start HTTP server
	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
	}

	// Start server in goroutine for graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server: " + err.Error())
		}
	}()

	appLogger.Info("Server started successfully on port " + serverPort + " (" + serverEnvironment + " environment, store " + stores.Driver + ")")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Stop background worker first
	if historyPruner != nil {
		if err := historyPruner.Stop(); err != nil {
			appLogger.Error("Error stopping history pruner: " + err.Error())
		}
	}

	// Shutdown server with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown: " + err.Error())
	}

	if err := stores.Close(); err != nil {
		appLogger.Error("Error closing store: " + err.Error())
	}

	appLogger.Info("Server shutdown complete")
}

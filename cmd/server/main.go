package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accapp "github.com/becreativeqatar/bceportal/internal/application/accreditation"
	importapp "github.com/becreativeqatar/bceportal/internal/application/import"
	"github.com/becreativeqatar/bceportal/internal/infrastructure/config"
	"github.com/becreativeqatar/bceportal/internal/infrastructure/event"
	csvimport "github.com/becreativeqatar/bceportal/internal/infrastructure/import"
	"github.com/becreativeqatar/bceportal/internal/infrastructure/logger"
	"github.com/becreativeqatar/bceportal/internal/infrastructure/persistence"
	"github.com/becreativeqatar/bceportal/internal/interfaces/http/handler"
	"github.com/becreativeqatar/bceportal/internal/interfaces/http/middleware"
	"github.com/becreativeqatar/bceportal/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			BCE Accreditation Portal API
//	@version		1.0
//	@description	Event accreditation portal: project-scoped badge issuance, approval workflow, CSV bulk import and QR gate verification.

//	@contact.name	API Support
//	@contact.email	support@becreativeqatar.com

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BCE Accreditation Portal",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	recordRepo := persistence.NewGormAccreditationRecordRepository(db.DB)
	scanLogRepo := persistence.NewGormScanLogRepository(db.DB)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Lifecycle transitions -> audit log
	recordLifecycleHandler := accapp.NewRecordLifecycleHandler(log)
	eventBus.Subscribe(recordLifecycleHandler)

	// Gate scans -> audit log
	scanRecordedHandler := accapp.NewScanRecordedHandler(log)
	eventBus.Subscribe(scanRecordedHandler)

	log.Info("Event handlers registered",
		zap.Strings("record_lifecycle_events", recordLifecycleHandler.EventTypes()),
		zap.Strings("scan_recorded_events", scanRecordedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	projectService := accapp.NewProjectService(projectRepo)
	projectService.SetEventPublisher(eventBus)

	recordService := accapp.NewRecordService(recordRepo, projectRepo)
	recordService.SetEventPublisher(eventBus)

	scanService := accapp.NewScanService(recordRepo, projectRepo, scanLogRepo,
		accapp.WithMaxTokenLength(cfg.Scan.MaxTokenLength),
	)
	scanService.SetEventPublisher(eventBus)

	// Import sessions are held in memory and expire after an hour;
	// commits re-validate rows so a lost session is never fatal.
	sessionStore := csvimport.NewInMemorySessionStore(time.Hour)
	defer sessionStore.Stop()

	importService := importapp.NewAccreditationImportService(
		recordRepo, projectRepo, sessionStore, eventBus,
		importapp.WithImportLimits(cfg.Import.MaxFileSize, cfg.Import.MaxRows),
	)

	// Initialize HTTP handlers
	projectHandler := handler.NewProjectHandler(projectService)
	recordHandler := handler.NewRecordHandler(recordService, scanService)
	scanHandler := handler.NewScanHandler(scanService)
	importHandler := handler.NewAccreditationImportHandler(importService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Project routes
	projectRoutes := router.NewDomainGroup("projects", "/projects")
	projectRoutes.POST("", projectHandler.Create)
	projectRoutes.GET("", projectHandler.List)
	projectRoutes.GET("/code/:code", projectHandler.GetByCode)
	projectRoutes.GET("/:id", projectHandler.GetByID)
	projectRoutes.PUT("/:id", projectHandler.Update)
	projectRoutes.POST("/:id/activate", projectHandler.Activate)
	projectRoutes.POST("/:id/deactivate", projectHandler.Deactivate)
	projectRoutes.GET("/:id/scans", scanHandler.ListByProject)

	// Accreditation record routes
	recordRoutes := router.NewDomainGroup("records", "/records")
	recordRoutes.POST("", recordHandler.Create)
	recordRoutes.GET("", recordHandler.List)
	recordRoutes.GET("/stats/count", recordHandler.CountByStatus)
	recordRoutes.GET("/number/:number", recordHandler.GetByNumber)
	recordRoutes.GET("/:id", recordHandler.GetByID)
	recordRoutes.PUT("/:id", recordHandler.Update)
	recordRoutes.DELETE("/:id", recordHandler.Delete)
	recordRoutes.POST("/:id/submit", recordHandler.Submit)
	recordRoutes.POST("/:id/approve", recordHandler.Approve)
	recordRoutes.POST("/:id/reject", recordHandler.Reject)
	recordRoutes.POST("/:id/revoke", recordHandler.Revoke)
	recordRoutes.PUT("/:id/grants", recordHandler.SetGrant)
	recordRoutes.GET("/:id/scans", recordHandler.ListScans)

	// Scan verification routes. Gate devices call these directly, so
	// they stay open but get a tighter rate bucket than the rest of the API.
	scanLimiter := middleware.NewRateLimiter(cfg.Scan.RateLimitRequests, cfg.Scan.RateLimitWindow)
	scanRoutes := router.NewDomainGroup("scans", "/scans")
	scanRoutes.Use(middleware.RateLimit(scanLimiter))
	scanRoutes.POST("/verify", scanHandler.Verify)
	scanRoutes.GET("/verify/:token", scanHandler.VerifyToken)

	r.Register(projectRoutes).
		Register(recordRoutes).
		Register(scanRoutes).
		Register(importHandler)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

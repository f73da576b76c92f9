package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/viaplan/viaplan-api/docs" // Swagger docs
	"github.com/viaplan/viaplan-api/internal/cache"
	"github.com/viaplan/viaplan-api/internal/config"
	"github.com/viaplan/viaplan-api/internal/database"
	"github.com/viaplan/viaplan-api/internal/geo"
	"github.com/viaplan/viaplan-api/internal/handlers"
	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/middleware"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
	"github.com/viaplan/viaplan-api/internal/storage"
	"github.com/viaplan/viaplan-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Viaplan API
// @version 1.0
// @description REST API for the Viaplan engineering contract management system

// @contact.name API Support
// @contact.email suporte@viaplan.app

// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY not set. Editor invites and account emails will only be logged.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (login throttling)
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to redis", "addr", cfg.RedisAddr)

	// Initialize storage
	var store storage.Storage
	if cfg.MinioEnabled() {
		store, err = storage.NewMinioStorage(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize minio storage", "error", err)
			os.Exit(1)
		}
		logger.Info("Initialized minio storage", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
	} else {
		store, err = storage.NewLocalStorage(cfg.StoragePath)
		if err != nil {
			logger.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		logger.Info("Initialized local storage", "path", cfg.StoragePath)
	}

	// External geometry service client
	geoClient := geo.NewClient(cfg.GeometryServiceURL, time.Duration(cfg.GeometryTimeoutSeconds)*time.Second)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, rdb, geoClient, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store, db, worker, cfg.PublicBaseURL)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Metrics())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stored file serving (upload URLs point here)
	router.GET("/files/*path", h.Upload.Serve)

	api := router.Group("/api")
	{
		// Health check (public)
		api.GET("/health", h.Health.Check)

		// Authentication (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.GET("/auth/session", h.Auth.Session)

			// User management (admin only)
			users := protected.Group("/users", middleware.RequireAdmin())
			{
				users.GET("", h.User.Index)
				users.POST("", h.User.Create)
			}

			// Fichas
			protected.GET("/fichas", h.Ficha.Index)
			protected.POST("/fichas", h.Ficha.Create)
			protected.GET("/fichas/export", h.Ficha.Export)
			protected.GET("/fichas/:id", h.Ficha.Show)
			protected.PUT("/fichas/:id", h.Ficha.Update)
			protected.DELETE("/fichas/:id", h.Ficha.Delete)

			// Empresas
			protected.GET("/empresas", h.Empresa.Index)
			protected.POST("/empresas", h.Empresa.Create)
			protected.GET("/empresas/:id", h.Empresa.Show)
			protected.PUT("/empresas/:id", h.Empresa.Update)
			protected.DELETE("/empresas/:id", h.Empresa.Delete)

			// Contracts
			protected.GET("/contracts", h.Contract.Index)
			protected.POST("/contracts", h.Contract.Create)
			contracts := protected.Group("/contracts/:id")
			{
				contracts.GET("", h.Contract.Show)
				contracts.PUT("", h.Contract.Update)
				contracts.DELETE("", h.Contract.Delete)
				contracts.PUT("/status", h.Contract.UpdateStatus)
				contracts.PUT("/participants", h.Contract.SetParticipants)
				contracts.PUT("/participations", h.Contract.SetParticipations)
				contracts.GET("/editors", h.Contract.ListEditors)
				contracts.POST("/editors", h.Contract.AddEditor)
				contracts.DELETE("/editors/:editor_id", h.Contract.RemoveEditor)
				contracts.GET("/audit", h.Contract.Audit)
				contracts.GET("/lamina", h.Contract.Lamina)

				contracts.GET("/obras", h.Obra.Index)
				contracts.POST("/obras", h.Obra.Create)
				contracts.GET("/non-conformities", h.Obra.ListContractNonConformities)
				contracts.GET("/lessons", h.Lesson.Index)
				contracts.POST("/lessons", h.Lesson.Create)
				contracts.GET("/software", h.Software.Index)
				contracts.POST("/software", h.Software.Create)
				contracts.GET("/products/folders", h.Product.ListFolders)
				contracts.POST("/products/folders", h.Product.CreateFolder)
			}

			// Obras
			obras := protected.Group("/obras/:id")
			{
				obras.PUT("", h.Obra.Update)
				obras.DELETE("", h.Obra.Delete)
				obras.GET("/non-conformities", h.Obra.ListNonConformities)
				obras.POST("/non-conformities", h.Obra.CreateNonConformity)
				obras.GET("/km-location", h.Obra.KMLocation)
				obras.GET("/coordinates-from-km", h.Obra.CoordinatesFromKM)
			}

			// Non-conformities
			ncs := protected.Group("/non-conformities/:id")
			{
				ncs.PUT("", h.Obra.UpdateNonConformity)
				ncs.DELETE("", h.Obra.DeleteNonConformity)
				ncs.PUT("/status", h.Obra.UpdateNonConformityStatus)
				ncs.POST("/photos", h.Obra.AddNonConformityPhoto)
				ncs.DELETE("/photos/:photo_id", h.Obra.DeleteNonConformityPhoto)
			}

			// Lessons
			protected.PUT("/lessons/:id", h.Lesson.Update)
			protected.DELETE("/lessons/:id", h.Lesson.Delete)

			// Software inventory and comments
			protected.PUT("/software/:id", h.Software.Update)
			protected.DELETE("/software/:id", h.Software.Delete)
			protected.GET("/software/:id/comments", h.Software.ListComments)
			protected.POST("/software/:id/comments", h.Software.AddComment)
			protected.DELETE("/comments/:id", h.Software.DeleteComment)

			// Products (document tree)
			protected.PUT("/products/folders/:id", h.Product.UpdateFolder)
			protected.DELETE("/products/folders/:id", h.Product.DeleteFolder)
			protected.POST("/products/folders/:id/files", h.Product.CreateFile)
			protected.PUT("/products/files/:id", h.Product.UpdateFile)
			protected.DELETE("/products/files/:id", h.Product.DeleteFile)

			// Uploads
			protected.POST("/upload/ficha-photo", h.Upload.FichaPhoto)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories, cfg *config.Config) {
	// Purge expired refresh tokens daily, starting right away so a
	// redeploy does not leave a day of stale tokens around
	worker.ScheduleEveryImmediate(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Purging expired refresh tokens...")
		n, err := repos.RefreshToken.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Expired refresh tokens purged", "count", n)
		return nil
	})

	// Trim old audit entries daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Trimming audit log...")
		n, err := svcs.Audit.TrimOlderThan(ctx, cfg.AuditRetentionDays)
		if err != nil {
			return err
		}
		logger.Info("[Job] Audit entries removed", "count", n)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}

// @title Lead Management API
// @version 1.0
// @description Lead tracking and dashboard analytics backend
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@example.com
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/config"
	_ "github.com/campaignwalatech-netizen/telewaveServices-sub002/docs"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/cache"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/database"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/handlers"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/metrics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/middleware"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/repository"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	mongodb, err := database.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase)
	if err != nil {
		log.WithError(err).Error("Failed to connect to MongoDB")
		return
	}
	defer mongodb.Disconnect()

	idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := mongodb.EnsureIndexes(idxCtx); err != nil {
		log.WithError(err).Warn("Failed to ensure indexes")
	}
	cancel()

	// Redis is optional; without it analytics are computed on every request.
	var resultCache services.ResultCache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, analytics cache disabled")
		} else {
			defer rc.Close()
			resultCache = rc
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongodb.Database)
	leadRepo := repository.NewLeadRepository(mongodb.Database)
	analyticsRepo := repository.NewAnalyticsRepository(mongodb.Database)

	// Initialize services
	analyticsService := services.NewAnalyticsService(analyticsRepo, leadRepo, userRepo, resultCache, cfg.AnalyticsCacheTTL, log)
	leadService := services.NewLeadService(leadRepo, userRepo, analyticsService, log)
	userService := services.NewUserService(userRepo, log)

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if created, err := userService.SeedAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		log.WithError(err).Error("Failed to seed admin account")
	} else if created {
		log.WithField("email", cfg.AdminEmail).Info("Seeded admin account")
	}
	cancel()

	if cfg.CacheWarmInterval > 0 && resultCache != nil {
		services.StartCacheWarmWorker(ctx, cfg.CacheWarmInterval, analyticsService, log)
	}

	// Initialize handlers
	if err := handlers.RegisterValidators(); err != nil {
		log.WithError(err).Error("Failed to register request validators")
		return
	}
	authHandler := handlers.NewAuthHandler(cfg, userRepo, log)
	leadHandler := handlers.NewLeadHandler(leadService, log)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// Initialize Gin
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg))

	// Public routes
	public := r.Group("/api")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":   "ok",
				"message":  "Lead Management API is running",
				"database": "MongoDB connected",
				"cache":    resultCache != nil,
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(authMiddleware.Authenticate())
	{
		// Auth protected routes
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.GetMe)

		// Lead routes
		leads := protected.Group("/leads")
		{
			leads.GET("", leadHandler.ListLeads)
			leads.POST("", leadHandler.CreateLead)
			leads.GET("/analytics", analyticsHandler.GetAnalytics)
			leads.GET("/analytics/charts", analyticsHandler.GetCharts)
			leads.GET("/:id", leadHandler.GetLead)
			leads.PATCH("/:id/status", leadHandler.UpdateStatus)
			leads.PATCH("/:id/assign", authMiddleware.RequireRole(models.RoleAdmin, models.RoleTeamLeader), leadHandler.AssignLead)
		}

		// User administration
		users := protected.Group("/users")
		{
			users.GET("", authMiddleware.RequireRole(models.RoleAdmin, models.RoleTeamLeader), userHandler.ListUsers)
			users.PATCH("/:id/approve", authMiddleware.RequireRole(models.RoleAdmin), userHandler.ApproveUser)
			users.PATCH("/:id/reject", authMiddleware.RequireRole(models.RoleAdmin), userHandler.RejectUser)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logger.Fields{"port": cfg.Port, "database": cfg.MongoDBDatabase}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

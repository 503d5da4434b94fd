package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/proffyhq/proffy-api/api/swagger"
	"github.com/proffyhq/proffy-api/internal/handler"
	"github.com/proffyhq/proffy-api/internal/middleware"
	"github.com/proffyhq/proffy-api/internal/repository"
	"github.com/proffyhq/proffy-api/internal/service"
	"github.com/proffyhq/proffy-api/pkg/cache"
	"github.com/proffyhq/proffy-api/pkg/config"
	"github.com/proffyhq/proffy-api/pkg/database"
	"github.com/proffyhq/proffy-api/pkg/logger"
	corsmiddleware "github.com/proffyhq/proffy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/proffyhq/proffy-api/pkg/middleware/requestid"
)

// @title Proffy API
// @version 1.0.0
// @description Tutoring marketplace listing service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Listing.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, listing cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Listing.CacheTTL, logr, cfg.Listing.CacheEnabled)

	validate := validator.New()

	classRepo := repository.NewClassRepository(db)
	userRepo := repository.NewUserRepository(db)

	classSvc := service.NewClassService(classRepo, cacheSvc, metricsSvc, validate, logr, cfg.Listing.PageSize)
	sessionSvc := service.NewSessionService(userRepo, validate, logr, service.SessionConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	classHandler := handler.NewClassHandler(classSvc, cfg.HostURL, cfg.APIPrefix)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/sessions", sessionHandler.Login)
	api.POST("/classes", classHandler.Create)

	authed := api.Group("")
	authed.Use(middleware.JWT(sessionSvc))
	authed.GET("/classes", classHandler.List)
	authed.GET("/classes/:id", classHandler.Get)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

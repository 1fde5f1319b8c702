package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cft-platform/planner-api/api/swagger"
	"github.com/cft-platform/planner-api/internal/handler"
	"github.com/cft-platform/planner-api/internal/middleware"
	"github.com/cft-platform/planner-api/internal/repository"
	"github.com/cft-platform/planner-api/internal/service"
	"github.com/cft-platform/planner-api/pkg/cache"
	"github.com/cft-platform/planner-api/pkg/config"
	"github.com/cft-platform/planner-api/pkg/database"
	"github.com/cft-platform/planner-api/pkg/logger"
	corsmiddleware "github.com/cft-platform/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cft-platform/planner-api/pkg/middleware/requestid"
)

// @title Training Center Planner API
// @version 1.0.0
// @description Weekly resource scheduler with draft/confirm workflow
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

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	validate := validator.New()

	draftRepo := repository.NewDraftRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	confirmationRepo := repository.NewConfirmationRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	establishmentRepo := repository.NewEstablishmentRepository(db)

	checker := service.NewConflictChecker(draftRepo, scheduleRepo)
	resolver := service.NewAssignmentResolver(trainerRepo, trackRepo, establishmentRepo)

	draftSvc := service.NewDraftService(draftRepo, resolver, checker, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, resolver, checker, cacheSvc, validate, logr)
	historySvc := service.NewHistoryService(historyRepo, logr)
	confirmationSvc := service.NewConfirmationService(draftRepo, scheduleRepo, confirmationRepo, historyRepo, checker, trainerRepo, trackRepo, cacheSvc, logr)
	trainerSvc := service.NewTrainerService(trainerRepo, validate, logr)
	trackSvc := service.NewTrackService(trackRepo, validate, logr)
	establishmentSvc := service.NewEstablishmentService(establishmentRepo, validate, logr)

	draftHandler := handler.NewDraftHandler(draftSvc, confirmationSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, historySvc)
	trainerHandler := handler.NewTrainerHandler(trainerSvc)
	trackHandler := handler.NewTrackHandler(trackSvc)
	establishmentHandler := handler.NewEstablishmentHandler(establishmentSvc)
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
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		drafts := api.Group("/drafts")
		{
			drafts.GET("", draftHandler.List)
			drafts.POST("", draftHandler.Create)
			drafts.POST("/confirm-all", draftHandler.ConfirmAll)
			drafts.GET("/:id", draftHandler.Get)
			drafts.PUT("/:id", draftHandler.Update)
			drafts.DELETE("/:id", draftHandler.Delete)
			drafts.POST("/:id/confirm", draftHandler.Confirm)
		}

		schedules := api.Group("/schedules")
		{
			schedules.GET("", scheduleHandler.List)
			schedules.POST("", scheduleHandler.Create)
			schedules.GET("/history", scheduleHandler.History)
			schedules.GET("/availability", scheduleHandler.Availability)
			schedules.GET("/:id", scheduleHandler.Get)
			schedules.PUT("/:id", scheduleHandler.Update)
			schedules.DELETE("/:id", scheduleHandler.Delete)
		}

		trainers := api.Group("/trainers")
		{
			trainers.GET("", trainerHandler.List)
			trainers.POST("", trainerHandler.Create)
			trainers.GET("/:id", trainerHandler.Get)
			trainers.PUT("/:id", trainerHandler.Update)
			trainers.DELETE("/:id", trainerHandler.Delete)
		}

		tracks := api.Group("/tracks")
		{
			tracks.GET("", trackHandler.List)
			tracks.POST("", trackHandler.Create)
			tracks.GET("/:id", trackHandler.Get)
			tracks.PUT("/:id", trackHandler.Update)
			tracks.DELETE("/:id", trackHandler.Delete)
		}

		establishments := api.Group("/establishments")
		{
			establishments.GET("", establishmentHandler.List)
			establishments.POST("", establishmentHandler.Create)
			establishments.GET("/:id", establishmentHandler.Get)
			establishments.PUT("/:id", establishmentHandler.Update)
			establishments.DELETE("/:id", establishmentHandler.Delete)
		}
	}

	if cfg.Rollover.Enabled {
		rolloverSvc := service.NewRolloverService(scheduleRepo, historyRepo, trainerRepo, establishmentRepo, cacheSvc, logr)
		queue := rolloverSvc.Queue(cfg.Rollover.Workers, logr)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		queue.Start(ctx)
		defer queue.Stop()
		rolloverSvc.Schedule(ctx, queue, cfg.Rollover.Interval)
		logr.Sugar().Infow("rollover worker enabled", "interval", cfg.Rollover.Interval)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

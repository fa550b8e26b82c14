package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	internalhandler "github.com/eduplan/adaptive-scheduler/internal/handler"
	internalmiddleware "github.com/eduplan/adaptive-scheduler/internal/middleware"
	"github.com/eduplan/adaptive-scheduler/internal/metrics"
	"github.com/eduplan/adaptive-scheduler/internal/scheduler"
	"github.com/eduplan/adaptive-scheduler/pkg/cache"
	"github.com/eduplan/adaptive-scheduler/pkg/config"
	"github.com/eduplan/adaptive-scheduler/pkg/database"
	"github.com/eduplan/adaptive-scheduler/pkg/logger"
	corsmiddleware "github.com/eduplan/adaptive-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/eduplan/adaptive-scheduler/pkg/middleware/requestid"
)

// @title Adaptive Scheduler API
// @version 1.0.0
// @description Weekly academic timetable generation backed by an adaptive
// @description constraint-guided genetic algorithm.
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := metrics.New()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.POST("/healthcheck", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Scheduler.Enabled {
		var cacheClient scheduler.IdempotencyCache
		if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("idempotency cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheClient = scheduler.NewRedisIdempotencyCache(redisClient)
		}

		var history *scheduler.HistoryRepository
		if cfg.Scheduler.HistoryEnabled {
			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				logr.Sugar().Fatalw("failed to initialise database", "error", err)
			}
			defer db.Close()
			history = scheduler.NewHistoryRepository(db)
		}

		dispatcher := scheduler.NewDispatcher(maxInt(1, cfg.Scheduler.MaxRestarts+1), logr)
		dispatchCtx, cancel := context.WithCancel(context.Background())
		dispatcher.Start(dispatchCtx)
		defer func() {
			cancel()
			dispatcher.Stop()
		}()

		schedulerHandler := internalhandler.NewSchedulerHandler(logr, metricsSvc, dispatcher, cacheClient, history, internalhandler.SchedulerHandlerConfig{
			MaxGenerations:  cfg.Scheduler.MaxGenerations,
			DefaultDeadline: cfg.Scheduler.DefaultDeadline,
			MaxDeadline:     cfg.Scheduler.MaxDeadline,
			MaxRestarts:     cfg.Scheduler.MaxRestarts,
			RandomSeed:      cfg.Scheduler.RandomSeed,
			IdempotencyTTL:  cfg.Scheduler.IdempotencyTTL,
		})

		api := r.Group(cfg.APIPrefix)
		schedulerGroup := api.Group("/scheduler")
		schedulerGroup.POST("", schedulerHandler.Generate)
		schedulerGroup.POST("/evaluate", schedulerHandler.Evaluate)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

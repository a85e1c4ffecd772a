package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepwise/interview-service/internal/cache"
	"github.com/prepwise/interview-service/internal/config"
	"github.com/prepwise/interview-service/internal/handlers"
	"github.com/prepwise/interview-service/internal/intelligence"
	"github.com/prepwise/interview-service/internal/questionbank"
	"github.com/prepwise/interview-service/internal/services"
	"github.com/prepwise/interview-service/internal/store"
	"github.com/prepwise/interview-service/internal/utils"
	"github.com/prepwise/interview-service/internal/validator"
	"github.com/prepwise/interview-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	var cacheService cache.CacheService = cache.NoopCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, results caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
		defer redisClient.Close()
	}

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	sessionStore := store.NewSessionStore(cfg.SessionTTL, cfg.SweepInterval, slogger)
	defer sessionStore.Close()

	client := intelligence.NewClient(cfg.IntelligenceURL, cfg.IntelligenceTimeout, slogger)

	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Store:           sessionStore,
		Generator:       client,
		Evaluator:       client,
		FallbackBank:    questionbank.NewDefaultBank(),
		Cache:           cacheService,
		ResultsCacheTTL: cfg.ResultsCacheTTL,
		Publisher:       publisher,
		Logger:          slogger,
		Validator:       validator.New(),
	})
	defer serviceManager.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Interview service listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}

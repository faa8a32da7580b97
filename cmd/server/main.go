package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/randomplay/gameroulette/configs"
	"github.com/randomplay/gameroulette/internal/application/services"
	"github.com/randomplay/gameroulette/internal/core/ports"
	"github.com/randomplay/gameroulette/internal/infrastructure/fallback"
	"github.com/randomplay/gameroulette/internal/infrastructure/health"
	"github.com/randomplay/gameroulette/internal/infrastructure/httpserver"
	"github.com/randomplay/gameroulette/internal/infrastructure/memcache"
	"github.com/randomplay/gameroulette/internal/infrastructure/rawg"
	"github.com/randomplay/gameroulette/internal/infrastructure/redis"
	"github.com/randomplay/gameroulette/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format != "text" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting game roulette service...")

	// Embedded dataset; a decode failure means a broken build
	dataset, err := fallback.NewDataset()
	if err != nil {
		logger.Fatal("Failed to load fallback dataset:", err)
	}
	logger.Infof("Loaded fallback dataset with %d games", dataset.Len())

	// Process cache tier
	processCache, err := memcache.NewStore(cfg.Cache.ProcessCapacity)
	if err != nil {
		logger.Fatal("Failed to initialize process cache:", err)
	}

	// Distributed tier and rate-limit storage are Redis-backed when an
	// address is configured, in-process otherwise
	var distributedCache ports.Cache
	var rateLimitRepo ports.RateLimitRepository = repositories.NewRateLimitMemoryRepository()
	healthCheckers := []ports.HealthChecker{health.NewFallbackHealthChecker(dataset)}

	if cfg.Redis.Addr != "" {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unreachable; continuing with process cache only")
		} else {
			defer redisClient.Close()
			distributedCache = redis.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
			rateLimitRepo = repositories.NewRateLimitRedisRepository(redisClient)
			healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
			logger.Info("Connected to Redis successfully")
		}
	}

	// Catalog client
	catalogClient := rawg.NewClient(&rawg.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerMinute: cfg.Catalog.RequestsPerMinute,
		PageSize:          cfg.Catalog.PageSize,
	}, logger)
	if cfg.Catalog.APIKey == "" {
		logger.Warn("No catalog API key configured; all responses will come from the fallback dataset")
	}

	// Wire services
	candidateService := services.NewCandidateService(catalogClient, dataset, processCache, distributedCache, &services.CandidateConfig{
		TTL:            cfg.Cache.TTL,
		DistributedTTL: cfg.Cache.DistributedTTL,
		MinLiveResults: cfg.Catalog.MinLiveResults,
	}, logger)
	resolverService := services.NewResolverService(candidateService, catalogClient, logger)

	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &services.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		BurstMultiplier:   cfg.RateLimit.BurstMultiplier,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}, logger)

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	deps := httpserver.ServerDeps{
		ResolverService:    resolverService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     healthCheckers,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/api"
	"github.com/stitts-dev/sports-query-engine/internal/api/handlers"
	"github.com/stitts-dev/sports-query-engine/internal/api/middleware"
	"github.com/stitts-dev/sports-query-engine/internal/engine"
	"github.com/stitts-dev/sports-query-engine/internal/fetcher"
	"github.com/stitts-dev/sports-query-engine/internal/providers"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/resolver"
	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/internal/store"
	"github.com/stitts-dev/sports-query-engine/pkg/config"
	"github.com/stitts-dev/sports-query-engine/pkg/database"
	"github.com/stitts-dev/sports-query-engine/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithService("sports-query-engine")
	log.WithFields(logrus.Fields{
		"version":     "1.0.0",
		"environment": cfg.Env,
		"port":        cfg.Port,
		"sports":      cfg.SupportedSports,
	}).Info("Starting Sports Query Engine")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	cache := connectCache(cfg, log)
	defer cache.Close()

	registry := sports.NewRegistry(cfg.SupportedSports)
	repo := store.NewRepository(db, registry, structuredLogger)

	circuitBreakerService := services.NewCircuitBreakerService(
		cfg.CircuitBreakerThreshold,
		cfg.CircuitBreakerTimeout,
		structuredLogger,
		services.RemoteRapidAPI,
	)

	// a nil interface, not a nil client, when the remote tier is off
	var remote fetcher.Remote
	rapidAPI := providers.NewRapidAPIClient(providers.RapidAPIConfig{
		APIKey:    cfg.RapidAPIKey,
		Host:      cfg.RapidAPIHost,
		RateLimit: cfg.RemoteRateLimit,
		Timeout:   cfg.ExternalAPITimeout,
	}, circuitBreakerService, structuredLogger)
	if rapidAPI.Configured() {
		remote = rapidAPI
		log.WithField("host", cfg.RapidAPIHost).Info("Remote stats source enabled")
	} else {
		log.Warn("RAPIDAPI_KEY not set, answering from cache and store only")
	}

	entityResolver := resolver.NewResolver(
		store.NewCachedDirectory(repo, cache, cfg.PlayerCacheTTL, structuredLogger),
		thresholdsFromConfig(cfg),
		structuredLogger,
	)
	statsFetcher := fetcher.NewFetcher(cache, repo, remote, fetcher.Options{
		StatsTTL:        cfg.StatsCacheTTL,
		GameLogTTL:      cfg.GameLogCacheTTL,
		FallbackSeasons: cfg.FallbackSeasons,
	}, structuredLogger)

	queryEngine := engine.NewEngine(
		registry,
		query.NewClassifier(registry, structuredLogger),
		entityResolver,
		statsFetcher,
		repo,
		engine.Options{
			BatchConcurrency: cfg.BatchConcurrency,
			LeaderboardLimit: cfg.LeaderboardLimit,
		},
		structuredLogger,
	)

	var enabled []*sports.Config
	for _, s := range registry.Supported() {
		sc, _ := registry.Get(string(s))
		enabled = append(enabled, sc)
	}
	purgeScheduler := services.NewCachePurgeScheduler(cache, enabled, cfg.CachePurgeCron, structuredLogger)
	if err := purgeScheduler.Start(); err != nil {
		log.Fatalf("Failed to start cache purge scheduler: %v", err)
	}
	defer purgeScheduler.Stop()

	router := api.NewRouter(
		handlers.NewQueryHandler(queryEngine, entityResolver, registry, repo, structuredLogger),
		handlers.NewHealthHandler(db, cache, circuitBreakerService, structuredLogger),
		middleware.RequestLogger(structuredLogger),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Sports query engine started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down sports query engine...")

	// The server has 5 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Sports query engine forced to shutdown: %v", err)
	}

	log.Info("Sports query engine exited")
}

// connectCache prefers redis. In development an unreachable redis falls back
// to the in-process cache; in production it is fatal.
func connectCache(cfg *config.Config, log *logrus.Entry) services.Cache {
	if !cfg.UseMemoryCache() {
		redisCache, err := services.NewRedisCache(cfg.RedisURL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err = redisCache.Ping(ctx)
			cancel()
			if err == nil {
				log.Info("Connected to redis cache")
				return redisCache
			}
			_ = redisCache.Close()
		}
		if !cfg.IsDevelopment() {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.WithError(err).Warn("Redis unavailable, falling back to in-process cache")
	}

	local, err := services.NewLocalCache()
	if err != nil {
		log.Fatalf("Failed to open in-process cache: %v", err)
	}
	return local
}

func thresholdsFromConfig(cfg *config.Config) resolver.Thresholds {
	t := resolver.DefaultThresholds()
	t.Ambiguity = cfg.AmbiguityThreshold
	t.GapHigh = cfg.GapHigh
	t.GapMedium = cfg.GapMedium
	t.BoostHigh = cfg.BoostHigh
	t.BoostMedium = cfg.BoostMedium
	t.PenaltyLow = cfg.PenaltyLow
	t.CapHigh = cfg.ConfidenceCapHigh
	t.CapMedium = cfg.ConfidenceCapMedium
	t.Floor = cfg.ConfidenceFloor
	return t
}

package main

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/forumkit/forum-search-service/internal/analytics"
	"github.com/forumkit/forum-search-service/internal/cache"
	"github.com/forumkit/forum-search-service/internal/config"
	"github.com/forumkit/forum-search-service/internal/handler"
	"github.com/forumkit/forum-search-service/internal/repository"
	"github.com/forumkit/forum-search-service/internal/service"
	"github.com/forumkit/forum-search-service/pkg/database"
	pkgjwt "github.com/forumkit/forum-search-service/pkg/jwt"
	pkglog "github.com/forumkit/forum-search-service/pkg/log"
	"github.com/forumkit/forum-search-service/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "search-service",
	})
	logger := pkglog.L()

	// Forum relational store (categories, users, tags, privileges)
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	// Initialize Elasticsearch client
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create elasticsearch client")
	}

	// Verify ES connection
	res, err := esClient.Info()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to elasticsearch")
	}
	res.Body.Close()
	logger.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")

	// Redis carries the result cache and the search-frequency counters
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	counterStore := analytics.NewRedisCounterStore(redisClient)
	recorder := analytics.NewRecorder(counterStore, cfg.Analytics.DebounceWindow)

	searchService := service.NewSearchService(service.Deps{
		Engine:     repository.NewESSearchEngine(esClient, cfg.Elasticsearch),
		Categories: repository.NewCategoryRepository(db),
		Users:      repository.NewUserRepository(db),
		Tags:       repository.NewTagRepository(db),
		Privileges: repository.NewPrivilegeRepository(db),
		Recorder:   recorder,
		Counters:   counterStore,
		Cache:      cache.NewRedisResultCache(redisClient, cfg.Cache.Prefix),
		CacheTTL:   cfg.Cache.TTL,
	}, cfg.Search)

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(searchService)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(middleware.Identity(pkgjwt.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Register routes
	httpHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("search-service starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

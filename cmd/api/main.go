// Package main is the entry point for the camp-slides server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/config"
	"camp-slides/internal/domain"
	rediscache "camp-slides/internal/infra/redis"
	"camp-slides/internal/infra/wordpress"
	"camp-slides/internal/job"
	"camp-slides/internal/logger"
	"camp-slides/internal/sanitize"
	"camp-slides/internal/transport/httpserver"
	"camp-slides/internal/transport/httpserver/handler"
	"camp-slides/internal/validator"
	"camp-slides/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
			Release:     cfg.Sentry.Release,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting camp-slides",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("wordpress", cfg.WordPress.BaseURL),
	)

	// CMS client
	source := wordpress.New(
		wordpress.ClientConfig{
			BaseURL:   cfg.WordPress.BaseURL,
			PerPage:   cfg.WordPress.PerPage,
			Timeout:   cfg.WordPress.Timeout,
			UserAgent: cfg.WordPress.UserAgent,
			Retry: wordpress.RetryConfig{
				MaxAttempts: cfg.WordPress.Retry.MaxAttempts,
				WaitTime:    cfg.WordPress.Retry.WaitTime,
				MaxWaitTime: cfg.WordPress.Retry.MaxWaitTime,
			},
			CB: wordpress.CBConfig{
				MaxRequests:  cfg.WordPress.CB.MaxRequests,
				Interval:     cfg.WordPress.CB.Interval,
				Timeout:      cfg.WordPress.CB.Timeout,
				FailureRatio: cfg.WordPress.CB.FailureRatio,
			},
		},
		log.Logger,
	)

	ctx := context.Background()
	if err := source.HealthCheck(ctx); err != nil {
		log.Warn("WordPress not reachable at startup, serving empty decks until it is", zap.Error(err))
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	store := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)

	// Shared cache (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = store
		log.Info("cache enabled",
			zap.Duration("slides_ttl", cfg.Cache.SlidesTTL),
			zap.Duration("content_ttl", cfg.Cache.ContentTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Create services
	slideSvc := service.NewSlideService(source, cache, cfg.Cache.SlidesTTL, log.Logger)
	contentSvc := service.NewContentService(
		source,
		cache,
		sanitize.NewSanitizer(),
		service.ContentConfig{
			FetchTimeout: cfg.Content.FetchTimeout,
			CacheTTL:     cfg.Cache.ContentTTL,
		},
		log.Logger,
	)
	sessionSvc := service.NewSessionService(
		service.SessionConfig{
			MaxSessions: cfg.Session.Max,
			TTL:         cfg.Session.TTL,
			Origin:      cfg.Site.Origin,
		},
		contentSvc,
		log.Logger,
	)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger)

	languages := make([]domain.Language, 0, 2)
	for _, tag := range cfg.Sync.LanguageTags() {
		languages = append(languages, domain.ParseLanguage(tag))
	}

	// Deck refresher with distributed locking
	scheduler := job.NewRefreshScheduler(
		slideSvc,
		job.RefreshConfig{
			Interval:  cfg.Sync.Interval,
			Timeout:   cfg.Sync.Timeout,
			OnStartup: cfg.Sync.OnStartup,
			Languages: languages,
		},
		log.Logger,
		distLocker,
	)
	if cfg.Sync.Enabled {
		scheduler.Start(cfg.Sync.OnStartup)
	} else {
		log.Info("background deck refresh disabled")
	}

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:       cfg.App.Port,
			BodyLimit:  64 * 1024, // 64KB
			Debug:      cfg.App.Debug,
			AdminToken: cfg.App.AdminToken,
			CookieName: cfg.Session.CookieName,
			SessionTTL: cfg.Session.TTL,
			Page: handler.PageConfig{
				Origin:         cfg.Site.Origin,
				DefaultLang:    cfg.Site.DefaultLang,
				ViewportHeight: cfg.Site.ViewportHeight,
				LogoURL:        cfg.Site.LogoURL,
			},
		},
		httpserver.Dependencies{
			Slides:    slideSvc,
			Content:   contentSvc,
			Sessions:  sessionSvc,
			Source:    source,
			Refresher: scheduler,
			Store:     store,
			Validator: validator.New(),
		},
		log.Logger,
	)

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}

		// Let in-flight card fetches land before exit
		contentSvc.Wait()
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	<-shutdownDone
}

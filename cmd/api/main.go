package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-posts/internal/config"
	"github.com/justsurfingit/job-posts/internal/database"
	"github.com/justsurfingit/job-posts/internal/events"
	"github.com/justsurfingit/job-posts/internal/handlers"
	"github.com/justsurfingit/job-posts/internal/logging"
	"github.com/justsurfingit/job-posts/internal/middleware"
	"github.com/justsurfingit/job-posts/internal/repository"
	"github.com/justsurfingit/job-posts/internal/server"
	"github.com/justsurfingit/job-posts/internal/services"
	"github.com/justsurfingit/job-posts/internal/shutdown"
)

func main() {
	// 1. Configuration (.env is optional)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// 2. Storage
	repo, err := newRepository(cfg)
	if err != nil {
		logger.Error("failed to initialize storage", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	logger.Info("storage ready", "driver", cfg.Store.Driver)

	// 3. Event publishing
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rmq, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			logger.Warn("job post events disabled", "err", err)
		} else {
			publisher = rmq
			logger.Info("publishing job post events", "queue", cfg.RabbitMQ.Queue)
		}
	}
	defer func() { _ = publisher.Close() }()

	// 4. Services
	jobService := services.NewJobPostService(repo,
		services.WithPublisher(publisher),
		services.WithLogger(logger.With("component", "job_posts")),
	)

	var llmService *services.LLMService
	if cfg.Gemini.APIKey != "" {
		llmService, err = services.NewLLMService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warn("draft extraction disabled", "err", err)
		}
	}

	// 5. Write rate limiting
	var limiter middleware.Limiter = middleware.NewMemoryLimiter()
	if cfg.RateLimit.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		client, err := middleware.NewRedisClient(pingCtx, cfg.RateLimit.RedisURL)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, using in-process rate limiter", "err", err)
		} else {
			defer func() { _ = client.Close() }()
			limiter = middleware.NewRedisLimiter(client, "jobposts")
		}
	}

	// 6. Router & server
	router := server.NewRouter(server.RouterDependencies{
		JobHandler:      handlers.NewJobHandler(jobService, llmService),
		Logger:          logger,
		Limiter:         limiter,
		WritesPerMinute: cfg.RateLimit.WritesPerMinute,
		CORSOrigins:     cfg.CORSOrigins,
		TrustedProxies:  cfg.TrustedProxies,
	})
	srv := server.New(logger, cfg.Host, cfg.Port, router)

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT},
		srv,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("API endpoints",
		"list", "GET /api/job-posts",
		"get", "GET /api/job-posts/:id",
		"create", "POST /api/job-posts",
		"update", "PUT /api/job-posts/:id",
		"delete", "DELETE /api/job-posts/:id",
	)

	if err := srv.Run(); err != nil {
		logger.Error("API server exited with error", "err", err)
		os.Exit(1)
	}
	logger.Info("API server stopped")
}

func newRepository(cfg config.Config) (repository.Repository, error) {
	if cfg.Store.Driver == config.DriverMemory {
		return repository.NewMemoryRepository(), nil
	}
	db, err := database.Connect(cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return repository.NewGormRepository(db), nil
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jukewave/jukewave/config"
	apihandler "github.com/jukewave/jukewave/internal/handler/api"
	"github.com/jukewave/jukewave/internal/queue"
	"github.com/jukewave/jukewave/internal/repository/postgres"
	redisrepo "github.com/jukewave/jukewave/internal/repository/redis"
	"github.com/jukewave/jukewave/internal/usecase"
	"github.com/jukewave/jukewave/internal/worker"
	"github.com/jukewave/jukewave/pkg/auth"
	"github.com/jukewave/jukewave/pkg/logger"
	"github.com/jukewave/jukewave/pkg/observability"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.App.Environment)
	defer logger.Close()

	// Print configuration in development mode
	if cfg.App.IsDevelopment() {
		cfg.Print()
	}

	// Initialize database connection
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.Close()

	// Initialize Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// Test Redis connection
	_, err = rdb.Ping(context.Background()).Result()
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer rdb.Close()

	logger.Info("Database and Redis connections established")

	// Initialize repositories
	walletRepo := postgres.NewWalletRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	snapshotCache := redisrepo.NewSnapshotRepository(rdb, cfg.Relay.NowPlayingTTL, cfg.Relay.MetadataTTL)

	// Initialize the queue store with its payment and journal sinks
	forwarder := usecase.NewWalletForwarder(walletRepo)
	journalSink := usecase.NewJournalSink(ledgerRepo)
	store := queue.New(queue.Config{
		MaxCapacity:   cfg.Queue.MaxCapacity,
		MaxContentLen: cfg.Queue.MaxContentLen,
		PopInterval:   cfg.Queue.PopInterval,
		Owner:         cfg.Queue.OwnerAddress,
		SeedContent:   cfg.Queue.SeedContent,
		SeedBid:       cfg.Queue.SeedBid,
	}, forwarder, journalSink)

	// Initialize use cases
	queueUC := usecase.NewQueueUsecase(store, ledgerRepo, snapshotCache)

	// Initialize auth service
	authService := auth.NewJWTAuthService(cfg.Auth)

	// Initialize handlers
	queueHandler := apihandler.NewQueueHandler(queueUC, ledgerRepo)
	accountHandler := apihandler.NewAccountHandler(walletRepo, authService)

	// Start background workers
	advanceWorker := worker.NewAdvanceWorker(queueUC, worker.AdvanceWorkerConfig{
		TickInterval: cfg.Queue.PopInterval,
	})
	snapshotWorker := worker.NewSnapshotWorker(queueUC, worker.SnapshotWorkerConfig{})
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go advanceWorker.Start(workerCtx)
	go snapshotWorker.Start(workerCtx)

	// Set Gin mode
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize metrics handler
	metricsHandler := observability.NewMetricsHandler()

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(observability.ObservabilityMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Setup metrics and health endpoints
	router.GET("/metrics", metricsHandler.MetricsEndpoint())
	router.GET("/health", metricsHandler.HealthEndpoint())
	router.GET("/ready", metricsHandler.ReadinessEndpoint(db.Ping, snapshotCache.Ping))
	router.GET("/live", metricsHandler.LivenessEndpoint())

	// Setup API routes
	apihandler.SetupRoutes(router, queueHandler, accountHandler, authService)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			logger.String("port", cfg.App.Port),
			logger.String("environment", cfg.App.Environment),
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	workerCancel()

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server exited")
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

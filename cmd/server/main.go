package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	invapp "github.com/ims/backend/internal/application/inventory"
	poapp "github.com/ims/backend/internal/application/purchase"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/cache"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/infrastructure/event"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/infrastructure/persistence"
	"github.com/ims/backend/internal/infrastructure/scheduler"
	"github.com/ims/backend/internal/interfaces/http/handler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting IMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRepo := persistence.NewGormStockRecordRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)

	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	stockService := invapp.NewStockService(stockRepo, productRepo, warehouseRepo, txScope, log)
	warehouseSelector := poapp.NewDefaultWarehouseSelector(warehouseRepo)
	orderService := poapp.NewPurchaseOrderService(
		orderRepo, productRepo, supplierRepo, warehouseSelector, txScope.PurchaseScope(), log,
	)
	replenishmentService := poapp.NewReplenishmentService(orderRepo, productRepo, stockRepo, log)

	// Initialize event bus and the activity trail handler
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogger(log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	stockService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	replenishmentService.SetEventPublisher(eventBus)

	// Idempotency store backing the daily replenishment run.
	// Redis coordinates across instances; the in-memory store covers
	// single-node deployments.
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize replenishment scheduler (if enabled)
	replenishmentScheduler := scheduler.NewReplenishmentScheduler(
		scheduler.ReplenishmentSchedulerConfig{
			Enabled:       cfg.Replenishment.Enabled,
			CheckInterval: cfg.Replenishment.CheckInterval,
			RunHour:       cfg.Replenishment.RunHour,
			LockTTL:       cfg.Replenishment.LockTTL,
		},
		replenishmentService,
		idempotencyStore,
		log,
	)
	// The scheduler always runs so manual triggers stay available; the daily
	// automatic run only fires when enabled in config.
	if err := replenishmentScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start replenishment scheduler", zap.Error(err))
	}
	defer func() {
		if err := replenishmentScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping replenishment scheduler", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService)
	replenishmentHandler := handler.NewReplenishmentHandler(replenishmentScheduler)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Setup API routes
	r := handler.NewRouter(engine, handler.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(stockHandler).
		Register(orderHandler).
		Register(replenishmentHandler)
	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

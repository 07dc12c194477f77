package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agromarket/backend/internal/application/access"
	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	identityapp "github.com/agromarket/backend/internal/application/identity"
	orderingapp "github.com/agromarket/backend/internal/application/ordering"
	"github.com/agromarket/backend/internal/infrastructure/auth"
	"github.com/agromarket/backend/internal/infrastructure/cache"
	"github.com/agromarket/backend/internal/infrastructure/config"
	"github.com/agromarket/backend/internal/infrastructure/logger"
	"github.com/agromarket/backend/internal/infrastructure/persistence"
	"github.com/agromarket/backend/internal/infrastructure/storage"
	"github.com/agromarket/backend/internal/infrastructure/telemetry"
	"github.com/agromarket/backend/internal/interfaces/http/handler"
	"github.com/agromarket/backend/internal/interfaces/http/middleware"
	"github.com/agromarket/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AgroMarket backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing
	tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics
	mp, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database with a zap-backed gorm logger
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracing(cfg.Telemetry, log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(context.Background(), db.DB, mp, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}
	log.Info("Database connected successfully")

	// Redis backs the listing cache and the token blacklist. The service
	// still starts without it.
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("Redis unavailable", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	} else {
		redisClient = client
		defer func() {
			_ = redisClient.Close()
		}()
	}

	var (
		listingCacheClient redis.UniversalClient
		blacklist          auth.TokenBlacklist
	)
	if redisClient != nil {
		listingCacheClient = redisClient
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	listings, err := cache.NewListingCacheFactory(cfg.Cache, listingCacheClient, cache.WithLogger(log)).
		Create(context.Background())
	if err != nil {
		log.Fatal("Failed to create listing cache", zap.Error(err))
	}
	// the in-memory fallback runs a cleanup goroutine
	if closer, ok := listings.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	// Object storage for image uploads
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
		}
		cancel()
		objectStorage = s3Storage
	} else {
		log.Info("Object storage disabled, issuing stub upload URLs")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Repositories
	farmRepo := persistence.NewGormFarmRepository(db.DB)
	categoryRepo := persistence.NewGormCropCategoryRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stores := persistence.NewProductStores(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	guard := access.NewGuard(farmRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	productService := catalogapp.NewProductService(stores, farmRepo, categoryRepo, guard,
		catalogapp.WithListingCache(listings),
		catalogapp.WithLogger(log),
	)
	farmService := catalogapp.NewFarmService(farmRepo, userRepo, stores, guard, listings, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, listings, log)
	imageService := catalogapp.NewImageService(objectStorage, farmRepo, stores, guard, cfg.Storage.PresignExpiry)
	orderService := orderingapp.NewOrderService(uow, orderRepo, stores, log)

	// Health checks
	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Farm:     handler.NewFarmHandler(farmService),
		Category: handler.NewCategoryHandler(categoryService),
		Product:  handler.NewProductHandler(productService),
		Image:    handler.NewImageHandler(imageService),
		Order:    handler.NewOrderHandler(orderService),
		System:   handler.NewSystemHandler(version, checks),
	}

	// Setup Gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Start the server span
	// 3. Metrics - Count and time requests
	// 4. Recovery - Catch panics
	// 5. Logger - Log requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.HTTPMetrics(mp, log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	routeMiddleware := router.Middleware{
		RequireAuth: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		API: []gin.HandlerFunc{middleware.TraceAttributes()},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		routeMiddleware.AuthRateLimit = middleware.RateLimit(authLimiter)
	}

	router.Setup(engine, handlers, routeMiddleware)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

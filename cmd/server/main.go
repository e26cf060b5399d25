package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/portomercado/porto/internal"
	"github.com/portomercado/porto/internal/cache"
	"github.com/portomercado/porto/internal/domain"
	"github.com/portomercado/porto/internal/handler/admin"
	"github.com/portomercado/porto/internal/handler/storefront"
	"github.com/portomercado/porto/internal/jobs"
	"github.com/portomercado/porto/internal/middleware"
	"github.com/portomercado/porto/internal/postgres"
	"github.com/portomercado/porto/internal/router"
	"github.com/portomercado/porto/internal/routes"
	"github.com/portomercado/porto/internal/service"
	"github.com/portomercado/porto/internal/telemetry"
	"github.com/portomercado/porto/internal/worker"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Connect to Redis for carts and checkout snapshots
	redisOpts, err := redis.ParseURL(cfg.RedisUrl)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Info("Redis connection established")

	store := cache.NewRedisStore(redisClient, cfg.CartTTL, cfg.SnapshotTTL)

	// Business metrics
	business := telemetry.NewBusinessMetrics("porto")

	// Operator allow list for the admin surface
	allowList := domain.NewOperatorAllowList(cfg.OperatorEmails)
	logger.Info("Operator allow list loaded", "operators", allowList.Len())

	// Initialize stores and services
	catalogService := postgres.NewCatalogService(pool)
	identityService := postgres.NewIdentityService(pool)
	addressService := postgres.NewAddressService(pool)
	orderStore := postgres.NewOrderStore(pool)

	cartService := service.NewCartService(store)
	checkoutService := service.NewCheckoutService(store, addressService)
	orderService := service.NewOrderService(store, orderStore, catalogService, addressService, identityService, business, logger)
	statusService := service.NewOrderStatusService(orderStore, allowList, business, logger)

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	storefrontDeps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(catalogService),
		CartHandler:     storefront.NewCartHandler(cartService, checkoutService, catalogService),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService),
		OrderHandler:    storefront.NewOrderHandler(orderService),
		AddressHandler:  storefront.NewAddressHandler(addressService),
		ProfileHandler:  storefront.NewProfileHandler(identityService),
	}

	adminDeps := routes.AdminDeps{
		OrderHandler: admin.NewOrderHandler(statusService),
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("porto")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	chain := []router.Middleware{
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
		middleware.WithUser(identityService),
		middleware.WithOperator(allowList),
		middleware.WithRequestLogger(logger),
	}
	if len(cfg.CORSOrigins) > 0 {
		chain = append([]router.Middleware{router.CORS(cfg.CORSOrigins)}, chain...)
	}

	r := router.New(chain...)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	// ==========================================================================
	// Background worker
	// ==========================================================================

	sweep := jobs.NewDanglingOrderSweep(orderStore, cfg.DanglingOrderGrace, business, logger)
	bg := worker.New(cfg.SweepInterval, logger, sweep)
	go func() {
		if err := bg.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", "error", err)
		}
	}()

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

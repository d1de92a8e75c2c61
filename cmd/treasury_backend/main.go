package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fairlance/treasury_backend/internal/cache"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/core/services"
	"github.com/fairlance/treasury_backend/internal/events"
	"github.com/fairlance/treasury_backend/internal/handlers"
	"github.com/fairlance/treasury_backend/internal/middleware"
	"github.com/fairlance/treasury_backend/internal/platform/config"
	"github.com/fairlance/treasury_backend/internal/providers/settlement"
	"github.com/fairlance/treasury_backend/internal/repositories/database/pgsql"
	"github.com/fairlance/treasury_backend/pkg/database"
)

// @title Treasury Backend API
// @version 1.0
// @description Wallet ledger, payout approval and treasury overview engine.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	// Payout event producer; without AMQP the engine runs with a no-op
	// publisher and everything else works unchanged.
	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		producer, err := events.NewAMQPProducer(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("Failed to connect AMQP producer, payout events disabled", slog.String("error", err.Error()))
			publisher = &events.NoopPublisher{Logger: logger}
		} else {
			publisher = producer
			defer producer.Close()
		}
	} else {
		publisher = &events.NoopPublisher{Logger: logger}
	}

	// Overview snapshot cache; optional.
	var snapshotCache cache.SnapshotCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("Invalid REDIS_URL, overview caching disabled", slog.String("error", err.Error()))
		} else {
			snapshotCache = cache.NewRedisSnapshotCache(redis.NewClient(opts), cfg.OverviewCacheTTL, logger)
			logger.Info("Overview snapshot cache enabled", slog.Duration("ttl", cfg.OverviewCacheTTL))
		}
	}

	// Settlement provider; stub when no rail endpoint is configured.
	var provider portssvc.SettlementProvider
	if cfg.SettlementProviderURL != "" {
		provider = settlement.NewHTTPProvider(cfg.SettlementProviderURL)
	} else {
		logger.Warn("SETTLEMENT_PROVIDER_URL not set. Using in-process settlement stub.")
		provider = settlement.NewStubProvider()
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, provider, publisher, snapshotCache)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory over a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

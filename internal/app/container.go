// Package app wires configuration, storage, messaging and handlers into a
// running application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	availabilityCommands "github.com/stagehandhq/stagehand/internal/availability/application/commands"
	availabilityQueries "github.com/stagehandhq/stagehand/internal/availability/application/queries"
	availabilityServices "github.com/stagehandhq/stagehand/internal/availability/application/services"
	availabilityDomain "github.com/stagehandhq/stagehand/internal/availability/domain"
	"github.com/stagehandhq/stagehand/internal/availability/infrastructure/cache"
	availabilityPersistence "github.com/stagehandhq/stagehand/internal/availability/infrastructure/persistence"
	bookingCommands "github.com/stagehandhq/stagehand/internal/booking/application/commands"
	bookingQueries "github.com/stagehandhq/stagehand/internal/booking/application/queries"
	bookingServices "github.com/stagehandhq/stagehand/internal/booking/application/services"
	bookingDomain "github.com/stagehandhq/stagehand/internal/booking/domain"
	bookingPersistence "github.com/stagehandhq/stagehand/internal/booking/infrastructure/persistence"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/database"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/database/postgres"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/database/sqlite"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
	syncApp "github.com/stagehandhq/stagehand/internal/sync/application"
	"github.com/stagehandhq/stagehand/pkg/config"
)

// Container holds the wired application graph.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	sqliteDB    *sql.DB
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	publisher   eventbus.Publisher
	uow         sharedApplication.UnitOfWork

	Entries  availabilityDomain.EntryRepository
	Blocks   availabilityDomain.BlockRepository
	Bookings bookingDomain.Repository

	ConflictChecker *availabilityServices.ConflictChecker
	Reconciler      *bookingServices.Reconciler
	Notifier        bookingServices.Notifier

	SetAvailability   *availabilityCommands.SetAvailabilityHandler
	ClearAvailability *availabilityCommands.ClearAvailabilityHandler
	CreateBlock       *availabilityCommands.CreateBlockHandler
	DeleteBlock       *availabilityCommands.DeleteBlockHandler
	GetAvailability   *availabilityQueries.GetAvailabilityHandler
	GetBlockedRanges  *availabilityQueries.GetBlockedRangesHandler
	ListBlocks        *availabilityQueries.ListBlocksHandler

	CreateBooking       *bookingCommands.CreateBookingHandler
	UpdateBookingStatus *bookingCommands.UpdateBookingStatusHandler
	GetBooking          *bookingQueries.GetBookingHandler
	ListBookings        *bookingQueries.ListBookingsHandler

	Importer *syncApp.Importer
	Exporter *syncApp.Exporter
}

// New builds the container for the given configuration.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg)

	c := &Container{Config: cfg, Logger: logger}

	if err := c.setupStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.setupMessaging(); err != nil {
		c.Close()
		return nil, err
	}
	c.setupHandlers()

	return c, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

func (c *Container) setupStorage(ctx context.Context) error {
	cfg := c.Config

	var uow sharedApplication.UnitOfWork
	switch database.DetectDriver(cfg.DatabaseURL) {
	case database.DriverSQLite:
		path := strings.TrimPrefix(cfg.DatabaseURL, "sqlite://")
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.sqliteDB = db
		c.Entries = availabilityPersistence.NewSQLiteEntryRepository(db)
		c.Blocks = availabilityPersistence.NewSQLiteBlockRepository(db)
		c.Bookings = bookingPersistence.NewSQLiteBookingRepository(db)
		uow = sharedPersistence.NewSQLiteUnitOfWork(db)
		c.Logger.Info("using SQLite storage")

	case database.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.pgPool = pool
		c.Entries = availabilityPersistence.NewPostgresEntryRepository(pool)
		c.Blocks = availabilityPersistence.NewPostgresBlockRepository(pool)
		c.Bookings = bookingPersistence.NewPostgresBookingRepository(pool)
		uow = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.Logger.Info("using PostgreSQL storage")
	}
	c.uow = uow

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		c.redisClient = redis.NewClient(opts)
		c.Blocks = cache.NewRedisBlockCache(c.Blocks, c.redisClient, cfg.CacheTTL, c.Logger)
		c.Logger.Info("block cache enabled", "ttl", cfg.CacheTTL)
	}

	return nil
}

func (c *Container) setupMessaging() error {
	if c.Config.RabbitMQURL == "" {
		c.publisher = eventbus.NewInProcessBus(c.Logger)
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		return err
	}
	c.publisher = publisher
	return nil
}

func (c *Container) setupHandlers() {
	locks := locking.NewArtistLocks()

	c.ConflictChecker = availabilityServices.NewConflictChecker(c.Entries, c.Blocks, c.Logger)
	c.Notifier = bookingServices.NewCircuitBreakerNotifier(bookingServices.NewLogNotifier(c.Logger), c.Logger)
	c.Reconciler = bookingServices.NewReconciler(c.Entries, c.Bookings, c.Logger)

	c.SetAvailability = availabilityCommands.NewSetAvailabilityHandler(c.Entries, locks, c.uow, c.publisher, c.Logger)
	c.ClearAvailability = availabilityCommands.NewClearAvailabilityHandler(c.Entries, locks, c.uow)
	c.CreateBlock = availabilityCommands.NewCreateBlockHandler(c.Blocks, locks, c.uow, c.publisher, c.Logger)
	c.DeleteBlock = availabilityCommands.NewDeleteBlockHandler(c.Blocks, locks, c.uow, c.publisher, c.Logger)
	c.GetAvailability = availabilityQueries.NewGetAvailabilityHandler(c.Entries)
	c.GetBlockedRanges = availabilityQueries.NewGetBlockedRangesHandler(c.Blocks)
	c.ListBlocks = availabilityQueries.NewListBlocksHandler(c.Blocks)

	c.CreateBooking = bookingCommands.NewCreateBookingHandler(
		c.Bookings, c.ConflictChecker, locks, c.uow, c.publisher, c.Notifier, c.Logger)
	c.UpdateBookingStatus = bookingCommands.NewUpdateBookingStatusHandler(
		c.Bookings, c.Entries, locks, c.uow, c.publisher, c.Notifier, c.Logger)
	c.GetBooking = bookingQueries.NewGetBookingHandler(c.Bookings)
	c.ListBookings = bookingQueries.NewListBookingsHandler(c.Bookings)

	c.Importer = syncApp.NewImporter(c.CreateBlock, c.Logger)
	c.Exporter = syncApp.NewExporter(c.Blocks)
}

// Publisher returns the configured event publisher.
func (c *Container) Publisher() eventbus.Publisher { return c.publisher }

// Close releases all held resources.
func (c *Container) Close() {
	if c.publisher != nil {
		_ = c.publisher.Close()
	}
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	if c.sqliteDB != nil {
		_ = c.sqliteDB.Close()
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
}

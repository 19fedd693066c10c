package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/dmorelli/guessphrase/internal/dependencies/clock"
	"github.com/dmorelli/guessphrase/internal/services/auth"
	"github.com/dmorelli/guessphrase/internal/services/catalog"
	"github.com/dmorelli/guessphrase/internal/services/ledger"
	"github.com/dmorelli/guessphrase/internal/services/session"
	"github.com/dmorelli/guessphrase/internal/services/timer"
	"github.com/dmorelli/guessphrase/internal/storage"
	"github.com/dmorelli/guessphrase/internal/storage/memory"
	"github.com/dmorelli/guessphrase/internal/storage/postgres"
	redisstorage "github.com/dmorelli/guessphrase/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	CatalogService    *catalog.Service
	LedgerService     *ledger.Service
	TimerService      *timer.Service
	SessionController *session.Controller
	AuthService       *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// SessionConfig holds the round policy (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseDSN is the Postgres connection string (required if StorageType is "postgres")
	DatabaseDSN string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.DatabaseDSN == "" {
			return nil, errors.New("DatabaseDSN required when StorageType is postgres")
		}
		pgStore, err := postgres.New(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	clk := clock.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	sessionCfg := cfg.SessionConfig
	if sessionCfg.RoundDuration == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clk, sessionCfg, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, sessionCfg session.Config, authCfg auth.Config, logger *slog.Logger) *App {
	catalogService := catalog.Default()
	ledgerService := ledger.New(store, logger)
	timerService := timer.New(clk, logger)
	sessionController := session.NewController(store, catalogService, ledgerService, timerService, clk, sessionCfg, logger)
	timerService.Bind(sessionController)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:           store,
		Clock:             clk,
		CatalogService:    catalogService,
		LedgerService:     ledgerService,
		TimerService:      timerService,
		SessionController: sessionController,
		AuthService:       authService,
	}
}

// Close releases resources held by the application
func (a *App) Close() error {
	a.TimerService.Close()

	type closer interface {
		Close() error
	}
	if c, ok := a.Storage.(closer); ok {
		return c.Close()
	}
	return nil
}

package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/cached"
	gormstore "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/postgres"
	rediscache "github.com/alchemorsel/pantry/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cacheSweepInterval is how often the in-memory cache drops expired entries
const cacheSweepInterval = time.Minute

// Store is the recipe store selected by configuration
type Store struct {
	Repository outbound.RecipeRepository
	Name       string
	DB         *sql.DB

	// cachePing is set when a remote cache sits in front of the store
	cachePing func(ctx context.Context) error
	closers   []func() error
}

// Close releases the store's connections
func (s *Store) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func memoryStore() *Store {
	return &Store{Repository: memory.NewRecipeRepository(), Name: config.DriverMemory}
}

// NewStore opens the configured recipe store. When a durable store cannot be
// reached and fallback is enabled the process keeps running on the
// in-memory store.
func NewStore(ctx context.Context, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*Store, error) {
	log = log.Named("store")

	if cfg.Database.Driver == config.DriverMemory || cfg.Database.Driver == "" {
		log.Info("Using in-memory recipe store")
		return memoryStore(), nil
	}

	store, err := openDurableStore(ctx, cfg, log, metrics)
	if err != nil {
		if !cfg.Database.FallbackToMemory {
			return nil, err
		}
		log.Warn("Durable store unavailable, falling back to in-memory store",
			zap.String("driver", cfg.Database.Driver),
			zap.Error(err),
		)
		return memoryStore(), nil
	}

	if metrics != nil {
		if err := metrics.RegisterDBStats(store.DB, store.Name); err != nil {
			log.Warn("Failed to register database stats collector", zap.Error(err))
		}
	}

	return store, nil
}

func openDurableStore(ctx context.Context, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*Store, error) {
	dbCfg := cfg.Database

	var (
		db     *gorm.DB
		closer func() error
	)

	switch dbCfg.Driver {
	case config.DriverSQLite:
		var err error
		db, err = sqlite.SetupDatabase(ctx, dbCfg.SQLitePath, gormstore.NewLogger(log, dbCfg.LogLevel, dbCfg.SlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		closer = sqlDB.Close

	case config.DriverPostgres:
		if dbCfg.AutoMigrate {
			err := migrations.Run(cfg.GetMigrationURL(), migrations.Options{
				MigrationsTable: dbCfg.MigrationsTable,
				DatabaseName:    dbCfg.Database,
			}, log)
			if err != nil {
				return nil, fmt.Errorf("failed to migrate postgres store: %w", err)
			}
		}
		cm, err := postgres.NewConnectionManager(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		db = cm.GetDB()
		closer = cm.Close

	default:
		return nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = closer()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if metrics != nil {
		if err := gormstore.Instrument(db, metrics); err != nil {
			_ = closer()
			return nil, fmt.Errorf("failed to instrument store: %w", err)
		}
	}

	log.Info("Using durable recipe store", zap.String("driver", dbCfg.Driver))

	return &Store{
		Repository: gormstore.NewRecipeRepository(db),
		Name:       dbCfg.Driver,
		DB:         sqlDB,
		closers:    []func() error{closer},
	}, nil
}

// NewRecipeRepository puts the configured read-through cache in front of the
// store. A cache that cannot be reached is skipped.
func NewRecipeRepository(ctx context.Context, cfg *config.Config, log *zap.Logger, store *Store, metrics *monitoring.MetricsCollector) outbound.RecipeRepository {
	log = log.Named("cache")

	var cache outbound.CacheRepository
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		mem := memory.NewCacheRepository(cacheSweepInterval)
		store.closers = append(store.closers, mem.Close)
		cache = mem

	case config.CacheRedis:
		client, err := rediscache.NewClient(ctx, cfg, log)
		if err != nil {
			log.Warn("Redis unavailable, serving recipes without cache", zap.Error(err))
			return store.Repository
		}
		store.closers = append(store.closers, client.Close)
		redisRepo := rediscache.NewCacheRepository(client, log)
		store.cachePing = redisRepo.Ping
		cache = redisRepo

	default:
		return store.Repository
	}

	opts := []cached.Option{}
	if cfg.Cache.KeyPrefix != "" {
		opts = append(opts, cached.WithKeyPrefix(cfg.Cache.KeyPrefix))
	}
	if metrics != nil {
		opts = append(opts, cached.WithObserver(metrics))
	}

	log.Info("Recipe cache enabled",
		zap.String("driver", cfg.Cache.Driver),
		zap.Duration("ttl", cfg.Cache.TTL),
	)

	return cached.NewRecipeRepository(store.Repository, cache, cfg.Cache.TTL, log, opts...)
}

// NewHealthCheck registers the store as a critical dependency and a remote
// cache, when present, as an optional one
func NewHealthCheck(cfg *config.Config, log *zap.Logger, repo outbound.RecipeRepository, store *Store) *healthcheck.HealthCheck {
	h := healthcheck.New(cfg.App.Version, log)
	h.Register("store", healthcheck.NewPingChecker(repo.Ping, true).WithMetadata(map[string]string{"driver": store.Name}))
	if store.cachePing != nil {
		h.Register("cache", healthcheck.NewPingChecker(store.cachePing, false).WithMetadata(map[string]string{"driver": cfg.Cache.Driver}))
	}
	return h
}

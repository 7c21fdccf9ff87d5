// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"time"

	recipeapp "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/application/shopping"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/alchemorsel/pantry/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// startupTimeout bounds store and cache connection attempts during startup
const startupTimeout = 30 * time.Second

// ConfigPath is the configuration file handed to config.Load. Empty means
// the default search paths.
type ConfigPath string

// New returns the application graph for the configuration at configPath
func New(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(ConfigPath(configPath)),
		Module,
	)
}

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	StoreModule,
	EventModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging. The atomic level lets configuration reloads
// change verbosity at runtime.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		return monitoring.NewTracingProvider(ctx, monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
)

// StoreModule provides the recipe store and the repository services use
var StoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*Store, error) {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		return NewStore(ctx, cfg, log, metrics)
	},
	func(cfg *config.Config, log *zap.Logger, store *Store, metrics *monitoring.MetricsCollector) outbound.RecipeRepository {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		return NewRecipeRepository(ctx, cfg, log, store, metrics)
	},
	NewHealthCheck,
)

// EventModule provides event handling
var EventModule = fx.Options(
	fx.Provide(
		NewEventDispatcher,
		func(d *EventDispatcher) shared.EventDispatcher { return d },
	),
	fx.Invoke(RegisterEventHandlers),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		recipeapp.NewRecipeService,
		fx.As(new(inbound.RecipeService)),
	),
	func(repo outbound.RecipeRepository, cfg *config.Config, log *zap.Logger) *shopping.Resolver {
		return shopping.NewResolver(repo, cfg.Shopping.MaxConcurrentLookups, log)
	},
	func(resolver *shopping.Resolver, metrics *monitoring.MetricsCollector, log *zap.Logger) inbound.ShoppingListService {
		return shopping.NewService(resolver, metrics, log)
	},
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		recipes inbound.RecipeService,
		shoppingLists inbound.ShoppingListService,
		health *healthcheck.HealthCheck,
		store *Store,
		metrics *monitoring.MetricsCollector,
		tracing *monitoring.TracingProvider,
	) (*apiserver.Server, error) {
		return apiserver.NewServer(cfg, log, apiserver.Dependencies{
			RecipeService:   recipes,
			ShoppingService: shoppingLists,
			Health:          health,
			StoreName:       store.Name,
			Metrics:         metrics,
			Tracing:         tracing,
		})
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// LifecycleParams are the components started and stopped with the app
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	ConfigPath ConfigPath
	Config     *config.Config
	Logger     *zap.Logger
	Level      zap.AtomicLevel
	Store      *Store
	Server     *apiserver.Server
	Metrics    *monitoring.MetricsCollector
	Tracing    *monitoring.TracingProvider
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(p LifecycleParams) {
	log := p.Logger
	background, cancel := context.WithCancel(context.Background())

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting pantry",
				zap.String("version", p.Config.App.Version),
				zap.String("environment", p.Config.App.Environment),
				zap.String("store", p.Store.Name),
			)

			watching, err := config.Watch(string(p.ConfigPath), log, func(updated *config.Config) {
				p.Level.SetLevel(logger.ParseLevel(updated.App.LogLevel))
			})
			if err != nil {
				log.Warn("Configuration hot reload disabled", zap.Error(err))
			} else if watching {
				log.Info("Watching configuration file for log level changes")
			}

			go p.Metrics.StartUptimeCounter(background)

			go func() {
				if err := p.Server.Start(); err != nil {
					log.Error("API server stopped unexpectedly", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down pantry")
			cancel()

			if err := p.Server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}

			if err := p.Tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown tracing", zap.Error(err))
			}

			if err := p.Store.Close(); err != nil {
				log.Error("Failed to close recipe store", zap.Error(err))
			}

			_ = log.Sync()

			return nil
		},
	})
}

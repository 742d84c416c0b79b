package di

import (
	"context"
	"net/http"
	"time"

	gogql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"graphryder-api/application/loaders"
	"graphryder-api/application/ports"
	querybus "graphryder-api/application/queries/bus"
	"graphryder-api/application/queries/handlers"
	"graphryder-api/infrastructure/cache"
	"graphryder-api/infrastructure/config"
	"graphryder-api/infrastructure/persistence/memory"
	"graphryder-api/infrastructure/persistence/neo4j"
	"graphryder-api/interfaces/graphql"
	"graphryder-api/interfaces/http/rest"
	"graphryder-api/pkg/errors"
	"graphryder-api/pkg/observability"
)

const metricsNamespace = "graphryder"

// ProvideLogLevel creates the level shared by the logger and the config watcher.
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	return zap.NewAtomicLevelAt(observability.ParseLevel(cfg.LogLevel))
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.IsProduction(), level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideConfigWatcher hot-reloads the config file in development. It returns nil
// when there is no file to watch.
func ProvideConfigWatcher(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) (*config.Watcher, func(), error) {
	if cfg.File == "" || !cfg.IsDevelopment() {
		return nil, func() {}, nil
	}

	w, err := config.NewWatcher(cfg.File, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	w.OnChange(func(next *config.Config) {
		level.SetLevel(observability.ParseLevel(next.LogLevel))
	})
	w.Start()
	return w, w.Stop, nil
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are off.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracerProvider installs the OTLP exporter when tracing is on.
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: observability.TracerName,
		Environment: cfg.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Tracing initialized", zap.String("endpoint", cfg.Tracing.Endpoint))

	return tp, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}, nil
}

// ProvideGraphRepository connects the configured store. For neo4j the driver is
// closed by the returned cleanup.
func ProvideGraphRepository(
	ctx context.Context,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) (ports.GraphRepository, func(), error) {
	if cfg.Store.Driver == config.DriverMemory {
		store, err := memory.NewStoreFromFile(cfg.Store.Fixture, logger.Named("memory"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	driver, err := neo4j.NewDriver(ctx, neo4j.Config{
		URL:                          cfg.Store.URL,
		Username:                     cfg.Store.Username,
		Password:                     cfg.Store.Password,
		Database:                     cfg.Store.Database,
		MaxConnectionPoolSize:        cfg.Store.MaxConnectionPoolSize,
		ConnectionAcquisitionTimeout: cfg.Store.AcquisitionTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	var runner neo4j.Runner = neo4j.NewSessionRunner(driver, cfg.Store.Database)
	if cfg.EnableCircuitBreaker {
		runner = neo4j.NewBreakerRunner(runner, neo4j.DefaultBreakerConfig(), logger)
	}

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := driver.Close(closeCtx); err != nil {
			logger.Error("Failed to close Neo4j driver", zap.Error(err))
		}
	}
	return neo4j.NewGraphRepository(runner, logger.Named("neo4j"), metrics), cleanup, nil
}

// ProvideQueryCache creates the ristretto result cache, or nil when caching is off.
func ProvideQueryCache(cfg *config.Config) (*cache.RistrettoCache, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}
	c, err := cache.NewRistrettoCache(cfg.Cache.MaxEntries)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repo ports.GraphRepository,
	queryCache *cache.RistrettoCache,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	middleware := []querybus.Middleware{querybus.NewLoggingMiddleware(logger)}
	if metrics != nil {
		middleware = append(middleware, querybus.NewMetricsMiddleware(metrics))
	}
	if queryCache != nil {
		var cacheMetrics querybus.CacheMetrics
		if metrics != nil {
			cacheMetrics = metrics
		}
		middleware = append(middleware, querybus.NewCachingMiddleware(queryCache, cfg.Cache.TTL, cacheMetrics))
	}

	b := querybus.NewQueryBus(middleware...)
	if err := handlers.RegisterAll(b, repo, logger); err != nil {
		return nil, err
	}
	return b, nil
}

// ProvideLoaderFactory creates the per-request relation loader factory.
func ProvideLoaderFactory(
	repo ports.GraphRepository,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *loaders.Factory {
	var observer loaders.BatchObserver
	if metrics != nil {
		observer = metrics
	}
	return loaders.NewFactory(repo, loaders.Config{
		BatchWindow:  cfg.Loader.BatchWindow,
		MaxBatchSize: cfg.Loader.MaxBatchSize,
	}, observer, logger)
}

// ProvideSchema parses the GraphQL schema against the root resolver.
func ProvideSchema(b *querybus.QueryBus, cfg *config.Config, logger *zap.Logger) (*gogql.Schema, error) {
	return graphql.NewSchema(graphql.NewResolver(b), graphql.SchemaOptions{
		MaxDepth:      cfg.GraphQL.MaxDepth,
		Introspection: cfg.GraphQL.Introspection,
		Tracing:       cfg.EnableTracing,
	}, logger)
}

// ProvideGraphQLHandler creates the /graphql endpoint.
func ProvideGraphQLHandler(schema *gogql.Schema, factory *loaders.Factory, cfg *config.Config, logger *zap.Logger) *graphql.Handler {
	return graphql.NewHandler(schema, factory, cfg.GraphQL.GraphiQL, logger)
}

// ProvideErrorHandler creates the JSON error renderer. Development responses
// include error causes.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the HTTP router.
func ProvideRouter(
	gql *graphql.Handler,
	repo ports.GraphRepository,
	metrics *observability.Collector,
	errorHandler *errors.ErrorHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(gql, repo, metrics, errorHandler, logger, rest.Options{
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		EnableTracing:  cfg.EnableTracing,
	})
}

// ProvideHTTPHandler builds the middleware chain and routes.
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}

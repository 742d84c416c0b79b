package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"graphryder-api/interfaces/http/rest/middleware"
	"graphryder-api/pkg/errors"
	"graphryder-api/pkg/observability"
)

// Pinger reports whether the graph store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the router's middleware.
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	RequestTimeout time.Duration
	EnableTracing  bool
}

// Router creates and configures the HTTP router
type Router struct {
	graphql      http.Handler
	store        Pinger
	metrics      *observability.Collector
	errorHandler *errors.ErrorHandler
	logger       *zap.Logger
	opts         Options
}

// NewRouter creates a new router instance. metrics may be nil, in which case
// /metrics is not mounted.
func NewRouter(
	graphqlHandler http.Handler,
	store Pinger,
	metrics *observability.Collector,
	errorHandler *errors.ErrorHandler,
	logger *zap.Logger,
	opts Options,
) *Router {
	return &Router{
		graphql:      graphqlHandler,
		store:        store,
		metrics:      metrics,
		errorHandler: errorHandler,
		logger:       logger,
		opts:         opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.opts.EnableTracing {
		router.Use(middleware.Tracing())
	}
	if rt.opts.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(rt.opts.RequestTimeout))
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Handle("/graphql", rt.graphql)

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck pings the graph store.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	if err := rt.store.Ping(ctx); err != nil {
		rt.errorHandler.Handle(w, req, errors.NewUnavailableError("graph store").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

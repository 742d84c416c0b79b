// Package di wires the service's dependencies with google/wire.
package di

import (
	"net/http"

	"go.uber.org/zap"

	"graphryder-api/application/ports"
	querybus "graphryder-api/application/queries/bus"
	"graphryder-api/infrastructure/config"
	"graphryder-api/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	LogLevel   zap.AtomicLevel
	Watcher    *config.Watcher
	Metrics    *observability.Collector
	Tracer     *observability.TracerProvider
	Repository ports.GraphRepository
	QueryBus   *querybus.QueryBus
	Handler    http.Handler
}

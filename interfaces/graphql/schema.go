// Package graphql serves the forum graph over GraphQL: the embedded schema, the
// resolvers behind each type and the HTTP handler that executes requests.
package graphql

import (
	"context"
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	gqlotel "github.com/graph-gophers/graphql-go/trace/otel"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// SchemaOptions tunes the executor.
type SchemaOptions struct {
	MaxDepth      int  `yaml:"max_depth" validate:"gte=0"`
	Introspection bool `yaml:"introspection"`
	Tracing       bool `yaml:"-"`
}

// NewSchema parses the embedded SDL against the root resolver.
func NewSchema(root *Resolver, opts SchemaOptions, logger *zap.Logger) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.UseFieldResolvers(),
		graphql.MaxDepth(opts.MaxDepth),
		graphql.Logger(panicLogger{logger: logger.Named("graphql")}),
	}
	if !opts.Introspection {
		schemaOpts = append(schemaOpts, graphql.DisableIntrospection())
	}
	var next tracer.Tracer
	if opts.Tracing {
		next = gqlotel.DefaultTracer()
	}
	schemaOpts = append(schemaOpts, graphql.Tracer(newOperationTracer(next)))

	schema, err := graphql.ParseSchema(schemaSDL, root, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics through zap. The executor turns the panic
// into a GraphQL error for the caller.
type panicLogger struct {
	logger *zap.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.logger.Error("Resolver panicked", zap.Any("panic", value), zap.Stack("stack"))
}

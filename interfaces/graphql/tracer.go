package graphql

import (
	"context"

	"github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/noop"
	"github.com/graph-gophers/graphql-go/trace/tracer"

	"graphryder-api/pkg/observability"
)

// operationTracer records each executed operation on the request for the
// access log, then defers to the wrapped tracer.
type operationTracer struct {
	next tracer.Tracer
}

func newOperationTracer(next tracer.Tracer) operationTracer {
	if next == nil {
		next = noop.Tracer{}
	}
	return operationTracer{next: next}
}

func (t operationTracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}, varTypes map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	info := observability.RequestInfoFrom(ctx)
	ctx, finish := t.next.TraceQuery(ctx, queryString, operationName, variables, varTypes)
	return ctx, func(errs []*errors.QueryError) {
		info.RecordOperation(operationName, len(errs))
		finish(errs)
	}
}

func (t operationTracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	return t.next.TraceField(ctx, label, typeName, fieldName, trivial, args)
}

func (t operationTracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	if vt, ok := t.next.(tracer.ValidationTracer); ok {
		return vt.TraceValidation(ctx)
	}
	return func([]*errors.QueryError) {}
}

package observability

import (
	"context"
	"sync"
)

// RequestInfo collects what inner handlers learn about a request so the access
// log can report it. A nil *RequestInfo ignores every call.
type RequestInfo struct {
	mu        sync.Mutex
	operation string
	errors    int
	executed  bool
}

type requestInfoKey struct{}

// WithRequestInfo attaches a fresh RequestInfo to ctx.
func WithRequestInfo(ctx context.Context) (context.Context, *RequestInfo) {
	info := &RequestInfo{}
	return context.WithValue(ctx, requestInfoKey{}, info), info
}

// RequestInfoFrom returns the RequestInfo of ctx, or nil.
func RequestInfoFrom(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*RequestInfo)
	return info
}

// RecordOperation notes an executed GraphQL operation and how many errors it
// produced. Anonymous operations have an empty name.
func (i *RequestInfo) RecordOperation(name string, errors int) {
	if i == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.operation = name
	i.errors = errors
	i.executed = true
}

// Operation returns the recorded operation. ok is false when no GraphQL
// operation ran.
func (i *RequestInfo) Operation() (name string, errors int, ok bool) {
	if i == nil {
		return "", 0, false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.operation, i.errors, i.executed
}

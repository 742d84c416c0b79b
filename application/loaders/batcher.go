// Package loaders batches the relationship lookups issued while one GraphQL
// response is being resolved.
package loaders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BatchFunction is the function that performs the actual batch loading
type BatchFunction[K comparable, V any] func(context.Context, []K) (map[K]V, error)

// BatchObserver receives the size of every dispatched batch.
type BatchObserver interface {
	ObserveBatch(size int)
}

// Result holds the result of a batch load operation
type Result[V any] struct {
	Value V
	Error error
}

type pendingRequest[V any] struct {
	ctx    context.Context
	result chan Result[V]
}

// Batcher collects the keys requested within a short window and loads them with a
// single call to the batch function. It does not cache.
type Batcher[K comparable, V any] struct {
	batchFn      BatchFunction[K, V]
	batchWindow  time.Duration
	maxBatchSize int
	observer     BatchObserver

	pending map[K][]*pendingRequest[V]
	mu      sync.Mutex
	timer   *time.Timer

	logger *zap.Logger
}

// NewBatcher creates a new batcher. observer may be nil.
func NewBatcher[K comparable, V any](
	batchFn BatchFunction[K, V],
	batchWindow time.Duration,
	maxBatchSize int,
	observer BatchObserver,
	logger *zap.Logger,
) *Batcher[K, V] {
	if batchWindow <= 0 {
		batchWindow = 2 * time.Millisecond
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Batcher[K, V]{
		batchFn:      batchFn,
		batchWindow:  batchWindow,
		maxBatchSize: maxBatchSize,
		observer:     observer,
		pending:      make(map[K][]*pendingRequest[V]),
		logger:       logger,
	}
}

// Load loads a single value, batching with other concurrent requests
func (b *Batcher[K, V]) Load(ctx context.Context, key K) (V, error) {
	if err := ctx.Err(); err != nil {
		var zero V
		return zero, err
	}

	b.mu.Lock()

	resultChan := make(chan Result[V], 1)
	b.pending[key] = append(b.pending[key], &pendingRequest[V]{ctx: ctx, result: resultChan})

	shouldDispatch := len(b.pending) >= b.maxBatchSize

	if shouldDispatch {
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		go b.dispatch()
	} else if b.timer == nil {
		b.timer = time.AfterFunc(b.batchWindow, b.dispatch)
	}

	b.mu.Unlock()

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case result := <-resultChan:
		return result.Value, result.Error
	}
}

// dispatch executes the batch function for all pending requests
func (b *Batcher[K, V]) dispatch() {
	b.mu.Lock()

	if len(b.pending) == 0 {
		b.timer = nil
		b.mu.Unlock()
		return
	}

	keys := make([]K, 0, len(b.pending))
	requests := b.pending
	b.pending = make(map[K][]*pendingRequest[V])
	b.timer = nil

	for key := range requests {
		keys = append(keys, key)
	}

	b.mu.Unlock()

	if b.observer != nil {
		b.observer.ObserveBatch(len(keys))
	}

	// Run under the first request context that is still live.
	ctx := context.Background()
	live := false
	for _, reqs := range requests {
		for _, req := range reqs {
			if req.ctx.Err() == nil {
				ctx = req.ctx
				live = true
				break
			}
		}
		if live {
			break
		}
	}

	start := time.Now()
	results, err := b.batchFn(ctx, keys)

	b.logger.Debug("Batch executed",
		zap.Int("requested", len(keys)),
		zap.Int("returned", len(results)),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)

	for key, reqs := range requests {
		var result Result[V]

		if err != nil {
			result.Error = err
		} else if value, ok := results[key]; ok {
			result.Value = value
		} else {
			result.Error = fmt.Errorf("key %v not found in batch results", key)
		}

		// result channels are buffered, one send per request never blocks
		for _, req := range reqs {
			req.result <- result
		}
	}
}

package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "graphryder-api/pkg/errors"
)

type echoQuery struct {
	Value string
}

func (q echoQuery) Validate() error {
	if q.Value == "" {
		return pkgerrors.NewValidationError("value is required")
	}
	return nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

type countingMetrics struct {
	hits, misses int
	observed     []string
}

func (m *countingMetrics) CacheHit()  { m.hits++ }
func (m *countingMetrics) CacheMiss() { m.misses++ }
func (m *countingMetrics) ObserveQuery(query string, err error, _ time.Duration) {
	m.observed = append(m.observed, query)
}

func TestQueryBus_Dispatch(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		return q.(echoQuery).Value, nil
	})))

	out, err := Ask[string](context.Background(), b, echoQuery{Value: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestQueryBus_DuplicateRegistration(t *testing.T) {
	b := NewQueryBus()
	h := QueryHandlerFunc(func(context.Context, Query) (interface{}, error) { return nil, nil })

	require.NoError(t, b.Register(echoQuery{}, h))
	assert.Error(t, b.Register(echoQuery{}, h))
}

func TestQueryBus_ValidationRunsFirst(t *testing.T) {
	called := false
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		called = true
		return nil, nil
	})))

	_, err := b.Ask(context.Background(), echoQuery{})

	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, called)
}

func TestQueryBus_UnregisteredQuery(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), echoQuery{Value: "x"})

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
}

func TestQueryBus_WrongResultType(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		return 42, nil
	})))

	_, err := Ask[string](context.Background(), b, echoQuery{Value: "x"})

	assert.Error(t, err)
}

func TestCachingMiddleware(t *testing.T) {
	// Arrange
	var calls int32
	metrics := &countingMetrics{}
	cache := &mapCache{items: map[string]interface{}{}}
	b := NewQueryBus(NewCachingMiddleware(cache, time.Minute, metrics))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return q.(echoQuery).Value, nil
	})))
	ctx := context.Background()

	// Act
	first, err := b.Ask(ctx, echoQuery{Value: "a"})
	require.NoError(t, err)
	second, err := b.Ask(ctx, echoQuery{Value: "a"})
	require.NoError(t, err)
	_, err = b.Ask(ctx, echoQuery{Value: "b"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestCachingMiddleware_DoesNotCacheErrors(t *testing.T) {
	var calls int32
	cache := &mapCache{items: map[string]interface{}{}}
	b := NewQueryBus(NewCachingMiddleware(cache, time.Minute, nil))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("store down")
	})))

	_, err := b.Ask(context.Background(), echoQuery{Value: "a"})
	require.Error(t, err)
	_, err = b.Ask(context.Background(), echoQuery{Value: "a"})
	require.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, cache.items)
}

func TestCachingMiddleware_SharedCallSurvivesFirstCaller(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	cache := &mapCache{items: map[string]interface{}{}}
	b := NewQueryBus(NewCachingMiddleware(cache, time.Minute, nil))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return q.(echoQuery).Value, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := b.Ask(firstCtx, echoQuery{Value: "a"})
		firstErr <- err
	}()
	<-started

	type outcome struct {
		val interface{}
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		val, err := b.Ask(context.Background(), echoQuery{Value: "a"})
		second <- outcome{val, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(release)
	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.Equal(t, "a", got.val)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never returned")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, cache.items, "bus.echoQuery:{Value:a}")
}

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	metrics := &countingMetrics{}
	b := NewQueryBus(NewMetricsMiddleware(metrics), NewLoggingMiddleware(zap.NewNop()))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		return "ok", nil
	})))

	_, err := b.Ask(context.Background(), echoQuery{Value: "a"})

	require.NoError(t, err)
	assert.Equal(t, []string{"echoQuery"}, metrics.observed)
}

package bus

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"go.uber.org/zap"
)

// Cache interface for caching
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheMetrics receives cache hit and miss notifications.
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// flightTimeout bounds a shared handler call once it no longer follows the
// context of the caller that started it.
const flightTimeout = 30 * time.Second

// CachingMiddleware serves repeated queries from a cache and collapses identical
// concurrent misses into one handler call. The shared call outlives any single
// caller; each caller stops waiting when its own context ends.
type CachingMiddleware struct {
	cache   Cache
	ttl     time.Duration
	metrics CacheMetrics
	group   singleflight.Group
}

// NewCachingMiddleware creates a new caching middleware. metrics may be nil.
func NewCachingMiddleware(cache Cache, ttl time.Duration, metrics CacheMetrics) *CachingMiddleware {
	return &CachingMiddleware{
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		cacheKey := m.generateCacheKey(query)

		if cached, found := m.cache.Get(ctx, cacheKey); found {
			if m.metrics != nil {
				m.metrics.CacheHit()
			}
			return cached, nil
		}
		if m.metrics != nil {
			m.metrics.CacheMiss()
		}

		ch := m.group.DoChan(cacheKey, func() (interface{}, error) {
			flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
			defer cancel()

			result, err := next.Handle(flightCtx, query)
			if err != nil {
				return nil, err
			}
			_ = m.cache.Set(flightCtx, cacheKey, result, m.ttl)
			return result, nil
		})

		select {
		case res := <-ch:
			return res.Val, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

func (m *CachingMiddleware) generateCacheKey(query Query) string {
	return fmt.Sprintf("%T:%+v", query, query)
}

// Metrics receives one observation per dispatched query.
type Metrics interface {
	ObserveQuery(query string, err error, d time.Duration)
}

// MetricsMiddleware adds metrics to query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		start := time.Now()
		result, err := next.Handle(ctx, query)
		m.metrics.ObserveQuery(QueryName(query), err, time.Since(start))
		return result, err
	})
}

// LoggingMiddleware logs every query at debug level and failures at warn.
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger.Named("query")}
}

// Wrap wraps a query handler with logging
func (m *LoggingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		start := time.Now()
		result, err := next.Handle(ctx, query)
		fields := []zap.Field{
			zap.String("query", QueryName(query)),
			zap.Any("args", query),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			m.logger.Warn("Query failed", append(fields, zap.Error(err))...)
			return nil, err
		}
		m.logger.Debug("Query handled", fields...)
		return result, nil
	})
}

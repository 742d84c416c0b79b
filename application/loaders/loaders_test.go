package loaders

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

	"graphryder-api/domain/graph"
	"graphryder-api/infrastructure/persistence/memory"
)

type sizeRecorder struct {
	mu    sync.Mutex
	sizes []int
}

func (r *sizeRecorder) ObserveBatch(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, size)
}

// loadAll issues one Load per key concurrently, the way sibling resolvers do.
func loadAll(t *testing.T, b *Batcher[int, int], keys []int) map[int]int {
	t.Helper()
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[int]int, len(keys))
	)
	for _, key := range keys {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			v, err := b.Load(context.Background(), k)
			assert.NoError(t, err)
			mu.Lock()
			out[k] = v
			mu.Unlock()
		}(key)
	}
	wg.Wait()
	return out
}

func TestBatcher_CollapsesConcurrentLoads(t *testing.T) {
	// Arrange
	var calls int32
	rec := &sizeRecorder{}
	b := NewBatcher(func(_ context.Context, keys []int) (map[int]int, error) {
		atomic.AddInt32(&calls, 1)
		out := make(map[int]int, len(keys))
		for _, k := range keys {
			out[k] = k * 10
		}
		return out, nil
	}, 20*time.Millisecond, 100, rec, zap.NewNop())

	// Act
	results := loadAll(t, b, []int{1, 2, 3, 2})

	// Assert
	assert.Equal(t, map[int]int{1: 10, 2: 20, 3: 30}, results)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []int{3}, rec.sizes)
}

func TestBatcher_MaxBatchSizeDispatchesEarly(t *testing.T) {
	var calls int32
	b := NewBatcher(func(_ context.Context, keys []int) (map[int]int, error) {
		atomic.AddInt32(&calls, 1)
		out := make(map[int]int, len(keys))
		for _, k := range keys {
			out[k] = k
		}
		return out, nil
	}, time.Hour, 2, nil, nil)

	results := loadAll(t, b, []int{1, 2})

	assert.Len(t, results, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBatcher_ErrorReachesEveryCaller(t *testing.T) {
	boom := errors.New("store down")
	b := NewBatcher(func(context.Context, []int) (map[int]int, error) {
		return nil, boom
	}, time.Millisecond, 10, nil, nil)

	_, err := b.Load(context.Background(), 1)

	assert.ErrorIs(t, err, boom)
}

func TestBatcher_MissingKey(t *testing.T) {
	b := NewBatcher(func(context.Context, []int) (map[int]int, error) {
		return map[int]int{}, nil
	}, time.Millisecond, 10, nil, nil)

	_, err := b.Load(context.Background(), 7)

	assert.Error(t, err)
}

func TestBatcher_CancelledContext(t *testing.T) {
	b := NewBatcher(func(context.Context, []int) (map[int]int, error) {
		return map[int]int{}, nil
	}, time.Millisecond, 10, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Load(ctx, 1)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelationLoader_AgainstMemoryStore(t *testing.T) {
	// Arrange
	store, err := memory.NewStoreFromFile("", zap.NewNop())
	require.NoError(t, err)
	rec := &sizeRecorder{}
	factory := NewFactory(store, Config{BatchWindow: 10 * time.Millisecond}, rec, zap.NewNop())
	ctx := WithLoader(context.Background(), factory.New())
	loader := FromContext(ctx)
	require.NotNil(t, loader)

	// Act
	var wg sync.WaitGroup
	var codes, users []*graph.Node
	var errCodes, errUsers error
	wg.Add(2)
	go func() {
		defer wg.Done()
		codes, errCodes = loader.LoadRelated(ctx, 30, graph.TagCodes)
	}()
	go func() {
		defer wg.Done()
		users, errUsers = loader.LoadRelated(ctx, 999, graph.GroupUsers)
	}()
	wg.Wait()

	// Assert
	require.NoError(t, errCodes)
	require.NoError(t, errUsers)
	ids := make([]int64, 0, len(codes))
	for _, c := range codes {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{60, 61}, ids)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.Equal(t, []int{2}, rec.sizes)
}

func TestFromContext_NoLoader(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
}

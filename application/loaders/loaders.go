package loaders

import (
	"context"
	"time"

	"go.uber.org/zap"

	"graphryder-api/application/ports"
	"graphryder-api/domain/graph"
)

// Config tunes the batching window of the per-request loaders.
type Config struct {
	BatchWindow  time.Duration `yaml:"batch_window" validate:"gte=0"`
	MaxBatchSize int           `yaml:"max_batch_size" validate:"gte=0"`
}

// RelationLoader resolves relationship fields. All fields requested while one
// response is resolved collapse into a few FindRelatedNodes calls.
type RelationLoader struct {
	*Batcher[graph.RelationKey, []*graph.Node]
}

// NewRelationLoader creates a relation loader over repo.
func NewRelationLoader(repo ports.GraphRepository, cfg Config, observer BatchObserver, logger *zap.Logger) *RelationLoader {
	batchFn := func(ctx context.Context, keys []graph.RelationKey) (map[graph.RelationKey][]*graph.Node, error) {
		found, err := repo.FindRelatedNodes(ctx, keys)
		if err != nil {
			return nil, err
		}
		out := make(map[graph.RelationKey][]*graph.Node, len(keys))
		for _, k := range keys {
			nodes := found[k]
			if nodes == nil {
				nodes = []*graph.Node{}
			}
			out[k] = nodes
		}
		return out, nil
	}

	return &RelationLoader{
		Batcher: NewBatcher(batchFn, cfg.BatchWindow, cfg.MaxBatchSize, observer, logger),
	}
}

// LoadRelated returns the nodes reached from parent over rel. A parent without
// neighbours yields an empty slice.
func (l *RelationLoader) LoadRelated(ctx context.Context, parentID int64, rel graph.Relation) ([]*graph.Node, error) {
	return l.Load(ctx, graph.RelationKey{ParentID: parentID, Relation: rel})
}

// Factory builds a fresh loader for every request. Loaders never outlive the
// request that created them, so nothing is cached across requests.
type Factory struct {
	repo     ports.GraphRepository
	cfg      Config
	observer BatchObserver
	logger   *zap.Logger
}

// NewFactory creates a loader factory. observer may be nil.
func NewFactory(repo ports.GraphRepository, cfg Config, observer BatchObserver, logger *zap.Logger) *Factory {
	return &Factory{repo: repo, cfg: cfg, observer: observer, logger: logger.Named("loader")}
}

// New creates a request-scoped relation loader.
func (f *Factory) New() *RelationLoader {
	return NewRelationLoader(f.repo, f.cfg, f.observer, f.logger)
}

type ctxKey struct{}

// WithLoader stores the request's loader in ctx.
func WithLoader(ctx context.Context, l *RelationLoader) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request's loader, or nil when none was attached.
func FromContext(ctx context.Context) *RelationLoader {
	l, _ := ctx.Value(ctxKey{}).(*RelationLoader)
	return l
}

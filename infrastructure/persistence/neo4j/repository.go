package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"graphryder-api/application/ports"
	"graphryder-api/domain/graph"
	pkgerrors "graphryder-api/pkg/errors"
	"graphryder-api/pkg/observability"
)

// GraphRepository implements ports.GraphRepository with Cypher.
type GraphRepository struct {
	runner  Runner
	logger  *zap.Logger
	metrics *observability.Collector
}

var _ ports.GraphRepository = (*GraphRepository)(nil)

// NewGraphRepository creates a repository. metrics may be nil.
func NewGraphRepository(runner Runner, logger *zap.Logger, metrics *observability.Collector) *GraphRepository {
	return &GraphRepository{
		runner:  runner,
		logger:  logger.Named("neo4j"),
		metrics: metrics,
	}
}

func (r *GraphRepository) FindNodesByLabelAnyOrg(ctx context.Context, label graph.Label) ([]*graph.Node, error) {
	stmt, err := nodesByLabel(label)
	if err != nil {
		r.rejected("findNodesByLabelAnyOrg", err)
		return []*graph.Node{}, nil
	}
	rows, err := r.run(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return r.nodes(stmt, rows)
}

func (r *GraphRepository) FindNodeByLabelAndID(ctx context.Context, label graph.Label, id int64) (*graph.Node, bool, error) {
	stmt, err := nodeByLabelAndID(label, id)
	if err != nil {
		r.rejected("findNodeByLabelAndId", err)
		return nil, false, nil
	}
	return r.single(ctx, stmt)
}

func (r *GraphRepository) FindNodeByLabelAndProperty(ctx context.Context, label graph.Label, key graph.PropertyKey, value any) (*graph.Node, bool, error) {
	stmt, err := nodesByLabelAndProperty(label, key, value, true)
	if err != nil {
		r.rejected("findNodeByLabelAndProperty", err)
		return nil, false, nil
	}
	return r.single(ctx, stmt)
}

func (r *GraphRepository) FindNodesByLabelAndProperty(ctx context.Context, label graph.Label, key graph.PropertyKey, value any) ([]*graph.Node, error) {
	stmt, err := nodesByLabelAndProperty(label, key, value, false)
	if err != nil {
		r.rejected("findNodesByLabelAndProperty", err)
		return []*graph.Node{}, nil
	}
	rows, err := r.run(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return r.nodes(stmt, rows)
}

func (r *GraphRepository) FindTagByNameAndPlatform(ctx context.Context, tagName, platform string) (*graph.Node, bool, error) {
	return r.single(ctx, tagByNameAndPlatform(tagName, platform))
}

// FindRelatedNodes issues one statement per distinct relation in keys, each
// covering all parents that asked for it.
func (r *GraphRepository) FindRelatedNodes(ctx context.Context, keys []graph.RelationKey) (map[graph.RelationKey][]*graph.Node, error) {
	result := make(map[graph.RelationKey][]*graph.Node, len(keys))
	parents := make(map[graph.Relation][]int64)
	var order []graph.Relation

	for _, k := range keys {
		if _, seen := result[k]; seen {
			continue
		}
		result[k] = []*graph.Node{}
		if _, ok := parents[k.Relation]; !ok {
			order = append(order, k.Relation)
		}
		parents[k.Relation] = append(parents[k.Relation], k.ParentID)
	}

	for _, rel := range order {
		stmt, err := relatedNodes(rel, parents[rel])
		if err != nil {
			r.rejected("findRelatedNodes", err)
			continue
		}
		rows, err := r.run(ctx, stmt, attribute.String("graph.relation", rel.String()), attribute.Int("graph.parents", len(parents[rel])))
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			pid, err := rowInt64(row, "pid")
			if err != nil {
				return nil, r.mapping(stmt, err)
			}
			targets, err := toNodeList(row["targets"])
			if err != nil {
				return nil, r.mapping(stmt, err)
			}
			result[graph.RelationKey{ParentID: pid, Relation: rel}] = targets
		}
	}
	return result, nil
}

func (r *GraphRepository) FindCooccurringCodesForCorpus(ctx context.Context, tagName, platform string) ([]*graph.Cooccurrence, error) {
	stmt := cooccurringCodes(tagName, platform)
	rows, err := r.run(ctx, stmt)
	if err != nil {
		return nil, err
	}

	pairs := make([]*graph.Cooccurrence, 0, len(rows))
	for _, row := range rows {
		code1, err := rowNode(row, "code1")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		code2, err := rowNode(row, "code2")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		posts, err := toInt64List(row["posts"])
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		count, err := rowInt64(row, "cooccurs")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		pairs = append(pairs, &graph.Cooccurrence{Code1: code1, Code2: code2, Posts: posts, Count: count})
	}
	return graph.SortCooccurrences(pairs), nil
}

func (r *GraphRepository) FindUserInteractionGraphForCorpus(ctx context.Context, tagName, platform string) ([]*graph.Interaction, error) {
	stmt := userInteractions(tagName, platform)
	rows, err := r.run(ctx, stmt)
	if err != nil {
		return nil, err
	}

	pairs := make([]*graph.Interaction, 0, len(rows))
	for _, row := range rows {
		user1, err := rowNode(row, "user1")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		user2, err := rowNode(row, "user2")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		posts, err := toInt64List(row["posts"])
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		count, err := rowInt64(row, "interactions")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		pairs = append(pairs, &graph.Interaction{User1: user1, User2: user2, Posts: posts, Count: count})
	}
	return graph.SortInteractions(pairs), nil
}

func (r *GraphRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.runner.Ping(ctx)
	r.metrics.ObserveDB("ping", 0, err, time.Since(start))
	if err != nil {
		return pkgerrors.NewUnavailableError("neo4j").WithCause(err)
	}
	return nil
}

func (r *GraphRepository) single(ctx context.Context, stmt Statement) (*graph.Node, bool, error) {
	rows, err := r.run(ctx, stmt)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	n, err := rowNode(rows[0], "n")
	if err != nil {
		return nil, false, r.mapping(stmt, err)
	}
	return n, n != nil, nil
}

func (r *GraphRepository) nodes(stmt Statement, rows []Row) ([]*graph.Node, error) {
	out := make([]*graph.Node, 0, len(rows))
	for _, row := range rows {
		n, err := rowNode(row, "n")
		if err != nil {
			return nil, r.mapping(stmt, err)
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// run executes stmt with a span, metrics and error classification.
func (r *GraphRepository) run(ctx context.Context, stmt Statement, attrs ...attribute.KeyValue) ([]Row, error) {
	attrs = append(attrs,
		attribute.String("db.system", "neo4j"),
		attribute.String("db.operation", stmt.Name),
	)
	ctx, span := observability.StartSpan(ctx, "neo4j."+stmt.Name, attrs...)

	start := time.Now()
	rows, err := r.runner.Run(ctx, stmt)
	elapsed := time.Since(start)

	r.metrics.ObserveDB(stmt.Name, len(rows), err, elapsed)
	observability.EndSpan(span, err)

	if err != nil {
		r.logger.Error("Cypher query failed",
			zap.String("connector", stmt.Name),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		switch {
		case IsOpen(err):
			return nil, pkgerrors.NewUnavailableError("neo4j").WithCause(err)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, pkgerrors.NewTimeoutError(stmt.Name).WithCause(err)
		}
		return nil, pkgerrors.NewDatabaseError(stmt.Name, err)
	}

	r.logger.Debug("Cypher query executed",
		zap.String("connector", stmt.Name),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", elapsed),
	)
	return rows, nil
}

func (r *GraphRepository) rejected(connector string, err error) {
	r.logger.Debug("Query not sent to store",
		zap.String("connector", connector),
		zap.Error(err),
	)
}

func (r *GraphRepository) mapping(stmt Statement, err error) error {
	return pkgerrors.NewDatabaseError(stmt.Name, fmt.Errorf("map record: %w", err))
}

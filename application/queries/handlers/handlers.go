// Package handlers holds the query handlers behind the GraphQL root fields.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"graphryder-api/application/ports"
	"graphryder-api/application/queries"
	"graphryder-api/application/queries/bus"
	"graphryder-api/domain/graph"
)

// ListPlatformsHandler lists all platforms.
type ListPlatformsHandler struct {
	repo ports.GraphRepository
}

func NewListPlatformsHandler(repo ports.GraphRepository) *ListPlatformsHandler {
	return &ListPlatformsHandler{repo: repo}
}

func (h *ListPlatformsHandler) Handle(ctx context.Context, _ bus.Query) (interface{}, error) {
	nodes, err := h.repo.FindNodesByLabelAnyOrg(ctx, graph.LabelPlatform)
	if err != nil {
		return nil, err
	}
	return &queries.NodeListResult{Nodes: nodes}, nil
}

// PlatformNodesHandler lists the nodes of one label that belong to a platform.
// It serves tagsByPlatform, usersByPlatform and corpusByPlatform.
type PlatformNodesHandler struct {
	repo   ports.GraphRepository
	label  graph.Label
	logger *zap.Logger
}

func NewPlatformNodesHandler(repo ports.GraphRepository, label graph.Label, logger *zap.Logger) *PlatformNodesHandler {
	return &PlatformNodesHandler{repo: repo, label: label, logger: logger}
}

func (h *PlatformNodesHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	var platform string
	switch query := q.(type) {
	case queries.TagsByPlatformQuery:
		platform = query.Platform
	case queries.UsersByPlatformQuery:
		platform = query.Platform
	case queries.CorpusByPlatformQuery:
		platform = query.Platform
	default:
		return nil, fmt.Errorf("unexpected query %T", q)
	}

	nodes, err := h.repo.FindNodesByLabelAndProperty(ctx, h.label, graph.PropPlatform, platform)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("Platform nodes loaded",
		zap.String("label", h.label.String()),
		zap.String("platform", platform),
		zap.Int("count", len(nodes)),
	)
	return &queries.NodeListResult{Nodes: nodes}, nil
}

// CooccurrenceHandler computes code co-occurrence for a corpus.
type CooccurrenceHandler struct {
	repo ports.GraphRepository
}

func NewCooccurrenceHandler(repo ports.GraphRepository) *CooccurrenceHandler {
	return &CooccurrenceHandler{repo: repo}
}

func (h *CooccurrenceHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.CooccurrenceByCorpusQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T", q)
	}
	pairs, err := h.repo.FindCooccurringCodesForCorpus(ctx, query.TagName, query.Platform)
	if err != nil {
		return nil, err
	}
	return &queries.CooccurrenceResult{Pairs: graph.SortCooccurrences(pairs)}, nil
}

// InteractionHandler computes user interactions for a corpus.
type InteractionHandler struct {
	repo ports.GraphRepository
}

func NewInteractionHandler(repo ports.GraphRepository) *InteractionHandler {
	return &InteractionHandler{repo: repo}
}

func (h *InteractionHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.UserInteractionGraphByCorpusQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T", q)
	}
	pairs, err := h.repo.FindUserInteractionGraphForCorpus(ctx, query.TagName, query.Platform)
	if err != nil {
		return nil, err
	}
	return &queries.InteractionResult{Pairs: graph.SortInteractions(pairs)}, nil
}

// TagByNameHandler looks up one tag by name and platform.
type TagByNameHandler struct {
	repo ports.GraphRepository
}

func NewTagByNameHandler(repo ports.GraphRepository) *TagByNameHandler {
	return &TagByNameHandler{repo: repo}
}

func (h *TagByNameHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.TagByNameQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T", q)
	}
	node, found, err := h.repo.FindTagByNameAndPlatform(ctx, query.TagName, query.Platform)
	if err != nil {
		return nil, err
	}
	if !found {
		return &queries.NodeResult{}, nil
	}
	return &queries.NodeResult{Node: node}, nil
}

// NodeByIDHandler looks up one node by label and internal identity.
type NodeByIDHandler struct {
	repo ports.GraphRepository
}

func NewNodeByIDHandler(repo ports.GraphRepository) *NodeByIDHandler {
	return &NodeByIDHandler{repo: repo}
}

func (h *NodeByIDHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.NodeByIDQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T", q)
	}
	node, found, err := h.repo.FindNodeByLabelAndID(ctx, query.Label, query.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &queries.NodeResult{}, nil
	}
	return &queries.NodeResult{Node: node}, nil
}

// RegisterAll registers every root query handler on b.
func RegisterAll(b *bus.QueryBus, repo ports.GraphRepository, logger *zap.Logger) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.ListPlatformsQuery{}, NewListPlatformsHandler(repo)},
		{queries.TagsByPlatformQuery{}, NewPlatformNodesHandler(repo, graph.LabelTag, logger)},
		{queries.UsersByPlatformQuery{}, NewPlatformNodesHandler(repo, graph.LabelUser, logger)},
		{queries.CorpusByPlatformQuery{}, NewPlatformNodesHandler(repo, graph.LabelCorpusTag, logger)},
		{queries.CooccurrenceByCorpusQuery{}, NewCooccurrenceHandler(repo)},
		{queries.UserInteractionGraphByCorpusQuery{}, NewInteractionHandler(repo)},
		{queries.TagByNameQuery{}, NewTagByNameHandler(repo)},
		{queries.NodeByIDQuery{}, NewNodeByIDHandler(repo)},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

package graphql

import (
	"context"

	"graphryder-api/application/queries"
	"graphryder-api/application/queries/bus"
	"graphryder-api/domain/graph"
)

// Resolver is the root resolver. Every root field is one query on the bus.
type Resolver struct {
	bus *bus.QueryBus
}

// NewResolver creates the root resolver.
func NewResolver(b *bus.QueryBus) *Resolver {
	return &Resolver{bus: b}
}

type platformArgs struct {
	Platform *string
}

type corpusArgs struct {
	TagName  *string
	Platform *string
}

type idArgs struct {
	ID *int32
}

func (r *Resolver) Platforms(ctx context.Context) (*[]*platformResolver, error) {
	return nodeList(ctx, r.bus, queries.ListPlatformsQuery{}, newPlatform)
}

func (r *Resolver) TagsByPlatform(ctx context.Context, args platformArgs) (*[]*tagResolver, error) {
	return nodeList(ctx, r.bus, queries.TagsByPlatformQuery{Platform: deref(args.Platform)}, newTag)
}

func (r *Resolver) UsersByPlatform(ctx context.Context, args platformArgs) (*[]*userResolver, error) {
	return nodeList(ctx, r.bus, queries.UsersByPlatformQuery{Platform: deref(args.Platform)}, newUser)
}

// CorpusByPlatform lists corpus tags. They share the tag shape.
func (r *Resolver) CorpusByPlatform(ctx context.Context, args platformArgs) (*[]*tagResolver, error) {
	return nodeList(ctx, r.bus, queries.CorpusByPlatformQuery{Platform: deref(args.Platform)}, newTag)
}

func (r *Resolver) CooccurrenceByCorpus(ctx context.Context, args corpusArgs) (*[]*cooccurrenceResolver, error) {
	q := queries.CooccurrenceByCorpusQuery{TagName: deref(args.TagName), Platform: deref(args.Platform)}
	res, err := bus.Ask[*queries.CooccurrenceResult](ctx, r.bus, q)
	if err != nil {
		return nil, err
	}
	out := make([]*cooccurrenceResolver, len(res.Pairs))
	for i, p := range res.Pairs {
		out[i] = newCooccurrence(p)
	}
	return &out, nil
}

func (r *Resolver) UserInteractionGraphByCorpus(ctx context.Context, args corpusArgs) (*[]*interactionResolver, error) {
	q := queries.UserInteractionGraphByCorpusQuery{TagName: deref(args.TagName), Platform: deref(args.Platform)}
	res, err := bus.Ask[*queries.InteractionResult](ctx, r.bus, q)
	if err != nil {
		return nil, err
	}
	out := make([]*interactionResolver, len(res.Pairs))
	for i, p := range res.Pairs {
		out[i] = newInteraction(p)
	}
	return &out, nil
}

func (r *Resolver) TagByName(ctx context.Context, args corpusArgs) (*tagResolver, error) {
	q := queries.TagByNameQuery{TagName: deref(args.TagName), Platform: deref(args.Platform)}
	return single(ctx, r.bus, q, newTag)
}

// UserByID resolves to null when the id is missing, as no node matches it.
func (r *Resolver) UserByID(ctx context.Context, args idArgs) (*userResolver, error) {
	if args.ID == nil {
		return nil, nil
	}
	return single(ctx, r.bus, queries.NodeByIDQuery{Label: graph.LabelUser, ID: int64(*args.ID)}, newUser)
}

func (r *Resolver) PostByID(ctx context.Context, args idArgs) (*postResolver, error) {
	if args.ID == nil {
		return nil, nil
	}
	return single(ctx, r.bus, queries.NodeByIDQuery{Label: graph.LabelPost, ID: int64(*args.ID)}, newPost)
}

func nodeList[T any](ctx context.Context, b *bus.QueryBus, q bus.Query, wrap func(*graph.Node) T) (*[]T, error) {
	res, err := bus.Ask[*queries.NodeListResult](ctx, b, q)
	if err != nil {
		return nil, err
	}
	return wrapAll(res.Nodes, wrap), nil
}

// single returns a nil resolver, and so a null field, when nothing matched.
func single[T any](ctx context.Context, b *bus.QueryBus, q bus.Query, wrap func(*graph.Node) *T) (*T, error) {
	res, err := bus.Ask[*queries.NodeResult](ctx, b, q)
	if err != nil {
		return nil, err
	}
	if res.Node == nil {
		return nil, nil
	}
	return wrap(res.Node), nil
}

func wrapAll[T any](nodes []*graph.Node, wrap func(*graph.Node) T) *[]T {
	out := make([]T, len(nodes))
	for i, n := range nodes {
		out[i] = wrap(n)
	}
	return &out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

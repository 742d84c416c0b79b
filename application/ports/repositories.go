package ports

import (
	"context"

	"graphryder-api/domain/graph"
)

// GraphRepository is the read port over the forum graph.
// The domain doesn't know whether Neo4j or the in-memory store sits behind it.
type GraphRepository interface {
	// FindNodesByLabelAnyOrg returns every node carrying the label, across all platforms.
	FindNodesByLabelAnyOrg(ctx context.Context, label graph.Label) ([]*graph.Node, error)

	// FindNodeByLabelAndID returns the node with the given internal identity.
	// found is false when nothing matches.
	FindNodeByLabelAndID(ctx context.Context, label graph.Label, id int64) (node *graph.Node, found bool, err error)

	// FindNodeByLabelAndProperty returns one node whose property equals value.
	FindNodeByLabelAndProperty(ctx context.Context, label graph.Label, key graph.PropertyKey, value any) (node *graph.Node, found bool, err error)

	// FindNodesByLabelAndProperty returns every node whose property equals value.
	FindNodesByLabelAndProperty(ctx context.Context, label graph.Label, key graph.PropertyKey, value any) ([]*graph.Node, error)

	// FindTagByNameAndPlatform returns the tag with the given name on a platform.
	FindTagByNameAndPlatform(ctx context.Context, tagName, platform string) (node *graph.Node, found bool, err error)

	// FindRelatedNodes resolves many relationship fields at once. Every requested key
	// is present in the result; keys without neighbours map to an empty slice.
	FindRelatedNodes(ctx context.Context, keys []graph.RelationKey) (map[graph.RelationKey][]*graph.Node, error)

	// FindCooccurringCodesForCorpus returns the code pairs co-referenced in the posts of
	// the corpus identified by tag and platform, by descending count.
	FindCooccurringCodesForCorpus(ctx context.Context, tagName, platform string) ([]*graph.Cooccurrence, error)

	// FindUserInteractionGraphForCorpus returns the user pairs linked by replies or
	// quotes inside the corpus, by descending count.
	FindUserInteractionGraphForCorpus(ctx context.Context, tagName, platform string) ([]*graph.Interaction, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

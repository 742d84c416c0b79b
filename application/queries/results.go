package queries

import "graphryder-api/domain/graph"

// NodeListResult is returned by every root query that yields nodes.
type NodeListResult struct {
	Nodes []*graph.Node `json:"nodes"`
}

// NodeResult is returned by single-node lookups. Node is nil when not found.
type NodeResult struct {
	Node *graph.Node `json:"node"`
}

// CooccurrenceResult holds the code pairs of a corpus.
type CooccurrenceResult struct {
	Pairs []*graph.Cooccurrence `json:"pairs"`
}

// InteractionResult holds the user pairs of a corpus.
type InteractionResult struct {
	Pairs []*graph.Interaction `json:"pairs"`
}

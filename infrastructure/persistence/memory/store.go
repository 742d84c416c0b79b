// Package memory is an in-process implementation of the graph read port. It serves
// local development without a Neo4j instance and backs the end-to-end tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"graphryder-api/application/ports"
	"graphryder-api/domain/graph"
)

// Edge is a directed, typed relationship between two nodes.
type Edge struct {
	ID   int64         `yaml:"id,omitempty" json:"id,omitempty"`
	From int64         `yaml:"from" json:"from"`
	To   int64         `yaml:"to" json:"to"`
	Type graph.RelType `yaml:"type" json:"type"`
}

// Store holds a whole graph in memory. It is safe for concurrent readers; writes
// happen only while seeding.
type Store struct {
	mu     sync.RWMutex
	nodes  map[int64]*graph.Node
	out    map[int64][]*Edge
	in     map[int64][]*Edge
	nextID int64
	logger *zap.Logger
}

var _ ports.GraphRepository = (*Store)(nil)

// NewStore creates an empty store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		nodes:  make(map[int64]*graph.Node),
		out:    make(map[int64][]*Edge),
		in:     make(map[int64][]*Edge),
		logger: logger.Named("memory"),
	}
}

// AddNode inserts a node. Identities must be unique.
func (s *Store) AddNode(n *graph.Node) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return fmt.Errorf("duplicate node id %d", n.ID)
	}
	for _, l := range n.Labels {
		if !graph.Label(l).Valid() {
			return fmt.Errorf("node %d: unknown label %q", n.ID, l)
		}
	}

	props := make(map[string]any, len(n.Props))
	for k, v := range n.Props {
		props[k] = normalize(v)
	}
	s.nodes[n.ID] = &graph.Node{ID: n.ID, Labels: append([]string(nil), n.Labels...), Props: props}
	return nil
}

// AddEdge inserts a relationship between two existing nodes.
func (s *Store) AddEdge(from, to int64, relType graph.RelType) error {
	if !relType.Valid() || relType == graph.RelCorpus {
		return fmt.Errorf("unknown relationship type %q", relType)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[from]; !ok {
		return fmt.Errorf("edge %s: unknown start node %d", relType, from)
	}
	if _, ok := s.nodes[to]; !ok {
		return fmt.Errorf("edge %s: unknown end node %d", relType, to)
	}

	s.nextID++
	e := &Edge{ID: s.nextID, From: from, To: to, Type: relType}
	s.out[from] = append(s.out[from], e)
	s.in[to] = append(s.in[to], e)
	return nil
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, es := range s.out {
		edges += len(es)
	}
	return len(s.nodes), edges
}

func (s *Store) FindNodesByLabelAnyOrg(ctx context.Context, label graph.Label) ([]*graph.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !label.Valid() {
		return []*graph.Node{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scan(func(n *graph.Node) bool { return n.HasLabel(label) }), nil
}

func (s *Store) FindNodeByLabelAndID(ctx context.Context, label graph.Label, id int64) (*graph.Node, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !label.Valid() {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok || !n.HasLabel(label) {
		return nil, false, nil
	}
	return n, true, nil
}

func (s *Store) FindNodeByLabelAndProperty(ctx context.Context, label graph.Label, key graph.PropertyKey, value any) (*graph.Node, bool, error) {
	nodes, err := s.FindNodesByLabelAndProperty(ctx, label, key, value)
	if err != nil || len(nodes) == 0 {
		return nil, false, err
	}
	return nodes[0], true, nil
}

func (s *Store) FindNodesByLabelAndProperty(ctx context.Context, label graph.Label, key graph.PropertyKey, value any) ([]*graph.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !label.Valid() || !key.Valid() {
		return []*graph.Node{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scan(func(n *graph.Node) bool {
		return n.HasLabel(label) && propertyEquals(n, key.String(), value)
	}), nil
}

func (s *Store) FindTagByNameAndPlatform(ctx context.Context, tagName, platform string) (*graph.Node, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := s.corpusTags(tagName, platform)
	if len(tags) == 0 {
		return nil, false, nil
	}
	return tags[0], true, nil
}

func (s *Store) FindRelatedNodes(ctx context.Context, keys []graph.RelationKey) (map[graph.RelationKey][]*graph.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[graph.RelationKey][]*graph.Node, len(keys))
	for _, k := range keys {
		if _, done := result[k]; done {
			continue
		}
		if err := k.Relation.Validate(); err != nil {
			result[k] = []*graph.Node{}
			continue
		}
		result[k] = s.related(k.ParentID, k.Relation)
	}
	return result, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// scan returns the matching nodes ordered by identity. Callers hold the read lock.
func (s *Store) scan(match func(*graph.Node) bool) []*graph.Node {
	out := make([]*graph.Node, 0)
	for _, n := range s.nodes {
		if match(n) {
			out = append(out, n)
		}
	}
	graph.SortByID(out)
	return out
}

func (s *Store) related(parentID int64, rel graph.Relation) []*graph.Node {
	if _, ok := s.nodes[parentID]; !ok {
		return []*graph.Node{}
	}
	if rel.Type == graph.RelCorpus {
		return s.corpusCodes([]int64{parentID})
	}

	var ids []int64
	switch rel.Direction {
	case graph.Outgoing:
		ids = s.neighbours(parentID, rel.Type, graph.Outgoing)
	case graph.Incoming:
		ids = s.neighbours(parentID, rel.Type, graph.Incoming)
	default:
		ids = append(s.neighbours(parentID, rel.Type, graph.Outgoing), s.neighbours(parentID, rel.Type, graph.Incoming)...)
	}
	return s.nodesWithLabel(ids, rel.Target)
}

// neighbours follows edges of one type in one direction, without label filtering.
func (s *Store) neighbours(id int64, relType graph.RelType, dir graph.Direction) []int64 {
	var ids []int64
	if dir == graph.Outgoing {
		for _, e := range s.out[id] {
			if e.Type == relType {
				ids = append(ids, e.To)
			}
		}
		return ids
	}
	for _, e := range s.in[id] {
		if e.Type == relType {
			ids = append(ids, e.From)
		}
	}
	return ids
}

// nodesWithLabel resolves ids to distinct nodes carrying label, ordered by identity.
func (s *Store) nodesWithLabel(ids []int64, label graph.Label) []*graph.Node {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]*graph.Node, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if n, ok := s.nodes[id]; ok && (label == "" || n.HasLabel(label)) {
			out = append(out, n)
		}
	}
	graph.SortByID(out)
	return out
}

func propertyEquals(n *graph.Node, key string, value any) bool {
	v, ok := n.Get(key)
	if !ok {
		return false
	}
	return reflect.DeepEqual(integral(normalize(v)), integral(normalize(value)))
}

// integral lets 3.0 and 3 compare equal, as they do in Cypher.
func integral(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return int64(f)
	}
	return v
}

func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	}
	return v
}

package memory

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"graphryder-api/domain/graph"
)

// corpusTags returns the tag nodes naming a corpus. Callers hold the read lock.
func (s *Store) corpusTags(tagName, platform string) []*graph.Node {
	return s.scan(func(n *graph.Node) bool {
		return n.HasLabel(graph.LabelTag) &&
			propertyEquals(n, graph.PropName.String(), tagName) &&
			propertyEquals(n, graph.PropPlatform.String(), platform)
	})
}

// corpusPosts returns the posts of topics tagged with any of the tags.
func (s *Store) corpusPosts(tagIDs []int64) []*graph.Node {
	var postIDs []int64
	for _, tagID := range tagIDs {
		for _, topicID := range s.neighbours(tagID, graph.RelTaggedWith, graph.Incoming) {
			postIDs = append(postIDs, s.neighbours(topicID, graph.RelInTopic, graph.Incoming)...)
		}
	}
	return s.nodesWithLabel(postIDs, graph.LabelPost)
}

// postCodes returns the codes referenced by annotations on a post.
func (s *Store) postCodes(postID int64) []*graph.Node {
	var codeIDs []int64
	for _, annotationID := range s.neighbours(postID, graph.RelAnnotates, graph.Incoming) {
		codeIDs = append(codeIDs, s.neighbours(annotationID, graph.RelRefersTo, graph.Outgoing)...)
	}
	return s.nodesWithLabel(codeIDs, graph.LabelCode)
}

// corpusCodes follows the derived corpus path from tag nodes to codes.
func (s *Store) corpusCodes(tagIDs []int64) []*graph.Node {
	var topicIDs []int64
	for _, tagID := range tagIDs {
		topicIDs = append(topicIDs, s.neighbours(tagID, graph.RelTaggedWith, graph.Incoming)...)
	}
	var postIDs []int64
	for _, topic := range s.nodesWithLabel(topicIDs, graph.LabelTopic) {
		postIDs = append(postIDs, s.neighbours(topic.ID, graph.RelInTopic, graph.Incoming)...)
	}

	var codeIDs []int64
	for _, post := range s.nodesWithLabel(postIDs, graph.LabelPost) {
		for _, annotation := range s.nodesWithLabel(s.neighbours(post.ID, graph.RelAnnotates, graph.Incoming), graph.LabelAnnotation) {
			codeIDs = append(codeIDs, s.neighbours(annotation.ID, graph.RelRefersTo, graph.Outgoing)...)
		}
	}
	return s.nodesWithLabel(codeIDs, graph.LabelCode)
}

type pairKey struct{ a, b int64 }

type pairAgg struct {
	posts      []int64
	seenPosts  map[int64]struct{}
	seenValues map[int64]struct{}
	edges      map[int64]struct{}
}

func newPairAgg() *pairAgg {
	return &pairAgg{
		seenPosts:  make(map[int64]struct{}),
		seenValues: make(map[int64]struct{}),
		edges:      make(map[int64]struct{}),
	}
}

// addPost records a contributing post once, collecting its discourse id once.
func (p *pairAgg) addPost(post *graph.Node) {
	if _, ok := p.seenPosts[post.ID]; ok {
		return
	}
	p.seenPosts[post.ID] = struct{}{}

	if _, ok := post.Get(graph.PropDiscourseID.String()); !ok {
		return
	}
	id := post.Int64(graph.PropDiscourseID.String())
	if _, ok := p.seenValues[id]; ok {
		return
	}
	p.seenValues[id] = struct{}{}
	p.posts = append(p.posts, id)
}

func sortedPairs(aggs map[pairKey]*pairAgg, count func(*pairAgg) int64) []pairKey {
	keys := make([]pairKey, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := count(aggs[keys[i]]), count(aggs[keys[j]])
		if ci != cj {
			return ci > cj
		}
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		return keys[i].b < keys[j].b
	})
	return keys
}

func (s *Store) FindCooccurringCodesForCorpus(ctx context.Context, tagName, platform string) ([]*graph.Cooccurrence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tagIDs []int64
	for _, t := range s.corpusTags(tagName, platform) {
		tagIDs = append(tagIDs, t.ID)
	}

	aggs := make(map[pairKey]*pairAgg)
	for _, post := range s.corpusPosts(tagIDs) {
		codes := s.postCodes(post.ID)
		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				k := pairKey{codes[i].ID, codes[j].ID}
				agg, ok := aggs[k]
				if !ok {
					agg = newPairAgg()
					aggs[k] = agg
				}
				agg.addPost(post)
			}
		}
	}

	count := func(a *pairAgg) int64 { return int64(len(a.seenPosts)) }
	pairs := make([]*graph.Cooccurrence, 0, len(aggs))
	for _, k := range sortedPairs(aggs, count) {
		agg := aggs[k]
		pairs = append(pairs, &graph.Cooccurrence{
			Code1: s.nodes[k.a],
			Code2: s.nodes[k.b],
			Posts: agg.posts,
			Count: count(agg),
		})
	}

	s.logger.Debug("Computed co-occurrences",
		zap.String("tag", tagName),
		zap.String("platform", platform),
		zap.Int("pairs", len(pairs)),
	)
	return graph.SortCooccurrences(pairs), nil
}

// interactionTypes are the post-to-post edges that count as an interaction. They
// are matched in either direction.
var interactionTypes = []graph.RelType{graph.RelIsReplyTo, graph.RelContainsQuoteFrom}

func (s *Store) FindUserInteractionGraphForCorpus(ctx context.Context, tagName, platform string) ([]*graph.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tagIDs []int64
	for _, t := range s.corpusTags(tagName, platform) {
		tagIDs = append(tagIDs, t.ID)
	}

	aggs := make(map[pairKey]*pairAgg)
	for _, post := range s.corpusPosts(tagIDs) {
		authors := s.nodesWithLabel(s.neighbours(post.ID, graph.RelCreated, graph.Incoming), graph.LabelUser)
		if len(authors) == 0 {
			continue
		}
		for _, e := range s.interactionEdges(post.ID) {
			other := e.To
			if other == post.ID {
				other = e.From
			}
			counterparts := s.nodesWithLabel(s.neighbours(other, graph.RelCreated, graph.Incoming), graph.LabelUser)
			for _, u1 := range authors {
				for _, u2 := range counterparts {
					k := pairKey{u1.ID, u2.ID}
					agg, ok := aggs[k]
					if !ok {
						agg = newPairAgg()
						aggs[k] = agg
					}
					agg.addPost(post)
					agg.edges[e.ID] = struct{}{}
				}
			}
		}
	}

	count := func(a *pairAgg) int64 { return int64(len(a.edges)) }
	pairs := make([]*graph.Interaction, 0, len(aggs))
	for _, k := range sortedPairs(aggs, count) {
		agg := aggs[k]
		pairs = append(pairs, &graph.Interaction{
			User1: s.nodes[k.a],
			User2: s.nodes[k.b],
			Posts: agg.posts,
			Count: count(agg),
		})
	}
	return graph.SortInteractions(pairs), nil
}

func (s *Store) interactionEdges(postID int64) []*Edge {
	var edges []*Edge
	for _, t := range interactionTypes {
		for _, e := range s.out[postID] {
			if e.Type == t {
				edges = append(edges, e)
			}
		}
		for _, e := range s.in[postID] {
			if e.Type == t && e.From != postID {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

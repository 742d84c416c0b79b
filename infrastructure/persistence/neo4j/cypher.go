package neo4j

import (
	"fmt"
	"strings"

	"graphryder-api/domain/graph"
)

// Statement is a Cypher query with its bound parameters. Name identifies the
// connector in logs, metrics and spans.
type Statement struct {
	Name   string
	Cypher string
	Params map[string]any
}

// Labels, property keys and relationship types cannot be bound as parameters, so
// every builder below checks them against the domain allow-lists before they are
// written into the query text. Values are always parameters.

func nodesByLabel(label graph.Label) (Statement, error) {
	if !label.Valid() {
		return Statement{}, fmt.Errorf("unknown label %q", label)
	}
	return Statement{
		Name:   "findNodesByLabelAnyOrg",
		Cypher: fmt.Sprintf("MATCH (n:%s) RETURN n ORDER BY id(n)", label),
	}, nil
}

func nodeByLabelAndID(label graph.Label, id int64) (Statement, error) {
	if !label.Valid() {
		return Statement{}, fmt.Errorf("unknown label %q", label)
	}
	return Statement{
		Name:   "findNodeByLabelAndId",
		Cypher: fmt.Sprintf("MATCH (n:%s) WHERE id(n) = $id RETURN n", label),
		Params: map[string]any{"id": id},
	}, nil
}

func nodesByLabelAndProperty(label graph.Label, key graph.PropertyKey, value any, single bool) (Statement, error) {
	if !label.Valid() {
		return Statement{}, fmt.Errorf("unknown label %q", label)
	}
	if !key.Valid() {
		return Statement{}, fmt.Errorf("unknown property key %q", key)
	}

	name := "findNodesByLabelAndProperty"
	cypher := fmt.Sprintf("MATCH (n:%s {%s: $value}) RETURN n ORDER BY id(n)", label, key)
	if single {
		name = "findNodeByLabelAndProperty"
		cypher += " LIMIT 1"
	}
	return Statement{
		Name:   name,
		Cypher: cypher,
		Params: map[string]any{"value": value},
	}, nil
}

func tagByNameAndPlatform(tagName, platform string) Statement {
	return Statement{
		Name:   "findTagByNameAndPlatform",
		Cypher: "MATCH (t:tag {name: $tagName, platform: $platform}) RETURN t AS n ORDER BY id(t) LIMIT 1",
		Params: map[string]any{"tagName": tagName, "platform": platform},
	}
}

// corpusPath reaches the codes referenced by annotations on posts in topics
// tagged with the parent.
const corpusPath = "(parent)<-[:TAGGED_WITH]-(:topic)<-[:IN_TOPIC]-(:post)<-[:ANNOTATES]-(:annotation)-[:REFERS_TO]->(target:code)"

func relationPattern(rel graph.Relation) (string, error) {
	if err := rel.Validate(); err != nil {
		return "", err
	}
	if rel.Type == graph.RelCorpus {
		return corpusPath, nil
	}

	switch rel.Direction {
	case graph.Outgoing:
		return fmt.Sprintf("(parent)-[:%s]->(target:%s)", rel.Type, rel.Target), nil
	case graph.Incoming:
		return fmt.Sprintf("(parent)<-[:%s]-(target:%s)", rel.Type, rel.Target), nil
	default:
		return fmt.Sprintf("(parent)-[:%s]-(target:%s)", rel.Type, rel.Target), nil
	}
}

func relatedNodes(rel graph.Relation, parentIDs []int64) (Statement, error) {
	pattern, err := relationPattern(rel)
	if err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("UNWIND $ids AS pid\n")
	sb.WriteString("MATCH (parent) WHERE id(parent) = pid\n")
	fmt.Fprintf(&sb, "MATCH %s\n", pattern)
	sb.WriteString("RETURN pid, collect(DISTINCT target) AS targets")

	return Statement{
		Name:   "findRelatedNodes",
		Cypher: sb.String(),
		Params: map[string]any{"ids": parentIDs},
	}, nil
}

func cooccurringCodes(tagName, platform string) Statement {
	return Statement{
		Name: "findCooccurringCodesForCorpus",
		Cypher: `MATCH (tag:tag {name: $tagName, platform: $platform})<-[:TAGGED_WITH]-()<-[:IN_TOPIC]-(p:post)
MATCH (p)<-[:ANNOTATES]-()-[:REFERS_TO]->(code1:code)
MATCH (p)<-[:ANNOTATES]-()-[:REFERS_TO]->(code2:code)
WHERE id(code1) < id(code2)
RETURN code1, code2, collect(DISTINCT p.discourse_id) AS posts, count(DISTINCT p) AS cooccurs
ORDER BY cooccurs DESC, id(code1), id(code2)`,
		Params: map[string]any{"tagName": tagName, "platform": platform},
	}
}

func userInteractions(tagName, platform string) Statement {
	return Statement{
		Name: "findUserInteractionGraphForCorpus",
		Cypher: `MATCH (tag:tag {name: $tagName, platform: $platform})<-[:TAGGED_WITH]-()<-[:IN_TOPIC]-(p:post)
MATCH (user1:user)-[:CREATED]->(p)-[r:IS_REPLY_TO|CONTAINS_QUOTE_FROM]-()<-[:CREATED]-(user2:user)
RETURN user1, user2, collect(DISTINCT p.discourse_id) AS posts, count(DISTINCT r) AS interactions
ORDER BY interactions DESC, id(user1), id(user2)`,
		Params: map[string]any{"tagName": tagName, "platform": platform},
	}
}

package neo4j

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphryder-api/domain/graph"
)

func TestNodesByLabel(t *testing.T) {
	stmt, err := nodesByLabel(graph.LabelPlatform)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:platform) RETURN n ORDER BY id(n)", stmt.Cypher)
	assert.NotContains(t, stmt.Cypher, "platform:")

	_, err = nodesByLabel(graph.Label("platform) DETACH DELETE n //"))
	assert.Error(t, err)
}

func TestNodesByLabelAndProperty_BindsValue(t *testing.T) {
	hostile := "forumA'}) MATCH (x) DETACH DELETE x //"

	stmt, err := nodesByLabelAndProperty(graph.LabelUser, graph.PropPlatform, hostile, false)

	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:user {platform: $value}) RETURN n ORDER BY id(n)", stmt.Cypher)
	assert.Equal(t, hostile, stmt.Params["value"])
	assert.NotContains(t, stmt.Cypher, hostile)
}

func TestNodesByLabelAndProperty_SingleLimits(t *testing.T) {
	stmt, err := nodesByLabelAndProperty(graph.LabelTag, graph.PropName, "python", true)

	require.NoError(t, err)
	assert.Contains(t, stmt.Cypher, "LIMIT 1")
	assert.Equal(t, "findNodeByLabelAndProperty", stmt.Name)
}

func TestNodesByLabelAndProperty_RejectsUnknownKey(t *testing.T) {
	_, err := nodesByLabelAndProperty(graph.LabelUser, graph.PropertyKey("x}) RETURN 1 //"), "a", false)
	assert.Error(t, err)

	_, err = nodesByLabelAndProperty(graph.Label(""), graph.PropPlatform, "a", false)
	assert.Error(t, err)
}

func TestTagByNameAndPlatform_BindsValues(t *testing.T) {
	stmt := tagByNameAndPlatform("python' OR 1=1", "forumA")

	assert.Equal(t, "python' OR 1=1", stmt.Params["tagName"])
	assert.Equal(t, "forumA", stmt.Params["platform"])
	assert.NotContains(t, stmt.Cypher, "python")
	assert.Contains(t, stmt.Cypher, "RETURN t AS n")
}

func TestRelationPattern(t *testing.T) {
	tests := []struct {
		name string
		rel  graph.Relation
		want string
	}{
		{"outgoing", graph.UserCreated, "(parent)-[:CREATED]->(target:post)"},
		{"incoming", graph.TopicPosts, "(parent)<-[:IN_TOPIC]-(target:post)"},
		{"both", graph.CodeCooccurs, "(parent)-[:COOCCURS]-(target:code)"},
		{"corpus", graph.TagCodes, corpusPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := relationPattern(tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelatedNodes(t *testing.T) {
	stmt, err := relatedNodes(graph.PostAnnotations, []int64{4, 9})

	require.NoError(t, err)
	assert.Contains(t, stmt.Cypher, "UNWIND $ids AS pid")
	assert.Contains(t, stmt.Cypher, "(parent)<-[:ANNOTATES]-(target:annotation)")
	assert.Equal(t, []int64{4, 9}, stmt.Params["ids"])

	_, err = relatedNodes(graph.Relation{Type: "KNOWS", Direction: graph.Outgoing, Target: graph.LabelUser}, []int64{1})
	assert.Error(t, err)
}

func TestCorpusQueries_OrderAndScope(t *testing.T) {
	co := cooccurringCodes("python", "forumA")
	assert.Contains(t, co.Cypher, "id(code1) < id(code2)")
	assert.Contains(t, co.Cypher, "ORDER BY cooccurs DESC")
	assert.Equal(t, map[string]any{"tagName": "python", "platform": "forumA"}, co.Params)

	in := userInteractions("python", "forumA")
	assert.Contains(t, in.Cypher, "IS_REPLY_TO|CONTAINS_QUOTE_FROM")
	assert.Contains(t, in.Cypher, "ORDER BY interactions DESC")
}

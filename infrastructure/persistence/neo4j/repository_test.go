package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"graphryder-api/domain/graph"
	pkgerrors "graphryder-api/pkg/errors"
)

type fakeRunner struct {
	respond func(stmt Statement) ([]Row, error)
	pingErr error
	calls   []Statement
}

func (f *fakeRunner) Run(_ context.Context, stmt Statement) ([]Row, error) {
	f.calls = append(f.calls, stmt)
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(stmt)
}

func (f *fakeRunner) Ping(context.Context) error {
	return f.pingErr
}

func rowsOf(rows ...Row) func(Statement) ([]Row, error) {
	return func(Statement) ([]Row, error) { return rows, nil }
}

func driverNode(id int64, label string, props map[string]any) neo4j.Node {
	return neo4j.Node{Id: id, Labels: []string{label}, Props: props}
}

func newTestRepository(runner Runner) *GraphRepository {
	return NewGraphRepository(runner, zap.NewNop(), nil)
}

func TestFindNodesByLabelAnyOrg(t *testing.T) {
	// Arrange
	runner := &fakeRunner{respond: rowsOf(
		Row{"n": driverNode(1, "platform", map[string]any{"name": "forumA"})},
		Row{"n": driverNode(2, "platform", map[string]any{"name": "forumB"})},
	)}
	repo := newTestRepository(runner)

	// Act
	nodes, err := repo.FindNodesByLabelAnyOrg(context.Background(), graph.LabelPlatform)

	// Assert
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "forumA", nodes[0].String("name"))
	assert.Equal(t, int64(2), nodes[1].ID)
	require.Len(t, runner.calls, 1)
	assert.Empty(t, runner.calls[0].Params)
}

func TestUnknownLabel_NeverReachesStore(t *testing.T) {
	runner := &fakeRunner{}
	repo := newTestRepository(runner)
	ctx := context.Background()

	nodes, err := repo.FindNodesByLabelAnyOrg(ctx, graph.Label("person"))
	require.NoError(t, err)
	assert.Empty(t, nodes)

	n, found, err := repo.FindNodeByLabelAndProperty(ctx, graph.LabelUser, graph.PropertyKey(""), "x")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, n)

	_, found, err = repo.FindNodeByLabelAndID(ctx, graph.Label(""), 3)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Empty(t, runner.calls)
}

func TestFindNodeByLabelAndProperty_NotFound(t *testing.T) {
	repo := newTestRepository(&fakeRunner{})

	n, found, err := repo.FindNodeByLabelAndProperty(context.Background(), graph.LabelTag, graph.PropName, "missing")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, n)
}

func TestFindTagByNameAndPlatform(t *testing.T) {
	runner := &fakeRunner{respond: rowsOf(
		Row{"n": driverNode(5, "tag", map[string]any{"name": "python", "platform": "forumA"})},
	)}
	repo := newTestRepository(runner)

	tag, found, err := repo.FindTagByNameAndPlatform(context.Background(), "python", "forumA")

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(5), tag.ID)
	assert.Equal(t, "python", runner.calls[0].Params["tagName"])
}

func TestFindRelatedNodes_GroupsByRelation(t *testing.T) {
	// Arrange
	runner := &fakeRunner{respond: func(stmt Statement) ([]Row, error) {
		switch {
		case strings.Contains(stmt.Cypher, "IN_TOPIC"):
			return []Row{{
				"pid":     int64(10),
				"targets": []any{driverNode(22, "post", nil), driverNode(21, "post", nil)},
			}}, nil
		case strings.Contains(stmt.Cypher, "TAGGED_WITH"):
			return []Row{}, nil
		}
		return nil, errors.New("unexpected statement")
	}}
	repo := newTestRepository(runner)
	keys := []graph.RelationKey{
		{ParentID: 10, Relation: graph.TopicPosts},
		{ParentID: 11, Relation: graph.TopicPosts},
		{ParentID: 10, Relation: graph.TopicTaggedWith},
		{ParentID: 10, Relation: graph.TopicPosts},
	}

	// Act
	got, err := repo.FindRelatedNodes(context.Background(), keys)

	// Assert
	require.NoError(t, err)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []int64{10, 11}, runner.calls[0].Params["ids"])

	posts := got[graph.RelationKey{ParentID: 10, Relation: graph.TopicPosts}]
	require.Len(t, posts, 2)
	assert.Equal(t, int64(21), posts[0].ID)
	assert.NotNil(t, got[graph.RelationKey{ParentID: 11, Relation: graph.TopicPosts}])
	assert.Empty(t, got[graph.RelationKey{ParentID: 11, Relation: graph.TopicPosts}])
	assert.Empty(t, got[graph.RelationKey{ParentID: 10, Relation: graph.TopicTaggedWith}])
}

func TestFindCooccurringCodesForCorpus(t *testing.T) {
	x := driverNode(1, "code", map[string]any{"name": "X"})
	y := driverNode(2, "code", map[string]any{"name": "Y"})
	z := driverNode(3, "code", map[string]any{"name": "Z"})
	runner := &fakeRunner{respond: rowsOf(
		Row{"code1": x, "code2": z, "posts": []any{int64(100)}, "cooccurs": int64(1)},
		Row{"code1": x, "code2": x, "posts": []any{int64(100)}, "cooccurs": int64(5)},
		Row{"code1": x, "code2": y, "posts": []any{int64(100), int64(101)}, "cooccurs": int64(2)},
	)}
	repo := newTestRepository(runner)

	pairs, err := repo.FindCooccurringCodesForCorpus(context.Background(), "python", "forumA")

	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, int64(2), pairs[0].Count)
	assert.Equal(t, []int64{100, 101}, pairs[0].Posts)
	assert.Equal(t, "Y", pairs[0].Code2.String("name"))
}

func TestFindUserInteractionGraphForCorpus(t *testing.T) {
	a := driverNode(1, "user", map[string]any{"username": "ann"})
	b := driverNode(2, "user", map[string]any{"username": "bob"})
	runner := &fakeRunner{respond: rowsOf(
		Row{"user1": a, "user2": b, "posts": []any{int64(7)}, "interactions": int64(1)},
		Row{"user1": b, "user2": a, "posts": []any{int64(8), int64(9)}, "interactions": int64(3)},
	)}
	repo := newTestRepository(runner)

	pairs, err := repo.FindUserInteractionGraphForCorpus(context.Background(), "python", "forumA")

	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, int64(3), pairs[0].Count)
	assert.Equal(t, "bob", pairs[0].User1.String("username"))
}

func TestRun_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pkgerrors.ErrorType
	}{
		{"store failure", errors.New("Neo.ClientError.Statement.SyntaxError"), pkgerrors.ErrorTypeDatabase},
		{"deadline", context.DeadlineExceeded, pkgerrors.ErrorTypeTimeout},
		{"breaker open", gobreaker.ErrOpenState, pkgerrors.ErrorTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(&fakeRunner{respond: func(Statement) ([]Row, error) { return nil, tt.err }})

			_, err := repo.FindNodesByLabelAnyOrg(context.Background(), graph.LabelUser)

			require.Error(t, err)
			assert.True(t, pkgerrors.IsType(err, tt.want))
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestMappingError(t *testing.T) {
	repo := newTestRepository(&fakeRunner{respond: rowsOf(Row{"n": "not a node"})})

	_, err := repo.FindNodesByLabelAnyOrg(context.Background(), graph.LabelUser)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsDatabase(err))
}

func TestPing(t *testing.T) {
	repo := newTestRepository(&fakeRunner{pingErr: errors.New("connection refused")})

	err := repo.Ping(context.Background())

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.NoError(t, newTestRepository(&fakeRunner{}).Ping(context.Background()))
}

func TestToNode_NormalizesTemporalValues(t *testing.T) {
	created := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	n, err := toNode(driverNode(9, "post", map[string]any{
		"created_at": created,
		"day":        dbtype.Date(created),
		"tags":       []any{"a", "b"},
	}))

	require.NoError(t, err)
	assert.Equal(t, "2021-03-04T05:06:07Z", n.String("created_at"))
	assert.Equal(t, "2021-03-04", n.String("day"))
	assert.Equal(t, "a,b", n.String("tags"))
}

func TestBreakerRunner_OpensAfterFailures(t *testing.T) {
	inner := &fakeRunner{respond: func(Statement) ([]Row, error) { return nil, errors.New("down") }}
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	runner := NewBreakerRunner(inner, cfg, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := runner.Run(ctx, Statement{Name: "test"})
		require.Error(t, err)
	}
	_, err := runner.Run(ctx, Statement{Name: "test"})

	assert.True(t, IsOpen(err))
	assert.Equal(t, gobreaker.StateOpen, runner.State())
	assert.Len(t, inner.calls, 2)
}

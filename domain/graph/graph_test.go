package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel_Valid(t *testing.T) {
	tests := []struct {
		label Label
		want  bool
	}{
		{LabelUser, true},
		{LabelCorpusTag, true},
		{Label(""), false},
		{Label("user) DETACH DELETE n //"), false},
		{Label("User"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.label.Valid())
		})
	}
}

func TestPropertyKey_Valid(t *testing.T) {
	assert.True(t, PropPlatform.Valid())
	assert.False(t, PropertyKey("platform: 'a'}) RETURN 1 //").Valid())
}

func TestRelation_Validate(t *testing.T) {
	assert.NoError(t, UserCreated.Validate())
	assert.NoError(t, TagCodes.Validate())

	assert.Error(t, Relation{Type: "KNOWS", Direction: Outgoing, Target: LabelUser}.Validate())
	assert.Error(t, Relation{Type: RelCreated, Direction: Outgoing, Target: "person"}.Validate())
	assert.Error(t, Relation{Type: RelCreated, Direction: Direction(7), Target: LabelPost}.Validate())
}

func TestNode_Accessors(t *testing.T) {
	n := NewNode(7, LabelPost, map[string]any{
		"discourse_id": int64(42),
		"raw":          "hello",
		"hidden":       false,
		"score":        float64(12.5),
		"like_count":   int64(math.MaxInt64),
		"tags":         []any{"python", "go"},
		"deleted_at":   nil,
	})

	assert.True(t, n.HasLabel(LabelPost))
	assert.False(t, n.HasLabel(LabelUser))
	assert.Equal(t, int32(42), n.Int("discourse_id"))
	assert.Equal(t, "hello", n.String("raw"))
	assert.Equal(t, "12.5", n.String("score"))
	assert.Equal(t, "python,go", n.String("tags"))
	assert.Equal(t, int32(math.MaxInt32), n.Int("like_count"))
	assert.False(t, n.Bool("hidden"))
	require.NotNil(t, n.BoolPtr("hidden"))
	assert.Nil(t, n.StringPtr("deleted_at"))
	assert.Nil(t, n.IntPtr("parent_category_id"))
	assert.Equal(t, "", n.String("missing"))
}

func TestSortCooccurrences(t *testing.T) {
	x := NewNode(1, LabelCode, nil)
	y := NewNode(2, LabelCode, nil)
	z := NewNode(3, LabelCode, nil)

	in := []*Cooccurrence{
		{Code1: x, Code2: y, Count: 1},
		{Code1: x, Code2: x, Count: 9},
		{Code1: y, Code2: z, Count: 3},
		{Code1: x, Code2: z, Count: 1},
		nil,
	}

	out := SortCooccurrences(in)

	require.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].Count)
	// ties keep incoming order
	assert.Equal(t, y.ID, out[1].Code2.ID)
	assert.Equal(t, z.ID, out[2].Code2.ID)
	for _, p := range out {
		assert.NotEqual(t, p.Code1.ID, p.Code2.ID)
	}
}

func TestSortInteractions(t *testing.T) {
	a := NewNode(1, LabelUser, nil)
	b := NewNode(2, LabelUser, nil)

	out := SortInteractions([]*Interaction{
		{User1: a, User2: b, Count: 1},
		{User1: b, User2: a, Count: 4},
		{User1: nil, User2: a, Count: 10},
	})

	require.Len(t, out, 2)
	assert.Equal(t, int64(4), out[0].Count)
}

package graphql

import "graphryder-api/domain/graph"

// cooccurrenceResolver is served through field resolvers, one exported field per
// schema field.
type cooccurrenceResolver struct {
	Code1    *codeResolver
	Code2    *codeResolver
	Posts    *[]*int32
	Cooccurs *int32
}

func newCooccurrence(c *graph.Cooccurrence) *cooccurrenceResolver {
	count := graph.ClampInt32(c.Count)
	return &cooccurrenceResolver{
		Code1:    newCode(c.Code1),
		Code2:    newCode(c.Code2),
		Posts:    intList(c.Posts),
		Cooccurs: &count,
	}
}

type interactionResolver struct {
	User1        *userResolver
	User2        *userResolver
	Posts        *[]*int32
	Interactions *int32
}

func newInteraction(i *graph.Interaction) *interactionResolver {
	count := graph.ClampInt32(i.Count)
	return &interactionResolver{
		User1:        newUser(i.User1),
		User2:        newUser(i.User2),
		Posts:        intList(i.Posts),
		Interactions: &count,
	}
}

func intList(ids []int64) *[]*int32 {
	out := make([]*int32, len(ids))
	for i, id := range ids {
		v := graph.ClampInt32(id)
		out[i] = &v
	}
	return &out
}

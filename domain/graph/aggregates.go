package graph

import "sort"

// Cooccurrence is a derived pair of distinct codes referenced within the same posts
// of a corpus. Posts holds the discourse ids of the contributing posts.
type Cooccurrence struct {
	Code1 *Node   `json:"code1"`
	Code2 *Node   `json:"code2"`
	Posts []int64 `json:"posts"`
	Count int64   `json:"cooccurs"`
}

// Interaction is a derived pair of users connected by replies or quotes between
// posts they authored inside a corpus.
type Interaction struct {
	User1 *Node   `json:"user1"`
	User2 *Node   `json:"user2"`
	Posts []int64 `json:"posts"`
	Count int64   `json:"interactions"`
}

// SortCooccurrences drops pairs whose codes share an identity and orders the rest by
// descending post count. Ties keep their incoming order.
func SortCooccurrences(pairs []*Cooccurrence) []*Cooccurrence {
	out := make([]*Cooccurrence, 0, len(pairs))
	for _, p := range pairs {
		if p == nil || p.Code1 == nil || p.Code2 == nil || p.Code1.ID == p.Code2.ID {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// SortInteractions orders interactions by descending count. Ties keep their
// incoming order.
func SortInteractions(pairs []*Interaction) []*Interaction {
	out := make([]*Interaction, 0, len(pairs))
	for _, p := range pairs {
		if p == nil || p.User1 == nil || p.User2 == nil {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

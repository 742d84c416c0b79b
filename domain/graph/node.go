// Package graph holds the read model of the forum graph: nodes as they come back
// from the store, the allow-listed identifiers used to address them, and the
// derived aggregates computed per query.
package graph

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Node is a mapped graph node. ID is the store's internal identity, Props holds the
// node properties already normalized to plain Go values (int64, float64, bool,
// string, []any).
type Node struct {
	ID     int64          `json:"_id" yaml:"id"`
	Labels []string       `json:"labels" yaml:"labels"`
	Props  map[string]any `json:"properties" yaml:"properties"`
}

// NewNode creates a node with the given identity, label and properties.
func NewNode(id int64, label Label, props map[string]any) *Node {
	if props == nil {
		props = make(map[string]any)
	}
	return &Node{ID: id, Labels: []string{label.String()}, Props: props}
}

// HasLabel reports whether the node carries the label.
func (n *Node) HasLabel(l Label) bool {
	for _, label := range n.Labels {
		if label == string(l) {
			return true
		}
	}
	return false
}

// Get returns the raw property value.
func (n *Node) Get(key string) (any, bool) {
	if n == nil || n.Props == nil {
		return nil, false
	}
	v, ok := n.Props[key]
	return v, ok && v != nil
}

// String returns the property rendered as a string, or "" when absent.
func (n *Node) String(key string) string {
	v, ok := n.Get(key)
	if !ok {
		return ""
	}
	return toString(v)
}

// StringPtr returns nil when the property is absent.
func (n *Node) StringPtr(key string) *string {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	s := toString(v)
	return &s
}

// Int64 returns the property as an int64, or 0 when absent or not numeric.
func (n *Node) Int64(key string) int64 {
	v, ok := n.Get(key)
	if !ok {
		return 0
	}
	i, _ := toInt64(v)
	return i
}

// Int returns the property as a GraphQL Int (32-bit), clamped to range.
func (n *Node) Int(key string) int32 {
	return ClampInt32(n.Int64(key))
}

// IntPtr returns nil when the property is absent or not numeric.
func (n *Node) IntPtr(key string) *int32 {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	i, ok := toInt64(v)
	if !ok {
		return nil
	}
	c := ClampInt32(i)
	return &c
}

// Bool returns the property as a bool, or false when absent.
func (n *Node) Bool(key string) bool {
	v, ok := n.Get(key)
	if !ok {
		return false
	}
	b, _ := toBool(v)
	return b
}

// BoolPtr returns nil when the property is absent or not boolean.
func (n *Node) BoolPtr(key string) *bool {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	b, ok := toBool(v)
	if !ok {
		return nil
	}
	return &b
}

// ClampInt32 narrows a store integer to the GraphQL Int range.
func ClampInt32(i int64) int32 {
	switch {
	case i > math.MaxInt32:
		return math.MaxInt32
	case i < math.MinInt32:
		return math.MinInt32
	}
	return int32(i)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, toString(e))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(t, ",")
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	case int64:
		return t != 0, true
	}
	return false, false
}

// SortByID orders nodes by identity. Stores use it to make scan results stable.
func SortByID(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}

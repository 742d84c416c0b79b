package neo4j

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"graphryder-api/domain/graph"
)

// toNode maps a driver node into the domain shape. Property values are normalized
// so the domain never sees driver types.
func toNode(v any) (*graph.Node, error) {
	var n dbtype.Node
	switch t := v.(type) {
	case neo4j.Node:
		n = t
	case *neo4j.Node:
		if t == nil {
			return nil, nil
		}
		n = *t
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected node, got %T", v)
	}

	props := make(map[string]any, len(n.Props))
	for k, p := range n.Props {
		props[k] = toValue(p)
	}
	labels := make([]string, len(n.Labels))
	copy(labels, n.Labels)

	//nolint:staticcheck // the numeric id is the identity exposed as _id
	return &graph.Node{ID: n.Id, Labels: labels, Props: props}, nil
}

func toValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case dbtype.Date:
		return t.Time().Format("2006-01-02")
	case dbtype.LocalDateTime:
		return t.Time().Format("2006-01-02T15:04:05.999999999")
	case dbtype.LocalTime:
		return t.Time().Format("15:04:05.999999999")
	case dbtype.Time:
		return t.Time().Format("15:04:05.999999999Z07:00")
	case dbtype.Duration:
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toValue(e)
		}
		return out
	}
	return v
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func toInt64List(v any) ([]int64, error) {
	list, ok := v.([]any)
	if !ok {
		if v == nil {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	out := make([]int64, 0, len(list))
	for _, e := range list {
		if e == nil {
			continue
		}
		i, err := toInt64(e)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func toNodeList(v any) ([]*graph.Node, error) {
	list, ok := v.([]any)
	if !ok {
		if v == nil {
			return []*graph.Node{}, nil
		}
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	out := make([]*graph.Node, 0, len(list))
	for _, e := range list {
		n, err := toNode(e)
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, n)
		}
	}
	graph.SortByID(out)
	return out, nil
}

// rowNode reads a node column from a row.
func rowNode(row Row, key string) (*graph.Node, error) {
	v, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("column %q missing", key)
	}
	n, err := toNode(v)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", key, err)
	}
	return n, nil
}

// rowInt64 reads an integer column from a row.
func rowInt64(row Row, key string) (int64, error) {
	v, ok := row[key]
	if !ok {
		return 0, fmt.Errorf("column %q missing", key)
	}
	i, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return i, nil
}

package memory

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"graphryder-api/domain/graph"
)

//go:embed fixtures/sample.yaml
var sampleFixture []byte

// Fixture is a serialized graph. Both YAML and JSON documents decode into it.
type Fixture struct {
	Nodes []*graph.Node `yaml:"nodes" json:"nodes"`
	Edges []Edge        `yaml:"edges" json:"edges"`
}

// DecodeFixture parses a YAML or JSON fixture document.
func DecodeFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads a fixture file from disk.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return DecodeFixture(data)
}

// SampleFixture returns the built-in forum dataset.
func SampleFixture() *Fixture {
	f, err := DecodeFixture(sampleFixture)
	if err != nil {
		panic(err)
	}
	return f
}

// Seed inserts every node, then every edge, of the fixture.
func (s *Store) Seed(f *Fixture) error {
	for _, n := range f.Nodes {
		if err := s.AddNode(n); err != nil {
			return err
		}
	}
	for _, e := range f.Edges {
		if err := s.AddEdge(e.From, e.To, e.Type); err != nil {
			return err
		}
	}
	nodes, edges := s.Len()
	s.logger.Info("Memory store seeded", zap.Int("nodes", nodes), zap.Int("edges", edges))
	return nil
}

// NewStoreFromFile builds a store from a fixture path, or from the built-in
// sample when path is empty.
func NewStoreFromFile(path string, logger *zap.Logger) (*Store, error) {
	f := SampleFixture()
	if path != "" {
		var err error
		if f, err = LoadFixture(path); err != nil {
			return nil, err
		}
	}
	s := NewStore(logger)
	if err := s.Seed(f); err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	return s, nil
}

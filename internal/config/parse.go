package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse errors.
var (
	errEmptyDocument  = errors.New("document is empty")
	errRootNotMapping = errors.New("document root must be a mapping")
)

const mergeTag = "!!merge"

// Parse converts YAML text into a document tree. The root of the document
// must be a mapping. Aliases are expanded and merge keys ("<<") are applied.
func Parse(data []byte) (*MapNode, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, errEmptyDocument
	}

	n, err := convert(&root)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*MapNode)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", errRootNotMapping, describe(n))
	}
	return m, nil
}

func convert(y *yaml.Node) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, errEmptyDocument
		}
		return convert(y.Content[0])
	case yaml.AliasNode:
		return convert(y.Alias)
	case yaml.MappingNode:
		return convertMapping(y)
	case yaml.SequenceNode:
		items := make([]Node, 0, len(y.Content))
		for _, c := range y.Content {
			item, err := convert(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return &SequenceNode{Items: items}, nil
	case yaml.ScalarNode:
		return convertScalar(y)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
	}
}

func convertMapping(y *yaml.Node) (*MapNode, error) {
	m := &MapNode{Entries: make([]MapEntry, 0, len(y.Content)/2)}
	seen := make(map[string]bool, len(y.Content)/2)
	var merged []MapEntry

	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]

		if k.Kind == yaml.ScalarNode && k.Tag == mergeTag {
			entries, err := mergeEntries(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, entries...)
			continue
		}

		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		if seen[k.Value] {
			return nil, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
		}
		seen[k.Value] = true

		value, err := convert(v)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, MapEntry{Key: k.Value, Value: value})
	}

	// Explicit keys win over merged ones.
	for _, e := range merged {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

func mergeEntries(v *yaml.Node) ([]MapEntry, error) {
	if v.Kind == yaml.SequenceNode {
		var out []MapEntry
		for _, c := range v.Content {
			entries, err := mergeEntries(c)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	}

	n, err := convert(v)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*MapNode)
	if !ok {
		return nil, fmt.Errorf("line %d: merge value must be a mapping, got %s", v.Line, describe(n))
	}
	return m.Entries, nil
}

func convertScalar(y *yaml.Node) (*ScalarNode, error) {
	var v any
	if err := y.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", y.Line, err)
	}

	switch t := v.(type) {
	case nil, string, bool, int, float64:
		return &ScalarNode{Value: t, Text: y.Value}, nil
	default:
		// Timestamps, binary and oversized integers stay as their source text.
		return &ScalarNode{Value: y.Value, Text: y.Value}, nil
	}
}

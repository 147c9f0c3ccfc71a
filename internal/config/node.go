package config

import (
	"fmt"
	"strconv"
)

// NodeKind identifies the variant of a document Node.
type NodeKind int

const (
	// MapKind is a mapping of string keys to nodes.
	MapKind NodeKind = iota + 1
	// SequenceKind is an ordered list of nodes.
	SequenceKind
	// ScalarKind is a string, number, bool or null leaf.
	ScalarKind
)

// String returns the name used for the kind in diagnostics.
func (k NodeKind) String() string {
	switch k {
	case MapKind:
		return "map"
	case SequenceKind:
		return "sequence"
	case ScalarKind:
		return "scalar"
	default:
		return "unknown"
	}
}

// Node is one element of the untyped configuration document. The concrete
// types are *MapNode, *SequenceNode and *ScalarNode; no other implementation
// exists outside this package.
//
// Nodes are treated as read-only once built. Transformations such as
// ResolveSecrets return a new tree instead of editing the input.
type Node interface {
	// Kind reports which variant the node is.
	Kind() NodeKind
	// Interface converts the subtree into plain Go values:
	// map[string]any, []any, string, int, float64, bool or nil.
	Interface() any

	node()
}

// MapEntry is a single key/value pair of a MapNode.
type MapEntry struct {
	Key   string
	Value Node
}

// MapNode is a mapping whose entries keep the order of the source document.
type MapNode struct {
	Entries []MapEntry
}

// SequenceNode is an ordered list of nodes.
type SequenceNode struct {
	Items []Node
}

// ScalarNode is a leaf value. Value holds a string, int, float64, bool or nil;
// Text holds the literal text the value was written as.
type ScalarNode struct {
	Value any
	Text  string
}

// NewMap builds a MapNode from the given entries.
func NewMap(entries ...MapEntry) *MapNode {
	return &MapNode{Entries: entries}
}

// NewSequence builds a SequenceNode from the given items.
func NewSequence(items ...Node) *SequenceNode {
	return &SequenceNode{Items: items}
}

// NewScalar builds a ScalarNode, deriving its text from the value.
func NewScalar(value any) *ScalarNode {
	return &ScalarNode{Value: value, Text: scalarText(value)}
}

// Entry is shorthand for building a MapEntry.
func Entry(key string, value Node) MapEntry {
	return MapEntry{Key: key, Value: value}
}

func (*MapNode) Kind() NodeKind      { return MapKind }
func (*SequenceNode) Kind() NodeKind { return SequenceKind }
func (*ScalarNode) Kind() NodeKind   { return ScalarKind }

func (*MapNode) node()      {}
func (*SequenceNode) node() {}
func (*ScalarNode) node()   {}

// Get returns the value stored under key.
func (m *MapNode) Get(key string) (Node, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Interface implements Node.
func (m *MapNode) Interface() any {
	out := make(map[string]any, len(m.Entries))
	for _, e := range m.Entries {
		out[e.Key] = e.Value.Interface()
	}
	return out
}

// Interface implements Node.
func (s *SequenceNode) Interface() any {
	out := make([]any, len(s.Items))
	for i, item := range s.Items {
		out[i] = item.Interface()
	}
	return out
}

// Interface implements Node.
func (s *ScalarNode) Interface() any {
	return s.Value
}

// IsString reports whether the scalar holds a string.
func (s *ScalarNode) IsString() bool {
	_, ok := s.Value.(string)
	return ok
}

func scalarText(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// childPath renders the path of a map entry below parent.
func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// indexPath renders the path of a sequence item below parent.
func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// describe names a node for diagnostics, e.g. "map" or "null".
func describe(n Node) string {
	if s, ok := n.(*ScalarNode); ok && s.Value == nil {
		return "null"
	}
	return n.Kind().String()
}

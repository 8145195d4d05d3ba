package document

import (
	"go.yaml.in/yaml/v4"
)

// Kind classifies a node once so that later stages never re-inspect its shape.
type Kind int

const (
	// KindPassthrough is any value the pipeline carries verbatim: scalars,
	// shared path parameters, extensions and other non-operation entries.
	KindPassthrough Kind = iota
	// KindOperation is a mapping found under an HTTP method key of a path item.
	KindOperation
	// KindReference is a mapping holding a string "$ref".
	KindReference
	// KindContainer is any other mapping or sequence.
	KindContainer
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindPassthrough:
		return "passthrough"
	case KindOperation:
		return "operation"
	case KindReference:
		return "reference"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// Classify reports whether n is a reference marker, a plain container, or a
// scalar passthrough value. Aliases are classified by their target.
func Classify(n *yaml.Node) Kind {
	n = Resolve(n)
	if n == nil {
		return KindPassthrough
	}
	switch n.Kind {
	case yaml.MappingNode:
		if _, ok := StringValue(Lookup(n, "$ref")); ok {
			return KindReference
		}
		return KindContainer
	case yaml.SequenceNode:
		return KindContainer
	default:
		return KindPassthrough
	}
}

// Resolve follows alias nodes to their anchor and unwraps document nodes.
// Cyclic aliases are cut at the first repeated node.
func Resolve(n *yaml.Node) *yaml.Node {
	var seen map[*yaml.Node]bool
	for n != nil {
		switch {
		case n.Kind == yaml.AliasNode:
			if seen == nil {
				seen = make(map[*yaml.Node]bool)
			}
			if seen[n] {
				return nil
			}
			seen[n] = true
			n = n.Alias
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		default:
			return n
		}
	}
	return nil
}

// IsMapping reports whether n (after alias resolution) is a mapping.
func IsMapping(n *yaml.Node) bool {
	n = Resolve(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsSequence reports whether n (after alias resolution) is a sequence.
func IsSequence(n *yaml.Node) bool {
	n = Resolve(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

// StringValue returns the value of a string scalar.
// Non-string scalars (numbers, booleans, null) report false.
func StringValue(n *yaml.Node) (string, bool) {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", false
	}
	return n.Value, true
}

// Lookup returns the value node stored under key in mapping m, or nil.
func Lookup(m *yaml.Node, key string) *yaml.Node {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Set stores val under key in mapping m. An existing key keeps its position;
// a new key is appended.
func Set(m *yaml.Node, key string, val *yaml.Node) {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = val
			return
		}
	}
	m.Content = append(m.Content, NewString(key), val)
}

// Delete removes key from mapping m and reports whether it was present.
func Delete(m *yaml.Node, key string) bool {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return true
		}
	}
	return false
}

// Keys returns the keys of mapping m in source order.
func Keys(m *yaml.Node) []string {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// Items returns the elements of sequence n, or nil if n is not a sequence.
func Items(n *yaml.Node) []*yaml.Node {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

// Filter rebuilds mapping m in place keeping only the keys for which keep
// returns true. Order of the surviving keys is unchanged. It returns the
// removed keys in source order.
func Filter(m *yaml.Node, keep func(key string) bool) []string {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	var removed []string
	kept := m.Content[:0:0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if keep(key) {
			kept = append(kept, m.Content[i], m.Content[i+1])
			continue
		}
		removed = append(removed, key)
	}
	m.Content = kept
	return removed
}

// NewString creates a string scalar node.
func NewString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// NewMapping creates a mapping node from alternating key/value pairs.
func NewMapping(pairs ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		var val *yaml.Node
		switch v := pairs[i+1].(type) {
		case *yaml.Node:
			val = v
		case string:
			val = NewString(v)
		}
		if val != nil {
			m.Content = append(m.Content, NewString(key), val)
		}
	}
	return m
}

// NewSequence creates a sequence node holding items.
func NewSequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// NewStringSequence creates a sequence of string scalars.
func NewStringSequence(values []string) *yaml.Node {
	items := make([]*yaml.Node, 0, len(values))
	for _, v := range values {
		items = append(items, NewString(v))
	}
	return NewSequence(items...)
}

package loader

import "gopkg.in/yaml.v3"

// Entry is a single key/value pair of a mapping node, in source order.
type Entry struct {
	Key   string
	Value *yaml.Node
}

// Deref follows alias nodes to their anchor target.
func Deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// IsMapping reports whether the node is a mapping.
func IsMapping(n *yaml.Node) bool {
	n = Deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsSequence reports whether the node is a sequence.
func IsSequence(n *yaml.Node) bool {
	n = Deref(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

// IsScalar reports whether the node is a scalar.
func IsScalar(n *yaml.Node) bool {
	n = Deref(n)
	return n != nil && n.Kind == yaml.ScalarNode
}

// Entries returns the key/value pairs of a mapping node in source order.
// Non-mapping nodes yield nil.
func Entries(n *yaml.Node) []Entry {
	n = Deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		entries = append(entries, Entry{Key: n.Content[i].Value, Value: Deref(n.Content[i+1])})
	}
	return entries
}

// Get returns the value for key in a mapping node, or nil.
func Get(n *yaml.Node, key string) *yaml.Node {
	n = Deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return Deref(n.Content[i+1])
		}
	}
	return nil
}

// Has reports whether a mapping node carries the key.
func Has(n *yaml.Node, key string) bool { return Get(n, key) != nil }

// Items returns the elements of a sequence node. Non-sequence nodes yield nil.
func Items(n *yaml.Node) []*yaml.Node {
	n = Deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*yaml.Node, 0, len(n.Content))
	for _, c := range n.Content {
		items = append(items, Deref(c))
	}
	return items
}

// Str decodes a scalar node as a string. Non-scalar nodes yield "".
func Str(n *yaml.Node) string {
	n = Deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// StrAt is shorthand for Str(Get(n, key)).
func StrAt(n *yaml.Node, key string) string { return Str(Get(n, key)) }

// BoolAt decodes the mapping value for key as a bool, defaulting to false.
func BoolAt(n *yaml.Node, key string) bool {
	v := Get(n, key)
	if v == nil {
		return false
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		return false
	}
	return b
}

// Scalar decodes a scalar node into a Go value (string, int, float, bool, nil).
func Scalar(n *yaml.Node) any {
	n = Deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return v
}

// Clone deep-copies a node tree. Alias nodes are flattened into their targets
// so clones are self-contained.
func Clone(n *yaml.Node) *yaml.Node {
	n = Deref(n)
	if n == nil {
		return nil
	}
	out := &yaml.Node{
		Kind:   n.Kind,
		Style:  n.Style,
		Tag:    n.Tag,
		Value:  n.Value,
		Anchor: n.Anchor,
		Line:   n.Line,
		Column: n.Column,
	}
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = Clone(c)
		}
	}
	return out
}

package schema

import "sort"

// Schema is the frozen, immutable artifact produced by inference. It is safe
// for concurrent use by any number of validators.
type Schema struct {
	Root *Node `json:"root"`
}

// Node describes the generalized shape of all document fragments merged into
// one tree position.
type Node struct {
	// Types is the sorted set of observed types at this position.
	Types []Type `json:"types"`
	// Properties maps property names to their child nodes for object types.
	Properties map[string]*Node `json:"properties,omitempty"`
	// Required lists properties present in every contributing document.
	Required []string `json:"required,omitempty"`
	// Items describes array elements, merged across all observed elements.
	Items *Node `json:"items,omitempty"`
	// Enum holds the allowed scalar literals. Inference emits it only for
	// fields whose distinct values stayed under the cap and repeated across
	// documents; empty means unconstrained.
	Enum []EnumValue `json:"enum,omitempty"`
	// Count is the number of document fragments that contributed here.
	Count int `json:"count"`
}

// HasType reports whether t was observed at this node.
func (n *Node) HasType(t Type) bool {
	for _, have := range n.Types {
		if have == t {
			return true
		}
	}
	return false
}

// PropertyNames returns the property names in the node's canonical (sorted)
// iteration order.
func (n *Node) PropertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether the named property was present in every
// contributing document.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Equal reports structural equality of two schemas.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Root.Equal(other.Root)
}

// Equal reports structural equality of two nodes.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Count != other.Count || len(n.Types) != len(other.Types) ||
		len(n.Properties) != len(other.Properties) || len(n.Required) != len(other.Required) ||
		len(n.Enum) != len(other.Enum) {
		return false
	}
	for i, t := range n.Types {
		if other.Types[i] != t {
			return false
		}
	}
	for i, r := range n.Required {
		if other.Required[i] != r {
			return false
		}
	}
	for i, e := range n.Enum {
		if other.Enum[i] != e {
			return false
		}
	}
	for name, child := range n.Properties {
		if !child.Equal(other.Properties[name]) {
			return false
		}
	}
	return n.Items.Equal(other.Items)
}

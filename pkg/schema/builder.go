package schema

import (
	"sort"

	"github.com/jsonvet/jsonvet/pkg/document"
)

// DefaultEnumLimit caps the number of distinct scalar literals tracked per
// node before enum inference is abandoned for that node.
const DefaultEnumLimit = 25

// BuilderOptions controls inference behavior.
type BuilderOptions struct {
	// EnumLimit is the maximum number of distinct scalar values tracked per
	// node. Zero means DefaultEnumLimit.
	EnumLimit int
}

// Builder accumulates document observations into a mutable schema tree. It
// is not safe for concurrent use; shard documents across builders and reduce
// with Combine instead. Merging is commutative and associative, so the
// frozen result is identical for any document order or sharding.
type Builder struct {
	enumLimit int
	root      *bnode
}

type bnode struct {
	types    map[Type]struct{}
	props    map[string]*bnode
	items    *bnode
	enum     map[EnumValue]struct{}
	enumDead bool
	count    int
	// scalars counts scalar contributions only, so object or array
	// observations at a mixed-type node cannot fake value repetition.
	scalars int
}

// NewBuilder creates a Builder. A nil opts selects the defaults.
func NewBuilder(opts *BuilderOptions) *Builder {
	limit := DefaultEnumLimit
	if opts != nil && opts.EnumLimit > 0 {
		limit = opts.EnumLimit
	}
	return &Builder{enumLimit: limit}
}

// Merge folds one document into the running schema, monotonically widening
// it: the root node's type set only grows, required property sets only
// shrink, and enum sets grow until they exceed the limit and are dropped.
func (b *Builder) Merge(doc document.Value) {
	if b.root == nil {
		b.root = newBNode()
	}
	b.mergeValue(b.root, doc)
}

// Count returns the number of documents merged so far.
func (b *Builder) Count() int {
	if b.root == nil {
		return 0
	}
	return b.root.count
}

func newBNode() *bnode {
	return &bnode{
		types: make(map[Type]struct{}),
		enum:  make(map[EnumValue]struct{}),
	}
}

func (b *Builder) mergeValue(n *bnode, v document.Value) {
	n.count++
	n.types[TypeOf(v)] = struct{}{}

	switch v.Kind() {
	case document.KindObject:
		if n.props == nil {
			n.props = make(map[string]*bnode)
		}
		for _, key := range v.Keys() {
			child, ok := n.props[key]
			if !ok {
				child = newBNode()
				n.props[key] = child
			}
			field, _ := v.Field(key)
			b.mergeValue(child, field)
		}
	case document.KindArray:
		if v.Len() > 0 && n.items == nil {
			n.items = newBNode()
		}
		for i := 0; i < v.Len(); i++ {
			b.mergeValue(n.items, v.Elem(i))
		}
	default:
		n.scalars++
		if n.enumDead {
			return
		}
		ev, _ := enumValueOf(v)
		n.enum[ev] = struct{}{}
		if len(n.enum) > b.enumLimit {
			n.enum = nil
			n.enumDead = true
		}
	}
}

// Combine reduces another builder's partial schema into this one. Both
// builders must share the same enum limit for the cap semantics to stay
// order-independent. The other builder must not be used afterwards.
func (b *Builder) Combine(other *Builder) {
	if other == nil || other.root == nil {
		return
	}
	if b.root == nil {
		b.root = other.root
		return
	}
	b.combineNode(b.root, other.root)
}

func (b *Builder) combineNode(dst, src *bnode) {
	dst.count += src.count
	dst.scalars += src.scalars
	for t := range src.types {
		dst.types[t] = struct{}{}
	}

	if src.props != nil {
		if dst.props == nil {
			dst.props = make(map[string]*bnode)
		}
		for key, srcChild := range src.props {
			if dstChild, ok := dst.props[key]; ok {
				b.combineNode(dstChild, srcChild)
			} else {
				dst.props[key] = srcChild
			}
		}
	}

	if src.items != nil {
		if dst.items == nil {
			dst.items = src.items
		} else {
			b.combineNode(dst.items, src.items)
		}
	}

	if dst.enumDead || src.enumDead {
		dst.enum = nil
		dst.enumDead = true
		return
	}
	for ev := range src.enum {
		dst.enum[ev] = struct{}{}
	}
	if len(dst.enum) > b.enumLimit {
		dst.enum = nil
		dst.enumDead = true
	}
}

// Freeze converts the accumulated state into the immutable Schema artifact.
// The builder must not be used after freezing.
func (b *Builder) Freeze() *Schema {
	return &Schema{Root: freezeNode(b.root)}
}

func freezeNode(n *bnode) *Node {
	if n == nil {
		return nil
	}

	out := &Node{Count: n.count}

	out.Types = make([]Type, 0, len(n.types))
	for t := range n.types {
		out.Types = append(out.Types, t)
	}
	sort.Slice(out.Types, func(i, j int) bool { return out.Types[i] < out.Types[j] })

	if len(n.props) > 0 {
		out.Properties = make(map[string]*Node, len(n.props))
		for key, child := range n.props {
			frozen := freezeNode(child)
			out.Properties[key] = frozen
			// A property contributes once per containing document, so a
			// child count equal to the node count means always present.
			if frozen.Count == n.count {
				out.Required = append(out.Required, key)
			}
		}
		sort.Strings(out.Required)
	}

	out.Items = freezeNode(n.items)

	// A value set is only a constraint when scalar repetition was observed:
	// every scalar distinct just means a free-form field sampled a few
	// times. Declared artifacts can still carry any enum they like.
	if len(n.enum) > 0 && n.scalars > len(n.enum) {
		out.Enum = make([]EnumValue, 0, len(n.enum))
		for ev := range n.enum {
			out.Enum = append(out.Enum, ev)
		}
		sort.Slice(out.Enum, func(i, j int) bool { return enumLess(out.Enum[i], out.Enum[j]) })
	}

	return out
}

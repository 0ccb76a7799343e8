package document

import (
	"fmt"
	"strings"
)

// Segment is one step of a document path: either an object property name or
// an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a property-name segment.
func Key(name string) Segment { return Segment{key: name} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the property name for key segments.
func (s Segment) Name() string { return s.key }

// Pos returns the array index for index segments.
func (s Segment) Pos() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return fmt.Sprintf("[%d]", s.index)
	}
	return s.key
}

// Path addresses a position in a document tree from the root, e.g.
// "items[2].price".
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 && !seg.isIndex {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Child returns a new path extended by one segment. The receiver is not
// modified, so sibling branches can extend the same prefix safely.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// At resolves a path against the value. It fails with a *PathError when an
// intermediate value has the wrong kind, an index is out of range, or a
// property is absent.
func (v Value) At(path ...Segment) (Value, error) {
	cur := v
	for i, seg := range path {
		prefix := Path(path[:i])
		if seg.isIndex {
			if cur.kind != KindArray {
				return Value{}, &PathError{
					Path: prefix.String(),
					Msg:  fmt.Sprintf("cannot index into %s value", cur.kind),
				}
			}
			if seg.index < 0 || seg.index >= len(cur.arr) {
				return Value{}, &PathError{
					Path: prefix.String(),
					Msg:  fmt.Sprintf("index %d out of range (len %d)", seg.index, len(cur.arr)),
				}
			}
			cur = cur.arr[seg.index]
			continue
		}
		if cur.kind != KindObject {
			return Value{}, &PathError{
				Path: prefix.String(),
				Msg:  fmt.Sprintf("cannot read property %q of %s value", seg.key, cur.kind),
			}
		}
		next, ok := cur.obj[seg.key]
		if !ok {
			return Value{}, &PathError{
				Path: prefix.String(),
				Msg:  fmt.Sprintf("no property %q", seg.key),
			}
		}
		cur = next
	}
	return cur, nil
}

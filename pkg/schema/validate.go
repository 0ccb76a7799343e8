package schema

import (
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/jsonvet/jsonvet/pkg/document"
)

// ViolationKind classifies a single validation finding.
type ViolationKind string

const (
	ViolationTypeMismatch       ViolationKind = "type_mismatch"
	ViolationMissingRequired    ViolationKind = "missing_required_property"
	ViolationUnexpectedProperty ViolationKind = "unexpected_property"
	ViolationEnum               ViolationKind = "enum_violation"
)

// Violation is one mismatch between a document and the schema, located by
// path from the document root.
type Violation struct {
	Path    document.Path
	Kind    ViolationKind
	Message string
}

// MarshalJSON renders the path in its display form for report sinks.
func (v Violation) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(struct {
		Path    string        `json:"path"`
		Kind    ViolationKind `json:"kind"`
		Message string        `json:"message"`
	}{v.Path.String(), v.Kind, v.Message})
}

// Options controls validation behavior.
type Options struct {
	// Strict reports properties absent from the schema. By default extra
	// properties are tolerated (open world).
	Strict bool
}

// Validator checks documents against a frozen Schema. It never mutates the
// schema and is safe for concurrent use.
type Validator struct {
	schema *Schema
	strict bool
}

// NewValidator creates a validator. A nil opts selects the defaults.
func NewValidator(s *Schema, opts *Options) *Validator {
	v := &Validator{schema: s}
	if opts != nil {
		v.strict = opts.Strict
	}
	return v
}

// Validate returns all violations found, in a deterministic depth-first
// order: properties in the schema's sorted-name order, array items by
// ascending index. An empty result means the document conforms.
func (v *Validator) Validate(doc document.Value) []Violation {
	if v.schema == nil || v.schema.Root == nil {
		return nil
	}
	var out []Violation
	v.walk(v.schema.Root, doc, nil, &out)
	return out
}

func (v *Validator) walk(n *Node, val document.Value, path document.Path, out *[]Violation) {
	t := TypeOf(val)
	if !typeAllowed(n, t) {
		*out = append(*out, Violation{
			Path:    path,
			Kind:    ViolationTypeMismatch,
			Message: fmt.Sprintf("got %s (%s), want %s", t, describeValue(val), joinTypes(n.Types)),
		})
		// Children of a mismatched value cannot be meaningfully checked.
		return
	}

	switch val.Kind() {
	case document.KindObject:
		for _, name := range n.PropertyNames() {
			child := n.Properties[name]
			field, ok := val.Field(name)
			if !ok {
				if n.IsRequired(name) {
					*out = append(*out, Violation{
						Path:    path.Child(document.Key(name)),
						Kind:    ViolationMissingRequired,
						Message: fmt.Sprintf("required property %q is missing", name),
					})
				}
				continue
			}
			v.walk(child, field, path.Child(document.Key(name)), out)
		}
		if v.strict {
			for _, name := range val.Keys() {
				if _, known := n.Properties[name]; !known {
					*out = append(*out, Violation{
						Path:    path.Child(document.Key(name)),
						Kind:    ViolationUnexpectedProperty,
						Message: fmt.Sprintf("property %q is not part of the schema", name),
					})
				}
			}
		}
	case document.KindArray:
		if n.Items == nil {
			return
		}
		for i := 0; i < val.Len(); i++ {
			v.walk(n.Items, val.Elem(i), path.Child(document.Index(i)), out)
		}
	default:
		if len(n.Enum) == 0 {
			return
		}
		if ev, ok := enumValueOf(val); ok && !enumContains(n.Enum, ev) {
			*out = append(*out, Violation{
				Path:    path,
				Kind:    ViolationEnum,
				Message: fmt.Sprintf("value %s not among the %d allowed values", ev, len(n.Enum)),
			})
		}
	}
}

// typeAllowed applies JSON Schema numeric subsumption: an integer value
// satisfies a number type.
func typeAllowed(n *Node, t Type) bool {
	if n.HasType(t) {
		return true
	}
	return t == TypeInteger && n.HasType(TypeNumber)
}

// enumContains matches exactly, except that numeric comparison is symmetric
// across the integer/number split: 1 and 1.0 denote the same literal.
func enumContains(enum []EnumValue, ev EnumValue) bool {
	for _, have := range enum {
		if have == ev {
			return true
		}
		if ev.Type == TypeInteger && have.Type == TypeNumber && have.Float == float64(ev.Int) {
			return true
		}
		if ev.Type == TypeNumber && have.Type == TypeInteger && ev.Float == float64(have.Int) {
			return true
		}
	}
	return false
}

func joinTypes(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}

const maxDescribeLen = 60

// describeValue renders a short description of the offending value.
func describeValue(val document.Value) string {
	switch val.Kind() {
	case document.KindArray:
		return fmt.Sprintf("array of %d", val.Len())
	case document.KindObject:
		return fmt.Sprintf("object with %d properties", val.Len())
	default:
		ev, _ := enumValueOf(val)
		s := ev.String()
		if len(s) > maxDescribeLen {
			s = s[:maxDescribeLen] + "..."
		}
		return s
	}
}

// Package schema implements structural schema inference over JSON documents
// and validation of documents against the inferred schema. A mutable Builder
// accumulates observations and is frozen exactly once into an immutable
// Schema shared by concurrent validators.
package schema

import (
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/jsonvet/jsonvet/pkg/document"
)

// Type is a JSON Schema primitive/composite type tag.
type Type string

const (
	TypeNull    Type = "null"
	TypeBoolean Type = "boolean"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeString  Type = "string"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

var knownTypes = map[Type]bool{
	TypeNull:    true,
	TypeBoolean: true,
	TypeInteger: true,
	TypeNumber:  true,
	TypeString:  true,
	TypeArray:   true,
	TypeObject:  true,
}

// TypeOf maps a document value kind to its schema type.
func TypeOf(v document.Value) Type {
	switch v.Kind() {
	case document.KindNull:
		return TypeNull
	case document.KindBool:
		return TypeBoolean
	case document.KindInt:
		return TypeInteger
	case document.KindFloat:
		return TypeNumber
	case document.KindString:
		return TypeString
	case document.KindArray:
		return TypeArray
	default:
		return TypeObject
	}
}

// EnumValue is one observed scalar literal. The struct is comparable so it
// can key the distinct-value set during inference.
type EnumValue struct {
	Type  Type
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// enumValueOf extracts the enum representation of a scalar value. Arrays and
// objects are not enum candidates.
func enumValueOf(v document.Value) (EnumValue, bool) {
	switch v.Kind() {
	case document.KindNull:
		return EnumValue{Type: TypeNull}, true
	case document.KindBool:
		return EnumValue{Type: TypeBoolean, Bool: v.Bool()}, true
	case document.KindInt:
		return EnumValue{Type: TypeInteger, Int: v.Int()}, true
	case document.KindFloat:
		return EnumValue{Type: TypeNumber, Float: v.Float()}, true
	case document.KindString:
		return EnumValue{Type: TypeString, Str: v.Str()}, true
	default:
		return EnumValue{}, false
	}
}

// String renders the literal the way it appears in JSON.
func (e EnumValue) String() string {
	switch e.Type {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return strconv.FormatBool(e.Bool)
	case TypeInteger:
		return strconv.FormatInt(e.Int, 10)
	case TypeNumber:
		return strconv.FormatFloat(e.Float, 'g', -1, 64)
	default:
		return strconv.Quote(e.Str)
	}
}

// Interface returns the generic Go value of the literal.
func (e EnumValue) Interface() any {
	switch e.Type {
	case TypeNull:
		return nil
	case TypeBoolean:
		return e.Bool
	case TypeInteger:
		return e.Int
	case TypeNumber:
		return e.Float
	default:
		return e.Str
	}
}

// enumLess orders enum values canonically (by type tag, then value) so that
// frozen schemas are identical regardless of merge order.
func enumLess(a, b EnumValue) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	switch a.Type {
	case TypeBoolean:
		return !a.Bool && b.Bool
	case TypeInteger:
		return a.Int < b.Int
	case TypeNumber:
		return a.Float < b.Float
	case TypeString:
		return a.Str < b.Str
	default:
		return false
	}
}

type enumValueJSON struct {
	Type  Type              `json:"type"`
	Value gojson.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the literal as {"type": ..., "value": ...}.
func (e EnumValue) MarshalJSON() ([]byte, error) {
	out := enumValueJSON{Type: e.Type}
	if e.Type != TypeNull {
		raw, err := gojson.Marshal(e.Interface())
		if err != nil {
			return nil, err
		}
		out.Value = raw
	}
	return gojson.Marshal(out)
}

// UnmarshalJSON decodes the literal, rejecting unknown type tags.
func (e *EnumValue) UnmarshalJSON(data []byte) error {
	var in enumValueJSON
	if err := gojson.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = EnumValue{Type: in.Type}
	switch in.Type {
	case TypeNull:
		return nil
	case TypeBoolean:
		return gojson.Unmarshal(in.Value, &e.Bool)
	case TypeInteger:
		return gojson.Unmarshal(in.Value, &e.Int)
	case TypeNumber:
		return gojson.Unmarshal(in.Value, &e.Float)
	case TypeString:
		return gojson.Unmarshal(in.Value, &e.Str)
	default:
		return fmt.Errorf("unknown enum type tag %q", in.Type)
	}
}

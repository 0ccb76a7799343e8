package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeError reports a schema artifact that failed integrity checks while
// loading, e.g. an unknown type tag. It is fatal: a schema that cannot be
// decoded must not be used for validation.
type DecodeError struct {
	Msg string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding schema artifact: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("decoding schema artifact: %s", e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes the schema as its canonical JSON artifact. The artifact
// round-trips: Decode(Encode(s)) is structurally equal to s.
func Encode(s *Schema) ([]byte, error) {
	return gojson.MarshalIndent(s, "", "  ")
}

// Decode loads a schema artifact from JSON, verifying type tags.
func Decode(data []byte) (*Schema, error) {
	var s Schema
	if err := gojson.Unmarshal(data, &s); err != nil {
		return nil, &DecodeError{Msg: "invalid JSON", Err: err}
	}
	if err := verifyNode(s.Root, ""); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeYAML loads a schema artifact from YAML by converting it to the JSON
// form first, so both formats share one set of integrity checks.
func DecodeYAML(data []byte) (*Schema, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Msg: "invalid YAML", Err: err}
	}
	jsonData, err := gojson.Marshal(raw)
	if err != nil {
		return nil, &DecodeError{Msg: "converting YAML artifact", Err: err}
	}
	return Decode(jsonData)
}

func verifyNode(n *Node, at string) error {
	if n == nil {
		return nil
	}
	for _, t := range n.Types {
		if !knownTypes[t] {
			return &DecodeError{Msg: fmt.Sprintf("unknown type tag %q at %q", t, at)}
		}
	}
	for _, e := range n.Enum {
		if !knownTypes[e.Type] || e.Type == TypeArray || e.Type == TypeObject {
			return &DecodeError{Msg: fmt.Sprintf("invalid enum type tag %q at %q", e.Type, at)}
		}
	}
	for _, r := range n.Required {
		if _, ok := n.Properties[r]; !ok {
			return &DecodeError{Msg: fmt.Sprintf("required property %q has no schema at %q", r, at)}
		}
	}
	for name, child := range n.Properties {
		childAt := name
		if at != "" {
			childAt = at + "." + name
		}
		if err := verifyNode(child, childAt); err != nil {
			return err
		}
	}
	return verifyNode(n.Items, at+"[]")
}

// Fingerprint returns a stable hex digest of the schema artifact, used to
// key caches of derived state such as compiled audit validators.
func Fingerprint(s *Schema) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

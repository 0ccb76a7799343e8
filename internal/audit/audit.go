// Package audit runs an offline audit pass: the inferred schema is exported
// to JSON Schema Draft 2020-12 and documents are re-checked with a full
// draft-compliant validator. This complements the core validator, which
// targets the practical inference-and-check subset on the hot path.
package audit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jsonvet/jsonvet/pkg/schema"
)

// DefaultCacheSize is the default number of compiled schemas kept.
const DefaultCacheSize = 32

// Auditor compiles exported schemas and validates raw documents against
// them. Compiled schemas are cached by schema fingerprint; concurrent
// compilations of the same schema are deduplicated.
type Auditor struct {
	cache *lru.Cache[string, *jsonschema.Schema]
	group singleflight.Group
}

// New creates an Auditor with the given compiled-schema cache size; zero or
// negative selects DefaultCacheSize.
func New(cacheSize int) (*Auditor, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[string, *jsonschema.Schema](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Auditor{cache: c}, nil
}

// Audit validates one raw document against the schema and returns
// human-readable findings, one per violated constraint. An empty result
// means the document passed the audit.
func (a *Auditor) Audit(s *schema.Schema, data []byte) ([]string, error) {
	compiled, err := a.compiled(s)
	if err != nil {
		return nil, err
	}

	var value any
	if err := gojson.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	err = compiled.Validate(value)
	if err == nil {
		return nil, nil
	}
	return extractFindings(err), nil
}

// compiled returns the compiled form of the schema, building it at most once
// per fingerprint even under concurrent callers.
func (a *Auditor) compiled(s *schema.Schema) (*jsonschema.Schema, error) {
	fp, err := schema.Fingerprint(s)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting schema: %w", err)
	}

	if c, ok := a.cache.Get(fp); ok {
		return c, nil
	}

	v, err, _ := a.group.Do(fp, func() (any, error) {
		if c, ok := a.cache.Get(fp); ok {
			return c, nil
		}
		compiled, err := compile(s)
		if err != nil {
			return nil, err
		}
		a.cache.Add(fp, compiled)
		return compiled, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*jsonschema.Schema), nil
}

func compile(s *schema.Schema) (*jsonschema.Schema, error) {
	exported := schema.Export(s)

	// Marshal and re-unmarshal to get the clean generic document the
	// compiler expects as a resource.
	raw, err := gojson.Marshal(exported)
	if err != nil {
		return nil, fmt.Errorf("marshaling exported schema: %w", err)
	}
	var doc any
	if err := gojson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling exported schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return compiled, nil
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractFindings flattens a validation error into deduplicated per-path
// messages.
func extractFindings(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	byPath := make(map[string][]string)
	collectFindings(validationErr, byPath)

	var result []string
	for path, msgs := range byPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	sort.Strings(result)
	return result
}

// collectFindings recursively collects leaf errors (those without causes).
func collectFindings(err *jsonschema.ValidationError, byPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		// Schema-reference messages carry no actionable detail.
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			byPath[instancePath] = append(byPath[instancePath], msg)
		}
	}

	for _, cause := range err.Causes {
		collectFindings(cause, byPath)
	}
}

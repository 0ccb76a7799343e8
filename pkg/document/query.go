package document

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Query evaluates a jq expression against the document and returns the
// produced values. Useful for ad-hoc exploration of scraped records once a
// schema report points at an interesting field.
func (v Value) Query(expr string) ([]Value, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing query %q: %w", expr, err)
	}

	var out []Value
	iter := q.Run(queryInput(v))
	for {
		res, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := res.(error); isErr {
			return nil, fmt.Errorf("running query %q: %w", expr, err)
		}
		out = append(out, FromInterface(res))
	}
	return out, nil
}

// queryInput converts a Value into the representation gojq accepts, which
// requires plain int rather than int64.
func queryInput(v Value) any {
	switch v.kind {
	case KindInt:
		return int(v.i)
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = queryInput(e)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = queryInput(e)
		}
		return out
	default:
		return v.Interface()
	}
}

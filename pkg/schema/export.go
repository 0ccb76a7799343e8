package schema

import (
	"github.com/invopop/jsonschema"
)

const draftURL = "https://json-schema.org/draft/2020-12/schema"

// Export renders the frozen schema as a JSON Schema Draft 2020-12 document,
// for interop with external validators and tooling. Inference metadata
// (contribution counts) has no JSON Schema equivalent and is dropped.
func Export(s *Schema) *jsonschema.Schema {
	if s == nil || s.Root == nil {
		return &jsonschema.Schema{Version: draftURL}
	}
	out := exportNode(s.Root)
	out.Version = draftURL
	return out
}

func exportNode(n *Node) *jsonschema.Schema {
	if len(n.Types) == 1 {
		return exportSingle(n, n.Types[0])
	}

	// Type unions become anyOf, one branch per observed type, the same way
	// merged samples are rendered by schema inference tooling.
	anyOf := make([]*jsonschema.Schema, 0, len(n.Types))
	for _, t := range n.Types {
		anyOf = append(anyOf, exportSingle(n, t))
	}
	return &jsonschema.Schema{AnyOf: anyOf}
}

func exportSingle(n *Node, t Type) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: string(t)}

	switch t {
	case TypeObject:
		if len(n.Properties) > 0 {
			out.Properties = jsonschema.NewProperties()
			for _, name := range n.PropertyNames() {
				out.Properties.Set(name, exportNode(n.Properties[name]))
			}
		}
		if len(n.Required) > 0 {
			out.Required = append([]string(nil), n.Required...)
		}
	case TypeArray:
		if n.Items != nil {
			out.Items = exportNode(n.Items)
		}
	default:
		for _, ev := range n.Enum {
			if ev.Type == t {
				out.Enum = append(out.Enum, ev.Interface())
			}
		}
	}

	return out
}

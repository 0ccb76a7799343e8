package rules

import (
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"

	"github.com/jsonvet/jsonvet/pkg/document"
)

// CheckUniqueness flags duplicate values of the declared unique fields
// (SKUs, product URLs and the like). Documents missing a field are not
// counted against it.
func CheckUniqueness(docs []document.Value, fields []string) Outcome {
	out := Outcome{
		Rule:         "uniqueness",
		Level:        LevelInfo,
		ItemsChecked: len(docs),
	}
	if len(fields) == 0 {
		out.Summary = "no unique fields declared"
		return out
	}

	flagged := make(map[int]struct{})
	for _, field := range fields {
		byValue := make(map[string][]int)
		for i, doc := range docs {
			val, err := doc.At(document.Key(field))
			if err != nil {
				continue
			}
			key, err := gojson.Marshal(val.Interface())
			if err != nil {
				continue
			}
			byValue[string(key)] = append(byValue[string(key)], i)
		}

		keys := make([]string, 0, len(byValue))
		for k := range byValue {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			idxs := byValue[k]
			if len(idxs) < 2 {
				continue
			}
			out.Details = append(out.Details, fmt.Sprintf(
				"%s=%s duplicated across %d documents %v", field, k, len(idxs), idxs,
			))
			for _, i := range idxs {
				flagged[i] = struct{}{}
			}
		}
	}

	out.ItemsFlagged = len(flagged)
	if out.ItemsFlagged > 0 {
		out.Level = LevelError
		out.Summary = fmt.Sprintf("%s (%d) of documents carry duplicated unique fields",
			percent(out.ItemsFlagged, len(docs)), out.ItemsFlagged)
	} else {
		out.Summary = fmt.Sprintf("all %d documents unique on %v", len(docs), fields)
	}
	return out
}

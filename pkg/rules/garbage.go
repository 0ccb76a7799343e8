package rules

import (
	"fmt"
	"regexp"

	"github.com/jsonvet/jsonvet/pkg/document"
)

// garbagePattern matches leftovers of a broken extraction step: HTML tags,
// HTML entities, unresolved unicode escapes, and padding whitespace.
var garbagePattern = regexp.MustCompile(
	`(?i)(<[a-z][^>]*>|&[a-z]+;|&#\d+;|\\u[0-9a-f]{4}|^\s+|\s+$|\s{3,})`,
)

const maxGarbageDetails = 50

// CheckGarbageSymbols scans every string leaf of every document for scraping
// artifacts and reports which paths carry them.
func CheckGarbageSymbols(docs []document.Value) Outcome {
	out := Outcome{
		Rule:         "garbage symbols",
		Level:        LevelInfo,
		ItemsChecked: len(docs),
	}

	for i, doc := range docs {
		dirty := false
		walkStrings(doc, nil, func(path document.Path, s string) {
			if m := garbagePattern.FindString(s); m != "" {
				dirty = true
				if len(out.Details) < maxGarbageDetails {
					out.Details = append(out.Details, fmt.Sprintf(
						"document %d, %s: matched %q", i, path, m,
					))
				}
			}
		})
		if dirty {
			out.ItemsFlagged++
		}
	}

	if out.ItemsFlagged > 0 {
		out.Level = LevelWarning
		out.Summary = fmt.Sprintf("%s (%d) of documents contain garbage symbols",
			percent(out.ItemsFlagged, len(docs)), out.ItemsFlagged)
	} else {
		out.Summary = fmt.Sprintf("no garbage symbols in %d documents", len(docs))
	}
	return out
}

// walkStrings visits every string leaf depth-first, properties in sorted
// order, array items by index.
func walkStrings(v document.Value, path document.Path, fn func(document.Path, string)) {
	switch v.Kind() {
	case document.KindString:
		fn(path, v.Str())
	case document.KindArray:
		for i := 0; i < v.Len(); i++ {
			walkStrings(v.Elem(i), path.Child(document.Index(i)), fn)
		}
	case document.KindObject:
		for _, key := range v.Keys() {
			field, _ := v.Field(key)
			walkStrings(field, path.Child(document.Key(key)), fn)
		}
	}
}

package rules

import (
	"fmt"

	"github.com/jsonvet/jsonvet/pkg/schema"
)

// lowCoverageRatio is the presence ratio below which a field escalates the
// outcome to an error: a field this sparse usually means a broken selector.
const lowCoverageRatio = 0.1

// CheckFieldCoverage reports the presence ratio of every top-level field,
// computed from the inferred schema's contribution counts. Fields absent
// from some documents produce a warning; fields absent from almost all
// documents produce an error.
func CheckFieldCoverage(s *schema.Schema) Outcome {
	out := Outcome{Rule: "field coverage", Level: LevelInfo}
	if s == nil || s.Root == nil || len(s.Root.Properties) == 0 {
		out.Summary = "no object fields observed"
		return out
	}

	root := s.Root
	out.ItemsChecked = root.Count

	for _, name := range root.PropertyNames() {
		child := root.Properties[name]
		out.Details = append(out.Details, fmt.Sprintf(
			"%s: %s (%d/%d)", name, percent(child.Count, root.Count), child.Count, root.Count,
		))
		if child.Count == root.Count {
			continue
		}
		out.ItemsFlagged++
		if out.Level < LevelWarning {
			out.Level = LevelWarning
		}
		if root.Count > 0 && float64(child.Count)/float64(root.Count) < lowCoverageRatio {
			out.Level = LevelError
		}
	}

	if out.ItemsFlagged == 0 {
		out.Summary = fmt.Sprintf("all %d fields present in every document", len(root.Properties))
	} else {
		out.Summary = fmt.Sprintf("%d of %d fields missing from some documents",
			out.ItemsFlagged, len(root.Properties))
	}
	return out
}

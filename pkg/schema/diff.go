package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Drift is the structured difference between a baseline schema and a
// candidate schema, typically two inference runs over successive batches of
// the same feed. Paths use the dotted report notation, with "$" for the root.
type Drift struct {
	// PropertiesAdded lists paths present only in the candidate.
	PropertiesAdded []string `json:"properties_added,omitempty"`
	// PropertiesRemoved lists paths present only in the baseline.
	PropertiesRemoved []string `json:"properties_removed,omitempty"`
	// TypeChanges lists paths whose observed type set changed.
	TypeChanges []TypeChange `json:"type_changes,omitempty"`
	// RequiredRelaxed lists paths required in the baseline but optional in
	// the candidate, usually the first sign of a decaying selector.
	RequiredRelaxed []string `json:"required_relaxed,omitempty"`
	// RequiredTightened lists paths optional in the baseline but required in
	// the candidate.
	RequiredTightened []string `json:"required_tightened,omitempty"`
}

// TypeChange records one path whose type set drifted.
type TypeChange struct {
	Path      string `json:"path"`
	Baseline  []Type `json:"baseline"`
	Candidate []Type `json:"candidate"`
}

// Empty reports whether the two schemas were structurally identical.
func (d *Drift) Empty() bool {
	return len(d.PropertiesAdded) == 0 &&
		len(d.PropertiesRemoved) == 0 &&
		len(d.TypeChanges) == 0 &&
		len(d.RequiredRelaxed) == 0 &&
		len(d.RequiredTightened) == 0
}

// Diff compares two frozen schemas. Contribution counts and enum sets are
// ignored: drift is about structure, not sample size.
func Diff(baseline, candidate *Schema) *Drift {
	d := &Drift{}
	var bn, cn *Node
	if baseline != nil {
		bn = baseline.Root
	}
	if candidate != nil {
		cn = candidate.Root
	}
	diffNodes(bn, cn, "$", d)
	d.normalize()
	return d
}

func diffNodes(baseline, candidate *Node, path string, d *Drift) {
	if baseline == nil && candidate == nil {
		return
	}
	if baseline == nil {
		d.PropertiesAdded = append(d.PropertiesAdded, path)
		return
	}
	if candidate == nil {
		d.PropertiesRemoved = append(d.PropertiesRemoved, path)
		return
	}

	if !typesEqual(baseline.Types, candidate.Types) {
		d.TypeChanges = append(d.TypeChanges, TypeChange{
			Path:      path,
			Baseline:  baseline.Types,
			Candidate: candidate.Types,
		})
	}

	names := map[string]struct{}{}
	for name := range baseline.Properties {
		names[name] = struct{}{}
	}
	for name := range candidate.Properties {
		names[name] = struct{}{}
	}
	for name := range names {
		child := joinPath(path, name)
		diffNodes(baseline.Properties[name], candidate.Properties[name], child, d)

		bReq := baseline.IsRequired(name)
		cReq := candidate.IsRequired(name)
		switch {
		case bReq && !cReq && candidate.Properties[name] != nil:
			d.RequiredRelaxed = append(d.RequiredRelaxed, child)
		case !bReq && cReq && baseline.Properties[name] != nil:
			d.RequiredTightened = append(d.RequiredTightened, child)
		}
	}

	if baseline.Items != nil || candidate.Items != nil {
		diffNodes(baseline.Items, candidate.Items, path+"[]", d)
	}
}

func typesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinPath(parent, name string) string {
	if strings.ContainsAny(name, ". []") {
		return fmt.Sprintf("%s[%q]", parent, name)
	}
	return parent + "." + name
}

func (d *Drift) normalize() {
	sort.Strings(d.PropertiesAdded)
	sort.Strings(d.PropertiesRemoved)
	sort.Strings(d.RequiredRelaxed)
	sort.Strings(d.RequiredTightened)
	sort.Slice(d.TypeChanges, func(i, j int) bool { return d.TypeChanges[i].Path < d.TypeChanges[j].Path })
}

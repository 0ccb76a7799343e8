// Package rules implements data-quality checks over scraped documents that
// go beyond structural schema validation: field coverage, uniqueness of
// declared key fields, and leftover scraping artifacts in strings.
package rules

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Level grades a rule outcome.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// MarshalJSON renders the level as its name so reports stay readable
// without the iota values leaking into output.
func (l Level) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(l.String())
}

// Outcome is the result of running one rule over a batch.
type Outcome struct {
	Rule         string   `json:"rule"`
	Level        Level    `json:"level"`
	Summary      string   `json:"summary"`
	Details      []string `json:"details,omitempty"`
	ItemsChecked int      `json:"items_checked"`
	ItemsFlagged int      `json:"items_flagged"`
}

func percent(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}

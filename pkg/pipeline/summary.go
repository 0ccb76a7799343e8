package pipeline

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// DocumentError records one skipped document, typically a parse failure.
type DocumentError struct {
	DocID   string `json:"doc_id"`
	Ordinal uint32 `json:"ordinal"`
	Message string `json:"message"`
}

// Summary is the end-of-batch accounting.
type Summary struct {
	// DocumentsSeen counts every document pulled from the source, including
	// ones that failed to parse.
	DocumentsSeen int `json:"documents_seen"`
	// ParseFailures counts documents skipped as malformed JSON.
	ParseFailures int `json:"parse_failures"`
	// InvalidDocuments counts documents with at least one violation
	// (validation mode only).
	InvalidDocuments int `json:"invalid_documents"`
	// Violations is the total violation count across all documents.
	Violations int `json:"violations"`
	// Errors lists the skipped documents with their parse errors.
	Errors []DocumentError `json:"errors,omitempty"`
	// Flagged holds the ordinals of parse failures and invalid documents,
	// for cheap downstream slicing of large batches.
	Flagged *roaring.Bitmap `json:"-"`
}

func newSummary() *Summary {
	return &Summary{Flagged: roaring.New()}
}

// merge folds a worker-local summary into this one.
func (s *Summary) merge(other *Summary) {
	s.DocumentsSeen += other.DocumentsSeen
	s.ParseFailures += other.ParseFailures
	s.InvalidDocuments += other.InvalidDocuments
	s.Violations += other.Violations
	s.Errors = append(s.Errors, other.Errors...)
	s.Flagged.Or(other.Flagged)
}

// normalize gives the merged summary a deterministic error order.
func (s *Summary) normalize() {
	sort.Slice(s.Errors, func(i, j int) bool { return s.Errors[i].Ordinal < s.Errors[j].Ordinal })
}

// FlaggedOrdinals returns the sorted ordinals of flagged documents.
func (s *Summary) FlaggedOrdinals() []uint32 {
	if s.Flagged == nil {
		return nil
	}
	return s.Flagged.ToArray()
}

// summaryJSON is the serialized form; the bitmap flattens to an array.
type summaryJSON struct {
	DocumentsSeen    int             `json:"documents_seen"`
	ParseFailures    int             `json:"parse_failures"`
	InvalidDocuments int             `json:"invalid_documents"`
	Violations       int             `json:"violations"`
	Errors           []DocumentError `json:"errors,omitempty"`
	Flagged          []uint32        `json:"flagged,omitempty"`
}

func (s Summary) toJSON() summaryJSON {
	return summaryJSON{
		DocumentsSeen:    s.DocumentsSeen,
		ParseFailures:    s.ParseFailures,
		InvalidDocuments: s.InvalidDocuments,
		Violations:       s.Violations,
		Errors:           s.Errors,
		Flagged:          s.FlaggedOrdinals(),
	}
}

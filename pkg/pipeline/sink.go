package pipeline

import (
	"context"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"

	"github.com/jsonvet/jsonvet/pkg/schema"
)

// Report carries one document's validation outcome. Violations may be empty
// for a conforming document.
type Report struct {
	DocID      string             `json:"doc_id"`
	Ordinal    uint32             `json:"ordinal"`
	Violations []schema.Violation `json:"violations"`
	// Audit holds findings from the optional draft-compliant audit pass.
	Audit []string `json:"audit,omitempty"`
}

// Sink receives per-document reports, the frozen schema (inference mode) and
// the end-of-batch summary. The pipeline serializes calls, so
// implementations do not need their own locking.
type Sink interface {
	WriteReport(ctx context.Context, r Report) error
	WriteSchema(ctx context.Context, s *schema.Schema) error
	WriteSummary(ctx context.Context, s Summary) error
}

// CollectSink accumulates everything in memory.
type CollectSink struct {
	mu      sync.Mutex
	Reports []Report
	Schema  *schema.Schema
	Summary *Summary
}

// WriteReport implements Sink.
func (c *CollectSink) WriteReport(_ context.Context, r Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Reports = append(c.Reports, r)
	return nil
}

// WriteSchema implements Sink.
func (c *CollectSink) WriteSchema(_ context.Context, s *schema.Schema) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Schema = s
	return nil
}

// WriteSummary implements Sink.
func (c *CollectSink) WriteSummary(_ context.Context, s Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Summary = &s
	return nil
}

// WriterSink streams tagged JSON lines to an io.Writer.
type WriterSink struct {
	enc *gojson.Encoder
}

// NewWriterSink creates a sink writing one JSON object per line to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: gojson.NewEncoder(w)}
}

type taggedLine struct {
	Type    string         `json:"type"`
	Report  *Report        `json:"report,omitempty"`
	Schema  *schema.Schema `json:"schema,omitempty"`
	Summary *summaryJSON   `json:"summary,omitempty"`
}

// WriteReport implements Sink.
func (w *WriterSink) WriteReport(_ context.Context, r Report) error {
	return w.enc.Encode(taggedLine{Type: "report", Report: &r})
}

// WriteSchema implements Sink.
func (w *WriterSink) WriteSchema(_ context.Context, s *schema.Schema) error {
	return w.enc.Encode(taggedLine{Type: "schema", Schema: s})
}

// WriteSummary implements Sink.
func (w *WriterSink) WriteSummary(_ context.Context, s Summary) error {
	js := s.toJSON()
	return w.enc.Encode(taggedLine{Type: "summary", Summary: &js})
}

// Package pipeline orchestrates streaming documents through schema inference
// and validation with a bounded-buffer producer and a fixed worker pool.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Raw is one undecoded document pulled from a Source.
type Raw struct {
	// ID identifies the document in reports, e.g. a record key or line number.
	ID string
	// Ordinal is the document's zero-based position in the stream.
	Ordinal uint32
	// Data is the raw JSON bytes.
	Data []byte
}

// Source produces raw documents. Next returns io.EOF at end of stream; any
// other error is a transport failure, which is fatal to the batch (unlike a
// per-document parse error).
type Source interface {
	Next(ctx context.Context) (Raw, error)
}

// TransportError wraps a Source failure. The pipeline halts on it but still
// returns the partial summary gathered so far.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("document source failed: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// maxLineBytes bounds a single JSON-lines record.
const maxLineBytes = 16 << 20

// ReaderSource reads one JSON document per line from an io.Reader, skipping
// blank lines. Document IDs are the 1-based line numbers. A line over the
// byte cap is a fatal source error, not a per-document one: the scanner
// cannot resynchronize to the next record boundary mid-line, so the pipeline
// halts with a TransportError and the partial summary.
type ReaderSource struct {
	scanner *bufio.Scanner
	line    int
	ordinal uint32
}

// NewReaderSource wraps r as a JSON-lines document source with the default
// per-line byte cap.
func NewReaderSource(r io.Reader) *ReaderSource {
	return NewReaderSourceLimit(r, maxLineBytes)
}

// NewReaderSourceLimit wraps r with an explicit per-line byte cap.
func NewReaderSourceLimit(r io.Reader, maxBytes int) *ReaderSource {
	initial := 64 * 1024
	if maxBytes < initial {
		initial = maxBytes
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initial), maxBytes)
	return &ReaderSource{scanner: sc}
}

// Next implements Source.
func (s *ReaderSource) Next(ctx context.Context) (Raw, error) {
	if err := ctx.Err(); err != nil {
		return Raw{}, err
	}
	for s.scanner.Scan() {
		s.line++
		text := s.scanner.Bytes()
		if len(bytes.TrimSpace(text)) == 0 {
			continue
		}
		// The scanner reuses its buffer between calls.
		data := make([]byte, len(text))
		copy(data, text)
		raw := Raw{
			ID:      fmt.Sprintf("line-%d", s.line),
			Ordinal: s.ordinal,
			Data:    data,
		}
		s.ordinal++
		return raw, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Raw{}, err
	}
	return Raw{}, io.EOF
}

// SliceSource serves an in-memory list of documents, mainly for tests and
// small batches.
type SliceSource struct {
	docs [][]byte
	next int
}

// NewSliceSource creates a source over the given documents. IDs are the
// zero-based positions.
func NewSliceSource(docs [][]byte) *SliceSource {
	return &SliceSource{docs: docs}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (Raw, error) {
	if err := ctx.Err(); err != nil {
		return Raw{}, err
	}
	if s.next >= len(s.docs) {
		return Raw{}, io.EOF
	}
	i := s.next
	s.next++
	return Raw{
		ID:      fmt.Sprintf("%d", i),
		Ordinal: uint32(i),
		Data:    s.docs[i],
	}, nil
}

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsonvet/jsonvet/pkg/document"
	"github.com/jsonvet/jsonvet/pkg/schema"
)

// Config holds pipeline tuning knobs.
type Config struct {
	// Workers is the size of the worker pool. Zero means DefaultWorkers.
	Workers int
	// BufferSize bounds the producer buffer; the producer pauses when it is
	// full, capping peak memory at BufferSize x average document size. Zero
	// means DefaultBufferSize.
	BufferSize int
	// MaxSamples caps the number of documents consumed in inference mode.
	// Zero means unlimited.
	MaxSamples int
	// Strict makes validation report properties absent from the schema.
	Strict bool
	// EnumLimit is the per-node distinct-value cap for enum inference. Zero
	// means schema.DefaultEnumLimit.
	EnumLimit int
	// Auditor, when set, re-checks each document in validation mode with a
	// full draft-compliant validator and attaches its findings to the
	// report. Audit failures are logged, not fatal.
	Auditor Auditor
}

// Auditor is the optional second validation pass over raw document bytes.
type Auditor interface {
	Audit(s *schema.Schema, data []byte) ([]string, error)
}

const (
	DefaultWorkers    = 4
	DefaultBufferSize = 64
)

// Pipeline streams documents from a Source through inference or validation.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline, applying defaults for zero-valued knobs.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	return &Pipeline{cfg: cfg}
}

// Infer folds every source document into one frozen Schema. Each worker
// merges into a private builder shard; shards are combined by a final reduce,
// which is sound because merging is commutative and associative. Malformed
// documents are recorded in the summary and skipped. On a source transport
// error or cancellation the partial schema and summary are still returned
// alongside the error.
func (p *Pipeline) Infer(ctx context.Context, src Source, sink Sink) (*schema.Schema, Summary, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	docs, srcErr := p.produce(gctx, src, p.cfg.MaxSamples)

	builders := make([]*schema.Builder, p.cfg.Workers)
	locals := make([]*Summary, p.cfg.Workers)
	opts := &schema.BuilderOptions{EnumLimit: p.cfg.EnumLimit}

	for w := 0; w < p.cfg.Workers; w++ {
		b := schema.NewBuilder(opts)
		local := newSummary()
		builders[w] = b
		locals[w] = local

		g.Go(func() error {
			for raw := range docs {
				val, ok := parseInto(local, raw)
				if !ok {
					continue
				}
				b.Merge(val)
			}
			return nil
		})
	}
	_ = g.Wait()

	root := builders[0]
	summary := *locals[0]
	for i := 1; i < p.cfg.Workers; i++ {
		root.Combine(builders[i])
		summary.merge(locals[i])
	}
	summary.normalize()
	frozen := root.Freeze()

	runErr := <-srcErr
	if err := p.finishInfer(ctx, sink, frozen, summary); err != nil && runErr == nil {
		runErr = err
	}

	slog.Info("inference batch complete",
		slog.Int("documents_seen", summary.DocumentsSeen),
		slog.Int("parse_failures", summary.ParseFailures),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return frozen, summary, runErr
}

// Validate checks every source document against a frozen schema and forwards
// each document's report to the sink. Documents are independent, so workers
// share nothing but the read-only schema and the serialized sink.
func (p *Pipeline) Validate(ctx context.Context, src Source, sch *schema.Schema, sink Sink) (Summary, error) {
	start := time.Now()
	// The producer listens on the pool context: a worker bailing out on a
	// sink failure cancels it, releasing a producer blocked on a full buffer.
	g, gctx := errgroup.WithContext(ctx)
	docs, srcErr := p.produce(gctx, src, 0)

	validator := schema.NewValidator(sch, &schema.Options{Strict: p.cfg.Strict})
	locals := make([]*Summary, p.cfg.Workers)

	var sinkMu sync.Mutex
	for w := 0; w < p.cfg.Workers; w++ {
		local := newSummary()
		locals[w] = local

		g.Go(func() error {
			for raw := range docs {
				val, ok := parseInto(local, raw)
				if !ok {
					continue
				}
				violations := validator.Validate(val)
				if len(violations) > 0 {
					local.InvalidDocuments++
					local.Violations += len(violations)
					local.Flagged.Add(raw.Ordinal)
				}
				report := Report{DocID: raw.ID, Ordinal: raw.Ordinal, Violations: violations}
				if p.cfg.Auditor != nil {
					findings, err := p.cfg.Auditor.Audit(sch, raw.Data)
					if err != nil {
						slog.Warn("audit pass failed",
							slog.String("doc_id", raw.ID),
							slog.String("error", err.Error()),
						)
					} else {
						report.Audit = findings
					}
				}
				sinkMu.Lock()
				err := sink.WriteReport(ctx, report)
				sinkMu.Unlock()
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	workerErr := g.Wait()

	summary := *locals[0]
	for i := 1; i < p.cfg.Workers; i++ {
		summary.merge(locals[i])
	}
	summary.normalize()

	runErr := <-srcErr
	if runErr == nil {
		runErr = workerErr
	}
	if err := sink.WriteSummary(ctx, summary); err != nil && runErr == nil {
		runErr = err
	}

	slog.Info("validation batch complete",
		slog.Int("documents_seen", summary.DocumentsSeen),
		slog.Int("parse_failures", summary.ParseFailures),
		slog.Int("invalid_documents", summary.InvalidDocuments),
		slog.Int("violations", summary.Violations),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return summary, runErr
}

// produce pulls documents from the source into a bounded channel. It stops
// on end of stream, after maxDocs documents (when maxDocs > 0), on
// cancellation of ctx (which includes the worker pool's context, so a failed
// worker never strands a producer blocked on a full buffer), or on a
// transport error; the error channel reports the fatal error, if any, once
// the document channel is closed. Buffered documents are still drained by
// the workers so no pulled document is silently dropped.
func (p *Pipeline) produce(ctx context.Context, src Source, maxDocs int) (<-chan Raw, <-chan error) {
	docs := make(chan Raw, p.cfg.BufferSize)
	errc := make(chan error, 1)

	go func() {
		defer close(docs)
		pulled := 0
		for {
			if maxDocs > 0 && pulled >= maxDocs {
				errc <- nil
				return
			}
			if err := ctx.Err(); err != nil {
				errc <- nil // cancellation yields partial results, not failure
				return
			}
			raw, err := src.Next(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					errc <- nil
				} else {
					slog.Error("document source failed", slog.String("error", err.Error()))
					errc <- &TransportError{Err: err}
				}
				return
			}
			pulled++
			select {
			case docs <- raw:
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
	}()

	return docs, errc
}

// parseInto decodes one raw document, recording a parse failure in the local
// summary when the bytes are not valid JSON.
func parseInto(local *Summary, raw Raw) (document.Value, bool) {
	local.DocumentsSeen++
	val, err := document.Parse(raw.Data)
	if err != nil {
		local.ParseFailures++
		local.Flagged.Add(raw.Ordinal)
		local.Errors = append(local.Errors, DocumentError{
			DocID:   raw.ID,
			Ordinal: raw.Ordinal,
			Message: err.Error(),
		})
		slog.Debug("skipping malformed document",
			slog.String("doc_id", raw.ID),
			slog.String("error", err.Error()),
		)
		return document.Value{}, false
	}
	return val, true
}

func (p *Pipeline) finishInfer(ctx context.Context, sink Sink, s *schema.Schema, summary Summary) error {
	if err := sink.WriteSchema(ctx, s); err != nil {
		return err
	}
	return sink.WriteSummary(ctx, summary)
}

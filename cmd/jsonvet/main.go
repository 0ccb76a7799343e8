package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	gojson "github.com/goccy/go-json"

	"github.com/jsonvet/jsonvet/internal/audit"
	"github.com/jsonvet/jsonvet/internal/config"
	"github.com/jsonvet/jsonvet/internal/logging"
	"github.com/jsonvet/jsonvet/pkg/pipeline"
	"github.com/jsonvet/jsonvet/pkg/rules"
	"github.com/jsonvet/jsonvet/pkg/schema"
)

func main() {
	if err := run(); err != nil {
		slog.Error("jsonvet failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Set up context with signal handling: a signal stops sourcing documents
	// and the pipeline returns whatever it has gathered so far.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration comes from environment variables (see internal/config):
	// JSONVET_MODE selects infer, validate or diff; JSONVET_SCHEMA points at
	// the schema artifact for validate and diff modes.
	cfg := config.Load()

	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer cleanup()

	pipeCfg := cfg.PipelineConfig()
	if cfg.Audit {
		auditor, err := audit.New(cfg.AuditCacheSize)
		if err != nil {
			return fmt.Errorf("creating auditor: %w", err)
		}
		pipeCfg.Auditor = auditor
	}

	src := pipeline.NewReaderSource(os.Stdin)
	sink := pipeline.NewWriterSink(os.Stdout)
	p := pipeline.New(pipeCfg)

	switch cfg.Mode {
	case "infer":
		slog.Info("inferring schema from stdin", slog.Int("workers", pipeCfg.Workers))
		sch, _, err := p.Infer(ctx, src, sink)
		if err != nil {
			return err
		}
		// Field coverage piggybacks on the inferred counts, so it costs
		// nothing extra to report alongside the schema.
		coverage := rules.CheckFieldCoverage(sch)
		slog.Info("field coverage checked",
			slog.String("level", coverage.Level.String()),
			slog.String("summary", coverage.Summary),
		)
		return gojson.NewEncoder(os.Stdout).Encode(struct {
			Type    string        `json:"type"`
			Outcome rules.Outcome `json:"outcome"`
		}{Type: "rule", Outcome: coverage})

	case "validate":
		if cfg.SchemaPath == "" {
			return fmt.Errorf("validate mode requires JSONVET_SCHEMA")
		}
		sch, err := loadSchema(cfg.SchemaPath)
		if err != nil {
			return err
		}
		slog.Info("validating stdin against schema",
			slog.String("schema", cfg.SchemaPath),
			slog.Bool("strict", cfg.Strict),
			slog.Bool("audit", cfg.Audit),
		)
		_, err = p.Validate(ctx, src, sch, sink)
		return err

	case "diff":
		if cfg.BaselinePath == "" || cfg.SchemaPath == "" {
			return fmt.Errorf("diff mode requires JSONVET_BASELINE and JSONVET_SCHEMA")
		}
		baseline, err := loadSchema(cfg.BaselinePath)
		if err != nil {
			return err
		}
		candidate, err := loadSchema(cfg.SchemaPath)
		if err != nil {
			return err
		}
		drift := schema.Diff(baseline, candidate)
		slog.Info("schema drift computed",
			slog.String("baseline", cfg.BaselinePath),
			slog.String("candidate", cfg.SchemaPath),
			slog.Bool("drifted", !drift.Empty()),
		)
		enc := gojson.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(drift)

	default:
		return fmt.Errorf("unknown mode %q (want infer, validate or diff)", cfg.Mode)
	}
}

func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema artifact: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schema.DecodeYAML(data)
	default:
		return schema.Decode(data)
	}
}

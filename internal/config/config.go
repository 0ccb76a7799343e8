// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/jsonvet/jsonvet/internal/audit"
	"github.com/jsonvet/jsonvet/pkg/pipeline"
	"github.com/jsonvet/jsonvet/pkg/schema"
)

// Config holds all configuration for the jsonvet binary.
type Config struct {
	Mode         string // JSONVET_MODE: "infer" (default), "validate" or "diff"
	SchemaPath   string // JSONVET_SCHEMA, path to a schema artifact (validate and diff modes)
	BaselinePath string // JSONVET_BASELINE, path to the baseline schema artifact (diff mode)

	Workers    int  // JSONVET_WORKERS, default 4
	BufferSize int  // JSONVET_BUFFER_SIZE, default 64
	MaxSamples int  // JSONVET_MAX_SAMPLES, default 0 (unlimited)
	EnumLimit  int  // JSONVET_ENUM_LIMIT, default 25
	Strict     bool // JSONVET_STRICT, default false

	Audit          bool // JSONVET_AUDIT, default false
	AuditCacheSize int  // JSONVET_AUDIT_CACHE_SIZE, default 32

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" (default) or "json"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Mode:         getEnvString("JSONVET_MODE", "infer"),
		SchemaPath:   getEnvString("JSONVET_SCHEMA", ""),
		BaselinePath: getEnvString("JSONVET_BASELINE", ""),

		Workers:    getEnvInt("JSONVET_WORKERS", pipeline.DefaultWorkers),
		BufferSize: getEnvInt("JSONVET_BUFFER_SIZE", pipeline.DefaultBufferSize),
		MaxSamples: getEnvInt("JSONVET_MAX_SAMPLES", 0),
		EnumLimit:  getEnvInt("JSONVET_ENUM_LIMIT", schema.DefaultEnumLimit),
		Strict:     getEnvBool("JSONVET_STRICT", false),

		Audit:          getEnvBool("JSONVET_AUDIT", false),
		AuditCacheSize: getEnvInt("JSONVET_AUDIT_CACHE_SIZE", audit.DefaultCacheSize),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// PipelineConfig maps the loaded settings onto the pipeline knobs.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		Workers:    c.Workers,
		BufferSize: c.BufferSize,
		MaxSamples: c.MaxSamples,
		Strict:     c.Strict,
		EnumLimit:  c.EnumLimit,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

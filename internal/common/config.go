package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/collection-insights/constants"
)

// Config holds all application configuration
type Config struct {
	BaseDir        string
	Collections    []string
	InputFilename  string
	OutputFilename string
	PDFDir         string

	Model   ModelConfig
	PDF     PDFConfig
	Journal JournalConfig
	Export  ExportConfig

	LogLevel slog.Level
}

// ModelConfig describes how the local model container is launched.
type ModelConfig struct {
	Runtime string // container CLI, e.g. "docker" or "podman"
	Image   string
	Timeout time.Duration
}

// PDFConfig selects the page text backend.
type PDFConfig struct {
	Backend   string // constants.PDFBackendNative | constants.PDFBackendPdftotext
	Pdftotext string // binary name or absolute path
}

// JournalConfig holds run journal configuration. Empty DSN disables the journal.
type JournalConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// ExportConfig toggles secondary report formats.
type ExportConfig struct {
	XLSX bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		BaseDir:        getEnv("COLLECTIONS_ROOT", "."),
		Collections:    getEnvAsList("COLLECTIONS", constants.DefaultCollections),
		InputFilename:  getEnv("INPUT_FILENAME", constants.InputFilename),
		OutputFilename: getEnv("OUTPUT_FILENAME", constants.OutputFilename),
		PDFDir:         getEnv("PDFS_DIR", constants.PDFDir),
		Model: ModelConfig{
			Runtime: getEnv("MODEL_RUNTIME", constants.DefaultModelRuntime),
			Image:   getEnv("MODEL_IMAGE", constants.DefaultModelImage),
			Timeout: getEnvAsDuration("MODEL_TIMEOUT", constants.DefaultModelTimeout),
		},
		PDF: PDFConfig{
			Backend:   strings.ToLower(getEnv("PDF_BACKEND", constants.PDFBackendNative)),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
		Journal: JournalConfig{
			DSN:         getEnv("JOURNAL_DSN", ""),
			DialTimeout: getEnvAsDuration("JOURNAL_DIAL_TIMEOUT", 3*time.Second),
		},
		Export: ExportConfig{
			XLSX: getEnvAsBool("EXPORT_XLSX", false),
		},
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value; blank items are dropped.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("COLLECTIONS", c.Collections, NonEmptyList).
		Field("INPUT_FILENAME", c.InputFilename, Required).
		Field("OUTPUT_FILENAME", c.OutputFilename, Required).
		Field("PDFS_DIR", c.PDFDir, Required).
		Field("MODEL_RUNTIME", c.Model.Runtime, Required).
		Field("MODEL_IMAGE", c.Model.Image, Required).
		Field("MODEL_TIMEOUT", c.Model.Timeout, PositiveDuration).
		Field("PDF_BACKEND", c.PDF.Backend, OneOf(constants.PDFBackendNative, constants.PDFBackendPdftotext))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

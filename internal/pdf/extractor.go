// Package pdf turns PDF files into per-page plain text.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/command"
)

type Config struct {
	Backend   string // constants.PDFBackendNative | constants.PDFBackendPdftotext; empty -> native
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// pageSource is implemented by each backend.
type pageSource interface {
	pages(ctx context.Context, path string) ([]string, error)
}

// Extractor produces one normalized text entry per page, in document order.
// Pages without a text layer come back as "".
type Extractor struct {
	cfg    Config
	source pageSource
	logger *slog.Logger
}

func NewExtractor(cfg Config, runner command.Runner, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Backend == "" {
		cfg.Backend = constants.PDFBackendNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}

	var src pageSource
	switch cfg.Backend {
	case constants.PDFBackendNative:
		src = nativeSource{logger: logger}
	case constants.PDFBackendPdftotext:
		if runner == nil {
			runner = command.NewExecRunner(logger)
		}
		src = pdftotextSource{bin: cfg.Pdftotext, runner: runner}
	default:
		return nil, fmt.Errorf("unsupported pdf backend: %q", cfg.Backend)
	}
	return &Extractor{cfg: cfg, source: src, logger: logger}, nil
}

// ExtractPages reads path and returns its page texts. An error means the whole
// file could not be read.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	e.logger.Debug("starting pdf extraction", "path", path, "backend", e.cfg.Backend)

	pages, err := e.source.pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	for i := range pages {
		pages[i] = Normalize(pages[i])
	}

	e.logger.Debug("pdf extraction done",
		"path", path,
		"pages", len(pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

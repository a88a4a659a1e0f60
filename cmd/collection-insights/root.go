package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/collection-insights/internal/common"
	"github.com/joseph-ayodele/collection-insights/internal/export"
	"github.com/joseph-ayodele/collection-insights/internal/llm"
	"github.com/joseph-ayodele/collection-insights/internal/pdf"
	"github.com/joseph-ayodele/collection-insights/internal/pipeline"
	"github.com/joseph-ayodele/collection-insights/internal/repository"
	"github.com/joseph-ayodele/collection-insights/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "collection-insights",
	Short: "Rank PDF sections for a persona and task with a local model",
	Long: `collection-insights processes each configured collection directory: it reads
challenge1b_input.json, sends every non-blank PDF page to a locally run model
container (network disabled) and writes challenge1b_output.json.

Configuration comes from the environment:
  COLLECTIONS_ROOT   base directory (default ".")
  COLLECTIONS        comma separated collection names
  MODEL_RUNTIME      container CLI (default "docker")
  MODEL_IMAGE        model image (default "ai/qwen3:0.6B-Q4_0")
  MODEL_TIMEOUT      per page timeout (default 60s)
  PDF_BACKEND        native | pdftotext
  JOURNAL_DSN        sqlite path or postgres:// URL; empty disables the journal
  EXPORT_XLSX        also write an .xlsx next to each report
  LOG_LEVEL          debug | info | warn | error`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollections(cmd.Context(), common.LoadConfig(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("collection-insights %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *common.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// runCollections wires the pipeline from cfg and processes every collection.
// It fails only before any collection is attempted.
func runCollections(ctx context.Context, cfg *common.Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	extractor, err := pdf.NewExtractor(pdf.Config{
		Backend:   cfg.PDF.Backend,
		Pdftotext: cfg.PDF.Pdftotext,
	}, nil, logger)
	if err != nil {
		return err
	}
	invoker := llm.NewContainerInvoker(llm.InvokerConfig{
		Runtime: cfg.Model.Runtime,
		Image:   cfg.Model.Image,
		Timeout: cfg.Model.Timeout,
	}, nil, logger)

	proc, err := pipeline.NewProcessor(pipeline.Layout{
		InputFilename:  cfg.InputFilename,
		OutputFilename: cfg.OutputFilename,
		PDFDir:         cfg.PDFDir,
	}, logger, extractor, invoker, llm.NewParser(logger))
	if err != nil {
		return err
	}

	if cfg.Journal.DSN != "" {
		db, err := repository.Open(ctx, repository.Config{
			DSN:         cfg.Journal.DSN,
			DialTimeout: cfg.Journal.DialTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer db.Close()
		proc.Journal = repository.NewJournalRepository(db, logger)
	}
	if cfg.Export.XLSX {
		proc.Exporter = export.NewService(logger)
	}

	report := pipeline.NewRunner(cfg.BaseDir, cfg.Collections, proc, logger).Run(ctx)
	RenderSummary(w, report)
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/common"
	"github.com/joseph-ayodele/collection-insights/internal/entity"
	"github.com/joseph-ayodele/collection-insights/internal/llm"
)

// TextExtractor returns one text entry per page of the file at path.
type TextExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// ResponseParser decodes raw model output for the given 1-based page.
type ResponseParser interface {
	Parse(raw string, page int) llm.ParseResult
}

// Journal records runs and page invocations. Errors are logged by the
// processor and never abort a collection.
type Journal interface {
	StartRun(ctx context.Context, collection string, startedAt time.Time) (uuid.UUID, error)
	RecordPage(ctx context.Context, page entity.PageInvocation) error
	FinishRun(ctx context.Context, run entity.CollectionRun) error
}

// Exporter writes an additional rendition of a finished report.
type Exporter interface {
	ExportReport(path string, out *CollectionOutput) error
}

// Layout names the files inside a collection directory.
type Layout struct {
	InputFilename  string // if empty -> constants.InputFilename
	OutputFilename string // if empty -> constants.OutputFilename
	PDFDir         string // if empty -> constants.PDFDir
}

// PageRecord is one page of one document, produced lazily.
type PageRecord struct {
	Document string
	Index    int // 1-based
	Text     string
}

// Summary counts what happened while processing one collection.
type Summary struct {
	Collection      string
	RunID           uuid.UUID // journal run id; uuid.Nil when no journal is kept
	Documents       int
	DocumentsFailed int
	Pages           int
	PagesBlank      int
	PagesInvoked    int
	ModelFailures   int
	ParseFailures   int
	Sections        int
	Subsections     int
	OutputPath      string
	Elapsed         time.Duration
}

// Processor runs one collection end to end: input, per-page model calls and
// the report. Journal, Exporter and Now are optional.
type Processor struct {
	Logger    *slog.Logger
	Extractor TextExtractor
	Invoker   llm.Invoker
	Parser    ResponseParser
	Journal   Journal
	Exporter  Exporter
	Now       func() time.Time

	layout      Layout
	inputSchema *jsonschema.Schema
}

func NewProcessor(layout Layout, logger *slog.Logger, extractor TextExtractor, invoker llm.Invoker, parser ResponseParser) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if layout.InputFilename == "" {
		layout.InputFilename = constants.InputFilename
	}
	if layout.OutputFilename == "" {
		layout.OutputFilename = constants.OutputFilename
	}
	if layout.PDFDir == "" {
		layout.PDFDir = constants.PDFDir
	}
	schema, err := llm.CompileSchema("input.json", llm.BuildCollectionInputJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("input schema: %w", err)
	}
	return &Processor{
		Logger:      logger,
		Extractor:   extractor,
		Invoker:     invoker,
		Parser:      parser,
		Now:         time.Now,
		layout:      layout,
		inputSchema: schema,
	}, nil
}

// Process handles the collection at collectionPath. Only a failure to load the
// input or to write the report is returned; document and page failures are
// logged and contribute nothing.
func (p *Processor) Process(ctx context.Context, collectionPath string) (Summary, error) {
	started := p.now()
	name := filepath.Base(collectionPath)
	ctx = common.WithCollection(ctx, name)
	log := common.LoggerWithContext(ctx, p.Logger)
	summary := Summary{Collection: name}

	runID := p.startRun(ctx, log, name, started)
	summary.RunID = runID

	inputPath := filepath.Join(collectionPath, p.layout.InputFilename)
	in, err := LoadInput(inputPath, p.inputSchema)
	if err != nil {
		log.Error("collection.input_failed", "input", inputPath, "code", common.CodeOf(err), "error", err)
		p.finishRun(ctx, log, runID, name, started, summary, err)
		return summary, err
	}

	out := NewCollectionOutput(in, p.now())
	log.Info("collection.start", "documents", len(in.Documents), "persona", in.Persona)

	pdfDir := filepath.Join(collectionPath, p.layout.PDFDir)
	for rec := range p.Pages(ctx, pdfDir, in.Documents, &summary) {
		summary.Pages++
		if strings.TrimSpace(rec.Text) == "" {
			summary.PagesBlank++
			log.Debug("page.blank", "document", rec.Document, "page", rec.Index)
			continue
		}
		res := p.processPage(ctx, log, runID, in, rec, &summary)
		out.Append(rec.Document, res)
		summary.Sections += len(res.Sections)
		summary.Subsections += len(res.Subsections)
	}

	outputPath := filepath.Join(collectionPath, p.layout.OutputFilename)
	if err := WriteReport(outputPath, out); err != nil {
		log.Error("collection.write_failed", "output", outputPath, "error", err)
		p.finishRun(ctx, log, runID, name, started, summary, err)
		return summary, err
	}
	summary.OutputPath = outputPath

	if p.Exporter != nil {
		xlsxPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + constants.XLSXExt
		if err := p.Exporter.ExportReport(xlsxPath, out); err != nil {
			log.Warn("collection.export_failed", "path", xlsxPath, "error", err)
		}
	}

	summary.Elapsed = p.now().Sub(started)
	p.finishRun(ctx, log, runID, name, started, summary, nil)
	log.Info("collection.saved",
		"output", outputPath,
		"documents", summary.Documents,
		"documents_failed", summary.DocumentsFailed,
		"pages_invoked", summary.PagesInvoked,
		"sections", summary.Sections,
		"subsections", summary.Subsections,
		"elapsed_ms", summary.Elapsed.Milliseconds(),
	)
	return summary, nil
}

// Pages yields every page of documents, in input order, extracting each
// document only when the sequence reaches it. A document that cannot be read
// is logged, counted in summary and skipped.
func (p *Processor) Pages(ctx context.Context, pdfDir string, documents []string, summary *Summary) iter.Seq[PageRecord] {
	log := common.LoggerWithContext(ctx, p.Logger)
	return func(yield func(PageRecord) bool) {
		for _, doc := range documents {
			path := filepath.Join(pdfDir, doc)
			summary.Documents++
			log.Info("document.start", "path", path)

			pages, err := p.Extractor.ExtractPages(ctx, path)
			if err != nil {
				summary.DocumentsFailed++
				log.Error("document.extract_failed", "path", path, "error", err)
				continue
			}
			for i, text := range pages {
				if !yield(PageRecord{Document: doc, Index: i + 1, Text: text}) {
					return
				}
			}
		}
	}
}

func (p *Processor) processPage(ctx context.Context, log *slog.Logger, runID uuid.UUID, in CollectionInput, rec PageRecord, summary *Summary) llm.ModelResult {
	summary.PagesInvoked++
	prompt := llm.BuildPrompt(rec.Text, in.Persona, in.Task)
	outcome := p.Invoker.Invoke(ctx, prompt)

	status := constants.PageStatusOK
	res := llm.EmptyResult()
	if outcome.Failed() {
		summary.ModelFailures++
		status = constants.PageStatusModelFailed
		log.Warn("page.model_failed", "document", rec.Document, "page", rec.Index, "req_id", outcome.RequestID, "error", outcome.Err)
	} else {
		parsed := p.Parser.Parse(outcome.Output, rec.Index)
		if !parsed.OK {
			summary.ParseFailures++
			status = constants.PageStatusParseFailed
		}
		res = parsed.Result
	}

	log.Debug("page.done",
		"document", rec.Document,
		"page", rec.Index,
		"status", status,
		"sections", len(res.Sections),
		"subsections", len(res.Subsections),
	)

	if p.Journal != nil && runID != uuid.Nil {
		err := p.Journal.RecordPage(ctx, entity.PageInvocation{
			ID:          uuid.New(),
			RunID:       runID,
			Document:    rec.Document,
			PageNumber:  rec.Index,
			Status:      status,
			DurationMS:  outcome.Duration.Milliseconds(),
			OutputBytes: len(outcome.Output),
			Sections:    len(res.Sections),
			Subsections: len(res.Subsections),
			CreatedAt:   p.now().UTC(),
		})
		if err != nil {
			log.Warn("journal.record_page_failed", "document", rec.Document, "page", rec.Index, "error", err)
		}
	}
	return res
}

func (p *Processor) startRun(ctx context.Context, log *slog.Logger, name string, started time.Time) uuid.UUID {
	if p.Journal == nil {
		return uuid.Nil
	}
	id, err := p.Journal.StartRun(ctx, name, started.UTC())
	if err != nil {
		log.Warn("journal.start_run_failed", "error", err)
		return uuid.Nil
	}
	return id
}

func (p *Processor) finishRun(ctx context.Context, log *slog.Logger, runID uuid.UUID, name string, started time.Time, s Summary, runErr error) {
	if p.Journal == nil || runID == uuid.Nil {
		return
	}
	finished := p.now().UTC()
	run := entity.CollectionRun{
		ID:           runID,
		Collection:   name,
		StartedAt:    started.UTC(),
		FinishedAt:   &finished,
		Status:       constants.RunStatusSucceeded,
		Documents:    s.Documents,
		PagesInvoked: s.PagesInvoked,
		Sections:     s.Sections,
		Subsections:  s.Subsections,
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = constants.RunStatusFailed
		run.Error = &msg
	}
	if err := p.Journal.FinishRun(ctx, run); err != nil {
		log.Warn("journal.finish_run_failed", "run_id", runID.String(), "error", err)
	}
}

func (p *Processor) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

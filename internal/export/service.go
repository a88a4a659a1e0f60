package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/collection-insights/internal/pipeline"
)

// Excel rejects cell text longer than this.
const maxCellChars = 32767

const (
	SheetMetadata    = "Metadata"
	SheetSections    = "Sections"
	SheetSubsections = "Subsections"
)

// Service renders collection reports as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportReport writes out as an XLSX workbook at path, replacing any
// existing file.
func (s *Service) ExportReport(path string, out *pipeline.CollectionOutput) error {
	buf, err := s.ReportXLSX(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ReportXLSX returns the workbook for out as bytes. Sheets: Metadata,
// Sections and Subsections, rows in report order.
func (s *Service) ReportXLSX(out *pipeline.CollectionOutput) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// rename the default sheet so the workbook opens on Metadata
	if err := f.SetSheetName("Sheet1", SheetMetadata); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetSections, SheetSubsections} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	meta := out.Metadata
	metaRows := [][]any{
		{"Persona", meta.Persona},
		{"Job To Be Done", meta.JobToBeDone},
		{"Processing Timestamp", meta.ProcessingTimestamp},
	}
	for _, doc := range meta.InputDocuments {
		metaRows = append(metaRows, []any{"Input Document", doc})
	}
	if err := writeRows(f, SheetMetadata, []string{"Field", "Value"}, metaRows); err != nil {
		return nil, err
	}

	sectionRows := make([][]any, 0, len(out.ExtractedSections))
	for _, e := range out.ExtractedSections {
		sectionRows = append(sectionRows, []any{e.Document, truncate(e.SectionTitle.Text(), maxCellChars), number(e.ImportanceRank.Text()), number(e.PageNumber.Text())})
	}
	if err := writeRows(f, SheetSections, []string{"Document", "Section Title", "Importance Rank", "Page"}, sectionRows); err != nil {
		return nil, err
	}

	subRows := make([][]any, 0, len(out.SubsectionAnalysis))
	for _, e := range out.SubsectionAnalysis {
		subRows = append(subRows, []any{e.Document, number(e.PageNumber.Text()), truncate(e.RefinedText.Text(), maxCellChars)})
	}
	if err := writeRows(f, SheetSubsections, []string{"Document", "Page", "Refined Text"}, subRows); err != nil {
		return nil, err
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetMetadata, "A", "A", 22)
	_ = f.SetColWidth(SheetMetadata, "B", "B", 80)
	_ = f.SetColWidth(SheetSections, "A", "A", 36)
	_ = f.SetColWidth(SheetSections, "B", "B", 60)
	_ = f.SetColWidth(SheetSections, "C", "D", 16)
	_ = f.SetColWidth(SheetSubsections, "A", "A", 36)
	_ = f.SetColWidth(SheetSubsections, "B", "B", 8)
	_ = f.SetColWidth(SheetSubsections, "C", "C", 100)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"sections", len(out.ExtractedSections),
		"subsections", len(out.SubsectionAnalysis),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, r+2, err)
		}
	}
	return nil
}

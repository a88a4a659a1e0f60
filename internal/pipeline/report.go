package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/collection-insights/internal/common"
	"github.com/joseph-ayodele/collection-insights/internal/llm"
)

// timestampLayout matches an ISO-8601 UTC timestamp with microseconds; "Z" is
// appended by FormatTimestamp.
const timestampLayout = "2006-01-02T15:04:05.000000"

// CollectionInput is the decoded challenge input of one collection.
type CollectionInput struct {
	Persona   string
	Task      string
	Documents []string // filenames, input order
}

type inputFile struct {
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
	Documents []struct {
		Filename string `json:"filename"`
	} `json:"documents"`
}

// LoadInput reads and validates the input file at path. Any failure is fatal
// to the collection.
func LoadInput(path string, schema *jsonschema.Schema) (CollectionInput, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return CollectionInput{}, common.NewAppError("INPUT_NOT_FOUND", fmt.Sprintf("input %s", path), fmt.Errorf("%w: %w", common.ErrNotFound, err))
	}
	if err != nil {
		return CollectionInput{}, fmt.Errorf("read input %s: %w", path, err)
	}
	if schema != nil {
		if err := llm.ValidateJSON(schema, data); err != nil {
			return CollectionInput{}, common.NewAppError("INVALID_INPUT", fmt.Sprintf("input %s", path), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
	}

	var f inputFile
	if err := json.Unmarshal(data, &f); err != nil {
		return CollectionInput{}, common.NewAppError("INVALID_INPUT", fmt.Sprintf("decode input %s", path), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}

	in := CollectionInput{
		Persona:   f.Persona.Role,
		Task:      f.JobToBeDone.Task,
		Documents: make([]string, 0, len(f.Documents)),
	}
	for _, d := range f.Documents {
		in.Documents = append(in.Documents, d.Filename)
	}
	return in, nil
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// SectionEntry is a model section tagged with its source document. Field
// values are written back exactly as the model produced them.
type SectionEntry struct {
	Document       string    `json:"document"`
	SectionTitle   llm.Value `json:"section_title"`
	ImportanceRank llm.Value `json:"importance_rank"`
	PageNumber     llm.Value `json:"page_number"`
}

// SubsectionEntry is a model subsection tagged with its source document.
type SubsectionEntry struct {
	Document    string    `json:"document"`
	RefinedText llm.Value `json:"refined_text"`
	PageNumber  llm.Value `json:"page_number"`
}

// CollectionOutput is the report written once per collection. Entries keep
// encounter order: documents in input order, then pages ascending.
type CollectionOutput struct {
	Metadata           Metadata          `json:"metadata"`
	ExtractedSections  []SectionEntry    `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionEntry `json:"subsection_analysis"`
}

// NewCollectionOutput starts an empty report for in, stamped with now.
func NewCollectionOutput(in CollectionInput, now time.Time) *CollectionOutput {
	docs := make([]string, len(in.Documents))
	copy(docs, in.Documents)
	return &CollectionOutput{
		Metadata: Metadata{
			InputDocuments:      docs,
			Persona:             in.Persona,
			JobToBeDone:         in.Task,
			ProcessingTimestamp: FormatTimestamp(now),
		},
		ExtractedSections:  []SectionEntry{},
		SubsectionAnalysis: []SubsectionEntry{},
	}
}

// Append adds every section and subsection of res, tagged with document.
func (o *CollectionOutput) Append(document string, res llm.ModelResult) {
	for _, s := range res.Sections {
		o.ExtractedSections = append(o.ExtractedSections, SectionEntry{
			Document:       document,
			SectionTitle:   s.SectionTitle,
			ImportanceRank: s.ImportanceRank,
			PageNumber:     s.PageNumber,
		})
	}
	for _, s := range res.Subsections {
		o.SubsectionAnalysis = append(o.SubsectionAnalysis, SubsectionEntry{
			Document:    document,
			RefinedText: s.RefinedText,
			PageNumber:  s.PageNumber,
		})
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout) + "Z"
}

// WriteReport encodes out as indented JSON and replaces path atomically, so a
// reader never observes a half-written report.
func WriteReport(path string, out *CollectionOutput) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err = enc.Encode(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

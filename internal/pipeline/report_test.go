package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/collection-insights/internal/llm"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "utc", in: time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC), want: "2025-01-02T03:04:05.000006Z"},
		{name: "whole second keeps microseconds", in: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), want: "2025-01-02T03:04:05.000000Z"},
		{name: "converted to utc", in: time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600)), want: "2025-01-02T02:04:05.000000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.in); got != tt.want {
				t.Errorf("FormatTimestamp() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadInputKeepsDocumentOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	doc := `{"challenge_info":{"test_case_name":"travel"},"persona":{"role":"HR professional"},` +
		`"job_to_be_done":{"task":"Create fillable forms"},` +
		`"documents":[{"filename":"z.pdf","title":"Z"},{"filename":"a.pdf","title":"A"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := LoadInput(path, nil)
	if err != nil {
		t.Fatalf("LoadInput: %v", err)
	}
	if in.Persona != "HR professional" || in.Task != "Create fillable forms" {
		t.Errorf("input = %+v", in)
	}
	if len(in.Documents) != 2 || in.Documents[0] != "z.pdf" || in.Documents[1] != "a.pdf" {
		t.Errorf("documents = %v", in.Documents)
	}
}

func TestCollectionOutputAppendTagsDocument(t *testing.T) {
	in := CollectionInput{Persona: "p", Task: "t", Documents: []string{"a.pdf"}}
	out := NewCollectionOutput(in, time.Unix(0, 0))
	in.Documents[0] = "mutated.pdf"

	out.Append("a.pdf", llm.ModelResult{
		Sections:    []llm.Section{{SectionTitle: `"x"`, ImportanceRank: "1", PageNumber: "2"}},
		Subsections: []llm.Subsection{{RefinedText: `"y"`, PageNumber: "2"}, {RefinedText: `"z"`, PageNumber: "2"}},
	})
	out.Append("b.pdf", llm.EmptyResult())

	if out.Metadata.InputDocuments[0] != "a.pdf" {
		t.Error("metadata shares the input slice")
	}
	if len(out.ExtractedSections) != 1 || out.ExtractedSections[0].Document != "a.pdf" {
		t.Errorf("sections = %+v", out.ExtractedSections)
	}
	if len(out.SubsectionAnalysis) != 2 || out.SubsectionAnalysis[1].RefinedText.Text() != "z" {
		t.Errorf("subsections = %+v", out.SubsectionAnalysis)
	}
}

func TestWriteReportMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.json")
	if err := WriteReport(path, NewCollectionOutput(CollectionInput{}, time.Now())); err == nil {
		t.Fatal("expected error")
	}
}

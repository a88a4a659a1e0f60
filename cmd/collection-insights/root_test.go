package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/common"
	"github.com/joseph-ayodele/collection-insights/internal/pipeline"
)

func TestRunCollectionsInvalidConfig(t *testing.T) {
	t.Setenv("MODEL_TIMEOUT", "-5s")

	err := runCollections(context.Background(), common.LoadConfig(), &bytes.Buffer{})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("error = %v, want invalid input", err)
	}
}

func TestRunCollectionsJournalOpenFailure(t *testing.T) {
	t.Setenv("COLLECTIONS_ROOT", t.TempDir())
	t.Setenv("JOURNAL_DSN", filepath.Join(t.TempDir(), "no-such-dir", "journal.db"))

	var out bytes.Buffer
	if err := runCollections(context.Background(), common.LoadConfig(), &out); err == nil {
		t.Fatal("expected journal open error")
	}
	if out.Len() != 0 {
		t.Errorf("no collection should be attempted, got summary:\n%s", out.String())
	}
}

func TestRunCollectionsMissingCollectionsStillSucceeds(t *testing.T) {
	base := t.TempDir()
	t.Setenv("COLLECTIONS_ROOT", base)
	t.Setenv("COLLECTIONS", "Collection A, Collection B")
	t.Setenv("JOURNAL_DSN", filepath.Join(base, "journal.db"))

	var out bytes.Buffer
	if err := runCollections(context.Background(), common.LoadConfig(), &out); err != nil {
		t.Fatalf("runCollections: %v", err)
	}
	for _, want := range []string{"Collection A", "Collection B", "MISSING"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(filepath.Join(base, "Collection A")); !os.IsNotExist(err) {
		t.Error("missing collection directory was created")
	}
}

func TestRenderSummary(t *testing.T) {
	runID := uuid.MustParse("7f1c2a9e-3b4d-4e5f-8a6b-0c1d2e3f4a5b")
	report := pipeline.RunReport{
		Outcomes: []pipeline.CollectionOutcome{
			{Name: "Collection 1", Status: constants.CollectionProcessed, Summary: pipeline.Summary{RunID: runID, Documents: 7, DocumentsFailed: 1, PagesInvoked: 40, Sections: 55, Subsections: 12}},
			{Name: "Collection 2", Path: "/data/Collection 2", Status: constants.CollectionMissing},
			{Name: "Collection 3", Status: constants.CollectionFailed, Err: errors.New("INVALID_INPUT: input broken")},
		},
		Elapsed: 1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	RenderSummary(&buf, report)
	got := buf.String()

	for _, want := range []string{"Collection 1", "6/7", "55/12", "Collection 2", "/data/Collection 2", "INVALID_INPUT: input broken", "1.5s", "run " + runID.String()} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "run ") != 1 {
		t.Errorf("only journaled collections should show a run id:\n%s", got)
	}
}

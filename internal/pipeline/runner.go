package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/common"
)

// CollectionProcessor is satisfied by *Processor.
type CollectionProcessor interface {
	Process(ctx context.Context, collectionPath string) (Summary, error)
}

// CollectionOutcome is what happened to one configured collection.
type CollectionOutcome struct {
	Name    string
	Path    string
	Status  constants.CollectionStatus
	Summary Summary
	Err     error
}

// RunReport lists outcomes in configured order.
type RunReport struct {
	RunID    string
	Outcomes []CollectionOutcome
	Elapsed  time.Duration
}

// Count returns how many outcomes have status s.
func (r RunReport) Count(s constants.CollectionStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Runner processes the configured collections one after another.
type Runner struct {
	BaseDir     string
	Collections []string
	Processor   CollectionProcessor
	Logger      *slog.Logger
}

func NewRunner(baseDir string, collections []string, processor CollectionProcessor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{BaseDir: baseDir, Collections: collections, Processor: processor, Logger: logger}
}

// Run attempts every collection. Missing directories are skipped with a
// warning and a failing collection never stops the ones after it.
func (r *Runner) Run(ctx context.Context) RunReport {
	start := time.Now()
	report := RunReport{RunID: uuid.New().String()}
	ctx = common.WithRunID(ctx, report.RunID)
	log := common.LoggerWithContext(ctx, r.Logger)

	log.Info("run.start", "base_dir", r.BaseDir, "collections", len(r.Collections))
	for _, name := range r.Collections {
		path := filepath.Join(r.BaseDir, name)
		outcome := CollectionOutcome{Name: name, Path: path}

		if st, err := os.Stat(path); err != nil || !st.IsDir() {
			outcome.Status = constants.CollectionMissing
			log.Warn("collection.not_found", "collection", name, "path", path)
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		log.Info("collection.processing", "collection", name, "path", path)
		summary, err := r.Processor.Process(ctx, path)
		outcome.Summary = summary
		if err != nil {
			outcome.Status = constants.CollectionFailed
			outcome.Err = err
			log.Error("collection.failed", "collection", name, "error", err)
		} else {
			outcome.Status = constants.CollectionProcessed
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.Elapsed = time.Since(start)
	log.Info("run.done",
		"processed", report.Count(constants.CollectionProcessed),
		"missing", report.Count(constants.CollectionMissing),
		"failed", report.Count(constants.CollectionFailed),
		"elapsed_ms", report.Elapsed.Milliseconds(),
	)
	return report
}

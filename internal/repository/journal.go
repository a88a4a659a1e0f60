package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/common"
	"github.com/joseph-ayodele/collection-insights/internal/entity"
)

const (
	tableRuns  = "collection_runs"
	tablePages = "page_invocations"
)

type JournalRepository interface {
	StartRun(ctx context.Context, collection string, startedAt time.Time) (uuid.UUID, error)
	RecordPage(ctx context.Context, page entity.PageInvocation) error
	FinishRun(ctx context.Context, run entity.CollectionRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*entity.CollectionRun, error)
	PageStatusCounts(ctx context.Context, runID uuid.UUID) (map[constants.PageStatus]int, error)
}

type journalRepo struct {
	db  *DB
	log *slog.Logger
}

func NewJournalRepository(db *DB, log *slog.Logger) JournalRepository {
	if log == nil {
		log = slog.Default()
	}
	return &journalRepo{db: db, log: log}
}

func (r *journalRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.drv.Dialect())
}

func (r *journalRepo) StartRun(ctx context.Context, collection string, startedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	query, args := r.builder().Insert(tableRuns).
		Columns("id", "collection", "started_at", "status").
		Values(id.String(), collection, startedAt.UTC(), string(constants.RunStatusRunning)).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("collection_run start failed", "collection", collection, "err", err)
		return uuid.Nil, fmt.Errorf("%w: insert run: %w", common.ErrDatabase, err)
	}
	r.log.Info("collection_run started", "run_id", id, "collection", collection)
	return id, nil
}

func (r *journalRepo) RecordPage(ctx context.Context, p entity.PageInvocation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query, args := r.builder().Insert(tablePages).
		Columns("id", "run_id", "document", "page_number", "status", "duration_ms", "output_bytes", "sections", "subsections", "created_at").
		Values(p.ID.String(), p.RunID.String(), p.Document, p.PageNumber, string(p.Status), p.DurationMS, p.OutputBytes, p.Sections, p.Subsections, p.CreatedAt.UTC()).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("page_invocation insert failed", "run_id", p.RunID, "document", p.Document, "page", p.PageNumber, "err", err)
		return fmt.Errorf("%w: insert page: %w", common.ErrDatabase, err)
	}
	return nil
}

func (r *journalRepo) FinishRun(ctx context.Context, run entity.CollectionRun) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	upd := r.builder().Update(tableRuns).
		Set("finished_at", finished).
		Set("status", string(run.Status)).
		Set("documents", run.Documents).
		Set("pages_invoked", run.PagesInvoked).
		Set("sections", run.Sections).
		Set("subsections", run.Subsections)
	if run.Error != nil {
		upd = upd.Set("error", *run.Error)
	} else {
		upd = upd.SetNull("error")
	}
	query, args := upd.Where(entsql.EQ("id", run.ID.String())).Query()

	var res sql.Result
	if err := r.db.drv.Exec(ctx, query, args, &res); err != nil {
		r.log.Error("collection_run finish failed", "run_id", run.ID, "err", err)
		return fmt.Errorf("%w: update run: %w", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", run.ID, common.ErrNotFound)
	}
	r.log.Info("collection_run finished", "run_id", run.ID, "status", run.Status)
	return nil
}

func (r *journalRepo) GetRun(ctx context.Context, id uuid.UUID) (*entity.CollectionRun, error) {
	query, args := r.builder().
		Select("id", "collection", "started_at", "finished_at", "status", "documents", "pages_invoked", "sections", "subsections", "error").
		From(entsql.Table(tableRuns)).
		Where(entsql.EQ("id", id.String())).
		Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: select run: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: select run: %w", common.ErrDatabase, err)
		}
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}

	var (
		rawID, status string
		run           entity.CollectionRun
		finishedAt    sql.NullTime
		errMsg        sql.NullString
	)
	if err := rows.Scan(&rawID, &run.Collection, &run.StartedAt, &finishedAt, &status,
		&run.Documents, &run.PagesInvoked, &run.Sections, &run.Subsections, &errMsg); err != nil {
		return nil, fmt.Errorf("%w: scan run: %w", common.ErrDatabase, err)
	}
	parsed, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("run id %q: %w", rawID, err)
	}
	run.ID = parsed
	run.Status = constants.RunStatus(status)
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	if errMsg.Valid {
		run.Error = &errMsg.String
	}
	return &run, nil
}

func (r *journalRepo) PageStatusCounts(ctx context.Context, runID uuid.UUID) (map[constants.PageStatus]int, error) {
	query, args := r.builder().
		Select("status", entsql.Count("*")).
		From(entsql.Table(tablePages)).
		Where(entsql.EQ("run_id", runID.String())).
		GroupBy("status").
		Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: count pages: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	counts := make(map[constants.PageStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("%w: scan page count: %w", common.ErrDatabase, err)
		}
		counts[constants.PageStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: count pages: %w", common.ErrDatabase, err)
	}
	return counts, nil
}

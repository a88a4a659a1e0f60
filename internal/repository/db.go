package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN             string
	MaxConns        int32 // postgres only; if zero -> 4
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration // if zero -> 3s
}

// DB is an ent SQL driver over either a pgx pool (postgres:// DSNs) or a
// SQLite file (anything else, ":memory:" included).
type DB struct {
	drv  *entsql.Driver
	pool *pgxpool.Pool // nil for sqlite
	log  *slog.Logger
}

// Open connects, pings and creates the journal tables if they are missing.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 3 * time.Second
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 4
	}

	var db *DB
	var err error
	if isPostgres(cfg.DSN) {
		db, err = openPostgres(ctx, cfg, logger)
	} else {
		db, err = openSQLite(cfg, logger)
	}
	if err != nil {
		logger.Error("failed to connect to journal database", "error", err)
		return nil, err
	}

	if err := db.HealthCheck(ctx, cfg.DialTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal database: %w", err)
	}
	if err := db.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal tables: %w", err)
	}
	logger.Info("successfully connected to journal database", "dialect", db.drv.Dialect())
	return db, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to journal database", "dialect", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.ConnConfig.RuntimeParams["application_name"] = "collection-insights"

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}

	// Wrap pool as *sql.DB for ent's driver
	sqlDB := stdlib.OpenDBFromPool(pool)
	return &DB{drv: entsql.OpenDB(dialect.Postgres, sqlDB), pool: pool, log: logger}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to journal database", "dialect", dialect.SQLite, "path", cfg.DSN)
	sqlDB, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" on a single connection
	sqlDB.SetMaxOpenConns(1)
	return &DB{drv: entsql.OpenDB(dialect.SQLite, sqlDB), log: logger}, nil
}

// Dialect reports the ent dialect name in use.
func (d *DB) Dialect() string { return d.drv.Dialect() }

// Close closes the database connections gracefully
func (d *DB) Close() {
	d.log.Info("closing journal database")
	if err := d.drv.Close(); err != nil {
		d.log.Error("failed to close journal driver", "error", err)
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// HealthCheck pings using database/sql to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	d.log.Debug("pinging journal database")
	return d.drv.DB().PingContext(ctx)
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS collection_runs (
		id VARCHAR(36) PRIMARY KEY,
		collection TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NULL,
		status VARCHAR(16) NOT NULL,
		documents INTEGER NOT NULL DEFAULT 0,
		pages_invoked INTEGER NOT NULL DEFAULT 0,
		sections INTEGER NOT NULL DEFAULT 0,
		subsections INTEGER NOT NULL DEFAULT 0,
		error TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS page_invocations (
		id VARCHAR(36) PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL REFERENCES collection_runs(id),
		document TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		status VARCHAR(16) NOT NULL,
		duration_ms BIGINT NOT NULL,
		output_bytes INTEGER NOT NULL,
		sections INTEGER NOT NULL,
		subsections INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS page_invocations_run_id ON page_invocations (run_id)`,
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if err := d.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/oscdrift/internal/dynamo"
)

//go:embed schema.sql
var schemaSQL string

// Fixed width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Index is a SQLite table of drift records across saved runs, used to
// compare a scheme's drift between sweeps without reopening every run.
type Index struct {
	db *sql.DB
}

// HistoryEntry is one drift record together with the run it came from.
type HistoryEntry struct {
	RunID     string
	CreatedAt time.Time
	Scheme    dynamo.Scheme
	StepSize  float64
	Drift     float64
}

// OpenIndex creates or opens the index database and applies the schema.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to index: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Record inserts a saved run and its drift records. Recording the same run
// twice replaces the earlier rows.
func (ix *Index) Record(ctx context.Context, meta *RunMetadata) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, meta.ID); err != nil {
		return fmt.Errorf("replace run %s: %w", meta.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, span_start, span_end) VALUES (?, ?, ?, ?)`,
		meta.ID, meta.Timestamp.UTC().Format(timeLayout), meta.Span.Start, meta.Span.End)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", meta.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO drift_records (run_id, seq, scheme, step_size, drift) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range meta.Drift {
		if _, err := stmt.ExecContext(ctx, meta.ID, i, r.Scheme.Key(), r.StepSize, r.Drift); err != nil {
			return fmt.Errorf("insert drift record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// History returns every recorded drift value for a scheme, oldest run
// first and in sweep order within a run.
func (ix *Index) History(ctx context.Context, scheme dynamo.Scheme) ([]HistoryEntry, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, d.step_size, d.drift
		FROM drift_records d
		JOIN runs r ON r.id = d.run_id
		WHERE d.scheme = ?
		ORDER BY r.created_at, r.id, d.seq`, scheme.Key())
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]HistoryEntry, 0)
	for rows.Next() {
		var (
			e       HistoryEntry
			created string
		)
		if err := rows.Scan(&e.RunID, &created, &e.StepSize, &e.Drift); err != nil {
			return nil, err
		}
		e.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp %q: %w", e.RunID, created, err)
		}
		e.Scheme = scheme
		out = append(out, e)
	}
	return out, rows.Err()
}

// Runs returns the number of runs in the index.
func (ix *Index) Runs(ctx context.Context) (int, error) {
	var n int
	err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

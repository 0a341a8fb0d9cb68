/*
Package ledger keeps a SQLite history of generation runs: when each run
started and finished, which template and data file it used, and a checksum
of every page it wrote. The history is informational only and never affects
what gets generated.
*/
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SetupSchema creates the ledger tables. It is idempotent and safe to call
// on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaRuns = `
CREATE TABLE IF NOT EXISTS ledger_runs (
    run_id TEXT PRIMARY KEY,
    template_path TEXT NOT NULL,
    data_path TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    finished_at INTEGER,
    page_count INTEGER NOT NULL DEFAULT 0
);
`
		schemaPages = `
CREATE TABLE IF NOT EXISTS ledger_pages (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    slug TEXT NOT NULL,
    path TEXT NOT NULL,
    bytes INTEGER NOT NULL,
    sha256 TEXT NOT NULL,
    PRIMARY KEY (run_id, seq)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaRuns); err != nil {
		return fmt.Errorf("could not create runs schema: %w", err)
	}
	if _, err = tx.Exec(schemaPages); err != nil {
		return fmt.Errorf("could not create pages schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Run is one generation run as stored in the ledger.
type Run struct {
	ID           string
	TemplatePath string
	DataPath     string
	StartedAt    time.Time
	FinishedAt   time.Time // zero if the run never finished
	PageCount    int
}

// PageRecord describes one written page.
type PageRecord struct {
	Slug   string
	Path   string
	Bytes  int
	SHA256 string
}

// Ledger records runs and pages using prepared statements.
type Ledger struct {
	db             *sql.DB
	stmtBeginRun   *sql.Stmt
	stmtFinishRun  *sql.Stmt
	stmtInsertPage *sql.Stmt
	stmtGetRuns    *sql.Stmt
	stmtGetPages   *sql.Stmt
	now            func() time.Time
}

// New prepares the ledger statements against db. SetupSchema must have been
// called on db beforehand.
func New(db *sql.DB) (*Ledger, error) {
	l := &Ledger{db: db, now: time.Now}

	var err error
	if l.stmtBeginRun, err = db.Prepare(`INSERT INTO ledger_runs (run_id, template_path, data_path, started_at) VALUES (?, ?, ?, ?);`); err != nil {
		return nil, fmt.Errorf("could not prepare begin run: %w", err)
	}
	if l.stmtFinishRun, err = db.Prepare(`UPDATE ledger_runs SET finished_at = ?, page_count = ? WHERE run_id = ?;`); err != nil {
		l.Close()
		return nil, fmt.Errorf("could not prepare finish run: %w", err)
	}
	if l.stmtInsertPage, err = db.Prepare(`
INSERT INTO ledger_pages (run_id, seq, slug, path, bytes, sha256)
VALUES (?, (SELECT COUNT(*) FROM ledger_pages WHERE run_id = ?), ?, ?, ?, ?);`); err != nil {
		l.Close()
		return nil, fmt.Errorf("could not prepare insert page: %w", err)
	}
	if l.stmtGetRuns, err = db.Prepare(`
SELECT run_id, template_path, data_path, started_at, finished_at, page_count
FROM ledger_runs ORDER BY started_at DESC, rowid DESC LIMIT ?;`); err != nil {
		l.Close()
		return nil, fmt.Errorf("could not prepare get runs: %w", err)
	}
	if l.stmtGetPages, err = db.Prepare(`SELECT slug, path, bytes, sha256 FROM ledger_pages WHERE run_id = ? ORDER BY seq;`); err != nil {
		l.Close()
		return nil, fmt.Errorf("could not prepare get pages: %w", err)
	}
	return l, nil
}

// Close releases the prepared statements. It does not close the database.
func (l *Ledger) Close() {
	for _, stmt := range []*sql.Stmt{l.stmtBeginRun, l.stmtFinishRun, l.stmtInsertPage, l.stmtGetRuns, l.stmtGetPages} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// BeginRun stores a new run and returns its id.
func (l *Ledger) BeginRun(ctx context.Context, templatePath, dataPath string) (string, error) {
	id := uuid.NewString()
	if _, err := l.stmtBeginRun.ExecContext(ctx, id, templatePath, dataPath, l.now().UnixMilli()); err != nil {
		return "", fmt.Errorf("could not record run start: %w", err)
	}
	return id, nil
}

// RecordPage appends a written page to the run.
func (l *Ledger) RecordPage(ctx context.Context, runID string, page PageRecord) error {
	_, err := l.stmtInsertPage.ExecContext(ctx, runID, runID, page.Slug, page.Path, page.Bytes, page.SHA256)
	if err != nil {
		return fmt.Errorf("could not record page %q: %w", page.Slug, err)
	}
	return nil
}

// FinishRun marks the run as complete with the number of pages written.
func (l *Ledger) FinishRun(ctx context.Context, runID string, pages int) error {
	res, err := l.stmtFinishRun.ExecContext(ctx, l.now().UnixMilli(), pages, runID)
	if err != nil {
		return fmt.Errorf("could not record run finish: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("unknown run %q", runID)
	}
	return nil
}

// Runs returns up to limit runs, newest first.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := l.stmtGetRuns.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		var finished sql.NullInt64
		if err = rows.Scan(&r.ID, &r.TemplatePath, &r.DataPath, &started, &finished, &r.PageCount); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			r.FinishedAt = time.UnixMilli(finished.Int64)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Pages returns the pages of a run in the order they were written.
func (l *Ledger) Pages(ctx context.Context, runID string) ([]PageRecord, error) {
	rows, err := l.stmtGetPages.QueryContext(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var pages []PageRecord
	for rows.Next() {
		var p PageRecord
		if err = rows.Scan(&p.Slug, &p.Path, &p.Bytes, &p.SHA256); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

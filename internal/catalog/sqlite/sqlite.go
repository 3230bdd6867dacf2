package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/loykin/runpack/internal/catalog"
)

// DB implements catalog.Store for SQLite (modernc.org/sqlite driver, CGO-free).
// DSN is a filesystem path to the SQLite database file. Use ":memory:" for in-memory.

type DB struct {
	db *sql.DB
}

// New opens a SQLite database at path.
func New(path string) (*DB, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty sqlite path")
	}
	d, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// busy timeout helps with short concurrent locks
	_, _ = d.Exec("PRAGMA busy_timeout=3000;")
	return &DB{db: d}, nil
}

func (s *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS export_artifact(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_uid TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			documents INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			exported_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_export_artifact_run_uid ON export_artifact(run_uid);`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Close() error { return s.db.Close() }

func (s *DB) Save(ctx context.Context, rec catalog.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO export_artifact(run_uid, path, documents, bytes, exported_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			run_uid=excluded.run_uid,
			documents=excluded.documents,
			bytes=excluded.bytes,
			exported_at=excluded.exported_at;`,
		rec.RunUID, rec.Path, rec.Documents, rec.Bytes, rec.ExportedAt.UTC())
	return err
}

func (s *DB) GetByRunUID(ctx context.Context, runUID string) (catalog.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_uid, path, documents, bytes, exported_at
		FROM export_artifact
		WHERE run_uid=?
		ORDER BY exported_at DESC
		LIMIT 1;`, runUID)
	var r catalog.Record
	err := row.Scan(&r.RunUID, &r.Path, &r.Documents, &r.Bytes, &r.ExportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Record{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Record{}, err
	}
	return r, nil
}

func (s *DB) List(ctx context.Context) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_uid, path, documents, bytes, exported_at
		FROM export_artifact
		ORDER BY exported_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanRecords(rows)
}

func (s *DB) Delete(ctx context.Context, runUID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM export_artifact WHERE run_uid=?;`, runUID)
	return err
}

func scanRecords(rows *sql.Rows) ([]catalog.Record, error) {
	out := make([]catalog.Record, 0)
	for rows.Next() {
		var r catalog.Record
		if err := rows.Scan(&r.RunUID, &r.Path, &r.Documents, &r.Bytes, &r.ExportedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/loykin/runpack/internal/catalog"
)

type DB struct {
	db *sql.DB
}

func New(dsn string) (*DB, error) {
	d, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{db: d}, nil
}

func (p *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS export_artifact(
			id BIGSERIAL PRIMARY KEY,
			run_uid TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			documents INTEGER NOT NULL,
			bytes BIGINT NOT NULL,
			exported_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_export_artifact_run_uid ON export_artifact(run_uid);`,
	}
	for _, q := range stmts {
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (p *DB) Close() error { return p.db.Close() }

func (p *DB) Save(ctx context.Context, rec catalog.Record) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO export_artifact(run_uid, path, documents, bytes, exported_at)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT(path) DO UPDATE SET
			run_uid=excluded.run_uid,
			documents=excluded.documents,
			bytes=excluded.bytes,
			exported_at=excluded.exported_at;`,
		rec.RunUID, rec.Path, rec.Documents, rec.Bytes, rec.ExportedAt.UTC())
	return err
}

func (p *DB) GetByRunUID(ctx context.Context, runUID string) (catalog.Record, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT run_uid, path, documents, bytes, exported_at
		FROM export_artifact
		WHERE run_uid=$1
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

func (p *DB) List(ctx context.Context) ([]catalog.Record, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT run_uid, path, documents, bytes, exported_at
		FROM export_artifact
		ORDER BY exported_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
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

func (p *DB) Delete(ctx context.Context, runUID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM export_artifact WHERE run_uid=$1;`, runUID)
	return err
}

package catalog

import (
	"context"
	"errors"
	"time"
)

// Record is one produced artifact: which run it came from, where it
// landed, and how much was written. ExportedAt should be in UTC.
type Record struct {
	RunUID     string
	Path       string
	Documents  int
	Bytes      int64
	ExportedAt time.Time
}

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("catalog: record not found")

// Store persists artifact records so callers can track what an export
// produced after the fact. Path is unique; saving the same path again
// replaces the earlier record.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, rec Record) error
	GetByRunUID(ctx context.Context, runUID string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, runUID string) error
	Close() error
}

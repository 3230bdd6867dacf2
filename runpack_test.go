package runpack

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestExportSliceAndReadFile(t *testing.T) {
	dir := t.TempDir()
	docs := []Entry{
		{Name: "start", Doc: Document{"uid": "abc"}},
		{Name: "stop", Doc: Document{"uid": "abc", "exit_status": "success"}},
	}
	artifacts, err := ExportSlice(docs, Options{Directory: dir, FilePrefix: "run1-"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0] != filepath.Join(dir, "run1-primary.msgpack") {
		t.Fatalf("unexpected artifacts: %v", artifacts)
	}
	got, err := ReadFile(artifacts[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].Name != "start" || got[1].Doc["exit_status"] != "success" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestOpenCatalogSQLite(t *testing.T) {
	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	rec := CatalogRecord{RunUID: "abc", Path: "/tmp/x-primary.msgpack", Documents: 1, Bytes: 10, ExportedAt: time.Now().UTC()}
	if err := c.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := c.GetByRunUID(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Path != rec.Path {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestDefaultPrefixUnique(t *testing.T) {
	if DefaultPrefix() == DefaultPrefix() {
		t.Fatal("expected unique prefixes")
	}
}

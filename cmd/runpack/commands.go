package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/loykin/runpack/internal/catalog"
	"github.com/loykin/runpack/internal/catalog/factory"
	"github.com/loykin/runpack/internal/codec"
	"github.com/loykin/runpack/internal/config"
	"github.com/loykin/runpack/internal/exporter"
	"github.com/loykin/runpack/internal/logger"
	"github.com/loykin/runpack/internal/metrics"
)

type command struct {
	out io.Writer
	log *slog.Logger
}

// loadConfig reads the optional config file; absent path yields zero config.
func loadConfig(path string) (*config.FileConfig, error) {
	if path == "" {
		return &config.FileConfig{}, nil
	}
	return config.Load(path)
}

// Export reads a JSON-lines document stream and writes one msgpack artifact.
// Flags override file config field by field.
func (c *command) Export(global GlobalFlags, f ExportFlags) error {
	fc, err := loadConfig(global.ConfigPath)
	if err != nil {
		return err
	}
	if f.Directory != "" {
		fc.Export.Directory = f.Directory
	}
	if f.FilePrefix != "" {
		fc.Export.FilePrefix = f.FilePrefix
	}
	if f.Flush {
		fc.Export.Flush = true
	}
	if f.CatalogDSN != "" {
		fc.Catalog.DSN = f.CatalogDSN
	}
	if f.UniquePrefix {
		fc.Export.FilePrefix = exporter.DefaultPrefix()
	}
	if err := fc.ValidateForExport(); err != nil {
		return err
	}

	in := os.Stdin
	if f.Input != "" {
		file, err := os.Open(f.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = file.Close() }()
		in = file
	}
	entries, err := readEntries(in)
	if err != nil {
		return err
	}

	s, err := exporter.NewSerializer(exporter.Options{
		Directory:  fc.Export.Directory,
		FilePrefix: fc.Export.FilePrefix,
		Flush:      fc.Export.Flush,
	})
	if err != nil {
		return err
	}
	var serr error
	for _, e := range entries {
		if serr = s.Serialize(e.Name, e.Doc); serr != nil {
			break
		}
		metrics.IncDocument(e.Name)
	}
	cerr := s.Close()
	metrics.AddBytes(s.Bytes())
	if serr == nil {
		serr = cerr
	}
	if serr != nil {
		metrics.IncExport("error")
		c.log.Error("export failed", "error", serr, "artifacts", s.Artifacts())
		return serr
	}
	metrics.IncExport("success")

	artifacts := s.Artifacts()
	if len(artifacts) == 0 {
		c.log.Info("no documents; nothing written")
		return nil
	}
	c.log.Info("export complete",
		"path", artifacts[0], "documents", s.Documents(), "bytes", s.Bytes())

	if fc.Catalog.DSN != "" {
		if err := c.record(fc.Catalog.DSN, s); err != nil {
			return err
		}
	}
	for _, p := range artifacts {
		_, _ = fmt.Fprintln(c.out, p)
	}
	return nil
}

// record saves the artifact in the configured catalog.
func (c *command) record(dsn string, s *exporter.Serializer) error {
	st, err := factory.NewFromDSN(dsn)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = st.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	runUID := s.RunUID()
	if runUID == "" {
		// Streams without a start document still get a trackable identity.
		runUID = uuid.NewString()
	}
	rec := catalog.Record{
		RunUID:     runUID,
		Path:       s.Artifacts()[0],
		Documents:  s.Documents(),
		Bytes:      s.Bytes(),
		ExportedAt: time.Now().UTC(),
	}
	if err := st.Save(ctx, rec); err != nil {
		return fmt.Errorf("catalog save: %w", err)
	}
	return nil
}

// Dump decodes a msgpack artifact back to JSON lines.
func (c *command) Dump(f DumpFlags) error {
	entries, err := codec.DecodeFile(f.File)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.out)
	for _, e := range entries {
		if err := enc.Encode([2]any{e.Name, e.Doc}); err != nil {
			return fmt.Errorf("encode %s document: %w", e.Name, err)
		}
	}
	return nil
}

// CatalogList prints every catalog record as JSON lines.
func (c *command) CatalogList(global GlobalFlags, f CatalogFlags) error {
	st, err := c.openCatalog(global, f)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	recs, err := st.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(c.out, recs)
}

// CatalogGet prints the latest record for one run uid.
func (c *command) CatalogGet(global GlobalFlags, f CatalogFlags) error {
	st, err := c.openCatalog(global, f)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	rec, err := st.GetByRunUID(ctx, f.RunUID)
	if err != nil {
		return err
	}
	return printJSON(c.out, rec)
}

func (c *command) openCatalog(global GlobalFlags, f CatalogFlags) (catalog.Store, error) {
	dsn := f.DSN
	if dsn == "" {
		fc, err := loadConfig(global.ConfigPath)
		if err != nil {
			return nil, err
		}
		dsn = fc.Catalog.DSN
	}
	if dsn == "" {
		return nil, fmt.Errorf("catalog DSN is required (--dsn or [catalog] in config)")
	}
	return factory.NewFromDSN(dsn)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// newLogger builds the CLI logger from config; errors fall back to stderr defaults.
func newLogger(path string) (*slog.Logger, func() error) {
	cfg := logger.Config{}
	if path != "" {
		if fc, err := config.Load(path); err == nil {
			cfg = logger.Config{
				Level:      fc.Log.Level,
				File:       fc.Log.File,
				MaxSizeMB:  fc.Log.MaxSizeMB,
				MaxBackups: fc.Log.MaxBackups,
				MaxAgeDays: fc.Log.MaxAgeDays,
				Compress:   fc.Log.Compress,
			}
		}
	}
	lg, closer, err := cfg.New()
	if err != nil {
		lg, closer, _ = logger.Config{}.New()
	}
	return lg, closer
}

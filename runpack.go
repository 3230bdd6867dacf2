package runpack

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loykin/runpack/internal/catalog"
	"github.com/loykin/runpack/internal/catalog/factory"
	"github.com/loykin/runpack/internal/codec"
	cfg "github.com/loykin/runpack/internal/config"
	"github.com/loykin/runpack/internal/document"
	"github.com/loykin/runpack/internal/exporter"
	"github.com/loykin/runpack/internal/metrics"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

// Document is one experiment record, a key-value mapping passed through
// unchanged.
type Document = document.Document

// Entry pairs a document with its name label.
type Entry = document.Entry

// Stream is an ordered, finite sequence of (name, document) pairs.
type Stream = document.Stream

// Options configure one export call.
type Options = exporter.Options

// Serializer writes documents to a msgpack artifact in arrival order.
type Serializer = exporter.Serializer

// CatalogRecord is one produced artifact tracked by the catalog.
type CatalogRecord = catalog.Record

// Catalog persists artifact records.
type Catalog = catalog.Store

// Config is the TOML file configuration used by the CLI.
type Config = cfg.FileConfig

var (
	ErrNoDirectory        = exporter.ErrNoDirectory
	ErrTemplateNeedsStart = exporter.ErrTemplateNeedsStart
	ErrNotFound           = catalog.ErrNotFound
)

// Export writes a document stream to <directory>/<prefix>primary.msgpack
// and returns the paths created: none for an empty stream, one otherwise.
func Export(stream Stream, opts Options) ([]string, error) {
	return exporter.Export(stream, opts)
}

// ExportSlice is Export for eagerly collected documents.
func ExportSlice(entries []Entry, opts Options) ([]string, error) {
	return exporter.Export(document.FromSlice(entries), opts)
}

// NewSerializer returns a Serializer for callers that feed documents one
// at a time. Close it when the stream ends.
func NewSerializer(opts Options) (*Serializer, error) {
	return exporter.NewSerializer(opts)
}

// ReadFile decodes an artifact back into its ordered document stream.
func ReadFile(path string) ([]Entry, error) {
	return codec.DecodeFile(path)
}

// DefaultPrefix returns a unique file prefix, a UUID followed by a hyphen.
func DefaultPrefix() string { return exporter.DefaultPrefix() }

// OpenCatalog opens an artifact catalog from a DSN: a sqlite path,
// "sqlite://<path>", or a postgres DSN.
func OpenCatalog(dsn string) (Catalog, error) {
	return factory.NewFromDSN(dsn)
}

// LoadConfig reads the CLI's TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	return cfg.Load(path)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the default registry.
// It returns any immediate listen error; otherwise it runs the server in the caller goroutine.
func ServeMetrics(addr string) error {
	http.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// Package exporter writes an ordered stream of experiment documents to a
// single msgpack artifact on disk.
package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/loykin/runpack/internal/codec"
	"github.com/loykin/runpack/internal/document"
)

// Suffix is the fixed tail of every artifact file name. The configurable
// part of the name is the prefix in front of it.
const Suffix = "primary.msgpack"

var (
	// ErrNoDirectory is returned when Options.Directory is empty.
	ErrNoDirectory = errors.New("exporter: directory is required")
	// ErrClosed is returned when serializing after Close.
	ErrClosed = errors.New("exporter: serializer is closed")
)

// Options configure one export call.
type Options struct {
	// Directory is where the artifact lands. Created if absent. Required.
	Directory string
	// FilePrefix is prepended to the artifact file name. It may contain
	// {start[field]} placeholders resolved from the run's start document.
	// Empty by default; callers wanting unique names per run should pass
	// DefaultPrefix() or an identifier of their own.
	FilePrefix string
	// Flush syncs the file after every document. Slower, but each
	// document is durable as soon as it is written.
	Flush bool
}

// DefaultPrefix returns a unique file prefix, a UUID followed by a hyphen.
func DefaultPrefix() string {
	return uuid.NewString() + "-"
}

// Serializer writes documents to the output artifact in arrival order.
// The file is created lazily when the first document arrives, so an
// exhausted input stream leaves no file behind. Not safe for concurrent
// use; an export is a single linear pass.
type Serializer struct {
	opts      Options
	file      *os.File
	w         *codec.Writer
	artifacts []string
	runUID    string
	documents int
	bytes     int64
	closed    bool
}

// NewSerializer validates opts and returns a Serializer ready to accept
// documents. No filesystem work happens until the first document.
func NewSerializer(opts Options) (*Serializer, error) {
	if opts.Directory == "" {
		return nil, ErrNoDirectory
	}
	return &Serializer{opts: opts}, nil
}

// Serialize appends one (name, document) pair to the artifact. The first
// call creates the output directory and the file; a failure there or in
// encoding is returned as-is and may leave a partial file on disk.
func (s *Serializer) Serialize(name string, doc document.Document) error {
	if s.closed {
		return ErrClosed
	}
	if s.file == nil {
		if err := s.create(name, doc); err != nil {
			return err
		}
	}
	if name == document.Start && s.runUID == "" {
		s.runUID = document.UID(doc)
	}
	n, err := s.w.Write(name, doc)
	s.bytes += int64(n)
	if err != nil {
		return err
	}
	s.documents++
	if s.opts.Flush {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("sync %s: %w", s.file.Name(), err)
		}
	}
	return nil
}

func (s *Serializer) create(name string, doc document.Document) error {
	prefix, err := renderPrefix(s.opts.FilePrefix, name, doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.opts.Directory, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", s.opts.Directory, err)
	}
	path := filepath.Join(s.opts.Directory, prefix+Suffix)
	// O_EXCL: concurrent exports to the same path fail loudly instead of
	// interleaving writes.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", path, err)
	}
	s.file = f
	s.w = codec.NewWriter(f)
	s.artifacts = append(s.artifacts, path)
	return nil
}

// Artifacts returns the paths created so far: empty before the first
// document, exactly one path after. A partially written artifact is
// still listed after a failure.
func (s *Serializer) Artifacts() []string {
	out := make([]string, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// RunUID returns the uid of the run's start document, when one was seen.
func (s *Serializer) RunUID() string { return s.runUID }

// Documents returns how many documents were written.
func (s *Serializer) Documents() int { return s.documents }

// Bytes returns how many bytes were written.
func (s *Serializer) Bytes() int64 { return s.bytes }

// Close flushes and closes the artifact. Safe to call more than once.
func (s *Serializer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("sync %s: %w", s.file.Name(), err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.file.Name(), err)
	}
	return nil
}

// Export drives a document stream through a Serializer and returns the
// artifact paths written. The serializer is closed unconditionally; on
// failure the partial artifact, if any, is still returned alongside the
// error. An empty stream writes nothing and returns no paths.
func Export(stream document.Stream, opts Options) ([]string, error) {
	s, err := NewSerializer(opts)
	if err != nil {
		return nil, err
	}
	var serr error
	for name, doc := range stream {
		if serr = s.Serialize(name, doc); serr != nil {
			break
		}
	}
	cerr := s.Close()
	if serr != nil {
		return s.Artifacts(), serr
	}
	if cerr != nil {
		return s.Artifacts(), cerr
	}
	return s.Artifacts(), nil
}

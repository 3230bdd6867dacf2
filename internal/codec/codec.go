// Package codec serializes (name, document) pairs to msgpack and back.
// Each pair is packed as a two-element array so that the on-disk artifact
// is a plain concatenation of msgpack values, readable by any msgpack
// stream decoder.
package codec

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/loykin/runpack/internal/document"
)

// wireEntry is the on-disk shape of one pair: [name, doc].
type wireEntry struct {
	_msgpack struct{} `msgpack:",as_array"`
	Name     string
	Doc      document.Document
}

// Writer appends msgpack-encoded pairs to an underlying writer.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes one (name, document) pair and appends it, returning the
// number of bytes written. An unencodable value inside doc fails the
// whole pair; nothing is written in that case.
func (w *Writer) Write(name string, doc document.Document) (int, error) {
	b, err := msgpack.Marshal(wireEntry{Name: name, Doc: doc})
	if err != nil {
		return 0, fmt.Errorf("encode %s document: %w", name, err)
	}
	n, err := w.w.Write(b)
	if err != nil {
		return n, fmt.Errorf("write %s document: %w", name, err)
	}
	return n, nil
}

// Reader decodes a sequence of pairs previously written by Writer.
type Reader struct {
	dec *msgpack.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(r)}
}

// Read returns the next pair in the stream. It returns io.EOF once the
// stream is exhausted.
func (r *Reader) Read() (document.Entry, error) {
	var we wireEntry
	if err := r.dec.Decode(&we); err != nil {
		if errors.Is(err, io.EOF) {
			return document.Entry{}, io.EOF
		}
		return document.Entry{}, fmt.Errorf("decode document: %w", err)
	}
	return document.Entry{Name: we.Name, Doc: we.Doc}, nil
}

// ReadAll drains the stream and returns every pair in order.
func (r *Reader) ReadAll() ([]document.Entry, error) {
	var entries []document.Entry
	for {
		e, err := r.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}

// DecodeFile reads an artifact produced by the exporter and returns its
// pairs in arrival order.
func DecodeFile(path string) ([]document.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return NewReader(f).ReadAll()
}

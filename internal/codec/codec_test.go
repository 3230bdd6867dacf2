package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/loykin/runpack/internal/document"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	entries := []document.Entry{
		{Name: document.Start, Doc: document.Document{"uid": "abc", "plan_name": "scan"}},
		{Name: document.Event, Doc: document.Document{"uid": "ev1", "data": document.Document{"det": "reading"}}},
		{Name: document.Stop, Doc: document.Document{"uid": "abc", "exit_status": "success"}},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	total := 0
	for _, e := range entries {
		n, err := w.Write(e.Name, e.Doc)
		if err != nil {
			t.Fatalf("write %s: %v", e.Name, err)
		}
		if n <= 0 {
			t.Fatalf("expected positive byte count for %s", e.Name)
		}
		total += n
	}
	if total != buf.Len() {
		t.Fatalf("byte count mismatch: reported %d, buffered %d", total, buf.Len())
	}

	got, err := NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for i, e := range entries {
		if got[i].Name != e.Name {
			t.Fatalf("entry %d: expected name %s, got %s", i, e.Name, got[i].Name)
		}
		for k, v := range e.Doc {
			if fmt.Sprint(got[i].Doc[k]) != fmt.Sprint(v) {
				t.Fatalf("entry %d key %s: expected %v, got %v", i, k, v, got[i].Doc[k])
			}
		}
	}
}

func TestReaderEmptyStream(t *testing.T) {
	got, err := NewReader(bytes.NewReader(nil)).ReadAll()
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}

func TestWriterUnencodableValue(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := w.Write(document.Event, document.Document{"bad": func() {}})
	if err == nil {
		t.Fatal("expected encoding error for func value")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written after encode failure, got %d bytes", buf.Len())
	}
}

func TestDecodeFileMissing(t *testing.T) {
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "absent.msgpack")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

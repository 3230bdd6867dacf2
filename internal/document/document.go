package document

import "iter"

// Document is one unit of experiment metadata or data, represented as a
// key-value mapping. Documents are produced by an external acquisition
// framework and passed through unchanged; nothing here validates them.
type Document = map[string]any

// Conventional document names emitted over the lifetime of a run.
// A run opens with Start and ends with Stop; the names in between may
// repeat any number of times.
const (
	Start      = "start"
	Descriptor = "descriptor"
	Event      = "event"
	EventPage  = "event_page"
	Resource   = "resource"
	DatumPage  = "datum_page"
	Stop       = "stop"
)

// Entry pairs a document with its name label.
type Entry struct {
	Name string
	Doc  Document
}

// Stream is an ordered, finite sequence of (name, document) pairs,
// consumed exactly once in order.
type Stream = iter.Seq2[string, Document]

// FromSlice adapts an eagerly collected document list into a Stream.
func FromSlice(entries []Entry) Stream {
	return func(yield func(string, Document) bool) {
		for _, e := range entries {
			if !yield(e.Name, e.Doc) {
				return
			}
		}
	}
}

// UID returns the uid field of doc, or "" when absent or not a string.
// Start documents are guaranteed by the producing framework to carry one.
func UID(doc Document) string {
	if v, ok := doc["uid"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

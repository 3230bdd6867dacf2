package document

import "testing"

func TestFromSliceOrder(t *testing.T) {
	entries := []Entry{
		{Name: Start, Doc: Document{"uid": "abc"}},
		{Name: Event, Doc: Document{"seq_num": 1}},
		{Name: Stop, Doc: Document{"uid": "abc"}},
	}
	var got []string
	for name, doc := range FromSlice(entries) {
		if doc == nil {
			t.Fatalf("nil doc for %s", name)
		}
		got = append(got, name)
	}
	want := []string{Start, Event, Stop}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFromSliceEarlyStop(t *testing.T) {
	entries := []Entry{{Name: Start}, {Name: Stop}}
	n := 0
	for range FromSlice(entries) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected iteration to stop after 1, got %d", n)
	}
}

func TestUID(t *testing.T) {
	if uid := UID(Document{"uid": "abc"}); uid != "abc" {
		t.Fatalf("unexpected uid: %q", uid)
	}
	if uid := UID(Document{"uid": 42}); uid != "" {
		t.Fatalf("expected empty uid for non-string, got %q", uid)
	}
	if uid := UID(Document{}); uid != "" {
		t.Fatalf("expected empty uid for missing field, got %q", uid)
	}
}

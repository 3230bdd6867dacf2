package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/loykin/runpack/internal/document"
)

// readEntries parses a JSON-lines document stream: one ["name", {...}]
// pair per line. Blank lines are skipped.
func readEntries(r io.Reader) ([]document.Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var entries []document.Entry
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var pair [2]json.RawMessage
		if err := json.Unmarshal([]byte(text), &pair); err != nil {
			return nil, fmt.Errorf("line %d: expected [\"name\", {...}] pair: %w", line, err)
		}
		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return nil, fmt.Errorf("line %d: document name: %w", line, err)
		}
		var doc document.Document
		if err := json.Unmarshal(pair[1], &doc); err != nil {
			return nil, fmt.Errorf("line %d: document body: %w", line, err)
		}
		entries = append(entries, document.Entry{Name: name, Doc: doc})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return entries, nil
}

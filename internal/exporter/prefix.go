package exporter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/loykin/runpack/internal/document"
)

// ErrTemplateNeedsStart is returned when a templated prefix is used on a
// stream whose first document is not a start document.
var ErrTemplateNeedsStart = errors.New("exporter: templated file prefix requires the stream to begin with a start document")

// placeholder matches {start[field]} in a file prefix.
var placeholder = regexp.MustCompile(`\{start\[([^\]]+)\]\}`)

// renderPrefix resolves {start[field]} placeholders against the first
// document of the stream. A prefix without placeholders passes through
// untouched regardless of the document. Placeholder fields must exist in
// the start document; a missing field fails the export rather than
// producing a file with a mangled name.
func renderPrefix(prefix, firstName string, firstDoc document.Document) (string, error) {
	if !placeholder.MatchString(prefix) {
		return prefix, nil
	}
	if firstName != document.Start {
		return "", ErrTemplateNeedsStart
	}
	var missing []string
	out := placeholder.ReplaceAllStringFunc(prefix, func(m string) string {
		field := placeholder.FindStringSubmatch(m)[1]
		v, ok := firstDoc[field]
		if !ok {
			missing = append(missing, field)
			return m
		}
		return fmt.Sprint(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("exporter: start document has no field %s", strings.Join(missing, ", "))
	}
	return out, nil
}

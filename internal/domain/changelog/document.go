// Package changelog provides domain types for synthesizing changelog
// entries from commit history.
package changelog

import (
	"strings"

	"github.com/halyard-dev/halyard/internal/domain/version"
)

// Merge inserts a rendered entry block into an existing changelog document
// immediately after its first top-level heading line. Everything else in
// the document is preserved byte for byte. Documents without a top-level
// heading fail with ErrNoInsertionPoint; the block is never appended at
// the end as a fallback.
func Merge(document, rendered string) (string, error) {
	idx, ok := insertionPoint(document)
	if !ok {
		return "", ErrNoInsertionPoint
	}

	block := strings.TrimRight(rendered, "\n")

	var sb strings.Builder
	sb.Grow(len(document) + len(block) + 3)
	sb.WriteString(document[:idx])
	if idx > 0 && document[idx-1] != '\n' {
		// Heading at end of file without a trailing newline
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(block)
	sb.WriteString("\n")
	sb.WriteString(document[idx:])
	return sb.String(), nil
}

// insertionPoint returns the byte offset just past the first top-level
// heading line, and whether one exists.
func insertionPoint(document string) (int, bool) {
	offset := 0
	for _, line := range strings.SplitAfter(document, "\n") {
		if isTopLevelHeading(line) {
			return offset + len(line), true
		}
		offset += len(line)
	}
	return 0, false
}

// isTopLevelHeading reports whether a line is a single-# markdown heading.
func isTopLevelHeading(line string) bool {
	return strings.HasPrefix(line, "# ")
}

// ContainsVersion reports whether the document already carries a heading
// for the given version. Merging is not deduplicated; callers use this to
// warn before producing a second heading for the same version.
func ContainsVersion(document string, v version.AppVersion) bool {
	return strings.Contains(document, "## ["+v.String()+"]")
}

// Package changelog provides domain types for synthesizing changelog
// entries from commit history.
package changelog

import (
	"strings"
	"time"

	"github.com/halyard-dev/halyard/internal/domain/version"
)

// Entry is a value object representing one release's changelog section.
// Immutable once constructed.
type Entry struct {
	version version.AppVersion
	date    time.Time
	buckets BucketSet
}

// NewEntry creates a changelog entry for a version at a date.
func NewEntry(v version.AppVersion, date time.Time, buckets BucketSet) Entry {
	return Entry{
		version: v,
		date:    date,
		buckets: buckets,
	}
}

// Version returns the entry's version.
func (e Entry) Version() version.AppVersion {
	return e.version
}

// Date returns the entry's date.
func (e Entry) Date() time.Time {
	return e.date
}

// Buckets returns the entry's buckets.
func (e Entry) Buckets() BucketSet {
	return e.buckets
}

// IsEmpty returns true if no bucket holds any entry.
func (e Entry) IsEmpty() bool {
	return e.buckets.IsEmpty()
}

// Render produces the markdown block for this entry: a version heading
// followed by one subsection per non-empty bucket, in fixed order.
func (e Entry) Render() string {
	var sb strings.Builder
	sb.Grow(64 + e.buckets.Total()*48)

	sb.WriteString("## [")
	sb.WriteString(e.version.String())
	sb.WriteString("] - ")
	sb.WriteString(e.date.Format("2006-01-02"))
	sb.WriteString("\n")

	for _, bucket := range AllBuckets() {
		entries := e.buckets.Entries(bucket)
		if len(entries) == 0 {
			continue
		}
		sb.WriteString("\n### ")
		sb.WriteString(bucket.String())
		sb.WriteString("\n\n")
		for _, item := range entries {
			sb.WriteString("- ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

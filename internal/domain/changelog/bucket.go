// Package changelog provides domain types for synthesizing changelog
// entries from commit history.
package changelog

// Bucket identifies a changelog section.
type Bucket string

const (
	// BucketAdded holds new functionality.
	BucketAdded Bucket = "Added"
	// BucketChanged holds reworked or tuned functionality.
	BucketChanged Bucket = "Changed"
	// BucketFixed holds bug fixes.
	BucketFixed Bucket = "Fixed"
)

// AllBuckets returns the buckets in render order.
func AllBuckets() []Bucket {
	return []Bucket{BucketAdded, BucketChanged, BucketFixed}
}

// IsValid returns true if the bucket is a recognized section.
func (b Bucket) IsValid() bool {
	switch b {
	case BucketAdded, BucketChanged, BucketFixed:
		return true
	default:
		return false
	}
}

// String returns the section title of the bucket.
func (b Bucket) String() string {
	return string(b)
}

// BucketSet accumulates classified entry strings per bucket.
// Entries keep the order in which they were added (commit order).
type BucketSet struct {
	added   []string
	changed []string
	fixed   []string
}

// Add appends an entry to the given bucket. Unknown buckets are ignored.
func (s *BucketSet) Add(b Bucket, text string) {
	switch b {
	case BucketAdded:
		s.added = append(s.added, text)
	case BucketChanged:
		s.changed = append(s.changed, text)
	case BucketFixed:
		s.fixed = append(s.fixed, text)
	}
}

// Entries returns the entries of the given bucket.
func (s BucketSet) Entries(b Bucket) []string {
	switch b {
	case BucketAdded:
		return s.added
	case BucketChanged:
		return s.changed
	case BucketFixed:
		return s.fixed
	default:
		return nil
	}
}

// IsEmpty returns true if no bucket holds any entry.
func (s BucketSet) IsEmpty() bool {
	return len(s.added) == 0 && len(s.changed) == 0 && len(s.fixed) == 0
}

// Total returns the number of entries across all buckets.
func (s BucketSet) Total() int {
	return len(s.added) + len(s.changed) + len(s.fixed)
}

// Package changelog provides domain types for synthesizing changelog
// entries from commit history.
package changelog

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule is a single classification rule: a predicate over a commit subject
// and the bucket a match lands in. Match returns the changelog entry text
// derived from the subject.
type Rule struct {
	Name   string
	Bucket Bucket
	Match  func(subject string) (text string, ok bool)
}

// Regex patterns for conventional commit prefixes with an optional scope.
var (
	featRegex    = regexp.MustCompile(`^feat(?:\([^)]*\))?:\s*(.+)$`)
	fixRegex     = regexp.MustCompile(`^fix(?:\([^)]*\))?:\s*(.+)$`)
	changedRegex = regexp.MustCompile(`^(?:refactor|perf|style|chore)(?:\([^)]*\))?:\s*(.+)$`)
)

// Prefix sets for subjects written as plain imperative sentences.
var (
	addedPrefixes = []string{"Add", "Implement", "Create", "Build"}
	fixedPrefixes = []string{"Fix", "Resolve", "Correct"}
)

// DefaultRules returns the ordered rule list used for classification.
// Conventional prefixes are tried first, then capitalization heuristics.
// New prefixes belong here, not in control flow.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "conventional feat",
			Bucket: BucketAdded,
			Match:  regexMatch(featRegex),
		},
		{
			Name:   "conventional fix",
			Bucket: BucketFixed,
			Match:  regexMatch(fixRegex),
		},
		{
			Name:   "conventional rework",
			Bucket: BucketChanged,
			Match:  regexMatch(changedRegex),
		},
		{
			Name:   "capitalized addition",
			Bucket: BucketAdded,
			Match:  prefixMatch(addedPrefixes),
		},
		{
			Name:   "capitalized fix",
			Bucket: BucketFixed,
			Match:  prefixMatch(fixedPrefixes),
		},
		{
			Name:   "capitalized other",
			Bucket: BucketChanged,
			Match:  capitalizedMatch,
		},
	}
}

// regexMatch builds a Match function that returns the first capture group.
func regexMatch(re *regexp.Regexp) func(string) (string, bool) {
	return func(subject string) (string, bool) {
		matches := re.FindStringSubmatch(subject)
		if matches == nil {
			return "", false
		}
		return strings.TrimSpace(matches[1]), true
	}
}

// prefixMatch builds a Match function that keeps the whole subject when it
// starts with one of the given prefixes.
func prefixMatch(prefixes []string) func(string) (string, bool) {
	return func(subject string) (string, bool) {
		for _, p := range prefixes {
			if strings.HasPrefix(subject, p) {
				return subject, true
			}
		}
		return "", false
	}
}

// capitalizedMatch keeps the whole subject when it starts with an
// uppercase letter.
func capitalizedMatch(subject string) (string, bool) {
	r := []rune(subject)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return "", false
	}
	return subject, true
}

// Classifier maps commit subjects to changelog buckets using an ordered
// rule list, first match wins. Subjects matching no rule contribute to no
// bucket.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier. With no arguments it uses the
// default ruleset.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the bucket and entry text for a commit subject.
// ok is false when the subject is discarded.
func (c *Classifier) Classify(subject string) (Bucket, string, bool) {
	for _, rule := range c.rules {
		if text, ok := rule.Match(subject); ok {
			return rule.Bucket, text, true
		}
	}
	return "", "", false
}

// ClassifyAll classifies a sequence of commit subjects, preserving their
// order within each bucket.
func (c *Classifier) ClassifyAll(subjects []string) BucketSet {
	var set BucketSet
	for _, subject := range subjects {
		if bucket, text, ok := c.Classify(subject); ok {
			set.Add(bucket, text)
		}
	}
	return set
}

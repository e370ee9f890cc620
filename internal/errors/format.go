package errors

import (
	"errors"
	"strings"
	"unicode"
)

// FormatUserError collapses a wrapped error chain into a single line
// suitable for terminal output: the most specific operation name, the word
// "failed", and the root cause. Intermediate "failed to ..." layers are
// dropped so the user does not read the same verb three times.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var ops []string
	for cur := err; cur != nil; {
		inner := errors.Unwrap(cur)
		for _, candidate := range levelMessages(cur, inner) {
			if !isRedundantMessage(candidate, ops) {
				ops = append(ops, cleanOperation(candidate))
			}
		}
		cur = inner
	}

	if len(ops) == 0 {
		return err.Error()
	}

	return capitalizeFirst(findBestOperation(ops)) + " failed: " + rootCause(err)
}

// levelMessages extracts the message text owned by a single level of the
// error chain, without the text contributed by inner errors.
func levelMessages(cur, inner error) []string {
	var candidates []string
	if e, ok := cur.(*Error); ok {
		if e.Op != "" {
			candidates = append(candidates, e.Op)
		}
		if e.Message != "" {
			candidates = append(candidates, e.Message)
		}
		return candidates
	}
	if inner == nil {
		return nil
	}
	full := cur.Error()
	suffix := ": " + inner.Error()
	if strings.HasSuffix(full, suffix) {
		candidates = append(candidates, strings.TrimSuffix(full, suffix))
	}
	return candidates
}

// rootCause returns the text of the innermost error in the chain.
func rootCause(err error) string {
	cur := err
	for {
		inner := errors.Unwrap(cur)
		if inner == nil {
			break
		}
		cur = inner
	}
	if e, ok := cur.(*Error); ok && e.Message != "" {
		return e.Message
	}
	return cur.Error()
}

// cleanOperation strips "failed"/"error" noise from an operation name.
func cleanOperation(op string) string {
	s := strings.TrimSpace(op)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "failed to "):
		s = s[len("failed to "):]
	case strings.HasPrefix(lower, "failed: "):
		s = s[len("failed: "):]
	case strings.HasPrefix(lower, "failed "):
		s = s[len("failed "):]
	case strings.HasPrefix(lower, "error: "):
		s = s[len("error: "):]
	case strings.HasPrefix(lower, "error "):
		s = s[len("error "):]
	}
	if lower = strings.ToLower(s); strings.HasSuffix(lower, " failed") {
		s = s[:len(s)-len(" failed")]
	}
	return strings.TrimSpace(s)
}

// isRedundantMessage reports whether a message adds nothing over the
// operations already collected.
func isRedundantMessage(msg string, existingOps []string) bool {
	cleaned := cleanOperation(msg)
	if cleaned == "" {
		return true
	}
	for _, op := range existingOps {
		if cleaned == cleanOperation(op) {
			return true
		}
	}
	return false
}

// findBestOperation picks the most readable operation name: the fewest
// words wins, earliest collection order breaks ties.
func findBestOperation(ops []string) string {
	best := ""
	bestWords := 0
	for _, op := range ops {
		cleaned := cleanOperation(op)
		if cleaned == "" {
			continue
		}
		words := len(strings.Fields(cleaned))
		if best == "" || words < bestWords {
			best = cleaned
			bestWords = words
		}
	}
	return best
}

func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

package toolchain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// newUploadRetrier builds the bounded retry wrapper around store
// uploads. attempts is the total attempt count, so 1 means no retry.
func newUploadRetrier(attempts int, initialDelay time.Duration) retry.Retry[string] {
	if attempts < 1 {
		attempts = 1
	}
	if initialDelay <= 0 {
		initialDelay = 2 * time.Second
	}
	return retry.New[string](retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  initialDelay,
		MaxDelay:      30 * time.Second,
		BackoffPolicy: retry.BackoffExponential,
		Multiplier:    2.0,
		Jitter:        true,
		IsRetryable:   isRetryableUploadError,
	})
}

// isRetryableUploadError reports whether an upload failure looks
// transient. Auth failures, rejected builds, and duplicates are
// terminal; anything else gets another attempt.
func isRetryableUploadError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	terminal := []string{
		"unauthorized",
		"authentication",
		"forbidden",
		"invalid",
		"already exists",
		"already been uploaded",
		"duplicate",
		"no such file",
	}
	for _, pattern := range terminal {
		if strings.Contains(msg, pattern) {
			return false
		}
	}
	return true
}

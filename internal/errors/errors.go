// Package errors provides structured error types for Halyard.
// It implements error classification, wrapping, and recovery detection.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind represents the category of an error.
type Kind uint8

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfig indicates a configuration error.
	KindConfig
	// KindGit indicates a git operation error.
	KindGit
	// KindFormat indicates malformed version or changelog input.
	KindFormat
	// KindValidation indicates a release validation failure.
	KindValidation
	// KindTrack indicates a platform track failure.
	KindTrack
	// KindCollaborator indicates an external tool was missing or unusable.
	KindCollaborator
	// KindChangelog indicates a changelog structure error.
	KindChangelog
	// KindIO indicates a file I/O error.
	KindIO
	// KindCanceled indicates the operation was canceled.
	KindCanceled
	// KindInternal indicates an internal error.
	KindInternal
)

// String returns a human-readable string for the error kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindGit:
		return "git"
	case KindFormat:
		return "format"
	case KindValidation:
		return "validation"
	case KindTrack:
		return "track"
	case KindCollaborator:
		return "collaborator"
	case KindChangelog:
		return "changelog"
	case KindIO:
		return "io"
	case KindCanceled:
		return "canceled"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the standard error type for Halyard.
type Error struct {
	// Kind is the category of the error.
	Kind Kind
	// Op is the operation being performed when the error occurred.
	Op string
	// Message is a human-readable error message.
	Message string
	// Err is the underlying error.
	Err error
	// Recoverable indicates if the error can be recovered from.
	Recoverable bool
	// Details contains additional context about the error.
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches this error.
// For *Error types, it checks if both the Kind and Op match.
// For sentinel errors (errors without Op), only Kind is compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	// If target has no Op, match by Kind only (sentinel error pattern)
	if t.Op == "" {
		return e.Kind == t.Kind
	}
	// Otherwise, match both Kind and Op
	return e.Kind == t.Kind && e.Op == t.Op
}

// WithDetails adds details to the error and returns the modified error.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail adds a single detail to the error and returns the modified error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Newf creates a new Error with the given kind and formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind Kind, op string, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, kind Kind, op string, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// GetKind returns the Kind of an error.
// If the error is not an *Error, it returns KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRecoverable returns true if the error is recoverable.
func IsRecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Recoverable
	}
	return false
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// Common error constructors for frequently used error types.

// Config creates a configuration error.
func Config(op, message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Op:      op,
		Message: message,
	}
}

// ConfigWrap wraps an error as a configuration error.
func ConfigWrap(err error, op, message string) *Error {
	return Wrap(err, KindConfig, op, message)
}

// Git creates a git operation error.
func Git(op, message string) *Error {
	return &Error{
		Kind:    KindGit,
		Op:      op,
		Message: message,
	}
}

// GitWrap wraps an error as a git error.
func GitWrap(err error, op, message string) *Error {
	return Wrap(err, KindGit, op, message)
}

// Format creates a format error.
func Format(op, message string) *Error {
	return &Error{
		Kind:    KindFormat,
		Op:      op,
		Message: message,
	}
}

// FormatWrap wraps an error as a format error.
func FormatWrap(err error, op, message string) *Error {
	return Wrap(err, KindFormat, op, message)
}

// Validation creates a validation error.
func Validation(op, message string) *Error {
	return &Error{
		Kind:        KindValidation,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// ValidationWrap wraps an error as a validation error.
func ValidationWrap(err error, op, message string) *Error {
	e := Wrap(err, KindValidation, op, message)
	e.Recoverable = true
	return e
}

// Track creates a platform track error.
func Track(op, message string) *Error {
	return &Error{
		Kind:    KindTrack,
		Op:      op,
		Message: message,
	}
}

// TrackWrap wraps an error as a platform track error.
func TrackWrap(err error, op, message string) *Error {
	return Wrap(err, KindTrack, op, message)
}

// Collaborator creates an error for a missing or unusable external tool.
// Collaborator errors are recoverable: the affected stage degrades to a
// manual follow-up instead of failing the run.
func Collaborator(op, message string) *Error {
	return &Error{
		Kind:        KindCollaborator,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// CollaboratorWrap wraps an error as a collaborator error.
func CollaboratorWrap(err error, op, message string) *Error {
	e := Wrap(err, KindCollaborator, op, message)
	e.Recoverable = true
	return e
}

// Changelog creates a changelog structure error.
func Changelog(op, message string) *Error {
	return &Error{
		Kind:    KindChangelog,
		Op:      op,
		Message: message,
	}
}

// ChangelogWrap wraps an error as a changelog structure error.
func ChangelogWrap(err error, op, message string) *Error {
	return Wrap(err, KindChangelog, op, message)
}

// IO creates an I/O error.
func IO(op, message string) *Error {
	return &Error{
		Kind:    KindIO,
		Op:      op,
		Message: message,
	}
}

// IOWrap wraps an error as an I/O error.
func IOWrap(err error, op, message string) *Error {
	return Wrap(err, KindIO, op, message)
}

// Internal creates an internal error.
func Internal(op, message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Op:      op,
		Message: message,
	}
}

// InternalWrap wraps an error as an internal error.
func InternalWrap(err error, op, message string) *Error {
	return Wrap(err, KindInternal, op, message)
}

// Sensitive data redaction patterns.
// These match store credentials that may leak through upload tool output
// and must never appear in error messages or logs.
var sensitivePatterns = []*regexp.Regexp{
	// App Store Connect app-specific passwords: xxxx-xxxx-xxxx-xxxx
	regexp.MustCompile(`\b[a-z]{4}-[a-z]{4}-[a-z]{4}-[a-z]{4}\b`),
	// App Store Connect API key IDs passed on the command line
	regexp.MustCompile(`(?:--apiKey|-p)\s+\S+`),
	// Generic bearer tokens
	regexp.MustCompile(`\bBearer\s+[a-zA-Z0-9_-]{20,}\b`),
	// Basic auth with password in URL
	regexp.MustCompile(`://[^:]+:[^@]+@`),
}

// RedactSensitive removes sensitive information from an error message.
func RedactSensitive(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// RedactError creates a new error with sensitive data redacted from its message.
// If the error is nil, returns nil.
func RedactError(err error) error {
	if err == nil {
		return nil
	}
	redacted := RedactSensitive(err.Error())
	if redacted == err.Error() {
		return err // No change needed
	}
	return fmt.Errorf("%s", redacted)
}

// WrapSafe wraps an error with sensitive data redacted. Use this when the
// underlying error carries output from an upload tool.
func WrapSafe(err error, kind Kind, op, message string) *Error {
	if err == nil {
		return &Error{
			Kind:    kind,
			Op:      op,
			Message: message,
		}
	}
	redactedErr := RedactError(err)
	return Wrap(redactedErr, kind, op, message)
}

// IsSensitive checks if a string contains credential material.
func IsSensitive(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return strings.Contains(s, "api_key") ||
		strings.Contains(s, "apikey") ||
		strings.Contains(s, "secret") ||
		strings.Contains(s, "password") ||
		strings.Contains(s, "token")
}

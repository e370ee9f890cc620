package release

import "errors"

// Domain errors for release pipeline operations.
var (
	// ErrInvalidPlatform indicates an unknown release platform.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidChannel indicates an unknown distribution channel.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrInvalidTransition indicates an invalid track state transition.
	ErrInvalidTransition = errors.New("invalid track transition")

	// ErrCredentialsMissing indicates required store credentials are not
	// configured. The credential preflight fails the track before its
	// build step runs.
	ErrCredentialsMissing = errors.New("store credentials missing")

	// ErrNoTracks indicates a release run was requested with no tracks.
	ErrNoTracks = errors.New("no release tracks requested")
)

// Package release provides domain types for the two-track release pipeline.
package release

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies the target platform of a release track.
type Platform string

const (
	// PlatformIOS is the Apple App Store track.
	PlatformIOS Platform = "ios"
	// PlatformAndroid is the Google Play track.
	PlatformAndroid Platform = "android"
)

// AllPlatforms returns the platforms in pipeline execution order.
func AllPlatforms() []Platform {
	return []Platform{PlatformIOS, PlatformAndroid}
}

// String returns the string representation of the platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid returns true if the platform is a known release platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid:
		return true
	default:
		return false
	}
}

// DisplayName returns the platform name as shown to operators.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformIOS:
		return "iOS"
	case PlatformAndroid:
		return "Android"
	default:
		return string(p)
	}
}

// StoreName returns the app store the platform releases to.
func (p Platform) StoreName() string {
	switch p {
	case PlatformIOS:
		return "App Store Connect"
	case PlatformAndroid:
		return "Google Play Console"
	default:
		return "store"
	}
}

// ParsePlatform parses a string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q (must be ios or android)", ErrInvalidPlatform, s)
	}
	return p, nil
}

// TrackState represents the lifecycle state of a single release track.
// This is a value object in DDD terms.
type TrackState string

const (
	// StateNotRun indicates the track has not been entered yet.
	StateNotRun TrackState = "not_run"
	// StateSkipped indicates the track was skipped by configuration.
	StateSkipped TrackState = "skipped"
	// StateRunning indicates the track is building or uploading.
	StateRunning TrackState = "running"
	// StateSucceeded indicates every automated step of the track completed.
	StateSucceeded TrackState = "succeeded"
	// StateFailed indicates a build or upload step failed.
	StateFailed TrackState = "failed"
	// StateManual indicates automation stopped short and a human must
	// finish the remaining step.
	StateManual TrackState = "manual"
)

// AllTrackStates returns all valid track states.
func AllTrackStates() []TrackState {
	return []TrackState{
		StateNotRun,
		StateSkipped,
		StateRunning,
		StateSucceeded,
		StateFailed,
		StateManual,
	}
}

// String returns the string representation of the state.
func (s TrackState) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid track state.
func (s TrackState) IsValid() bool {
	switch s {
	case StateNotRun, StateSkipped, StateRunning, StateSucceeded, StateFailed, StateManual:
		return true
	default:
		return false
	}
}

// IsFinal returns true if this is a final (terminal) state.
func (s TrackState) IsFinal() bool {
	switch s {
	case StateSkipped, StateSucceeded, StateFailed, StateManual:
		return true
	default:
		return false
	}
}

// CanTransitionTo returns true if transitioning to the target state is valid.
func (s TrackState) CanTransitionTo(target TrackState) bool {
	validTargets, exists := validTransitions()[s]
	if !exists {
		return false
	}

	for _, valid := range validTargets {
		if valid == target {
			return true
		}
	}
	return false
}

// validTransitions defines the state machine for a release track.
// Failed is reachable directly from NotRun because the credential
// preflight rejects a track before its build step runs.
func validTransitions() map[TrackState][]TrackState {
	return map[TrackState][]TrackState{
		StateNotRun:    {StateSkipped, StateRunning, StateFailed},
		StateRunning:   {StateSucceeded, StateFailed, StateManual},
		StateSkipped:   {}, // Terminal state
		StateSucceeded: {}, // Terminal state
		StateFailed:    {}, // Terminal state
		StateManual:    {}, // Terminal state
	}
}

// NextValidStates returns the valid next states from the current state.
func (s TrackState) NextValidStates() []TrackState {
	if valid, exists := validTransitions()[s]; exists {
		return valid
	}
	return nil
}

// Description returns a human-readable description of the state.
func (s TrackState) Description() string {
	switch s {
	case StateNotRun:
		return "Track not started"
	case StateSkipped:
		return "Track skipped by configuration"
	case StateRunning:
		return "Track building and uploading"
	case StateSucceeded:
		return "Track completed by automation"
	case StateFailed:
		return "Track failed"
	case StateManual:
		return "Track needs a manual follow-up"
	default:
		return "Unknown state"
	}
}

// Icon returns a short status icon for the state.
func (s TrackState) Icon() string {
	switch s {
	case StateNotRun:
		return "·"
	case StateSkipped:
		return "−"
	case StateRunning:
		return "…"
	case StateSucceeded:
		return "✓"
	case StateFailed:
		return "✗"
	case StateManual:
		return "!"
	default:
		return "?"
	}
}

// Track is the aggregate for one platform-specific release sequence.
// Tracks are independent of each other: a Failed iOS track never blocks
// the Android track in the same run.
type Track struct {
	platform  Platform
	state     TrackState
	artifact  string
	reason    string
	startedAt time.Time
	endedAt   time.Time
}

// NewTrack creates a track for the given platform in the NotRun state.
func NewTrack(platform Platform) (*Track, error) {
	if !platform.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlatform, platform)
	}
	return &Track{
		platform: platform,
		state:    StateNotRun,
	}, nil
}

// Platform returns the platform this track releases to.
func (t *Track) Platform() Platform {
	return t.platform
}

// State returns the current track state.
func (t *Track) State() TrackState {
	return t.state
}

// Artifact returns the built artifact path, if a build completed.
func (t *Track) Artifact() string {
	return t.artifact
}

// Reason explains a Skipped, Failed, or Manual state. For Manual tracks
// it names the step a human still has to finish.
func (t *Track) Reason() string {
	return t.reason
}

// StartedAt returns when the track entered Running, or the zero time.
func (t *Track) StartedAt() time.Time {
	return t.startedAt
}

// EndedAt returns when the track reached a terminal state, or the zero time.
func (t *Track) EndedAt() time.Time {
	return t.endedAt
}

// Skip marks the track as skipped by configuration.
func (t *Track) Skip(reason string) error {
	if err := t.transitionTo(StateSkipped); err != nil {
		return err
	}
	t.reason = reason
	t.endedAt = time.Now()
	return nil
}

// Start moves the track into the Running state.
func (t *Track) Start() error {
	if err := t.transitionTo(StateRunning); err != nil {
		return err
	}
	t.startedAt = time.Now()
	return nil
}

// RecordArtifact stores the built artifact path on the track.
func (t *Track) RecordArtifact(path string) {
	t.artifact = path
}

// Succeed marks the track as completed by automation.
func (t *Track) Succeed() error {
	if err := t.transitionTo(StateSucceeded); err != nil {
		return err
	}
	t.endedAt = time.Now()
	return nil
}

// Fail marks the track as failed with the given reason.
func (t *Track) Fail(reason string) error {
	if err := t.transitionTo(StateFailed); err != nil {
		return err
	}
	t.reason = reason
	t.endedAt = time.Now()
	return nil
}

// Degrade marks the track as Manual: automation stopped short of
// completing the release and reason names the step left for a human.
func (t *Track) Degrade(reason string) error {
	if err := t.transitionTo(StateManual); err != nil {
		return err
	}
	t.reason = reason
	t.endedAt = time.Now()
	return nil
}

func (t *Track) transitionTo(target TrackState) error {
	if !t.state.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s track cannot move from %s to %s",
			ErrInvalidTransition, t.platform, t.state, target)
	}
	t.state = target
	return nil
}

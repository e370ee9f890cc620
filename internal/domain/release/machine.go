package release

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// TrackContext is the context passed to the track state machine.
type TrackContext struct {
	Track          *Track
	HasCredentials bool
}

// Event names for the track state machine.
const (
	EventSkip    statekit.EventType = "SKIP"
	EventStart   statekit.EventType = "START"
	EventSucceed statekit.EventType = "SUCCEED"
	EventFail    statekit.EventType = "FAIL"
	EventDegrade statekit.EventType = "DEGRADE"
)

// Guard names for the track state machine.
const (
	GuardCredentialsPresent statekit.GuardType = "credentialsPresent"
)

// State IDs for the track state machine.
var (
	StateIDNotRun    statekit.StateID = statekit.StateID(StateNotRun)
	StateIDSkipped   statekit.StateID = statekit.StateID(StateSkipped)
	StateIDRunning   statekit.StateID = statekit.StateID(StateRunning)
	StateIDSucceeded statekit.StateID = statekit.StateID(StateSucceeded)
	StateIDFailed    statekit.StateID = statekit.StateID(StateFailed)
	StateIDManual    statekit.StateID = statekit.StateID(StateManual)
)

// TrackMachine wraps the Statekit state machine for release tracks.
type TrackMachine struct {
	interpreter *statekit.Interpreter[TrackContext]
}

// NewTrackMachine creates a new state machine for a release track.
// Building the machine validates the transition table.
func NewTrackMachine() (*TrackMachine, error) {
	machine, err := statekit.NewMachine[TrackContext]("release-track").
		WithInitial(StateIDNotRun).
		// Guards
		WithGuard(GuardCredentialsPresent, guardCredentialsPresent).
		// NotRun state: FAIL covers the credential preflight rejection
		State(StateIDNotRun).
		On(EventSkip).Target(StateIDSkipped).
		On(EventStart).Target(StateIDRunning).Guard(GuardCredentialsPresent).
		On(EventFail).Target(StateIDFailed).
		Done().
		// Running state
		State(StateIDRunning).
		On(EventSucceed).Target(StateIDSucceeded).
		On(EventFail).Target(StateIDFailed).
		On(EventDegrade).Target(StateIDManual).
		Done().
		// Skipped state (terminal)
		State(StateIDSkipped).
		Final().
		Done().
		// Succeeded state (terminal)
		State(StateIDSucceeded).
		Final().
		Done().
		// Failed state (terminal)
		State(StateIDFailed).
		Final().
		Done().
		// Manual state (terminal)
		State(StateIDManual).
		Final().
		Done().
		Build()

	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)

	return &TrackMachine{
		interpreter: interp,
	}, nil
}

// Guard implementations - Guards take context by value (not pointer)

func guardCredentialsPresent(ctx TrackContext, _ statekit.Event) bool {
	return ctx.HasCredentials
}

// Start starts the state machine interpreter.
func (m *TrackMachine) Start() {
	m.interpreter.Start()
}

// Send sends an event to the interpreter.
func (m *TrackMachine) Send(event statekit.EventType) error {
	if m.interpreter == nil {
		return fmt.Errorf("interpreter not started")
	}
	m.interpreter.Send(statekit.Event{Type: event})
	return nil
}

// CurrentState returns the current state.
func (m *TrackMachine) CurrentState() statekit.StateID {
	if m.interpreter == nil {
		return ""
	}
	return m.interpreter.State().Value
}

// IsDone returns true if the machine is in a final state.
func (m *TrackMachine) IsDone() bool {
	if m.interpreter == nil {
		return false
	}
	return m.interpreter.Done()
}

// ValidateTransition checks if a transition is valid without executing it.
func ValidateTransition(track *Track, event statekit.EventType, hasCredentials bool) error {
	if track == nil {
		return fmt.Errorf("%w: nil track", ErrInvalidTransition)
	}

	ctx := TrackContext{
		Track:          track,
		HasCredentials: hasCredentials,
	}

	// Check guards based on event
	if event == EventStart {
		if !guardCredentialsPresent(ctx, statekit.Event{}) {
			return fmt.Errorf("%w for the %s track", ErrCredentialsMissing, track.Platform())
		}
	}

	// Check state transition is valid
	var target TrackState
	switch event {
	case EventSkip:
		target = StateSkipped
	case EventStart:
		target = StateRunning
	case EventSucceed:
		target = StateSucceeded
	case EventFail:
		target = StateFailed
	case EventDegrade:
		target = StateManual
	default:
		return fmt.Errorf("unknown event: %s", event)
	}

	if !track.State().CanTransitionTo(target) {
		return fmt.Errorf("%w: cannot transition from %s to %s via %s",
			ErrInvalidTransition, track.State(), target, event)
	}

	return nil
}

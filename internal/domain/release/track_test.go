package release

import (
	"errors"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected Platform
		wantErr  bool
	}{
		{"ios", PlatformIOS, false},
		{"IOS", PlatformIOS, false},
		{"  android  ", PlatformAndroid, false},
		{"Android", PlatformAndroid, false},
		{"windows", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePlatform() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidPlatform) {
				t.Errorf("ParsePlatform() error = %v, want ErrInvalidPlatform", err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParsePlatform() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPlatform_DisplayName(t *testing.T) {
	tests := []struct {
		platform Platform
		expected string
	}{
		{PlatformIOS, "iOS"},
		{PlatformAndroid, "Android"},
		{Platform("web"), "web"},
	}

	for _, tt := range tests {
		if got := tt.platform.DisplayName(); got != tt.expected {
			t.Errorf("DisplayName(%s) = %q, want %q", tt.platform, got, tt.expected)
		}
	}
}

func TestPlatform_StoreName(t *testing.T) {
	if got := PlatformIOS.StoreName(); got != "App Store Connect" {
		t.Errorf("StoreName(ios) = %q, want App Store Connect", got)
	}
	if got := PlatformAndroid.StoreName(); got != "Google Play Console" {
		t.Errorf("StoreName(android) = %q, want Google Play Console", got)
	}
}

func TestTrackState_String(t *testing.T) {
	tests := []struct {
		state    TrackState
		expected string
	}{
		{StateNotRun, "not_run"},
		{StateSkipped, "skipped"},
		{StateRunning, "running"},
		{StateSucceeded, "succeeded"},
		{StateFailed, "failed"},
		{StateManual, "manual"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrackState_IsValid(t *testing.T) {
	for _, state := range AllTrackStates() {
		if !state.IsValid() {
			t.Errorf("IsValid() = false for %s, want true", state)
		}
	}

	invalidStates := []TrackState{
		"invalid",
		"",
		"RUNNING",
		"done",
	}

	for _, state := range invalidStates {
		if state.IsValid() {
			t.Errorf("IsValid() = true for %q, want false", state)
		}
	}
}

func TestTrackState_IsFinal(t *testing.T) {
	finalStates := []TrackState{
		StateSkipped,
		StateSucceeded,
		StateFailed,
		StateManual,
	}

	for _, state := range finalStates {
		if !state.IsFinal() {
			t.Errorf("IsFinal() = false for %s, want true", state)
		}
	}

	nonFinalStates := []TrackState{
		StateNotRun,
		StateRunning,
	}

	for _, state := range nonFinalStates {
		if state.IsFinal() {
			t.Errorf("IsFinal() = true for %s, want false", state)
		}
	}
}

func TestTrackState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     TrackState
		to       TrackState
		expected bool
	}{
		// From NotRun
		{StateNotRun, StateSkipped, true},
		{StateNotRun, StateRunning, true},
		{StateNotRun, StateFailed, true}, // Credential preflight rejection
		{StateNotRun, StateSucceeded, false},
		{StateNotRun, StateManual, false},

		// From Running
		{StateRunning, StateSucceeded, true},
		{StateRunning, StateFailed, true},
		{StateRunning, StateManual, true},
		{StateRunning, StateSkipped, false},
		{StateRunning, StateNotRun, false},

		// Terminal states
		{StateSkipped, StateRunning, false},
		{StateSucceeded, StateRunning, false},
		{StateSucceeded, StateFailed, false},
		{StateFailed, StateRunning, false},
		{StateManual, StateSucceeded, false},
	}

	for _, tt := range tests {
		name := string(tt.from) + "_to_" + string(tt.to)
		t.Run(name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expected {
				t.Errorf("CanTransitionTo(%s) = %v, want %v", tt.to, got, tt.expected)
			}
		})
	}
}

func TestTrackState_NextValidStates(t *testing.T) {
	tests := []struct {
		state    TrackState
		expected int
	}{
		{StateNotRun, 3},
		{StateRunning, 3},
		{StateSkipped, 0},
		{StateSucceeded, 0},
		{StateFailed, 0},
		{StateManual, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.NextValidStates(); len(got) != tt.expected {
				t.Errorf("NextValidStates() length = %d, want %d", len(got), tt.expected)
			}
		})
	}
}

func TestTrackState_Description(t *testing.T) {
	for _, state := range AllTrackStates() {
		desc := state.Description()
		if desc == "" || desc == "Unknown state" {
			t.Errorf("Description() for %s is empty or unknown", state)
		}
	}

	unknown := TrackState("unknown")
	if unknown.Description() != "Unknown state" {
		t.Errorf("Description() for unknown state = %q, want 'Unknown state'", unknown.Description())
	}
}

func TestTrackState_Icon(t *testing.T) {
	for _, state := range AllTrackStates() {
		if state.Icon() == "" {
			t.Errorf("Icon() for %s is empty", state)
		}
	}
}

func TestNewTrack(t *testing.T) {
	track, err := NewTrack(PlatformIOS)
	if err != nil {
		t.Fatalf("NewTrack() error = %v", err)
	}
	if track.Platform() != PlatformIOS {
		t.Errorf("Platform() = %v, want %v", track.Platform(), PlatformIOS)
	}
	if track.State() != StateNotRun {
		t.Errorf("State() = %v, want %v", track.State(), StateNotRun)
	}
}

func TestNewTrack_InvalidPlatform(t *testing.T) {
	_, err := NewTrack(Platform("desktop"))
	if !errors.Is(err, ErrInvalidPlatform) {
		t.Errorf("NewTrack() error = %v, want ErrInvalidPlatform", err)
	}
}

func TestTrack_Lifecycle(t *testing.T) {
	t.Run("skip from not_run", func(t *testing.T) {
		track, _ := NewTrack(PlatformAndroid)
		if err := track.Skip("skipped by configuration"); err != nil {
			t.Fatalf("Skip() error = %v", err)
		}
		if track.State() != StateSkipped {
			t.Errorf("State() = %v, want %v", track.State(), StateSkipped)
		}
		if track.Reason() != "skipped by configuration" {
			t.Errorf("Reason() = %q", track.Reason())
		}
	})

	t.Run("start then succeed", func(t *testing.T) {
		track, _ := NewTrack(PlatformIOS)
		if err := track.Start(); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if track.StartedAt().IsZero() {
			t.Error("StartedAt() is zero after Start()")
		}
		track.RecordArtifact("build/app.ipa")
		if err := track.Succeed(); err != nil {
			t.Fatalf("Succeed() error = %v", err)
		}
		if track.State() != StateSucceeded {
			t.Errorf("State() = %v, want %v", track.State(), StateSucceeded)
		}
		if track.Artifact() != "build/app.ipa" {
			t.Errorf("Artifact() = %q", track.Artifact())
		}
		if track.EndedAt().IsZero() {
			t.Error("EndedAt() is zero after Succeed()")
		}
	})

	t.Run("fail from not_run for credential preflight", func(t *testing.T) {
		track, _ := NewTrack(PlatformIOS)
		if err := track.Fail("store credentials missing: HALYARD_IOS_API_KEY"); err != nil {
			t.Fatalf("Fail() error = %v", err)
		}
		if track.State() != StateFailed {
			t.Errorf("State() = %v, want %v", track.State(), StateFailed)
		}
	})

	t.Run("degrade from running", func(t *testing.T) {
		track, _ := NewTrack(PlatformAndroid)
		_ = track.Start()
		if err := track.Degrade("upload build/app.aab to Google Play Console manually"); err != nil {
			t.Fatalf("Degrade() error = %v", err)
		}
		if track.State() != StateManual {
			t.Errorf("State() = %v, want %v", track.State(), StateManual)
		}
	})

	t.Run("succeed from not_run is rejected", func(t *testing.T) {
		track, _ := NewTrack(PlatformIOS)
		err := track.Succeed()
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Succeed() error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		track, _ := NewTrack(PlatformIOS)
		_ = track.Start()
		_ = track.Succeed()

		if err := track.Fail("late failure"); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Fail() after Succeed() error = %v, want ErrInvalidTransition", err)
		}
		if err := track.Start(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Start() after Succeed() error = %v, want ErrInvalidTransition", err)
		}
		if track.State() != StateSucceeded {
			t.Errorf("State() = %v, want %v after rejected transitions", track.State(), StateSucceeded)
		}
	})
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input    string
		expected Channel
		wantErr  bool
	}{
		{"internal", ChannelInternal, false},
		{"BETA", ChannelBeta, false},
		{"  production  ", ChannelProduction, false},
		{"alpha", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChannel(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseChannel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidChannel) {
				t.Errorf("ParseChannel() error = %v, want ErrInvalidChannel", err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseChannel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestChannel_Description(t *testing.T) {
	for _, channel := range AllChannels() {
		desc := channel.Description()
		if desc == "" || desc == "Unknown channel" {
			t.Errorf("Description() for %s is empty or unknown", channel)
		}
	}
}

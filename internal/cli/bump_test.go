package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/halyard-dev/halyard/internal/domain/version"
)

func TestResolveBumpTarget_Kinds(t *testing.T) {
	setupTestConfig(t)
	current := version.MustParse("1.2.3+45")

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"major", "major", "2.0.0+46"},
		{"minor", "minor", "1.3.0+46"},
		{"patch", "patch", "1.2.4+46"},
		{"build", "build", "1.2.3+46"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBumpTarget(current, []string{tt.arg})
			if err != nil {
				t.Fatalf("resolveBumpTarget(%q) error: %v", tt.arg, err)
			}
			if got.String() != tt.want {
				t.Errorf("resolveBumpTarget(%q) = %s, want %s", tt.arg, got, tt.want)
			}
		})
	}
}

func TestResolveBumpTarget_InvalidKind(t *testing.T) {
	setupTestConfig(t)

	_, err := resolveBumpTarget(version.MustParse("1.0.0+1"), []string{"huge"})
	if err == nil {
		t.Fatal("expected an error for an unknown bump kind")
	}
}

func TestResolveBumpTarget_NoKindNoSet(t *testing.T) {
	setupTestConfig(t)

	_, err := resolveBumpTarget(version.MustParse("1.0.0+1"), nil)
	if err == nil {
		t.Fatal("expected an error when neither a kind nor --set is given")
	}
}

func TestResolveBumpTarget_KindAndSetConflict(t *testing.T) {
	setupTestConfig(t)
	bumpSet = "2.0.0+1"

	_, err := resolveBumpTarget(version.MustParse("1.0.0+1"), []string{"minor"})
	if err == nil {
		t.Fatal("expected an error when both a kind and --set are given")
	}
}

func TestResolveBumpTarget_SetForward(t *testing.T) {
	setupTestConfig(t)
	bumpSet = "2.5.0+100"

	got, err := resolveBumpTarget(version.MustParse("1.0.0+1"), nil)
	if err != nil {
		t.Fatalf("resolveBumpTarget with --set error: %v", err)
	}
	if got.String() != "2.5.0+100" {
		t.Errorf("resolveBumpTarget = %s, want 2.5.0+100", got)
	}
}

func TestResolveBumpTarget_SetInvalidFormat(t *testing.T) {
	setupTestConfig(t)
	bumpSet = "not-a-version"

	_, err := resolveBumpTarget(version.MustParse("1.0.0+1"), nil)
	if err == nil {
		t.Fatal("expected an error for an unparseable --set value")
	}
	if !strings.Contains(err.Error(), "invalid --set version") {
		t.Errorf("error %q should name the --set flag", err)
	}
}

func TestResolveBumpTarget_SetBackwardConfirmed(t *testing.T) {
	setupTestConfig(t)
	bumpSet = "0.9.0+1"
	assumeYes = true

	got, err := resolveBumpTarget(version.MustParse("1.0.0+5"), nil)
	if err != nil {
		t.Fatalf("confirmed backward move should succeed, got: %v", err)
	}
	if got.String() != "0.9.0+1" {
		t.Errorf("resolveBumpTarget = %s, want 0.9.0+1", got)
	}
}

func TestResolveBumpTarget_SetBackwardDeclined(t *testing.T) {
	setupTestConfig(t)
	bumpSet = "0.9.0+1"
	cfg.Output.NonInteractive = true

	_, err := resolveBumpTarget(version.MustParse("1.0.0+5"), nil)
	if err == nil {
		t.Fatal("declined backward move should return an error")
	}
	if !strings.Contains(err.Error(), "declined") {
		t.Errorf("error %q should say the change was declined", err)
	}
}

func TestGuardDirtyTree_DisabledByConfig(t *testing.T) {
	setupTestConfig(t)
	cfg.Git.RequireClean = false

	if err := guardDirtyTree(context.Background(), "Continue?"); err != nil {
		t.Fatalf("guard should be a no-op when require_clean is off: %v", err)
	}
}

func TestGuardDirtyTree_NoRepository(t *testing.T) {
	setupTestConfig(t)
	chdirTemp(t)
	cfg.Git.RequireClean = true

	if err := guardDirtyTree(context.Background(), "Continue?"); err != nil {
		t.Fatalf("guard should be a no-op outside a repository: %v", err)
	}
}

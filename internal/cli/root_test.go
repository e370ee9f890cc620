package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/halyard-dev/halyard/internal/ui"
)

func TestRootCommand_SilenceUsage(t *testing.T) {
	if !rootCmd.SilenceUsage {
		t.Error("rootCmd.SilenceUsage should be true")
	}
}

func TestRootCommand_SilenceErrors(t *testing.T) {
	if !rootCmd.SilenceErrors {
		t.Error("rootCmd.SilenceErrors should be true")
	}
}

func TestRootCommand_PersistentPreRunE(t *testing.T) {
	if rootCmd.PersistentPreRunE == nil {
		t.Error("rootCmd.PersistentPreRunE should not be nil")
	}
}

func TestCommandUse(t *testing.T) {
	tests := []struct {
		name string
		use  string
		want string
	}{
		{"init", initCmd.Use, "init"},
		{"bump", bumpCmd.Use, "bump [major|minor|patch|build]"},
		{"changelog", changelogCmd.Use, "changelog"},
		{"check", checkCmd.Use, "check"},
		{"release", releaseCmd.Use, "release"},
		{"status", statusCmd.Use, "status"},
		{"version", versionCmd.Use, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.use != tt.want {
				t.Errorf("Use = %q, want %q", tt.use, tt.want)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"init": true, "bump": true, "changelog": true,
		"check": true, "release": true, "status": true, "version": true,
	}
	for _, cmd := range rootCmd.Commands() {
		delete(want, cmd.Name())
	}
	for name := range want {
		t.Errorf("command %q is not registered on rootCmd", name)
	}
}

func TestExecute_HelpCommandSucceeds(t *testing.T) {
	rootCmd.SetArgs([]string{"help"})
	defer rootCmd.SetArgs(nil)
	if err := Execute(); err != nil {
		t.Fatalf("root Execute failed: %v", err)
	}
}

func TestExecuteContext_HelpCommandSucceeds(t *testing.T) {
	rootCmd.SetArgs([]string{"help"})
	defer rootCmd.SetArgs(nil)
	if err := ExecuteContext(context.Background()); err != nil {
		t.Fatalf("root ExecuteContext failed: %v", err)
	}
}

func TestSetVersionInfo_Function(t *testing.T) {
	origVersion := versionInfo.Version
	origCommit := versionInfo.Commit
	origDate := versionInfo.Date
	defer func() {
		versionInfo.Version = origVersion
		versionInfo.Commit = origCommit
		versionInfo.Date = origDate
	}()

	SetVersionInfo("test-version", "test-commit", "test-date")

	if versionInfo.Version != "test-version" {
		t.Errorf("Version = %v, want test-version", versionInfo.Version)
	}
	if versionInfo.Commit != "test-commit" {
		t.Errorf("Commit = %v, want test-commit", versionInfo.Commit)
	}
	if versionInfo.Date != "test-date" {
		t.Errorf("Date = %v, want test-date", versionInfo.Date)
	}
}

func TestConfirmer_AssumeYes(t *testing.T) {
	setupTestConfig(t)
	assumeYes = true

	static, ok := confirmer().(ui.StaticConfirmer)
	if !ok {
		t.Fatalf("confirmer() = %T, want ui.StaticConfirmer", confirmer())
	}
	if !static.Answer {
		t.Error("assume-yes confirmer should answer true")
	}
}

func TestConfirmer_JSONOutputDeclines(t *testing.T) {
	setupTestConfig(t)
	outputJSON = true

	static, ok := confirmer().(ui.StaticConfirmer)
	if !ok {
		t.Fatalf("confirmer() = %T, want ui.StaticConfirmer", confirmer())
	}
	if static.Answer {
		t.Error("JSON-mode confirmer should answer false")
	}
}

func TestConfirmer_NonInteractiveDeclines(t *testing.T) {
	setupTestConfig(t)
	cfg.Output.NonInteractive = true

	static, ok := confirmer().(ui.StaticConfirmer)
	if !ok {
		t.Fatalf("confirmer() = %T, want ui.StaticConfirmer", confirmer())
	}
	if static.Answer {
		t.Error("non-interactive confirmer should answer false")
	}
}

func TestConfirmer_InteractiveByDefault(t *testing.T) {
	setupTestConfig(t)

	if _, ok := confirmer().(ui.InteractiveConfirmer); !ok {
		t.Errorf("confirmer() = %T, want ui.InteractiveConfirmer", confirmer())
	}
}

func TestConfirmer_AssumeYesBeatsNonInteractive(t *testing.T) {
	setupTestConfig(t)
	assumeYes = true
	cfg.Output.NonInteractive = true

	static, ok := confirmer().(ui.StaticConfirmer)
	if !ok {
		t.Fatalf("confirmer() = %T, want ui.StaticConfirmer", confirmer())
	}
	if !static.Answer {
		t.Error("--yes should win over non-interactive mode")
	}
}

func TestApplyGlobalFlags_Verbose(t *testing.T) {
	setupTestConfig(t)
	verbose = true

	applyGlobalFlags()

	if !cfg.Output.Verbose {
		t.Error("verbose flag should enable cfg.Output.Verbose")
	}
}

func TestApplyGlobalFlags_NonInteractive(t *testing.T) {
	setupTestConfig(t)
	nonInteractive = true

	applyGlobalFlags()

	if !cfg.Output.NonInteractive {
		t.Error("non-interactive flag should set cfg.Output.NonInteractive")
	}
}

func TestToolchainConfig_CarriesCredentials(t *testing.T) {
	setupTestConfig(t)
	cfg.IOS.APIKeyID = "KEYID"
	cfg.IOS.APIIssuerID = "ISSUER"
	cfg.Android.ServiceAccountJSON = "/tmp/account.json"
	cfg.Android.PackageName = "com.example.app"
	cfg.Release.UploadRetries = 5

	tc := toolchainConfig()

	if tc.IOSAPIKeyID != "KEYID" || tc.IOSAPIIssuerID != "ISSUER" {
		t.Errorf("iOS credentials not carried: %q %q", tc.IOSAPIKeyID, tc.IOSAPIIssuerID)
	}
	if tc.AndroidServiceAccountJSON != "/tmp/account.json" {
		t.Errorf("AndroidServiceAccountJSON = %q", tc.AndroidServiceAccountJSON)
	}
	if tc.AndroidPackageName != "com.example.app" {
		t.Errorf("AndroidPackageName = %q", tc.AndroidPackageName)
	}
	if tc.UploadAttempts != 5 {
		t.Errorf("UploadAttempts = %d, want 5", tc.UploadAttempts)
	}
}

func TestToolchainConfig_ZeroRetriesKeepsDefault(t *testing.T) {
	setupTestConfig(t)
	cfg.Release.UploadRetries = 0

	tc := toolchainConfig()

	if tc.UploadAttempts < 1 {
		t.Errorf("UploadAttempts = %d, want the default", tc.UploadAttempts)
	}
}

func TestRootLong_MentionsInit(t *testing.T) {
	if !strings.Contains(rootCmd.Long, "halyard init") {
		t.Error("root help should point newcomers at 'halyard init'")
	}
}

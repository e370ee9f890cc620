// Package toolchain runs the external tools a release needs: flutter
// builds, store uploads, review submission, and static analysis. Every
// collaborator shells out through a CommandRunner so tests can fake the
// whole toolchain.
package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, command string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by shelling out.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, command string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return stdoutBuf.String(), stderrBuf.String(), -1, fmt.Errorf("exec: %w", err)
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, nil
}

// lookPathFunc matches exec.LookPath, swapped out in tests.
type lookPathFunc func(string) (string, error)

// Config carries the project facts and credentials the exec-backed
// collaborators compose their commands from. The CLI resolves it from
// configuration once per run.
type Config struct {
	// ProjectRoot is the Flutter project directory commands run in.
	ProjectRoot string
	// FlutterBin is the flutter executable name or path.
	FlutterBin string
	// XcrunBin is the xcrun executable used for App Store uploads.
	XcrunBin string
	// FastlaneBin is the fastlane executable used for Play uploads and
	// review submission.
	FastlaneBin string

	// IOSAPIKeyID and IOSAPIIssuerID are App Store Connect API key
	// credentials passed to altool.
	IOSAPIKeyID    string
	IOSAPIIssuerID string

	// AndroidServiceAccountJSON is the Play service account key path.
	AndroidServiceAccountJSON string
	// AndroidPackageName is the Play application id.
	AndroidPackageName string

	// UploadAttempts caps store upload attempts. 1 disables retry.
	UploadAttempts int
	// UploadRetryDelay is the initial backoff between upload attempts.
	UploadRetryDelay time.Duration
}

// DefaultConfig returns the default toolchain configuration.
func DefaultConfig() Config {
	return Config{
		ProjectRoot:      ".",
		FlutterBin:       "flutter",
		XcrunBin:         "xcrun",
		FastlaneBin:      "fastlane",
		UploadAttempts:   3,
		UploadRetryDelay: 2 * time.Second,
	}
}

// shellQuote wraps a variable argument in single quotes for sh -c
// composition. Fixed command words stay unquoted.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// commandFailure summarizes a failed command for a track reason. Stderr
// wins over stdout; long output is cut to its last lines.
func commandFailure(exitCode int, stdout, stderr string) string {
	out := strings.TrimSpace(stderr)
	if out == "" {
		out = strings.TrimSpace(stdout)
	}
	if out == "" {
		return fmt.Sprintf("exit code %d", exitCode)
	}
	return fmt.Sprintf("exit code %d: %s", exitCode, lastLines(out, 5))
}

// lastLines returns the final n non-empty lines of s, joined by "; ".
func lastLines(s string, n int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}

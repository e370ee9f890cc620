package toolchain

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/halyard-dev/halyard/internal/domain/release"
	"github.com/halyard-dev/halyard/internal/domain/version"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// Ensure Submitter implements the pipeline contract.
var _ release.ReviewSubmitter = (*Submitter)(nil)

// Submitter submits uploaded builds for store review through fastlane:
// deliver for App Store review, supply track promotion for Google Play.
type Submitter struct {
	runner   CommandRunner
	cfg      Config
	lookPath lookPathFunc
}

// NewSubmitter creates a review submitter.
func NewSubmitter(runner CommandRunner, cfg Config) *Submitter {
	return &Submitter{
		runner:   runner,
		cfg:      cfg,
		lookPath: exec.LookPath,
	}
}

// Available reports whether fastlane is installed. Missing tooling
// leaves the submission on the manual follow-up list.
func (s *Submitter) Available(release.Platform) bool {
	_, err := s.lookPath(s.cfg.FastlaneBin)
	return err == nil
}

// Submit submits the uploaded build for review on the given channel.
func (s *Submitter) Submit(ctx context.Context, platform release.Platform, ver version.AppVersion, channel release.Channel) error {
	const op = "toolchain.Submit"

	var command string
	switch platform {
	case release.PlatformIOS:
		// The binary went up through altool already.
		command = fmt.Sprintf("%s deliver --submit_for_review --app_version %s --skip_binary_upload --force",
			s.cfg.FastlaneBin, ver.ReleaseString())
	case release.PlatformAndroid:
		command = fmt.Sprintf("%s supply --package_name %s --json_key %s --track %s --skip_upload_aab",
			s.cfg.FastlaneBin, shellQuote(s.cfg.AndroidPackageName),
			shellQuote(s.cfg.AndroidServiceAccountJSON), channel.String())
	default:
		return hlerrors.Internal(op, fmt.Sprintf("unknown platform: %s", platform))
	}

	stdout, stderr, exitCode, err := s.runner.Run(ctx, s.cfg.ProjectRoot, command)
	if err != nil {
		return hlerrors.CollaboratorWrap(err, op, fmt.Sprintf("%s review submission did not run", platform.DisplayName()))
	}
	if exitCode != 0 {
		return hlerrors.Track(op,
			fmt.Sprintf("%s review submission failed: %s", platform.DisplayName(), commandFailure(exitCode, stdout, stderr)))
	}
	return nil
}

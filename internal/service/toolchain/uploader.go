package toolchain

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/halyard-dev/halyard/internal/domain/release"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// Ensure Uploader implements the pipeline contract.
var _ release.StoreUploader = (*Uploader)(nil)

// Uploader pushes built artifacts to the stores: altool for App Store
// Connect, fastlane supply for Google Play.
type Uploader struct {
	runner   CommandRunner
	cfg      Config
	lookPath lookPathFunc
	retrier  retry.Retry[string]
}

// NewUploader creates a store uploader.
func NewUploader(runner CommandRunner, cfg Config) *Uploader {
	return &Uploader{
		runner:   runner,
		cfg:      cfg,
		lookPath: exec.LookPath,
		retrier:  newUploadRetrier(cfg.UploadAttempts, cfg.UploadRetryDelay),
	}
}

// Available reports whether the upload tooling for the platform is
// installed. Missing tooling degrades the track to a manual upload.
func (u *Uploader) Available(platform release.Platform) bool {
	switch platform {
	case release.PlatformIOS:
		_, err := u.lookPath(u.cfg.XcrunBin)
		return err == nil
	case release.PlatformAndroid:
		_, err := u.lookPath(u.cfg.FastlaneBin)
		return err == nil
	default:
		return false
	}
}

// Upload uploads the artifact to the platform's store, retrying
// transient failures with exponential backoff.
func (u *Uploader) Upload(ctx context.Context, platform release.Platform, artifact string) error {
	const op = "toolchain.Upload"

	command, err := u.uploadCommand(platform, artifact)
	if err != nil {
		return err
	}

	_, err = u.retrier.Do(ctx, func(ctx context.Context) (string, error) {
		stdout, stderr, exitCode, runErr := u.runner.Run(ctx, u.cfg.ProjectRoot, command)
		if runErr != nil {
			return "", runErr
		}
		if exitCode != 0 {
			return "", fmt.Errorf("%s", commandFailure(exitCode, stdout, stderr))
		}
		return stdout, nil
	})
	if err != nil {
		return hlerrors.TrackWrap(err, op, fmt.Sprintf("upload to %s failed", platform.StoreName()))
	}
	return nil
}

// uploadCommand composes the store upload command for the platform.
func (u *Uploader) uploadCommand(platform release.Platform, artifact string) (string, error) {
	const op = "toolchain.Upload"

	switch platform {
	case release.PlatformIOS:
		return fmt.Sprintf("%s altool --upload-app --type ios -f %s --apiKey %s --apiIssuer %s",
			u.cfg.XcrunBin, shellQuote(artifact),
			shellQuote(u.cfg.IOSAPIKeyID), shellQuote(u.cfg.IOSAPIIssuerID)), nil
	case release.PlatformAndroid:
		// Uploads land as an internal draft; promotion to the release
		// channel is the submitter's job.
		return fmt.Sprintf("%s supply --aab %s --json_key %s --package_name %s --track internal --release_status draft",
			u.cfg.FastlaneBin, shellQuote(artifact),
			shellQuote(u.cfg.AndroidServiceAccountJSON), shellQuote(u.cfg.AndroidPackageName)), nil
	default:
		return "", hlerrors.Internal(op, fmt.Sprintf("unknown platform: %s", platform))
	}
}

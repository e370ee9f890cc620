package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/halyard-dev/halyard/internal/domain/release"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// Ensure Builder implements the pipeline contract.
var _ release.ArtifactBuilder = (*Builder)(nil)

// Builder produces platform artifacts with flutter build.
type Builder struct {
	runner CommandRunner
	cfg    Config
}

// NewBuilder creates an artifact builder.
func NewBuilder(runner CommandRunner, cfg Config) *Builder {
	return &Builder{runner: runner, cfg: cfg}
}

// Build runs flutter build for the platform and returns the artifact path.
func (b *Builder) Build(ctx context.Context, platform release.Platform) (string, error) {
	const op = "toolchain.Build"

	var target string
	switch platform {
	case release.PlatformIOS:
		target = "ipa"
	case release.PlatformAndroid:
		target = "appbundle"
	default:
		return "", hlerrors.Internal(op, fmt.Sprintf("unknown platform: %s", platform))
	}

	command := fmt.Sprintf("%s build %s --release", b.cfg.FlutterBin, target)
	stdout, stderr, exitCode, err := b.runner.Run(ctx, b.cfg.ProjectRoot, command)
	if err != nil {
		return "", hlerrors.CollaboratorWrap(err, op, fmt.Sprintf("flutter build %s did not run", target))
	}
	if exitCode != 0 {
		return "", hlerrors.Track(op,
			fmt.Sprintf("flutter build %s failed: %s", target, commandFailure(exitCode, stdout, stderr)))
	}

	artifact, err := b.locateArtifact(platform)
	if err != nil {
		return "", err
	}
	return artifact, nil
}

// locateArtifact finds the produced artifact under the build directory.
// flutter names the ipa after the app, so the ipa directory is globbed.
func (b *Builder) locateArtifact(platform release.Platform) (string, error) {
	const op = "toolchain.locateArtifact"

	switch platform {
	case release.PlatformIOS:
		pattern := filepath.Join(b.cfg.ProjectRoot, "build", "ios", "ipa", "*.ipa")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", hlerrors.IOWrap(err, op, "failed to scan ipa output directory")
		}
		if len(matches) == 0 {
			return "", hlerrors.Track(op, fmt.Sprintf("build reported success but no ipa found under %s", filepath.Dir(pattern)))
		}
		sort.Strings(matches)
		return matches[0], nil
	case release.PlatformAndroid:
		path := filepath.Join(b.cfg.ProjectRoot, "build", "app", "outputs", "bundle", "release", "app-release.aab")
		if _, err := os.Stat(path); err != nil {
			return "", hlerrors.Track(op, fmt.Sprintf("build reported success but no bundle at %s", path))
		}
		return path, nil
	default:
		return "", hlerrors.Internal(op, fmt.Sprintf("unknown platform: %s", platform))
	}
}

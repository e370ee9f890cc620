package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/domain/changelog"
	"github.com/halyard-dev/halyard/internal/domain/release"
	"github.com/halyard-dev/halyard/internal/domain/version"
	"github.com/halyard-dev/halyard/internal/service/git"
	"github.com/halyard-dev/halyard/internal/service/project"
	"github.com/halyard-dev/halyard/internal/service/toolchain"
	"github.com/halyard-dev/halyard/internal/ui"
)

// Release command flags
var (
	releaseBumpKind    string
	releaseSetVersion  string
	releaseChannel     string
	releaseSkipIOS     bool
	releaseSkipAndroid bool
	releaseSubmit      bool
	releaseNoCommit    bool
	releaseNoTag       bool
	releaseNoPush      bool
)

func init() {
	releaseCmd.Flags().StringVar(&releaseBumpKind, "bump", "", "bump this version component before releasing (major, minor, patch, build)")
	releaseCmd.Flags().StringVar(&releaseSetVersion, "set", "", "release this exact version instead of the pubspec one")
	releaseCmd.Flags().StringVar(&releaseChannel, "channel", "", "distribution channel (internal, beta, production)")
	releaseCmd.Flags().BoolVar(&releaseSkipIOS, "skip-ios", false, "skip the iOS track")
	releaseCmd.Flags().BoolVar(&releaseSkipAndroid, "skip-android", false, "skip the Android track")
	releaseCmd.Flags().BoolVar(&releaseSubmit, "submit", false, "submit uploaded builds for store review")
	releaseCmd.Flags().BoolVar(&releaseNoCommit, "no-commit", false, "do not commit the release changes")
	releaseCmd.Flags().BoolVar(&releaseNoTag, "no-tag", false, "do not tag the release")
	releaseCmd.Flags().BoolVar(&releaseNoPush, "no-push", false, "do not push the branch or tag")
}

// runRelease drives the full release: version, changelog, checks, git
// record, and the platform store tracks.
func runRelease(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectSvc, err := newProjectService()
	if err != nil {
		return err
	}

	current, err := projectSvc.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	next, bumping, err := resolveReleaseVersion(current)
	if err != nil {
		return err
	}

	channel, err := resolveChannel()
	if err != nil {
		return err
	}

	// Git is optional: without a repository the release skips changelog
	// synthesis and every git side effect but still runs the tracks.
	gitSvc, gitErr := newGitService()
	if gitErr != nil {
		logger.Debug("git unavailable", "reason", gitErr)
		gitSvc = nil
	}

	if err := guardDirtyTree(ctx, "Release anyway?"); err != nil {
		return err
	}

	gateReport := buildGate(confirmer()).Run(ctx)
	if !outputJSON {
		printTitle("Pre-release Checks")
		fmt.Println()
		renderGateReport(gateReport)
		fmt.Println()
	}
	if !gateReport.Passed {
		if outputJSON {
			if err := writeJSON(map[string]any{"gate": gateReport}); err != nil {
				return err
			}
		}
		return fmt.Errorf("release blocked: %d of %d checks failed",
			len(gateReport.Failures()), len(gateReport.Results))
	}

	if dryRun {
		return announceRelease(ctx, projectSvc, gitSvc, current, next, bumping, channel)
	}

	changedPaths, err := applyReleaseChanges(ctx, projectSvc, gitSvc, next, bumping)
	if err != nil {
		return err
	}

	tagName := next.TagString()
	tagged, pushed, err := recordRelease(ctx, gitSvc, next, tagName, changedPaths)
	if err != nil {
		return err
	}

	report, err := runTracks(ctx, release.RunInput{
		Version: next,
		Channel: channel,
		Tracks:  trackSpecs(),
		Tag:     tagName,
		Tagged:  tagged,
		Pushed:  pushed,
	})
	if err != nil {
		return err
	}

	if outputJSON {
		if err := writeJSON(map[string]any{
			"gate":    gateReport,
			"release": report,
		}); err != nil {
			return err
		}
	} else {
		renderReleaseReport(report)
	}

	if report.Failed() {
		return fmt.Errorf("release finished with failed tracks")
	}
	return nil
}

// resolveReleaseVersion picks the version to release. Without --bump or
// --set the current pubspec version is released as-is.
func resolveReleaseVersion(current version.AppVersion) (version.AppVersion, bool, error) {
	switch {
	case releaseBumpKind != "" && releaseSetVersion != "":
		return version.AppVersion{}, false, fmt.Errorf("pass --bump or --set, not both")

	case releaseBumpKind != "":
		bumpType, err := version.ParseBumpType(releaseBumpKind)
		if err != nil {
			return version.AppVersion{}, false, err
		}
		return current.Bump(bumpType), true, nil

	case releaseSetVersion != "":
		next, err := version.Parse(releaseSetVersion)
		if err != nil {
			return version.AppVersion{}, false, fmt.Errorf("invalid --set version: %w", err)
		}
		if next.LessThan(current) {
			prompt := fmt.Sprintf("Version %s is behind the current %s. Move backwards?", next, current)
			if !confirmer().Confirm(prompt) {
				return version.AppVersion{}, false, fmt.Errorf("version change declined")
			}
		}
		return next, !next.Equal(current), nil

	default:
		return current, false, nil
	}
}

// resolveChannel picks the distribution channel from the flag or config.
func resolveChannel() (release.Channel, error) {
	name := cfg.Release.Channel
	if releaseChannel != "" {
		name = releaseChannel
	}
	return release.ParseChannel(name)
}

// applyReleaseChanges writes the version and merges the changelog entry,
// returning the paths that changed. A changelog that cannot take the
// entry is reported and skipped; it never blocks the version update.
func applyReleaseChanges(ctx context.Context, projectSvc project.Service, gitSvc git.Service, next version.AppVersion, bumping bool) ([]string, error) {
	var changedPaths []string

	if bumping {
		if err := projectSvc.WriteVersion(ctx, next); err != nil {
			return nil, err
		}
		changedPaths = append(changedPaths, projectSvc.PubspecPath())
		if !outputJSON {
			printSuccess(fmt.Sprintf("Version set to %s", next))
		}
	}

	if gitSvc == nil {
		return changedPaths, nil
	}

	entry, _, _, err := buildChangelogEntry(ctx, gitSvc, next)
	if err != nil {
		printWarning(fmt.Sprintf("Changelog synthesis failed: %v", err))
		return changedPaths, nil
	}
	if entry.IsEmpty() {
		logger.Debug("no commits classified; changelog untouched")
		return changedPaths, nil
	}

	document, err := projectSvc.ReadChangelog(ctx)
	if err != nil {
		printWarning(fmt.Sprintf("Changelog unreadable: %v", err))
		return changedPaths, nil
	}
	if changelog.ContainsVersion(document, next) {
		logger.Debug("changelog already carries this version", "version", next.ReleaseString())
		return changedPaths, nil
	}

	if err := projectSvc.MergeEntry(ctx, entry); err != nil {
		printWarning(fmt.Sprintf("Changelog merge skipped: %v", err))
		return changedPaths, nil
	}
	changedPaths = append(changedPaths, projectSvc.ChangelogPath())
	if !outputJSON {
		printSuccess(fmt.Sprintf("Merged %d changelog entries for %s", entry.Buckets().Total(), next.ReleaseString()))
	}
	return changedPaths, nil
}

// recordRelease commits, tags, and pushes per configuration. A commit
// failure aborts; tag and push failures degrade to follow-up steps.
func recordRelease(ctx context.Context, gitSvc git.Service, next version.AppVersion, tagName string, changedPaths []string) (tagged, pushed bool, err error) {
	if gitSvc == nil {
		return false, false, nil
	}

	if cfg.Git.Commit && !releaseNoCommit && len(changedPaths) > 0 {
		relPaths, err := repoRelative(ctx, gitSvc, changedPaths)
		if err != nil {
			return false, false, err
		}
		message := strings.ReplaceAll(cfg.Git.CommitMessage, "${version}", next.String())
		commit, err := gitSvc.CommitFiles(ctx, relPaths, message)
		if err != nil {
			return false, false, fmt.Errorf("failed to commit release changes: %w", err)
		}
		if !outputJSON {
			printSuccess(fmt.Sprintf("Committed %s (%s)", strings.Join(relPaths, ", "), commit.ShortHash))
		}
	}

	if cfg.Git.Tag && !releaseNoTag {
		if err := gitSvc.CreateTag(ctx, tagName, "Release "+next.ReleaseString()); err != nil {
			printWarning(fmt.Sprintf("Tag not created: %v", err))
		} else {
			tagged = true
			if !outputJSON {
				printSuccess("Tagged " + tagName)
			}
		}
	}

	if cfg.Git.Push && !releaseNoPush {
		opts := git.PushOptions{Remote: cfg.Git.Remote}
		if err := gitSvc.Push(ctx, opts); err != nil {
			printWarning(fmt.Sprintf("Branch not pushed: %v", err))
		} else if tagged {
			if err := gitSvc.PushTag(ctx, tagName, opts); err != nil {
				printWarning(fmt.Sprintf("Tag not pushed: %v", err))
			} else {
				pushed = true
				if !outputJSON {
					printSuccess(fmt.Sprintf("Pushed %s to %s", tagName, cfg.Git.Remote))
				}
			}
		}
	}

	return tagged, pushed, nil
}

// trackSpecs resolves config and flags into the iOS and Android track
// specifications, in pipeline order.
func trackSpecs() []release.TrackSpec {
	return []release.TrackSpec{
		{
			Platform:           release.PlatformIOS,
			Skip:               cfg.IOS.Skip || releaseSkipIOS,
			Submit:             cfg.IOS.Submit || releaseSubmit,
			HasCredentials:     cfg.IOS.HasCredentials(),
			MissingCredentials: cfg.IOS.MissingCredentials(),
		},
		{
			Platform:           release.PlatformAndroid,
			Skip:               cfg.Android.Skip || releaseSkipAndroid,
			Submit:             cfg.Android.Submit || releaseSubmit,
			HasCredentials:     cfg.Android.HasCredentials(),
			MissingCredentials: cfg.Android.MissingCredentials(),
		},
	}
}

// runTracks executes the release pipeline, behind a spinner when the
// terminal is interactive.
func runTracks(ctx context.Context, input release.RunInput) (*release.Report, error) {
	runner := &toolchain.ExecRunner{}
	tc := toolchainConfig()
	pipeline, err := release.NewPipeline(
		toolchain.NewBuilder(runner, tc),
		toolchain.NewUploader(runner, tc),
		toolchain.NewSubmitter(runner, tc),
	)
	if err != nil {
		return nil, err
	}

	var report *release.Report
	work := func() error {
		var runErr error
		report, runErr = pipeline.Run(ctx, input)
		return runErr
	}

	if outputJSON {
		err = work()
	} else {
		err = ui.RunWithSpinner("Running release tracks", work)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// repoRelative rewrites paths relative to the repository root, the form
// CommitFiles expects.
func repoRelative(ctx context.Context, gitSvc git.Service, paths []string) ([]string, error) {
	root, err := gitSvc.GetRepositoryRoot(ctx)
	if err != nil {
		return nil, err
	}

	relPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			return nil, err
		}
		relPaths = append(relPaths, filepath.ToSlash(rel))
	}
	return relPaths, nil
}

// announceRelease prints what a real run would do and stops.
func announceRelease(ctx context.Context, projectSvc project.Service, gitSvc git.Service, current, next version.AppVersion, bumping bool, channel release.Channel) error {
	printWarning("Dry run - no changes will be made")

	if bumping {
		printInfo(fmt.Sprintf("Would update %s from %s to %s", projectSvc.PubspecPath(), current, next))
	}

	if gitSvc != nil {
		if entry, _, _, err := buildChangelogEntry(ctx, gitSvc, next); err == nil && !entry.IsEmpty() {
			document, readErr := projectSvc.ReadChangelog(ctx)
			if readErr == nil && !changelog.ContainsVersion(document, next) {
				printInfo(fmt.Sprintf("Would merge %d changelog entries for %s", entry.Buckets().Total(), next.ReleaseString()))
			}
		}
		if cfg.Git.Commit && !releaseNoCommit {
			message := strings.ReplaceAll(cfg.Git.CommitMessage, "${version}", next.String())
			printInfo(fmt.Sprintf("Would commit the release changes as %q", message))
		}
		if cfg.Git.Tag && !releaseNoTag {
			printInfo("Would tag " + next.TagString())
		}
		if cfg.Git.Push && !releaseNoPush {
			printInfo("Would push to " + cfg.Git.Remote)
		}
	}

	for _, spec := range trackSpecs() {
		if spec.Skip {
			printInfo(fmt.Sprintf("Would skip the %s track", spec.Platform.DisplayName()))
			continue
		}
		action := "build and upload"
		if spec.Submit {
			action = "build, upload, and submit"
		}
		printInfo(fmt.Sprintf("Would %s the %s release on the %s channel", action, spec.Platform.DisplayName(), channel))
	}
	return nil
}

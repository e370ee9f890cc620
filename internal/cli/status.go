package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/domain/changelog"
	"github.com/halyard-dev/halyard/internal/service/git"
	"github.com/halyard-dev/halyard/internal/service/project"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the project's release state",
	Long: `Display the project's release state.

This command shows:
  - Project name and current pubspec version
  - Whether the changelog already carries the current version
  - Git branch, working tree state, and commits since the last version tag
  - Per-platform track readiness (skip, submit, credentials)

Examples:
  # Check the project state
  halyard status

  # Output as JSON
  halyard status --json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput represents the status command output.
type StatusOutput struct {
	Project             *project.Info `json:"project"`
	ChangelogHasVersion bool          `json:"changelog_has_version"`
	Git                 *GitStatus    `json:"git,omitempty"`
	Channel             string        `json:"channel"`
	Tracks              []TrackStatus `json:"tracks"`
}

// GitStatus is the repository slice of the status output. It is nil
// outside a git repository.
type GitStatus struct {
	Branch          string         `json:"branch,omitempty"`
	Head            string         `json:"head,omitempty"`
	Clean           bool           `json:"clean"`
	LatestTag       string         `json:"latest_tag,omitempty"`
	CommitsSinceTag int            `json:"commits_since_tag"`
	Pending         *ChangePreview `json:"pending,omitempty"`
}

// ChangePreview counts how the commits since the last tag would
// classify into changelog sections.
type ChangePreview struct {
	Added     int `json:"added"`
	Changed   int `json:"changed"`
	Fixed     int `json:"fixed"`
	Discarded int `json:"discarded"`
}

// TrackStatus is the per-platform readiness slice of the status output.
type TrackStatus struct {
	Platform           string   `json:"platform"`
	Skip               bool     `json:"skip"`
	Submit             bool     `json:"submit"`
	HasCredentials     bool     `json:"has_credentials"`
	MissingCredentials []string `json:"missing_credentials,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectSvc, err := newProjectService()
	if err != nil {
		return err
	}

	info, err := projectSvc.Info(ctx)
	if err != nil {
		return err
	}

	output := &StatusOutput{
		Project: info,
		Channel: cfg.Release.Channel,
	}

	if document, readErr := projectSvc.ReadChangelog(ctx); readErr == nil {
		output.ChangelogHasVersion = changelog.ContainsVersion(document, info.Version)
	}

	output.Git = collectGitStatus(ctx)

	for _, spec := range trackSpecs() {
		output.Tracks = append(output.Tracks, TrackStatus{
			Platform:           spec.Platform.String(),
			Skip:               spec.Skip,
			Submit:             spec.Submit,
			HasCredentials:     spec.HasCredentials,
			MissingCredentials: spec.MissingCredentials,
		})
	}

	if outputJSON {
		return writeJSON(output)
	}
	return outputStatusText(output)
}

// collectGitStatus gathers repository facts. Every failure is tolerated
// so status keeps working in a project that is not a repository yet.
func collectGitStatus(ctx context.Context) *GitStatus {
	gitSvc, err := newGitService()
	if err != nil {
		logger.Debug("git unavailable", "reason", err)
		return nil
	}

	status := &GitStatus{}
	if branch, err := gitSvc.GetCurrentBranch(ctx); err == nil {
		status.Branch = branch
	}
	if head, err := gitSvc.GetHeadCommit(ctx); err == nil {
		status.Head = head.ShortHash
	}
	if clean, err := gitSvc.IsClean(ctx); err == nil {
		status.Clean = clean
	}

	sinceTag := ""
	if tag, err := gitSvc.GetLatestVersionTag(ctx); err == nil {
		status.LatestTag = tag.Name
		sinceTag = tag.Name
	}
	if commits, err := gitSvc.CommitsSinceTag(ctx, sinceTag); err == nil {
		status.CommitsSinceTag = len(commits)
		if len(commits) > 0 {
			status.Pending = previewChanges(commits)
		}
	}
	return status
}

// previewChanges classifies commit subjects the way the changelog
// command would, reduced to per-section counts.
func previewChanges(commits []git.Commit) *ChangePreview {
	classifier := changelog.NewClassifier()
	preview := &ChangePreview{}
	for _, commit := range commits {
		bucket, _, ok := classifier.Classify(commit.Subject)
		if !ok {
			preview.Discarded++
			continue
		}
		switch bucket {
		case changelog.BucketAdded:
			preview.Added++
		case changelog.BucketChanged:
			preview.Changed++
		case changelog.BucketFixed:
			preview.Fixed++
		}
	}
	return preview
}

func outputStatusText(output *StatusOutput) error {
	printTitle("Project Status")
	fmt.Println()

	fmt.Printf("  Name:      %s\n", output.Project.Name)
	fmt.Printf("  Version:   %s\n", output.Project.Version)
	fmt.Printf("  Channel:   %s\n", output.Channel)
	fmt.Printf("  Pubspec:   %s\n", output.Project.PubspecPath)
	if output.Project.HasChangelog {
		note := "no entry for this version yet"
		if output.ChangelogHasVersion {
			note = "has an entry for this version"
		}
		fmt.Printf("  Changelog: %s (%s)\n", output.Project.ChangelogPath, note)
	} else {
		fmt.Printf("  Changelog: %s (missing)\n", output.Project.ChangelogPath)
	}
	fmt.Println()

	if output.Git != nil {
		fmt.Println("Repository:")
		fmt.Printf("  Branch:  %s\n", output.Git.Branch)
		fmt.Printf("  Head:    %s\n", output.Git.Head)
		if output.Git.Clean {
			fmt.Printf("  Tree:    %s\n", styles.Success.Render("clean"))
		} else {
			fmt.Printf("  Tree:    %s\n", styles.Warning.Render("dirty"))
		}
		if output.Git.LatestTag != "" {
			fmt.Printf("  Tag:     %s (%d commits since)\n", output.Git.LatestTag, output.Git.CommitsSinceTag)
		} else {
			fmt.Printf("  Tag:     none (%d recent commits)\n", output.Git.CommitsSinceTag)
		}
		if output.Git.Pending != nil {
			fmt.Printf("  Pending: %s\n", pendingSummary(output.Git.Pending))
		}
	} else {
		printSubtle("Not a git repository")
	}
	fmt.Println()

	fmt.Println("Tracks:")
	for _, track := range output.Tracks {
		fmt.Printf("  %-8s %s\n", track.Platform+":", trackSummary(track))
	}
	fmt.Println()

	fmt.Println("Next step:")
	if output.ChangelogHasVersion {
		fmt.Println("  $ halyard release")
	} else {
		fmt.Println("  $ halyard changelog")
	}

	return nil
}

// pendingSummary renders the per-section counts on one line.
func pendingSummary(p *ChangePreview) string {
	var parts []string
	if p.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", p.Added))
	}
	if p.Changed > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", p.Changed))
	}
	if p.Fixed > 0 {
		parts = append(parts, fmt.Sprintf("%d fixed", p.Fixed))
	}
	if len(parts) == 0 {
		return styles.Subtle.Render("nothing classifies into the changelog")
	}

	line := strings.Join(parts, ", ")
	if p.Discarded > 0 {
		line += fmt.Sprintf(" (%d discarded)", p.Discarded)
	}
	return line
}

func trackSummary(track TrackStatus) string {
	if track.Skip {
		return styles.Subtle.Render("skipped by configuration")
	}

	mode := "upload"
	if track.Submit {
		mode = "upload and submit"
	}
	if !track.HasCredentials {
		return fmt.Sprintf("%s (%s)", mode,
			styles.Warning.Render("missing "+strings.Join(track.MissingCredentials, ", ")))
	}
	return fmt.Sprintf("%s (%s)", mode, styles.Success.Render("credentials set"))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/domain/changelog"
	"github.com/halyard-dev/halyard/internal/domain/version"
	"github.com/halyard-dev/halyard/internal/service/git"
)

// runChangelog synthesizes the changelog entry for the current version
// and merges it into the changelog file.
func runChangelog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectSvc, err := newProjectService()
	if err != nil {
		return err
	}
	gitSvc, err := newGitService()
	if err != nil {
		return fmt.Errorf("changelog needs a git repository: %w", err)
	}

	current, err := projectSvc.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	entry, sinceTag, commitCount, err := buildChangelogEntry(ctx, gitSvc, current)
	if err != nil {
		return err
	}

	if entry.IsEmpty() {
		if outputJSON {
			return writeJSON(changelogResult(entry, sinceTag, commitCount, false))
		}
		printInfo(fmt.Sprintf("None of the %d commits since %s classified into a changelog section; changelog left untouched",
			commitCount, sinceLabel(sinceTag)))
		return nil
	}

	document, err := projectSvc.ReadChangelog(ctx)
	if err != nil {
		return err
	}
	if changelog.ContainsVersion(document, current) {
		if outputJSON {
			return writeJSON(changelogResult(entry, sinceTag, commitCount, false))
		}
		printWarning(fmt.Sprintf("%s already has an entry for %s", projectSvc.ChangelogPath(), current.ReleaseString()))
		return nil
	}

	if dryRun {
		if outputJSON {
			result := changelogResult(entry, sinceTag, commitCount, false)
			result["dry_run"] = true
			return writeJSON(result)
		}
		printWarning("Dry run - no changes will be made")
		fmt.Println()
		fmt.Print(entry.Render())
		return nil
	}

	if err := projectSvc.MergeEntry(ctx, entry); err != nil {
		return err
	}
	logger.Debug("changelog entry merged",
		"changelog", projectSvc.ChangelogPath(),
		"version", current.ReleaseString(),
		"entries", entry.Buckets().Total())

	if outputJSON {
		return writeJSON(changelogResult(entry, sinceTag, commitCount, true))
	}

	fmt.Println()
	fmt.Print(entry.Render())
	fmt.Println()
	printSuccess(fmt.Sprintf("Merged %d entries for %s into %s",
		entry.Buckets().Total(), current.ReleaseString(), projectSvc.ChangelogPath()))
	return nil
}

// buildChangelogEntry classifies the commit subjects since the last
// version tag into a changelog entry for ver. Without any version tag
// the newest commits are classified instead.
func buildChangelogEntry(ctx context.Context, gitSvc git.Service, ver version.AppVersion) (changelog.Entry, string, int, error) {
	sinceTag := ""
	tag, err := gitSvc.GetLatestVersionTag(ctx)
	switch {
	case err == nil:
		sinceTag = tag.Name
	case errors.Is(err, git.ErrNoVersionTags):
		logger.Debug("no version tags; classifying the newest commits")
	default:
		return changelog.Entry{}, "", 0, err
	}

	commits, err := gitSvc.CommitsSinceTag(ctx, sinceTag)
	if err != nil {
		return changelog.Entry{}, "", 0, err
	}

	subjects := make([]string, 0, len(commits))
	for _, commit := range commits {
		subjects = append(subjects, commit.Subject)
	}

	buckets := changelog.NewClassifier().ClassifyAll(subjects)
	return changelog.NewEntry(ver, time.Now(), buckets), sinceTag, len(commits), nil
}

// changelogResult flattens an entry into the JSON output shape.
func changelogResult(entry changelog.Entry, sinceTag string, commitCount int, merged bool) map[string]any {
	sections := make(map[string][]string)
	for _, bucket := range changelog.AllBuckets() {
		if entries := entry.Buckets().Entries(bucket); len(entries) > 0 {
			sections[strings.ToLower(bucket.String())] = entries
		}
	}
	return map[string]any{
		"version":  entry.Version().ReleaseString(),
		"since":    sinceTag,
		"commits":  commitCount,
		"sections": sections,
		"merged":   merged,
	}
}

func sinceLabel(sinceTag string) string {
	if sinceTag == "" {
		return "the start of history"
	}
	return sinceTag
}

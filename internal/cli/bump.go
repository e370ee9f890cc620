package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/domain/version"
)

// Bump command flags
var bumpSet string

func init() {
	bumpCmd.Flags().StringVar(&bumpSet, "set", "", "write this exact version instead of deriving one")
}

// runBump bumps or sets the pubspec version.
func runBump(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectSvc, err := newProjectService()
	if err != nil {
		return err
	}

	current, err := projectSvc.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	next, err := resolveBumpTarget(current, args)
	if err != nil {
		return err
	}

	if err := guardDirtyTree(ctx, "Bump anyway?"); err != nil {
		return err
	}

	if dryRun {
		if outputJSON {
			return writeJSON(map[string]any{
				"dry_run":  true,
				"previous": current.String(),
				"version":  next.String(),
				"pubspec":  projectSvc.PubspecPath(),
			})
		}
		printWarning("Dry run - no changes will be made")
		printInfo(fmt.Sprintf("Would update %s from %s to %s", projectSvc.PubspecPath(), current, next))
		return nil
	}

	if err := projectSvc.WriteVersion(ctx, next); err != nil {
		return err
	}
	logger.Debug("version written", "pubspec", projectSvc.PubspecPath(), "version", next.String())

	if outputJSON {
		return writeJSON(map[string]any{
			"previous": current.String(),
			"version":  next.String(),
			"pubspec":  projectSvc.PubspecPath(),
		})
	}

	printSuccess(fmt.Sprintf("Version bumped from %s to %s", current, next))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'halyard changelog' to draft the changelog entry")
	fmt.Println("  2. Run 'halyard release' when ready to ship")
	return nil
}

// resolveBumpTarget derives the next version from the positional bump
// kind or the --set flag. A --set version behind the current one needs
// operator confirmation; it is never rejected outright.
func resolveBumpTarget(current version.AppVersion, args []string) (version.AppVersion, error) {
	switch {
	case bumpSet != "" && len(args) > 0:
		return version.AppVersion{}, fmt.Errorf("pass a bump kind or --set, not both")

	case bumpSet != "":
		next, err := version.Parse(bumpSet)
		if err != nil {
			return version.AppVersion{}, fmt.Errorf("invalid --set version: %w", err)
		}
		if next.LessThan(current) {
			prompt := fmt.Sprintf("Version %s is behind the current %s. Move backwards?", next, current)
			if !confirmer().Confirm(prompt) {
				return version.AppVersion{}, fmt.Errorf("version change declined")
			}
		}
		return next, nil

	case len(args) == 1:
		bumpType, err := version.ParseBumpType(args[0])
		if err != nil {
			return version.AppVersion{}, err
		}
		return current.Bump(bumpType), nil

	default:
		return version.AppVersion{}, fmt.Errorf("specify a bump kind (major, minor, patch, build) or --set")
	}
}

// guardDirtyTree asks for confirmation when the working tree is dirty
// and the configuration requires a clean one. Outside a git repository
// the guard is a no-op so version operations keep working.
func guardDirtyTree(ctx context.Context, prompt string) error {
	if !cfg.Git.RequireClean {
		return nil
	}

	gitSvc, err := newGitService()
	if err != nil {
		logger.Debug("skipping clean-tree guard", "reason", err)
		return nil
	}

	clean, err := gitSvc.IsClean(ctx)
	if err != nil {
		logger.Debug("skipping clean-tree guard", "reason", err)
		return nil
	}
	if clean {
		return nil
	}

	if !confirmer().Confirm("The working tree has uncommitted changes. " + prompt) {
		return fmt.Errorf("declined: working tree is not clean")
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/halyard-dev/halyard/internal/domain/release"
	"github.com/halyard-dev/halyard/internal/domain/validation"
)

// writeJSON encodes v to stdout with indentation.
func writeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// renderGateReport prints one line per check in execution order. The
// caller owns the surrounding title and verdict.
func renderGateReport(report validation.Report) {
	for _, result := range report.Results {
		switch result.Outcome {
		case validation.OutcomePass:
			printSuccess(result.Name)
		case validation.OutcomeWarn:
			if result.Confirmed {
				printWarning(result.Name + " (warnings accepted)")
			} else {
				printWarning(result.Name)
			}
			printDetails(result.Details)
		case validation.OutcomeFail:
			printError(result.Name)
			printDetails(result.Details)
		case validation.OutcomeSkipped:
			printSubtle("- " + result.Name + skipReason(result.Details))
		}
	}
}

// printDetails prints check findings indented under their headline.
func printDetails(details []string) {
	for _, detail := range details {
		printSubtle("    " + detail)
	}
}

func skipReason(details []string) string {
	if len(details) == 0 {
		return ""
	}
	return " (" + details[0] + ")"
}

// renderReleaseReport prints the per-track outcome of a release run and
// the manual steps that remain.
func renderReleaseReport(report *release.Report) {
	fmt.Println()
	printTitle("Release Summary")
	fmt.Println()
	fmt.Printf("  %-10s %s\n", "Version:", report.Version)
	fmt.Printf("  %-10s %s\n", "Channel:", report.Channel)
	fmt.Printf("  %-10s %s\n", "Run:", report.RunID.Short())
	fmt.Println()

	for _, track := range report.Tracks {
		name := track.Platform.DisplayName()
		switch track.State {
		case release.StateSucceeded:
			line := name + " released"
			if track.Artifact != "" {
				line += " (" + track.Artifact + ")"
			}
			printSuccess(line)
		case release.StateManual:
			printWarning(name + " needs manual steps")
		case release.StateFailed:
			printError(name + " failed: " + track.Reason)
		case release.StateSkipped:
			printSubtle("- " + name + " skipped")
		}
	}

	if report.NeedsFollowUp() {
		fmt.Println("\nNext steps:")
		for i, step := range report.FollowUps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
}

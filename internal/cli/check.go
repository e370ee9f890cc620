package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/domain/validation"
	"github.com/halyard-dev/halyard/internal/service/toolchain"
	"github.com/halyard-dev/halyard/internal/service/translations"
)

// Check names as they appear in reports and confirmation prompts.
const (
	checkTranslationSyntax   = "translation syntax"
	checkTranslationCoverage = "translation coverage"
	checkStaticAnalysis      = "static analysis"
)

// maxAnalysisDetails caps the analyzer findings echoed into a report.
const maxAnalysisDetails = 10

// runCheck executes the pre-release checks without releasing anything.
func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	gate := buildGate(confirmer())
	report := gate.Run(ctx)

	if outputJSON {
		if err := writeJSON(report); err != nil {
			return err
		}
	} else {
		printTitle("Pre-release Checks")
		fmt.Println()
		renderGateReport(report)
		fmt.Println()
		if report.Passed {
			printSuccess("All checks passed")
		}
	}

	if !report.Passed {
		return fmt.Errorf("%d of %d checks failed", len(report.Failures()), len(report.Results))
	}
	return nil
}

// buildGate assembles the pre-release gate in its fixed order: translation
// syntax, translation coverage, static analysis.
func buildGate(conf validation.Confirmer) *validation.Gate {
	auditor := translations.NewAuditor(translations.Config{
		Dir:            cfg.Project.TranslationsDir,
		TemplateLocale: cfg.Project.TemplateLocale,
	})
	analyzer := toolchain.NewAnalyzer(&toolchain.ExecRunner{}, toolchainConfig())

	return validation.NewGate(conf,
		syntaxCheck(auditor),
		coverageCheck(auditor),
		analysisCheck(analyzer),
	)
}

// syntaxCheck fails when any .arb file does not parse.
func syntaxCheck(auditor *translations.Auditor) validation.Check {
	return validation.NewCheck(checkTranslationSyntax, func(ctx context.Context) validation.Result {
		if cfg.Validation.SkipTranslations {
			return validation.Skipped(checkTranslationSyntax, "skipped by configuration")
		}
		if !auditor.HasTranslations() {
			return validation.Skipped(checkTranslationSyntax, "no translation files")
		}

		report, err := auditor.CheckSyntax(ctx)
		if err != nil {
			return validation.Fail(checkTranslationSyntax, err.Error())
		}
		if !report.Clean() {
			details := make([]string, 0, len(report.Issues))
			for _, issue := range report.Issues {
				details = append(details, fmt.Sprintf("%s: %s", issue.File, issue.Problem))
			}
			return validation.Fail(checkTranslationSyntax, details...)
		}
		return validation.Pass(checkTranslationSyntax)
	})
}

// coverageCheck warns when a locale is missing keys from the template.
// Warnings need operator confirmation to proceed.
func coverageCheck(auditor *translations.Auditor) validation.Check {
	return validation.NewCheck(checkTranslationCoverage, func(ctx context.Context) validation.Result {
		if cfg.Validation.SkipTranslations {
			return validation.Skipped(checkTranslationCoverage, "skipped by configuration")
		}
		if !auditor.HasTranslations() {
			return validation.Skipped(checkTranslationCoverage, "no translation files")
		}

		report, err := auditor.Coverage(ctx)
		if err != nil {
			return validation.Fail(checkTranslationCoverage, err.Error())
		}
		if report.TotalMissing() > 0 {
			var details []string
			for _, loc := range report.Locales {
				if len(loc.MissingKeys) > 0 {
					details = append(details, fmt.Sprintf("%s is missing %d of %d keys",
						loc.Locale, len(loc.MissingKeys), report.TemplateKeys))
				}
			}
			return validation.Warn(checkTranslationCoverage, details...)
		}
		return validation.Pass(checkTranslationCoverage)
	})
}

// analysisCheck fails on error-severity analyzer findings. Warnings and
// infos never block a release.
func analysisCheck(analyzer *toolchain.Analyzer) validation.Check {
	return validation.NewCheck(checkStaticAnalysis, func(ctx context.Context) validation.Result {
		if cfg.Validation.SkipAnalysis {
			return validation.Skipped(checkStaticAnalysis, "skipped by configuration")
		}
		if !analyzer.Available() {
			return validation.Skipped(checkStaticAnalysis, "flutter not found on PATH")
		}

		result, err := analyzer.Analyze(ctx)
		if err != nil {
			return validation.Fail(checkStaticAnalysis, err.Error())
		}
		if !result.Clean() {
			details := result.Findings
			if len(details) > maxAnalysisDetails {
				overflow := len(details) - maxAnalysisDetails
				details = append(details[:maxAnalysisDetails:maxAnalysisDetails],
					fmt.Sprintf("and %d more findings", overflow))
			}
			return validation.Fail(checkStaticAnalysis, details...)
		}
		return validation.Pass(checkStaticAnalysis)
	})
}

// Package validation provides the pre-release check suite whose aggregate
// result gates whether platform release tracks may run.
package validation

import (
	"context"
	"fmt"
	"strings"
)

// Gate runs an ordered sequence of checks and aggregates their outcomes
// into a single go/no-go decision. All checks run to completion so the
// report is complete even when an early check fails.
type Gate struct {
	checks    []Check
	confirmer Confirmer
}

// NewGate creates a gate over the given checks.
func NewGate(confirmer Confirmer, checks ...Check) *Gate {
	return &Gate{
		checks:    checks,
		confirmer: confirmer,
	}
}

// Report is the aggregated outcome of a gate run.
type Report struct {
	// Results holds one entry per check, in execution order.
	Results []Result `json:"checks"`
	// Passed is the gate's overall verdict.
	Passed bool `json:"passed"`
}

// Failures returns the results that caused the gate to fail: failing
// checks and warnings the operator declined.
func (r Report) Failures() []Result {
	var failures []Result
	for _, result := range r.Results {
		if result.Outcome == OutcomeFail {
			failures = append(failures, result)
		}
		if result.Outcome == OutcomeWarn && !result.Confirmed {
			failures = append(failures, result)
		}
	}
	return failures
}

// Run executes every check in order. A warn outcome prompts the operator;
// accepting downgrades it for this run only. The prompt is skipped when
// the gate has already failed, leaving the warning unconfirmed.
func (g *Gate) Run(ctx context.Context) Report {
	report := Report{Passed: true}

	for _, check := range g.checks {
		result := check.Run(ctx)

		switch result.Outcome {
		case OutcomeFail:
			report.Passed = false
		case OutcomeWarn:
			if report.Passed && g.confirmer != nil && g.confirmer.Confirm(warnPrompt(result)) {
				result.Confirmed = true
			} else {
				report.Passed = false
			}
		}

		report.Results = append(report.Results, result)
	}

	return report
}

// warnPrompt renders the confirmation question for a warn outcome.
func warnPrompt(result Result) string {
	if len(result.Details) == 0 {
		return fmt.Sprintf("%s reported warnings. Continue anyway?", result.Name)
	}
	return fmt.Sprintf("%s: %s. Continue anyway?", result.Name, strings.Join(result.Details, "; "))
}

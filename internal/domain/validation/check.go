// Package validation provides the pre-release check suite whose aggregate
// result gates whether platform release tracks may run.
package validation

import (
	"context"
)

// Outcome classifies the result of a single check.
type Outcome string

const (
	// OutcomePass indicates the check found nothing wrong.
	OutcomePass Outcome = "pass"
	// OutcomeWarn indicates findings the operator may accept for this run.
	OutcomeWarn Outcome = "warn"
	// OutcomeFail indicates findings that block the release.
	OutcomeFail Outcome = "fail"
	// OutcomeSkipped indicates the check does not apply to this project.
	OutcomeSkipped Outcome = "skipped"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Result holds the outcome of a single gate check.
type Result struct {
	// Name identifies the check.
	Name string `json:"name"`
	// Outcome is the check's verdict.
	Outcome Outcome `json:"outcome"`
	// Details lists the specific offending items, one per finding.
	Details []string `json:"details,omitempty"`
	// Confirmed is true when a warn outcome was accepted by the operator.
	Confirmed bool `json:"confirmed,omitempty"`
}

// Pass builds a passing result.
func Pass(name string) Result {
	return Result{Name: name, Outcome: OutcomePass}
}

// Warn builds a result that needs operator confirmation to proceed.
func Warn(name string, details ...string) Result {
	return Result{Name: name, Outcome: OutcomeWarn, Details: details}
}

// Fail builds a failing result.
func Fail(name string, details ...string) Result {
	return Result{Name: name, Outcome: OutcomeFail, Details: details}
}

// Skipped builds a result for a check that does not apply.
func Skipped(name string, reason string) Result {
	return Result{Name: name, Outcome: OutcomeSkipped, Details: []string{reason}}
}

// Check is a single member of the validation gate.
type Check interface {
	// Name identifies the check in reports and prompts.
	Name() string
	// Run evaluates the check against current project state.
	Run(ctx context.Context) Result
}

// CheckFunc adapts a function to the Check interface.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) Result
}

// NewCheck wraps a function as a named Check.
func NewCheck(name string, fn func(ctx context.Context) Result) Check {
	return CheckFunc{name: name, fn: fn}
}

// Name identifies the check.
func (c CheckFunc) Name() string {
	return c.name
}

// Run evaluates the check.
func (c CheckFunc) Run(ctx context.Context) Result {
	return c.fn(ctx)
}

// Confirmer asks the operator a yes/no question. Non-interactive runs
// inject an implementation that answers a configured default.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm asks the question.
func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

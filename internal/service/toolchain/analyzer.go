package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// analyzeLineRegex matches one finding line of flutter analyze output,
// e.g. "  error • Undefined name 'x' • lib/main.dart:3:7 • undefined_identifier".
// Older toolchains separate fields with "-" instead of "•".
var analyzeLineRegex = regexp.MustCompile(`^\s*(error|warning|info)\s+[•-]\s+`)

// AnalysisResult summarizes a static analysis run.
type AnalysisResult struct {
	// Errors is the number of error-severity findings. Only these gate
	// a release.
	Errors int `json:"errors"`
	// Warnings is the number of warning-severity findings.
	Warnings int `json:"warnings"`
	// Infos is the number of info-severity findings.
	Infos int `json:"infos"`
	// Findings holds the error-severity lines verbatim.
	Findings []string `json:"findings,omitempty"`
}

// Clean reports whether analysis found no error-severity findings.
func (r AnalysisResult) Clean() bool {
	return r.Errors == 0
}

// Total returns the finding count across all severities.
func (r AnalysisResult) Total() int {
	return r.Errors + r.Warnings + r.Infos
}

// Analyzer runs flutter analyze and parses its findings.
type Analyzer struct {
	runner   CommandRunner
	cfg      Config
	lookPath lookPathFunc
}

// NewAnalyzer creates a static analyzer.
func NewAnalyzer(runner CommandRunner, cfg Config) *Analyzer {
	return &Analyzer{
		runner:   runner,
		cfg:      cfg,
		lookPath: exec.LookPath,
	}
}

// Available reports whether the flutter tool is installed.
func (a *Analyzer) Available() bool {
	_, err := a.lookPath(a.cfg.FlutterBin)
	return err == nil
}

// Analyze runs flutter analyze on the project. A non-zero exit only
// means findings exist, so the output is parsed instead of failing.
func (a *Analyzer) Analyze(ctx context.Context) (*AnalysisResult, error) {
	const op = "toolchain.Analyze"

	command := fmt.Sprintf("%s analyze --no-pub", a.cfg.FlutterBin)
	stdout, stderr, _, err := a.runner.Run(ctx, a.cfg.ProjectRoot, command)
	if err != nil {
		return nil, hlerrors.CollaboratorWrap(err, op, "flutter analyze did not run")
	}

	return parseAnalyzeOutput(stdout + "\n" + stderr), nil
}

// parseAnalyzeOutput counts findings per severity in analyzer output.
func parseAnalyzeOutput(out string) *AnalysisResult {
	result := &AnalysisResult{}
	for _, line := range strings.Split(out, "\n") {
		m := analyzeLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		switch m[1] {
		case "error":
			result.Errors++
			result.Findings = append(result.Findings, strings.TrimSpace(line))
		case "warning":
			result.Warnings++
		case "info":
			result.Infos++
		}
	}
	return result
}

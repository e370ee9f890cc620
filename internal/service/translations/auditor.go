// Package translations audits the .arb files of a Flutter project:
// every file must parse as JSON, and every locale is compared against
// the template locale for missing message keys.
package translations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"

	hlerrors "github.com/halyard-dev/halyard/internal/errors"
	"github.com/halyard-dev/halyard/internal/fileutil"
)

// maxArbFileSize bounds reads of a single .arb file.
const maxArbFileSize = 8 << 20

// Config configures the translation auditor.
type Config struct {
	// Dir is the directory holding the .arb files.
	Dir string
	// TemplateLocale is the baseline every other locale is compared to.
	TemplateLocale string
}

// Auditor checks translation files for syntax and coverage.
type Auditor struct {
	cfg Config
}

// NewAuditor creates a translation auditor.
func NewAuditor(cfg Config) *Auditor {
	return &Auditor{cfg: cfg}
}

// HasTranslations reports whether the project carries any .arb files.
// Projects without translations skip the translation checks entirely.
func (a *Auditor) HasTranslations() bool {
	files, err := a.listArbFiles()
	return err == nil && len(files) > 0
}

// SyntaxIssue is one file that failed to parse.
type SyntaxIssue struct {
	// File is the path relative to the translations directory.
	File string `json:"file"`
	// Problem describes the parse failure.
	Problem string `json:"problem"`
}

// SyntaxReport is the outcome of a syntax pass over every .arb file.
type SyntaxReport struct {
	// Checked is the number of files inspected.
	Checked int `json:"checked"`
	// Issues holds one entry per unparseable file.
	Issues []SyntaxIssue `json:"issues,omitempty"`
}

// Clean reports whether every file parsed.
func (r SyntaxReport) Clean() bool {
	return len(r.Issues) == 0
}

// CheckSyntax parses every .arb file in the directory. Parse failures
// accumulate per file; the pass never stops at the first bad file.
func (a *Auditor) CheckSyntax(_ context.Context) (*SyntaxReport, error) {
	files, err := a.listArbFiles()
	if err != nil {
		return nil, err
	}

	report := &SyntaxReport{Checked: len(files)}
	for _, file := range files {
		if _, parseErr := a.readArbFile(file); parseErr != nil {
			report.Issues = append(report.Issues, SyntaxIssue{
				File:    filepath.Base(file),
				Problem: parseErr.Error(),
			})
		}
	}
	return report, nil
}

// LocaleCoverage is one locale's missing keys against the template.
type LocaleCoverage struct {
	// Locale is the canonical locale identifier, e.g. "pt-BR".
	Locale string `json:"locale"`
	// File is the .arb file name for the locale.
	File string `json:"file"`
	// MissingKeys lists template message keys absent from this locale.
	MissingKeys []string `json:"missing_keys,omitempty"`
}

// CoverageReport compares every locale against the template locale.
type CoverageReport struct {
	// TemplateLocale is the baseline locale.
	TemplateLocale string `json:"template_locale"`
	// TemplateKeys is the number of message keys in the template.
	TemplateKeys int `json:"template_keys"`
	// Locales holds one entry per non-template locale, sorted by locale.
	Locales []LocaleCoverage `json:"locales"`
}

// TotalMissing returns the missing-key count across all locales.
func (r CoverageReport) TotalMissing() int {
	total := 0
	for _, loc := range r.Locales {
		total += len(loc.MissingKeys)
	}
	return total
}

// Coverage compares every locale's message keys against the template
// locale. Files that do not parse are skipped here; CheckSyntax reports
// them.
func (a *Auditor) Coverage(_ context.Context) (*CoverageReport, error) {
	const op = "translations.Coverage"

	files, err := a.listArbFiles()
	if err != nil {
		return nil, err
	}

	templateFile := a.findTemplateFile(files)
	if templateFile == "" {
		return nil, hlerrors.Validation(op,
			fmt.Sprintf("template locale %q has no .arb file under %s", a.cfg.TemplateLocale, a.cfg.Dir))
	}

	templateKeys, err := a.messageKeys(templateFile)
	if err != nil {
		return nil, hlerrors.FormatWrap(err, op, fmt.Sprintf("template file %s does not parse", filepath.Base(templateFile)))
	}

	prefix := strings.TrimSuffix(filepath.Base(templateFile), localeSuffix(a.cfg.TemplateLocale))
	report := &CoverageReport{
		TemplateLocale: a.cfg.TemplateLocale,
		TemplateKeys:   len(templateKeys),
	}

	for _, file := range files {
		if file == templateFile {
			continue
		}
		locale := localeFromFileName(filepath.Base(file), prefix)
		keys, keysErr := a.messageKeys(file)
		if keysErr != nil {
			// Unparseable files belong to the syntax check.
			continue
		}
		keySet := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			keySet[key] = struct{}{}
		}

		coverage := LocaleCoverage{Locale: locale, File: filepath.Base(file)}
		for _, key := range templateKeys {
			if _, ok := keySet[key]; !ok {
				coverage.MissingKeys = append(coverage.MissingKeys, key)
			}
		}
		report.Locales = append(report.Locales, coverage)
	}

	sort.Slice(report.Locales, func(i, j int) bool {
		return report.Locales[i].Locale < report.Locales[j].Locale
	})
	return report, nil
}

// listArbFiles returns the .arb files under the translations dir, sorted.
func (a *Auditor) listArbFiles() ([]string, error) {
	const op = "translations.listArbFiles"

	entries, err := os.ReadDir(a.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, hlerrors.IOWrap(err, op, fmt.Sprintf("cannot read translations dir %s", a.cfg.Dir))
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".arb") {
			continue
		}
		files = append(files, filepath.Join(a.cfg.Dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// readArbFile parses one .arb file into its top-level key set.
func (a *Auditor) readArbFile(path string) (map[string]json.RawMessage, error) {
	data, err := fileutil.ReadFileLimited(path, maxArbFileSize)
	if err != nil {
		return nil, err
	}

	var content map[string]json.RawMessage
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// messageKeys returns the sorted message keys of an .arb file. Metadata
// keys start with "@" and are not messages.
func (a *Auditor) messageKeys(path string) ([]string, error) {
	content, err := a.readArbFile(path)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(content))
	for key := range content {
		if strings.HasPrefix(key, "@") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// findTemplateFile locates the template locale's file, matching the
// flutter convention <prefix>_<locale>.arb.
func (a *Auditor) findTemplateFile(files []string) string {
	suffix := localeSuffix(a.cfg.TemplateLocale)
	for _, file := range files {
		if strings.HasSuffix(filepath.Base(file), suffix) {
			return file
		}
	}
	return ""
}

// localeSuffix renders the file name suffix for a locale, with BCP 47
// dashes flattened to the underscores .arb file names use.
func localeSuffix(locale string) string {
	return "_" + strings.ReplaceAll(locale, "-", "_") + ".arb"
}

// localeFromFileName extracts and canonicalizes the locale part of an
// .arb file name. Unparseable locale parts are kept verbatim so the
// report still names the file.
func localeFromFileName(name, prefix string) string {
	part := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".arb")
	part = strings.TrimPrefix(part, "_")

	tag, err := language.Parse(strings.ReplaceAll(part, "_", "-"))
	if err != nil {
		return part
	}
	return tag.String()
}

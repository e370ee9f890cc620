package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// ValidationError contains all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("Errors:\n  - %s", strings.Join(e.Errors, "\n  - ")))
	}

	if len(e.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warnings:\n  - %s", strings.Join(e.Warnings, "\n  - ")))
	}

	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(parts, "\n"))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf adds a formatted warning to the validation error.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validator validates configuration.
type Validator struct {
	errors *ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: &ValidationError{},
	}
}

// Validate validates the configuration. Warnings are printed to stderr;
// only errors make the configuration unusable.
func (v *Validator) Validate(cfg *Config) error {
	v.validateProject(cfg.Project)
	v.validateGit(cfg.Git)
	v.validateTracks(cfg.IOS, cfg.Android)
	v.validateRelease(cfg.Release)
	v.validateOutput(cfg.Output)

	if v.errors.HasWarnings() {
		fmt.Fprintf(os.Stderr, "\n⚠️  Configuration Warnings:\n")
		for _, warning := range v.errors.Warnings {
			fmt.Fprintf(os.Stderr, "  - %s\n", warning)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	if v.errors.HasErrors() {
		return hlerrors.Validation("config.Validate", v.errors.Error())
	}

	return nil
}

// validateProject validates project configuration.
func (v *Validator) validateProject(cfg ProjectConfig) {
	if cfg.Pubspec == "" {
		v.errors.Addf("project.pubspec: must not be empty")
	}
	if cfg.Changelog == "" {
		v.errors.Addf("project.changelog: must not be empty")
	}
	if cfg.TranslationsDir != "" && cfg.TemplateLocale == "" {
		v.errors.Addf("project.template_locale: required when translations_dir is set")
	}
}

// validateGit validates git configuration.
func (v *Validator) validateGit(cfg GitConfig) {
	if cfg.Push && cfg.Remote == "" {
		v.errors.Addf("git.remote: required when git.push is enabled")
	}
	if cfg.Commit && cfg.CommitMessage == "" {
		v.errors.Addf("git.commit_message: required when git.commit is enabled")
	}
	if cfg.Push && !cfg.Commit && !cfg.Tag {
		v.errors.Warnf("git.push: enabled but neither git.commit nor git.tag is, nothing will be pushed")
	}
	if cfg.Tag && !cfg.Commit {
		v.errors.Warnf("git.tag: enabled without git.commit, the tag will point at the pre-release commit")
	}
}

// validateTracks validates the platform track configuration.
func (v *Validator) validateTracks(ios IOSConfig, android AndroidConfig) {
	if ios.Skip && android.Skip {
		v.errors.Warnf("ios.skip and android.skip: both tracks are skipped, release runs will do nothing")
	}
	if ios.Submit && ios.Skip {
		v.errors.Warnf("ios.submit: enabled but the track is skipped")
	}
	if android.Submit && android.Skip {
		v.errors.Warnf("android.submit: enabled but the track is skipped")
	}
	if android.Submit && !android.Skip && android.PackageName == "" {
		v.errors.Addf("android.package_name: required when android.submit is enabled")
	}
}

// validateRelease validates release configuration.
func (v *Validator) validateRelease(cfg ReleaseConfig) {
	validChannels := []string{"internal", "beta", "production"}
	if !slices.Contains(validChannels, cfg.Channel) {
		v.errors.Addf("release.channel: must be one of %v, got %q", validChannels, cfg.Channel)
	}
	if cfg.UploadRetries < 1 {
		v.errors.Addf("release.upload_retries: must be at least 1, got %d", cfg.UploadRetries)
	}
}

// validateOutput validates output configuration.
func (v *Validator) validateOutput(cfg OutputConfig) {
	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, cfg.Format) {
		v.errors.Addf("output.format: must be one of %v, got %q", validFormats, cfg.Format)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		v.errors.Addf("output.log_level: must be one of %v, got %q", validLogLevels, cfg.LogLevel)
	}
}

// Validate validates the given configuration.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateAndLoad loads and validates configuration.
func ValidateAndLoad() (*Config, error) {
	cfg, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

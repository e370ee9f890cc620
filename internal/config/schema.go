// Package config provides configuration management for Halyard.
package config

// Config is the root configuration for Halyard.
type Config struct {
	// Project configures project file locations.
	Project ProjectConfig `mapstructure:"project" json:"project"`
	// Git configures release side effects in the repository.
	Git GitConfig `mapstructure:"git" json:"git"`
	// Validation configures the pre-release check suite.
	Validation ValidationConfig `mapstructure:"validation" json:"validation"`
	// IOS configures the App Store release track.
	IOS IOSConfig `mapstructure:"ios" json:"ios"`
	// Android configures the Google Play release track.
	Android AndroidConfig `mapstructure:"android" json:"android"`
	// Release configures pipeline-wide release behavior.
	Release ReleaseConfig `mapstructure:"release" json:"release"`
	// Output configures output settings.
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// ProjectConfig configures project file locations.
type ProjectConfig struct {
	// Name is the app display name, used in generated output.
	Name string `mapstructure:"name" json:"name,omitempty"`
	// Pubspec is the path to the pubspec.yaml holding the version line.
	Pubspec string `mapstructure:"pubspec" json:"pubspec"`
	// Changelog is the path to the changelog document.
	Changelog string `mapstructure:"changelog" json:"changelog"`
	// TranslationsDir is the directory of .arb translation files. When
	// empty or missing on disk, the translation checks are skipped.
	TranslationsDir string `mapstructure:"translations_dir" json:"translations_dir,omitempty"`
	// TemplateLocale is the baseline locale the coverage check compares
	// the other locales against.
	TemplateLocale string `mapstructure:"template_locale" json:"template_locale"`
}

// GitConfig configures release side effects in the repository.
type GitConfig struct {
	// Commit commits the version and changelog files after updating them.
	Commit bool `mapstructure:"commit" json:"commit"`
	// Tag creates an annotated release tag.
	Tag bool `mapstructure:"tag" json:"tag"`
	// Push pushes the release commit and tag to the remote.
	Push bool `mapstructure:"push" json:"push"`
	// Remote is the remote name to push to (default: "origin").
	Remote string `mapstructure:"remote" json:"remote"`
	// CommitMessage is the release commit subject. ${version} expands to
	// the full version including the build number.
	CommitMessage string `mapstructure:"commit_message" json:"commit_message"`
	// RequireClean asks for confirmation before releasing from a dirty
	// working tree.
	RequireClean bool `mapstructure:"require_clean" json:"require_clean"`
}

// ValidationConfig configures the pre-release check suite.
type ValidationConfig struct {
	// SkipTranslations skips the translation syntax and coverage checks
	// even when a translations directory exists.
	SkipTranslations bool `mapstructure:"skip_translations" json:"skip_translations"`
	// SkipAnalysis skips the static-analysis check.
	SkipAnalysis bool `mapstructure:"skip_analysis" json:"skip_analysis"`
}

// IOSConfig configures the App Store release track.
type IOSConfig struct {
	// Skip excludes the iOS track from release runs.
	Skip bool `mapstructure:"skip" json:"skip"`
	// Submit submits the uploaded build for App Store review.
	Submit bool `mapstructure:"submit" json:"submit"`
	// APIKeyID is the App Store Connect API key ID (env var expansion
	// supported).
	APIKeyID string `mapstructure:"api_key_id" json:"api_key_id,omitempty"`
	// APIIssuerID is the App Store Connect API issuer ID (env var
	// expansion supported).
	APIIssuerID string `mapstructure:"api_issuer_id" json:"api_issuer_id,omitempty"`
}

// MissingCredentials returns the config keys of required store
// credentials that are not set.
func (c *IOSConfig) MissingCredentials() []string {
	var missing []string
	if c.APIKeyID == "" {
		missing = append(missing, "ios.api_key_id")
	}
	if c.APIIssuerID == "" {
		missing = append(missing, "ios.api_issuer_id")
	}
	return missing
}

// HasCredentials returns true if every required store credential is set.
func (c *IOSConfig) HasCredentials() bool {
	return len(c.MissingCredentials()) == 0
}

// AndroidConfig configures the Google Play release track.
type AndroidConfig struct {
	// Skip excludes the Android track from release runs.
	Skip bool `mapstructure:"skip" json:"skip"`
	// Submit promotes the uploaded build on the configured Play track.
	Submit bool `mapstructure:"submit" json:"submit"`
	// ServiceAccountJSON is the path to the Play service account key
	// file (env var expansion supported).
	ServiceAccountJSON string `mapstructure:"service_account_json" json:"service_account_json,omitempty"`
	// PackageName is the Android application ID, required for review
	// submission.
	PackageName string `mapstructure:"package_name" json:"package_name,omitempty"`
}

// MissingCredentials returns the config keys of required store
// credentials that are not set.
func (c *AndroidConfig) MissingCredentials() []string {
	var missing []string
	if c.ServiceAccountJSON == "" {
		missing = append(missing, "android.service_account_json")
	}
	return missing
}

// HasCredentials returns true if every required store credential is set.
func (c *AndroidConfig) HasCredentials() bool {
	return len(c.MissingCredentials()) == 0
}

// ReleaseConfig configures pipeline-wide release behavior.
type ReleaseConfig struct {
	// Channel is the default distribution channel (internal, beta,
	// production).
	Channel string `mapstructure:"channel" json:"channel"`
	// UploadRetries is how many times store uploads are attempted before
	// the track fails. 1 disables retrying.
	UploadRetries int `mapstructure:"upload_retries" json:"upload_retries"`
}

// OutputConfig configures output settings.
type OutputConfig struct {
	// Format is the output format (text, json).
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored output.
	Color bool `mapstructure:"color" json:"color"`
	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	// NonInteractive answers every confirmation prompt with its default
	// instead of asking.
	NonInteractive bool `mapstructure:"non_interactive" json:"non_interactive"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Pubspec:         "pubspec.yaml",
			Changelog:       "CHANGELOG.md",
			TranslationsDir: "lib/l10n",
			TemplateLocale:  "en",
		},
		Git: GitConfig{
			Commit:        true,
			Tag:           true,
			Push:          false,
			Remote:        "origin",
			CommitMessage: "chore(release): v${version}",
			RequireClean:  true,
		},
		Validation: ValidationConfig{
			SkipTranslations: false,
			SkipAnalysis:     false,
		},
		IOS: IOSConfig{
			Skip:   false,
			Submit: false,
		},
		Android: AndroidConfig{
			Skip:   false,
			Submit: false,
		},
		Release: ReleaseConfig{
			Channel:       "internal",
			UploadRetries: 3,
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Verbose:  false,
			LogLevel: "info",
		},
	}
}

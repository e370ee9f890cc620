package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// Config file names and extensions searched for, in order.
var (
	ConfigFileNames      = []string{"halyard", ".halyard"}
	ConfigFileExtensions = []string{"yaml", "yml"}
)

// Pre-compiled regex patterns for environment variable expansion.
var (
	// envVarPattern matches ${VAR} or ${VAR:-default} syntax
	envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)
	// simpleEnvVarPattern matches $VAR syntax
	simpleEnvVarPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// Loader handles configuration loading and merging.
type Loader struct {
	v           *viper.Viper
	configPath  string
	searchPaths []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("HALYARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:           v,
		searchPaths: []string{"."},
	}
}

// WithConfigPath sets an explicit config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithSearchPaths adds directories to search for config files.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = append(l.searchPaths, paths...)
	return l
}

// Load loads the configuration.
func (l *Loader) Load() (*Config, error) {
	const op = "config.Load"

	l.setDefaults()

	if err := l.loadConfigFile(); err != nil {
		return nil, hlerrors.ConfigWrap(err, op, "failed to load config file")
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, hlerrors.ConfigWrap(err, op, "failed to unmarshal config")
	}

	// Expand environment variables in credential fields
	l.expandEnvVars(cfg)

	return cfg, nil
}

// setDefaults sets default values using Viper.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Project defaults
	l.v.SetDefault("project.pubspec", defaults.Project.Pubspec)
	l.v.SetDefault("project.changelog", defaults.Project.Changelog)
	l.v.SetDefault("project.translations_dir", defaults.Project.TranslationsDir)
	l.v.SetDefault("project.template_locale", defaults.Project.TemplateLocale)

	// Git defaults
	l.v.SetDefault("git.commit", defaults.Git.Commit)
	l.v.SetDefault("git.tag", defaults.Git.Tag)
	l.v.SetDefault("git.push", defaults.Git.Push)
	l.v.SetDefault("git.remote", defaults.Git.Remote)
	l.v.SetDefault("git.commit_message", defaults.Git.CommitMessage)
	l.v.SetDefault("git.require_clean", defaults.Git.RequireClean)

	// Validation defaults
	l.v.SetDefault("validation.skip_translations", defaults.Validation.SkipTranslations)
	l.v.SetDefault("validation.skip_analysis", defaults.Validation.SkipAnalysis)

	// Track defaults
	l.v.SetDefault("ios.skip", defaults.IOS.Skip)
	l.v.SetDefault("ios.submit", defaults.IOS.Submit)
	l.v.SetDefault("android.skip", defaults.Android.Skip)
	l.v.SetDefault("android.submit", defaults.Android.Submit)

	// Release defaults
	l.v.SetDefault("release.channel", defaults.Release.Channel)
	l.v.SetDefault("release.upload_retries", defaults.Release.UploadRetries)

	// Output defaults
	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.color", defaults.Output.Color)
	l.v.SetDefault("output.verbose", defaults.Output.Verbose)
	l.v.SetDefault("output.log_level", defaults.Output.LogLevel)
	l.v.SetDefault("output.non_interactive", defaults.Output.NonInteractive)
}

// loadConfigFile loads the configuration file.
func (l *Loader) loadConfigFile() error {
	// If explicit path provided, use it
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", l.configPath, err)
		}
		return nil
	}

	// Search for config file in paths
	for _, searchPath := range l.searchPaths {
		for _, name := range ConfigFileNames {
			for _, ext := range ConfigFileExtensions {
				configFile := filepath.Join(searchPath, name+"."+ext)
				if _, err := os.Stat(configFile); err == nil {
					l.v.SetConfigFile(configFile)
					if err := l.v.ReadInConfig(); err != nil {
						return fmt.Errorf("reading config file %s: %w", configFile, err)
					}
					return nil
				}
			}
		}
	}

	// No config file found - this is OK, we use defaults
	return nil
}

// expandEnvVars expands environment variables in credential fields.
func (l *Loader) expandEnvVars(cfg *Config) {
	cfg.IOS.APIKeyID = expandEnvVar(cfg.IOS.APIKeyID)
	cfg.IOS.APIIssuerID = expandEnvVar(cfg.IOS.APIIssuerID)
	cfg.Android.ServiceAccountJSON = expandEnvVar(cfg.Android.ServiceAccountJSON)
}

// expandEnvVar expands environment variables in a string.
// Supports both ${VAR} and $VAR syntax.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Use pre-compiled pattern for ${VAR} or ${VAR:-default}
	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		varName := submatch[1]
		defaultValue := ""
		if len(submatch) > 2 {
			defaultValue = submatch[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})

	// Also expand simple $VAR syntax using pre-compiled pattern
	result = simpleEnvVarPattern.ReplaceAllStringFunc(result, func(match string) string {
		varName := match[1:] // Remove leading $
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})

	return result
}

// GetConfigPath returns the path to the loaded config file, if any.
func (l *Loader) GetConfigPath() string {
	return l.v.ConfigFileUsed()
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader().WithConfigPath(path).Load()
}

// LoadFromDirectory loads configuration from a directory.
func LoadFromDirectory(dir string) (*Config, error) {
	return NewLoader().WithSearchPaths(dir).Load()
}

// FindConfigFile searches for a config file and returns its path.
func FindConfigFile(searchPaths ...string) (string, error) {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}

	for _, searchPath := range searchPaths {
		for _, name := range ConfigFileNames {
			for _, ext := range ConfigFileExtensions {
				configFile := filepath.Join(searchPath, name+"."+ext)
				if _, err := os.Stat(configFile); err == nil {
					return configFile, nil
				}
			}
		}
	}

	return "", hlerrors.Config("config.FindConfigFile", "no config file found")
}

// ConfigExists returns true if a config file exists in the given directory.
func ConfigExists(dir string) bool {
	_, err := FindConfigFile(dir)
	return err == nil
}

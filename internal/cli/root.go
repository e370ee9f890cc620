// Package cli provides the command-line interface for Halyard.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/config"
	"github.com/halyard-dev/halyard/internal/domain/validation"
	"github.com/halyard-dev/halyard/internal/service/git"
	"github.com/halyard-dev/halyard/internal/service/project"
	"github.com/halyard-dev/halyard/internal/service/toolchain"
	"github.com/halyard-dev/halyard/internal/ui"
)

var (
	// Version information set by main.
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Global flags
	cfgFile        string
	verbose        bool
	dryRun         bool
	outputJSON     bool
	noColor        bool
	logLevel       string
	nonInteractive bool
	assumeYes      bool

	// Global config
	cfg *config.Config

	// Logger
	logger *log.Logger

	// Styles
	styles = struct {
		Title   lipgloss.Style
		Success lipgloss.Style
		Error   lipgloss.Style
		Warning lipgloss.Style
		Info    lipgloss.Style
		Subtle  lipgloss.Style
		Bold    lipgloss.Style
	}{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
)

// SetVersionInfo sets the version information from main.
func SetVersionInfo(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "halyard",
	Short: "Release orchestration for Flutter mobile apps",
	Long: `Halyard orchestrates releases for Flutter mobile apps.

It bumps the pubspec version, synthesizes changelog entries from
conventional commits, runs pre-release checks, and drives the iOS and
Android store tracks independently.

Key features:
  • Semantic version bumps with store build numbers (major.minor.patch+build)
  • Changelog synthesis into Added, Changed, and Fixed sections
  • Translation and static-analysis checks gating every release
  • Independent platform tracks with manual fallbacks when tooling is missing

Get started with 'halyard init' to write a default configuration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version commands
		if cmd.Name() == "init" || cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context for graceful shutdown.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize logger with default settings
	// JSON format and log level are configured in initConfig based on flags
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: halyard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "announce actions without performing them")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; confirmations decline")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer every confirmation prompt with yes")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(releaseCmd)
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig() error {
	loader := config.NewLoader()

	if cfgFile != "" {
		loader.WithConfigPath(cfgFile)
	}

	var err error
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// applyGlobalFlags applies global CLI flags to the configuration.
func applyGlobalFlags() {
	if verbose {
		cfg.Output.Verbose = true
	}

	if nonInteractive || assumeYes {
		cfg.Output.NonInteractive = true
	}

	if rootCmd.PersistentFlags().Changed("log-level") {
		cfg.Output.LogLevel = logLevel
	}

	if noColor {
		cfg.Output.Color = false
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// configureLoggerFormat configures the logger format based on settings.
func configureLoggerFormat() {
	if outputJSON || cfg.Output.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
		logger.SetReportTimestamp(true)
	} else if !cfg.Output.Color || noColor {
		logger.SetFormatter(log.TextFormatter)
	}
}

// configureLogLevel sets the logger level based on configuration.
func configureLogLevel() {
	switch cfg.Output.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if cfg.Output.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Load and validate configuration
	if err := loadAndValidateConfig(); err != nil {
		return err
	}

	// Apply CLI flags to configuration
	applyGlobalFlags()

	// Configure logger
	configureLoggerFormat()
	configureLogLevel()

	return nil
}

// confirmer returns the Confirmer matching the interactivity flags. JSON
// output implies non-interactive because prompts cannot interleave with a
// machine-readable stream.
func confirmer() validation.Confirmer {
	if assumeYes {
		return ui.StaticConfirmer{Answer: true}
	}
	if outputJSON || cfg.Output.NonInteractive {
		return ui.StaticConfirmer{Answer: false}
	}
	return ui.InteractiveConfirmer{}
}

// newProjectService builds the project service from the configuration.
func newProjectService() (project.Service, error) {
	return project.NewService(
		project.WithPubspecPath(cfg.Project.Pubspec),
		project.WithChangelogPath(cfg.Project.Changelog),
	)
}

// newGitService builds the git service from the configuration.
func newGitService() (git.Service, error) {
	return git.NewService(git.WithDefaultRemote(cfg.Git.Remote))
}

// toolchainConfig builds the external-tool configuration from the loaded
// config.
func toolchainConfig() toolchain.Config {
	tc := toolchain.DefaultConfig()
	tc.IOSAPIKeyID = cfg.IOS.APIKeyID
	tc.IOSAPIIssuerID = cfg.IOS.APIIssuerID
	tc.AndroidServiceAccountJSON = cfg.Android.ServiceAccountJSON
	tc.AndroidPackageName = cfg.Android.PackageName
	if cfg.Release.UploadRetries > 0 {
		tc.UploadAttempts = cfg.Release.UploadRetries
	}
	return tc
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("halyard %s\n", versionInfo.Version)
		if verbose {
			fmt.Printf("  commit: %s\n", versionInfo.Commit)
			fmt.Printf("  built:  %s\n", versionInfo.Date)
		}
	},
}

// Subcommands (run functions live in their own files)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default halyard configuration",
	Long: `Write a default halyard.yaml configuration in the current directory.

The generated file documents every setting with its default value so it
can be trimmed down to the overrides a project actually needs.`,
	RunE: runInit,
}

var bumpCmd = &cobra.Command{
	Use:   "bump [major|minor|patch|build]",
	Short: "Bump the project version in pubspec.yaml",
	Long: `Bump the project version in pubspec.yaml.

Every bump increments the build number. The major, minor, and patch kinds
additionally advance the semantic version and reset the lower components.
Use --set to write an explicit version instead of deriving one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBump,
}

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Synthesize a changelog entry from commits",
	Long: `Synthesize a changelog entry for the current version from the
conventional commits reachable since the last version tag, and merge it
into the changelog file.

Commits that do not follow the conventional format are ignored. When no
commit classifies into any section the changelog is left untouched.`,
	RunE: runChangelog,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pre-release checks",
	Long: `Run the pre-release checks without releasing anything.

Checks run in a fixed order: translation syntax, translation coverage,
then static analysis. Warnings ask for confirmation; a declined warning
fails the run the same way a failed check does.`,
	RunE: runCheck,
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the release pipeline",
	Long: `Run the full release pipeline: optionally bump the version, merge the
changelog entry, run the pre-release checks, record the release in git,
and drive the iOS and Android store tracks.

Each platform track runs independently. A track that cannot run
automatically is reported as a manual follow-up instead of failing the
release.`,
	RunE: runRelease,
}

// Helper functions for output

func printSuccess(msg string) {
	fmt.Println(styles.Success.Render("✓ " + msg))
}

func printError(msg string) {
	fmt.Println(styles.Error.Render("✗ " + msg))
}

func printWarning(msg string) {
	fmt.Println(styles.Warning.Render("⚠ " + msg))
}

func printInfo(msg string) {
	fmt.Println(styles.Info.Render("ℹ " + msg))
}

func printTitle(msg string) {
	fmt.Println(styles.Title.Render(msg))
}

func printSubtle(msg string) {
	fmt.Println(styles.Subtle.Render(msg))
}

package config

import (
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
	"github.com/halyard-dev/halyard/internal/fileutil"
)

// DefaultConfigYAML is the commented configuration template written by
// `halyard init`. It mirrors DefaultConfig; keeping the comments means
// init output stays self-documenting, which viper's writer cannot do.
const DefaultConfigYAML = `# Halyard release configuration.
# Every value can be overridden with a HALYARD_-prefixed environment
# variable, e.g. HALYARD_GIT_PUSH=true or HALYARD_IOS_API_KEY_ID=....

project:
  # App display name used in output (optional).
  name: ""
  # File holding the "version: major.minor.patch+build" line.
  pubspec: pubspec.yaml
  # Changelog document; new releases are inserted below its first
  # top-level heading.
  changelog: CHANGELOG.md
  # Directory of .arb translation files. Leave empty (or point at a
  # missing directory) to skip the translation checks.
  translations_dir: lib/l10n
  # Baseline locale the coverage check compares other locales against.
  template_locale: en

git:
  # Commit the version and changelog files after updating them.
  commit: true
  # Create an annotated release tag (v<major>.<minor>.<patch>).
  tag: true
  # Push the release commit and tag. When tagging without pushing, the
  # push lands on the manual follow-up list.
  push: false
  remote: origin
  # ${version} expands to the full version including the build number.
  commit_message: "chore(release): v${version}"
  # Ask before releasing from a dirty working tree.
  require_clean: true

validation:
  # Skip the translation syntax and coverage checks.
  skip_translations: false
  # Skip the flutter analyze check.
  skip_analysis: false

ios:
  skip: false
  # Submit the uploaded build for App Store review.
  submit: false
  # App Store Connect API credentials. Both are required for the iOS
  # track to run; reference environment variables to keep them out of
  # the repository.
  api_key_id: "${APP_STORE_KEY_ID}"
  api_issuer_id: "${APP_STORE_ISSUER_ID}"

android:
  skip: false
  # Promote the uploaded build on the configured Play track.
  submit: false
  # Path to the Play service account key file.
  service_account_json: "${PLAY_SERVICE_ACCOUNT_JSON}"
  # Application ID, required when submit is enabled.
  package_name: ""

release:
  # Default distribution channel: internal, beta, or production.
  channel: internal
  # Store upload attempts before the track fails. 1 disables retrying.
  upload_retries: 3

output:
  # text or json.
  format: text
  color: true
  verbose: false
  # debug, info, warn, or error.
  log_level: info
  # Answer every confirmation prompt with its default instead of asking.
  non_interactive: false
`

// WriteDefaultConfig writes the commented default configuration to path.
func WriteDefaultConfig(path string) error {
	const op = "config.WriteDefaultConfig"

	if err := fileutil.AtomicWriteFile(path, []byte(DefaultConfigYAML), 0o644); err != nil {
		return hlerrors.IOWrap(err, op, "failed to write config file")
	}
	return nil
}

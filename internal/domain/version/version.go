// Package version provides domain types for mobile app versioning.
// An app version carries the public release triple plus a build number
// (major.minor.patch+build), the scheme used by app store submissions.
package version

import (
	"fmt"
	"regexp"
	"strconv"
)

// AppVersion is an immutable value object representing an app version.
// All operations return new instances.
type AppVersion struct {
	major uint64
	minor uint64
	patch uint64
	build uint64
}

var (
	// appVersionRegex validates app version strings. The build number is
	// mandatory: stores reject uploads without one.
	appVersionRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\+(\d+)$`)

	// Zero is the zero version (0.0.0+0).
	Zero = AppVersion{}

	// Initial is the version a fresh project starts from (0.1.0+1).
	Initial = AppVersion{major: 0, minor: 1, patch: 0, build: 1}
)

// NewAppVersion creates a new AppVersion value object.
func NewAppVersion(major, minor, patch, build uint64) AppVersion {
	return AppVersion{
		major: major,
		minor: minor,
		patch: patch,
		build: build,
	}
}

// Parse parses an app version string into an AppVersion value object.
// Returns an error if the string does not match major.minor.patch+build.
func Parse(s string) (AppVersion, error) {
	matches := appVersionRegex.FindStringSubmatch(s)
	if matches == nil {
		return Zero, fmt.Errorf("%w: %q (expected major.minor.patch+build, e.g. 1.2.3+45)", ErrInvalidVersion, s)
	}

	major, err := strconv.ParseUint(matches[1], 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid major component: %w", err)
	}

	minor, err := strconv.ParseUint(matches[2], 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid minor component: %w", err)
	}

	patch, err := strconv.ParseUint(matches[3], 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid patch component: %w", err)
	}

	build, err := strconv.ParseUint(matches[4], 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid build number: %w", err)
	}

	return AppVersion{
		major: major,
		minor: minor,
		patch: patch,
		build: build,
	}, nil
}

// MustParse parses an app version string and panics if invalid.
// Use only for known-good version strings.
func MustParse(s string) AppVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major version component.
func (v AppVersion) Major() uint64 {
	return v.major
}

// Minor returns the minor version component.
func (v AppVersion) Minor() uint64 {
	return v.minor
}

// Patch returns the patch version component.
func (v AppVersion) Patch() uint64 {
	return v.patch
}

// Build returns the build number.
func (v AppVersion) Build() uint64 {
	return v.build
}

// IsZero returns true if this is the zero version.
func (v AppVersion) IsZero() bool {
	return v.major == 0 && v.minor == 0 && v.patch == 0 && v.build == 0
}

// String returns the full string representation (major.minor.patch+build).
func (v AppVersion) String() string {
	return fmt.Sprintf("%d.%d.%d+%d", v.major, v.minor, v.patch, v.build)
}

// ReleaseString returns the public release triple without the build number.
func (v AppVersion) ReleaseString() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// TagString returns the release triple with 'v' prefix for git tags.
// Build numbers stay out of tags: a tag marks a release, not an upload.
func (v AppVersion) TagString() string {
	return "v" + v.ReleaseString()
}

// Compare compares two versions component by component, build number last.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v AppVersion) Compare(other AppVersion) int {
	if v.major != other.major {
		if v.major < other.major {
			return -1
		}
		return 1
	}

	if v.minor != other.minor {
		if v.minor < other.minor {
			return -1
		}
		return 1
	}

	if v.patch != other.patch {
		if v.patch < other.patch {
			return -1
		}
		return 1
	}

	if v.build != other.build {
		if v.build < other.build {
			return -1
		}
		return 1
	}

	return 0
}

// LessThan returns true if v < other.
func (v AppVersion) LessThan(other AppVersion) bool {
	return v.Compare(other) < 0
}

// GreaterThan returns true if v > other.
func (v AppVersion) GreaterThan(other AppVersion) bool {
	return v.Compare(other) > 0
}

// Equal returns true if two versions are equal.
func (v AppVersion) Equal(other AppVersion) bool {
	return v == other
}

// MarshalText implements encoding.TextMarshaler so versions serialize as
// their string form in JSON and YAML output.
func (v AppVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *AppVersion) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

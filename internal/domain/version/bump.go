// Package version provides domain types for mobile app versioning.
package version

import (
	"fmt"
)

// BumpType represents the type of version bump to apply.
type BumpType string

const (
	// BumpMajor indicates a major version bump (breaking changes).
	BumpMajor BumpType = "major"
	// BumpMinor indicates a minor version bump (new features).
	BumpMinor BumpType = "minor"
	// BumpPatch indicates a patch version bump (bug fixes).
	BumpPatch BumpType = "patch"
	// BumpBuild indicates a build-only bump (store resubmission).
	BumpBuild BumpType = "build"
)

// IsValid returns true if the bump type is valid.
func (b BumpType) IsValid() bool {
	switch b {
	case BumpMajor, BumpMinor, BumpPatch, BumpBuild:
		return true
	default:
		return false
	}
}

// String returns the string representation of the bump type.
func (b BumpType) String() string {
	return string(b)
}

// Description returns a human-readable description of the bump type.
func (b BumpType) Description() string {
	switch b {
	case BumpMajor:
		return "breaking changes (resets minor and patch)"
	case BumpMinor:
		return "new features (resets patch)"
	case BumpPatch:
		return "bug fixes"
	case BumpBuild:
		return "build number only (store resubmission)"
	default:
		return "unknown"
	}
}

// ParseBumpType parses a string into a BumpType.
func ParseBumpType(s string) (BumpType, error) {
	bt := BumpType(s)
	if !bt.IsValid() {
		return "", fmt.Errorf("%w: %q (must be major, minor, patch, or build)", ErrInvalidBumpType, s)
	}
	return bt, nil
}

// Bump applies a bump to the version and returns the new version.
// Every bump increments the build number: each upload to a store needs a
// build number never used before, even when the release triple is unchanged.
func (v AppVersion) Bump(t BumpType) AppVersion {
	switch t {
	case BumpMajor:
		return AppVersion{
			major: v.major + 1,
			minor: 0,
			patch: 0,
			build: v.build + 1,
		}

	case BumpMinor:
		return AppVersion{
			major: v.major,
			minor: v.minor + 1,
			patch: 0,
			build: v.build + 1,
		}

	case BumpPatch:
		return AppVersion{
			major: v.major,
			minor: v.minor,
			patch: v.patch + 1,
			build: v.build + 1,
		}

	case BumpBuild:
		return AppVersion{
			major: v.major,
			minor: v.minor,
			patch: v.patch,
			build: v.build + 1,
		}

	default:
		return v
	}
}

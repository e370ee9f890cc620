// Package project reads and mutates the release-bearing files of a
// Flutter project: the pubspec.yaml version line and the changelog.
package project

import (
	"context"
	"os"
	"path/filepath"

	"github.com/halyard-dev/halyard/internal/domain/changelog"
	"github.com/halyard-dev/halyard/internal/domain/version"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// maxProjectFileSize bounds reads of the pubspec and changelog files.
const maxProjectFileSize = 4 << 20

// Service defines project file operations.
type Service interface {
	// Info returns the project name, current version, and file facts.
	Info(ctx context.Context) (*Info, error)

	// CurrentVersion reads the version from the pubspec file.
	CurrentVersion(ctx context.Context) (version.AppVersion, error)

	// WriteVersion rewrites the pubspec version line in place. Every other
	// line of the document is preserved byte for byte.
	WriteVersion(ctx context.Context, v version.AppVersion) error

	// ReadChangelog returns the changelog document, or "" when the file
	// does not exist yet.
	ReadChangelog(ctx context.Context) (string, error)

	// MergeEntry renders the entry and inserts it under the changelog's
	// top-level heading. A missing or empty changelog is scaffolded first.
	MergeEntry(ctx context.Context, entry changelog.Entry) error

	// PubspecPath returns the resolved pubspec path.
	PubspecPath() string

	// ChangelogPath returns the resolved changelog path.
	ChangelogPath() string
}

// Info describes the project as read from disk.
type Info struct {
	// Name is the package name from pubspec.yaml.
	Name string `json:"name"`
	// Version is the current app version.
	Version version.AppVersion `json:"version"`
	// PubspecPath is the resolved pubspec location.
	PubspecPath string `json:"pubspec_path"`
	// ChangelogPath is the resolved changelog location.
	ChangelogPath string `json:"changelog_path"`
	// HasChangelog reports whether the changelog file exists.
	HasChangelog bool `json:"has_changelog"`
}

// ServiceConfig configures the project service.
type ServiceConfig struct {
	// Root is the project root directory. Relative file paths resolve
	// against it.
	Root string
	// PubspecPath is the pubspec location, relative to Root or absolute.
	PubspecPath string
	// ChangelogPath is the changelog location, relative to Root or absolute.
	ChangelogPath string
}

// DefaultServiceConfig returns the default project configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Root:          ".",
		PubspecPath:   "pubspec.yaml",
		ChangelogPath: "CHANGELOG.md",
	}
}

// ServiceOption configures the project service.
type ServiceOption func(*ServiceConfig)

// WithRoot sets the project root directory.
func WithRoot(root string) ServiceOption {
	return func(cfg *ServiceConfig) {
		cfg.Root = root
	}
}

// WithPubspecPath sets the pubspec location.
func WithPubspecPath(path string) ServiceOption {
	return func(cfg *ServiceConfig) {
		cfg.PubspecPath = path
	}
}

// WithChangelogPath sets the changelog location.
func WithChangelogPath(path string) ServiceOption {
	return func(cfg *ServiceConfig) {
		cfg.ChangelogPath = path
	}
}

// Ensure ServiceImpl implements Service.
var _ Service = (*ServiceImpl)(nil)

// ServiceImpl is the implementation of the project service.
type ServiceImpl struct {
	pubspecPath   string
	changelogPath string
}

// NewService creates a new project service.
func NewService(opts ...ServiceOption) (*ServiceImpl, error) {
	cfg := DefaultServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.PubspecPath == "" {
		return nil, hlerrors.Config("project.NewService", "pubspec path is required")
	}
	if cfg.ChangelogPath == "" {
		return nil, hlerrors.Config("project.NewService", "changelog path is required")
	}

	return &ServiceImpl{
		pubspecPath:   resolvePath(cfg.Root, cfg.PubspecPath),
		changelogPath: resolvePath(cfg.Root, cfg.ChangelogPath),
	}, nil
}

// Info returns the project name, current version, and file facts.
func (s *ServiceImpl) Info(ctx context.Context) (*Info, error) {
	const op = "project.Info"

	pubspec, err := s.readPubspec(ctx)
	if err != nil {
		return nil, err
	}

	v, err := version.Parse(pubspec.Version)
	if err != nil {
		return nil, hlerrors.FormatWrap(err, op, "pubspec version is not a valid app version")
	}

	hasChangelog := false
	if _, statErr := os.Stat(s.changelogPath); statErr == nil {
		hasChangelog = true
	}

	return &Info{
		Name:          pubspec.Name,
		Version:       v,
		PubspecPath:   s.pubspecPath,
		ChangelogPath: s.changelogPath,
		HasChangelog:  hasChangelog,
	}, nil
}

// CurrentVersion reads the version from the pubspec file.
func (s *ServiceImpl) CurrentVersion(ctx context.Context) (version.AppVersion, error) {
	const op = "project.CurrentVersion"

	pubspec, err := s.readPubspec(ctx)
	if err != nil {
		return version.Zero, err
	}

	v, err := version.Parse(pubspec.Version)
	if err != nil {
		return version.Zero, hlerrors.FormatWrap(err, op, "pubspec version is not a valid app version")
	}
	return v, nil
}

// PubspecPath returns the resolved pubspec path.
func (s *ServiceImpl) PubspecPath() string {
	return s.pubspecPath
}

// ChangelogPath returns the resolved changelog path.
func (s *ServiceImpl) ChangelogPath() string {
	return s.changelogPath
}

// resolvePath joins a path with the project root unless it is absolute.
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, path)
}

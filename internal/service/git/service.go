// Package git provides git operations for Halyard.
package git

import (
	"context"
	"errors"
	"time"
)

// DefaultCommitWindow is how many commits are inspected when the
// repository has no version tag to anchor the range.
const DefaultCommitWindow = 20

// ErrNoVersionTags is returned (wrapped) when the repository contains no
// tag that parses as a version.
var ErrNoVersionTags = errors.New("no version tags found")

// Service defines the interface for git operations.
type Service interface {
	// GetRepositoryRoot returns the absolute path to the repository root.
	GetRepositoryRoot(ctx context.Context) (string, error)

	// IsClean returns true if the working tree has no uncommitted changes.
	IsClean(ctx context.Context) (bool, error)

	// GetCurrentBranch returns the current branch name.
	GetCurrentBranch(ctx context.Context) (string, error)

	// GetHeadCommit returns the current HEAD commit.
	GetHeadCommit(ctx context.Context) (*Commit, error)

	// ListVersionTags returns every tag whose name parses as a version
	// (an optional v prefix is tolerated), highest version first.
	ListVersionTags(ctx context.Context) ([]Tag, error)

	// GetLatestVersionTag returns the highest version tag. The error
	// wraps ErrNoVersionTags when the repository has none.
	GetLatestVersionTag(ctx context.Context) (*Tag, error)

	// CommitsSinceTag returns the commits made after the given tag,
	// newest first. With an empty tag name it returns at most
	// DefaultCommitWindow of the newest commits.
	CommitsSinceTag(ctx context.Context, tagName string) ([]Commit, error)

	// CommitFiles stages the given paths (relative to the repository
	// root) and commits them with the given message.
	CommitFiles(ctx context.Context, paths []string, message string) (*Commit, error)

	// CreateTag creates an annotated tag pointing at HEAD.
	CreateTag(ctx context.Context, name, message string) error

	// Push pushes the current branch to the remote.
	Push(ctx context.Context, opts PushOptions) error

	// PushTag pushes a tag to the remote.
	PushTag(ctx context.Context, name string, opts PushOptions) error
}

// Commit represents a git commit.
type Commit struct {
	// Hash is the commit SHA.
	Hash string `json:"hash"`
	// ShortHash is the abbreviated commit SHA (7 characters).
	ShortHash string `json:"short_hash"`
	// Message is the full commit message.
	Message string `json:"message"`
	// Subject is the first line of the commit message.
	Subject string `json:"subject"`
	// Body is the commit message body (everything after the first line).
	Body string `json:"body,omitempty"`
	// Author is the commit author.
	Author Author `json:"author"`
	// Date is the commit date.
	Date time.Time `json:"date"`
}

// Author represents a git author or committer.
type Author struct {
	// Name is the author's name.
	Name string `json:"name"`
	// Email is the author's email.
	Email string `json:"email"`
}

// Tag represents a git tag.
type Tag struct {
	// Name is the tag name.
	Name string `json:"name"`
	// Hash is the commit hash the tag points to.
	Hash string `json:"hash"`
	// Message is the tag message (for annotated tags).
	Message string `json:"message,omitempty"`
	// Date is the tag date.
	Date time.Time `json:"date"`
	// IsAnnotated indicates if this is an annotated tag.
	IsAnnotated bool `json:"is_annotated"`
}

// PushOptions configures push operations.
type PushOptions struct {
	// Remote is the remote name (default: the service's remote).
	Remote string
	// DryRun simulates the push.
	DryRun bool
}

// ServiceConfig configures the git service.
type ServiceConfig struct {
	// RepoPath is the path to the repository.
	RepoPath string
	// DefaultRemote is the default remote name.
	DefaultRemote string
}

// DefaultServiceConfig returns the default service configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		RepoPath:      ".",
		DefaultRemote: "origin",
	}
}

// ServiceOption configures the git service.
type ServiceOption func(*ServiceConfig)

// WithRepoPath sets the repository path.
func WithRepoPath(path string) ServiceOption {
	return func(cfg *ServiceConfig) {
		cfg.RepoPath = path
	}
}

// WithDefaultRemote sets the default remote.
func WithDefaultRemote(remote string) ServiceOption {
	return func(cfg *ServiceConfig) {
		cfg.DefaultRemote = remote
	}
}

package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

// errStopIteration is a sentinel error used to signal early termination of commit iteration.
var errStopIteration = errors.New("stop iteration")

// Ensure ServiceImpl implements Service.
var _ Service = (*ServiceImpl)(nil)

// ServiceImpl is the go-git implementation of the git service.
type ServiceImpl struct {
	cfg      ServiceConfig
	repo     *git.Repository
	worktree *git.Worktree
}

// NewService creates a new git service.
func NewService(opts ...ServiceOption) (*ServiceImpl, error) {
	cfg := DefaultServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	absPath, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return nil, hlerrors.GitWrap(err, "git.NewService", "failed to get absolute path")
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, hlerrors.GitWrap(err, "git.NewService", "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, hlerrors.GitWrap(err, "git.NewService", "failed to get worktree")
	}

	return &ServiceImpl{
		cfg:      cfg,
		repo:     repo,
		worktree: worktree,
	}, nil
}

// GetRepositoryRoot returns the absolute path to the repository root.
func (s *ServiceImpl) GetRepositoryRoot(_ context.Context) (string, error) {
	return s.worktree.Filesystem.Root(), nil
}

// IsClean returns true if the working tree has no uncommitted changes.
func (s *ServiceImpl) IsClean(_ context.Context) (bool, error) {
	const op = "git.IsClean"

	status, err := s.worktree.Status()
	if err != nil {
		return false, hlerrors.GitWrap(err, op, "failed to get worktree status")
	}

	return status.IsClean(), nil
}

// GetCurrentBranch returns the current branch name.
func (s *ServiceImpl) GetCurrentBranch(_ context.Context) (string, error) {
	const op = "git.GetCurrentBranch"

	head, err := s.repo.Head()
	if err != nil {
		return "", hlerrors.GitWrap(err, op, "failed to get HEAD")
	}

	if !head.Name().IsBranch() {
		return "", hlerrors.Git(op, "HEAD is not on a branch (detached HEAD)")
	}

	return head.Name().Short(), nil
}

// GetHeadCommit returns the current HEAD commit.
func (s *ServiceImpl) GetHeadCommit(_ context.Context) (*Commit, error) {
	const op = "git.GetHeadCommit"

	head, err := s.repo.Head()
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to get HEAD")
	}

	commit, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to get HEAD commit")
	}

	return convertCommit(commit), nil
}

// versionTag holds a tag with its pre-parsed version.
type versionTag struct {
	tag     Tag
	version *semver.Version
}

// ListVersionTags returns every tag whose name parses as a version,
// highest version first.
func (s *ServiceImpl) ListVersionTags(ctx context.Context) ([]Tag, error) {
	const op = "git.ListVersionTags"

	iter, err := s.repo.Tags()
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to get tags iterator")
	}
	defer iter.Close()

	var tags []versionTag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		v, ok := parseVersionTag(ref.Name().Short())
		if !ok {
			return nil
		}

		tags = append(tags, versionTag{tag: s.convertTag(ref), version: v})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, hlerrors.GitWrap(ctx.Err(), op, "operation canceled")
		}
		return nil, hlerrors.GitWrap(err, op, "failed to iterate tags")
	}

	// Sort by version, highest first
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].version.GreaterThan(tags[j].version)
	})

	result := make([]Tag, len(tags))
	for i, t := range tags {
		result[i] = t.tag
	}

	return result, nil
}

// GetLatestVersionTag returns the highest version tag.
func (s *ServiceImpl) GetLatestVersionTag(ctx context.Context) (*Tag, error) {
	tags, err := s.ListVersionTags(ctx)
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, hlerrors.GitWrap(ErrNoVersionTags, "git.GetLatestVersionTag", "repository has no version tags")
	}

	return &tags[0], nil
}

// CommitsSinceTag returns the commits made after the given tag, newest
// first. With an empty tag name it returns at most DefaultCommitWindow of
// the newest commits.
func (s *ServiceImpl) CommitsSinceTag(ctx context.Context, tagName string) ([]Commit, error) {
	const op = "git.CommitsSinceTag"

	stop := plumbing.ZeroHash
	limit := DefaultCommitWindow
	if tagName != "" {
		hash, err := s.resolveTagCommit(tagName)
		if err != nil {
			return nil, hlerrors.GitWrap(err, op, fmt.Sprintf("failed to resolve tag %s", tagName))
		}
		stop = hash
		limit = 0 // the tag bounds the range
	}

	head, err := s.repo.Head()
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to get HEAD")
	}

	iter, err := s.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to get log iterator")
	}
	defer iter.Close()

	commits := make([]Commit, 0, DefaultCommitWindow)
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if c.Hash == stop {
			return errStopIteration
		}
		commits = append(commits, *convertCommit(c))
		if limit > 0 && len(commits) >= limit {
			return errStopIteration
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		if ctx.Err() != nil {
			return nil, hlerrors.GitWrap(ctx.Err(), op, "operation canceled")
		}
		return nil, hlerrors.GitWrap(err, op, "failed to iterate commits")
	}

	return commits, nil
}

// CommitFiles stages the given paths and commits them.
func (s *ServiceImpl) CommitFiles(_ context.Context, paths []string, message string) (*Commit, error) {
	const op = "git.CommitFiles"

	for _, path := range paths {
		if _, err := s.worktree.Add(path); err != nil {
			return nil, hlerrors.GitWrap(err, op, fmt.Sprintf("failed to stage %s", path))
		}
	}

	hash, err := s.worktree.Commit(message, &git.CommitOptions{
		Author: s.signature(),
	})
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to commit")
	}

	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		return nil, hlerrors.GitWrap(err, op, "failed to read new commit")
	}

	return convertCommit(commit), nil
}

// CreateTag creates an annotated tag pointing at HEAD.
func (s *ServiceImpl) CreateTag(_ context.Context, name, message string) error {
	const op = "git.CreateTag"

	head, err := s.repo.Head()
	if err != nil {
		return hlerrors.GitWrap(err, op, "failed to get HEAD")
	}

	_, err = s.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Message: message,
		Tagger:  s.signature(),
	})
	if err != nil {
		return hlerrors.GitWrap(err, op, fmt.Sprintf("failed to create tag %s", name))
	}

	return nil
}

// Push pushes the current branch to the remote.
func (s *ServiceImpl) Push(ctx context.Context, opts PushOptions) error {
	const op = "git.Push"

	if opts.DryRun {
		return nil
	}

	branch, err := s.GetCurrentBranch(ctx)
	if err != nil {
		return err
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))

	err = s.repo.Push(&git.PushOptions{
		RemoteName: s.remoteName(opts),
		RefSpecs:   []config.RefSpec{refSpec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return hlerrors.GitWrap(err, op, "failed to push")
	}

	return nil
}

// PushTag pushes a tag to the remote.
func (s *ServiceImpl) PushTag(_ context.Context, name string, opts PushOptions) error {
	const op = "git.PushTag"

	if opts.DryRun {
		return nil
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))

	err := s.repo.Push(&git.PushOptions{
		RemoteName: s.remoteName(opts),
		RefSpecs:   []config.RefSpec{refSpec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return hlerrors.GitWrap(err, op, fmt.Sprintf("failed to push tag %s", name))
	}

	return nil
}

// Helper methods

// remoteName resolves the remote to push to.
func (s *ServiceImpl) remoteName(opts PushOptions) string {
	if opts.Remote != "" {
		return opts.Remote
	}
	return s.cfg.DefaultRemote
}

// resolveTagCommit resolves a tag name to the commit hash it points to,
// following annotated tag objects to their target.
func (s *ServiceImpl) resolveTagCommit(name string) (plumbing.Hash, error) {
	ref, err := s.repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("tag not found: %s", name)
	}

	tagObj, err := s.repo.TagObject(ref.Hash())
	if err != nil {
		// Lightweight tag, the reference points at the commit directly
		return ref.Hash(), nil
	}

	commit, err := tagObj.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve tag %s: %w", name, err)
	}

	return commit.Hash, nil
}

// signature returns the identity for commits and tags from git config,
// falling back to a fixed identity when none is configured.
func (s *ServiceImpl) signature() *object.Signature {
	sig := &object.Signature{
		Name:  "Halyard",
		Email: "halyard@localhost",
		When:  time.Now(),
	}

	cfg, err := s.repo.ConfigScoped(config.SystemScope)
	if err == nil && cfg.User.Name != "" {
		sig.Name = cfg.User.Name
		sig.Email = cfg.User.Email
	}

	return sig
}

// convertTag converts a go-git tag reference to a Tag, resolving
// annotated tags to the commit they point at.
func (s *ServiceImpl) convertTag(ref *plumbing.Reference) Tag {
	tag := Tag{
		Name: ref.Name().Short(),
		Hash: ref.Hash().String(),
	}

	tagObj, err := s.repo.TagObject(ref.Hash())
	if err == nil {
		tag.Message = tagObj.Message
		tag.IsAnnotated = true
		tag.Date = tagObj.Tagger.When
		if commit, err := tagObj.Commit(); err == nil {
			tag.Hash = commit.Hash.String()
		}
		return tag
	}

	// Lightweight tag, use the commit date
	if commit, err := s.repo.CommitObject(ref.Hash()); err == nil {
		tag.Date = commit.Author.When
	}

	return tag
}

// parseVersionTag parses a tag name as a version, tolerating an optional
// v prefix and build metadata.
func parseVersionTag(name string) (*semver.Version, bool) {
	v, err := semver.NewVersion(strings.TrimPrefix(name, "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// convertCommit converts a go-git commit to a Commit.
func convertCommit(c *object.Commit) *Commit {
	subject, body := splitMessage(c.Message)
	hashStr := c.Hash.String()

	return &Commit{
		Hash:      hashStr,
		ShortHash: hashStr[:7],
		Message:   c.Message,
		Subject:   subject,
		Body:      body,
		Author: Author{
			Name:  c.Author.Name,
			Email: c.Author.Email,
		},
		Date: c.Author.When,
	}
}

// splitMessage splits a commit message into subject and body.
func splitMessage(message string) (subject, body string) {
	lines := strings.SplitN(strings.TrimSpace(message), "\n", 2)
	subject = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return subject, body
}

package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/halyard-dev/halyard/internal/config"
	"github.com/halyard-dev/halyard/internal/domain/changelog"
	"github.com/halyard-dev/halyard/internal/domain/version"
	"github.com/halyard-dev/halyard/internal/service/git"
	"github.com/halyard-dev/halyard/internal/service/project"
)

// setupTestConfig installs a default config and resets every command
// flag, restoring the originals when the test ends.
func setupTestConfig(t *testing.T) {
	t.Helper()

	origCfg := cfg
	origDryRun, origJSON := dryRun, outputJSON
	origYes, origNonInteractive := assumeYes, nonInteractive
	origVerbose := verbose
	origBumpSet := bumpSet
	origRelBump, origRelSet, origRelChannel := releaseBumpKind, releaseSetVersion, releaseChannel
	origSkipIOS, origSkipAndroid, origSubmit := releaseSkipIOS, releaseSkipAndroid, releaseSubmit
	origNoCommit, origNoTag, origNoPush := releaseNoCommit, releaseNoTag, releaseNoPush
	origInitForce := initForce

	cfg = config.DefaultConfig()
	dryRun, outputJSON, assumeYes, nonInteractive, verbose = false, false, false, false, false
	bumpSet = ""
	releaseBumpKind, releaseSetVersion, releaseChannel = "", "", ""
	releaseSkipIOS, releaseSkipAndroid, releaseSubmit = false, false, false
	releaseNoCommit, releaseNoTag, releaseNoPush = false, false, false
	initForce = false

	t.Cleanup(func() {
		cfg = origCfg
		dryRun, outputJSON = origDryRun, origJSON
		assumeYes, nonInteractive = origYes, origNonInteractive
		verbose = origVerbose
		bumpSet = origBumpSet
		releaseBumpKind, releaseSetVersion, releaseChannel = origRelBump, origRelSet, origRelChannel
		releaseSkipIOS, releaseSkipAndroid, releaseSubmit = origSkipIOS, origSkipAndroid, origSubmit
		releaseNoCommit, releaseNoTag, releaseNoPush = origNoCommit, origNoTag, origNoPush
		initForce = origInitForce
	})
}

// chdirTemp switches into a fresh temp directory for the test.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

// captureStdout runs fn while collecting everything written to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return buf.String()
}

// mockGitService is a hand-rolled git.Service double.
type mockGitService struct {
	root         string
	rootErr      error
	clean        bool
	cleanErr     error
	branch       string
	branchErr    error
	head         *git.Commit
	headErr      error
	tags         []git.Tag
	latestTag    *git.Tag
	latestTagErr error
	commits      []git.Commit
	commitsErr   error
	sinceTagArg  string
	commitErr    error
	commitPaths  []string
	commitMsg    string
	tagNames     []string
	tagErr       error
	pushCalled   bool
	pushErr      error
	pushedTags   []string
	pushTagErr   error
}

var _ git.Service = (*mockGitService)(nil)

func (m *mockGitService) GetRepositoryRoot(context.Context) (string, error) {
	return m.root, m.rootErr
}

func (m *mockGitService) IsClean(context.Context) (bool, error) {
	return m.clean, m.cleanErr
}

func (m *mockGitService) GetCurrentBranch(context.Context) (string, error) {
	return m.branch, m.branchErr
}

func (m *mockGitService) GetHeadCommit(context.Context) (*git.Commit, error) {
	return m.head, m.headErr
}

func (m *mockGitService) ListVersionTags(context.Context) ([]git.Tag, error) {
	return m.tags, nil
}

func (m *mockGitService) GetLatestVersionTag(context.Context) (*git.Tag, error) {
	return m.latestTag, m.latestTagErr
}

func (m *mockGitService) CommitsSinceTag(_ context.Context, tagName string) ([]git.Commit, error) {
	m.sinceTagArg = tagName
	return m.commits, m.commitsErr
}

func (m *mockGitService) CommitFiles(_ context.Context, paths []string, message string) (*git.Commit, error) {
	if m.commitErr != nil {
		return nil, m.commitErr
	}
	m.commitPaths = paths
	m.commitMsg = message
	return &git.Commit{Hash: "abc1234def5678", ShortHash: "abc1234"}, nil
}

func (m *mockGitService) CreateTag(_ context.Context, name, _ string) error {
	if m.tagErr != nil {
		return m.tagErr
	}
	m.tagNames = append(m.tagNames, name)
	return nil
}

func (m *mockGitService) Push(_ context.Context, _ git.PushOptions) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushCalled = true
	return nil
}

func (m *mockGitService) PushTag(_ context.Context, name string, _ git.PushOptions) error {
	if m.pushTagErr != nil {
		return m.pushTagErr
	}
	m.pushedTags = append(m.pushedTags, name)
	return nil
}

// mockProjectService is a hand-rolled project.Service double.
type mockProjectService struct {
	info          *project.Info
	infoErr       error
	current       version.AppVersion
	currentErr    error
	written       []version.AppVersion
	writeErr      error
	changelogDoc  string
	readErr       error
	mergedEntries []changelog.Entry
	mergeErr      error
	pubspecPath   string
	changelogPath string
}

var _ project.Service = (*mockProjectService)(nil)

func (m *mockProjectService) Info(context.Context) (*project.Info, error) {
	return m.info, m.infoErr
}

func (m *mockProjectService) CurrentVersion(context.Context) (version.AppVersion, error) {
	return m.current, m.currentErr
}

func (m *mockProjectService) WriteVersion(_ context.Context, v version.AppVersion) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, v)
	return nil
}

func (m *mockProjectService) ReadChangelog(context.Context) (string, error) {
	return m.changelogDoc, m.readErr
}

func (m *mockProjectService) MergeEntry(_ context.Context, entry changelog.Entry) error {
	if m.mergeErr != nil {
		return m.mergeErr
	}
	m.mergedEntries = append(m.mergedEntries, entry)
	return nil
}

func (m *mockProjectService) PubspecPath() string {
	return m.pubspecPath
}

func (m *mockProjectService) ChangelogPath() string {
	return m.changelogPath
}

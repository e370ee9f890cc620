package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepoHelper provides helper functions for creating test git repositories.
type testRepoHelper struct {
	t       *testing.T
	repoDir string
	repo    *git.Repository
}

// newTestRepo creates a new test repository in a temporary directory.
func newTestRepo(t *testing.T) *testRepoHelper {
	t.Helper()

	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatalf("failed to init test repo: %v", err)
	}

	// Configure a local identity so commits have a deterministic author.
	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("failed to read repo config: %v", err)
	}
	cfg.User.Name = "Test Author"
	cfg.User.Email = "test@example.com"
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("failed to set repo config: %v", err)
	}

	return &testRepoHelper{
		t:       t,
		repoDir: repoDir,
		repo:    repo,
	}
}

// makeCommit creates a test commit in the repository.
func (h *testRepoHelper) makeCommit(message string) string {
	h.t.Helper()

	filename := filepath.Join(h.repoDir, "test.txt")
	if err := os.WriteFile(filename, []byte(message), 0644); err != nil {
		h.t.Fatalf("failed to write test file: %v", err)
	}

	worktree, err := h.repo.Worktree()
	if err != nil {
		h.t.Fatalf("failed to get worktree: %v", err)
	}

	if _, err := worktree.Add("test.txt"); err != nil {
		h.t.Fatalf("failed to stage file: %v", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		h.t.Fatalf("failed to commit: %v", err)
	}

	return hash.String()
}

// makeTag creates a test tag in the repository. A non-empty message
// creates an annotated tag, an empty one a lightweight tag.
func (h *testRepoHelper) makeTag(name, message string) {
	h.t.Helper()

	head, err := h.repo.Head()
	if err != nil {
		h.t.Fatalf("failed to get HEAD: %v", err)
	}

	if message != "" {
		_, err = h.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
			Message: message,
			Tagger: &object.Signature{
				Name:  "Test Tagger",
				Email: "tagger@example.com",
				When:  time.Now(),
			},
		})
	} else {
		refName := plumbing.NewTagReferenceName(name)
		ref := plumbing.NewHashReference(refName, head.Hash())
		err = h.repo.Storer.SetReference(ref)
	}

	if err != nil {
		h.t.Fatalf("failed to create tag: %v", err)
	}
}

func newTestService(t *testing.T, helper *testRepoHelper) *ServiceImpl {
	t.Helper()

	svc, err := NewService(WithRepoPath(helper.repoDir))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestNewService(t *testing.T) {
	t.Run("success with repository", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("Initial commit")

		svc, err := NewService(WithRepoPath(helper.repoDir))
		if err != nil {
			t.Fatalf("NewService() error = %v", err)
		}
		if svc == nil {
			t.Fatal("NewService() returned nil service")
		}
	})

	t.Run("error for non-git directory", func(t *testing.T) {
		_, err := NewService(WithRepoPath(t.TempDir()))
		if err == nil {
			t.Error("NewService() should return error for non-git directory")
		}
	})

	t.Run("opens from a subdirectory", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("Initial commit")

		subDir := filepath.Join(helper.repoDir, "lib")
		if err := os.Mkdir(subDir, 0755); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}

		svc, err := NewService(WithRepoPath(subDir))
		if err != nil {
			t.Fatalf("NewService() error = %v", err)
		}

		root, err := svc.GetRepositoryRoot(context.Background())
		if err != nil {
			t.Fatalf("GetRepositoryRoot() error = %v", err)
		}
		if root != helper.repoDir {
			t.Errorf("GetRepositoryRoot() = %v, want %v", root, helper.repoDir)
		}
	})
}

func TestIsClean(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	svc := newTestService(t, helper)
	ctx := context.Background()

	clean, err := svc.IsClean(ctx)
	if err != nil {
		t.Fatalf("IsClean() error = %v", err)
	}
	if !clean {
		t.Error("IsClean() = false, want true after commit")
	}

	if err := os.WriteFile(filepath.Join(helper.repoDir, "dirty.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	clean, err = svc.IsClean(ctx)
	if err != nil {
		t.Fatalf("IsClean() error = %v", err)
	}
	if clean {
		t.Error("IsClean() = true, want false with untracked file")
	}
}

func TestGetCurrentBranch(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	svc := newTestService(t, helper)

	branch, err := svc.GetCurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentBranch() error = %v", err)
	}
	if branch != "master" && branch != "main" {
		t.Errorf("GetCurrentBranch() = %v, want master or main", branch)
	}
}

func TestGetHeadCommit(t *testing.T) {
	helper := newTestRepo(t)
	hash := helper.makeCommit("feat: add login screen\n\nWith remember-me support.")
	svc := newTestService(t, helper)

	commit, err := svc.GetHeadCommit(context.Background())
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}

	if commit.Hash != hash {
		t.Errorf("Hash = %v, want %v", commit.Hash, hash)
	}
	if commit.ShortHash != hash[:7] {
		t.Errorf("ShortHash = %v, want %v", commit.ShortHash, hash[:7])
	}
	if commit.Subject != "feat: add login screen" {
		t.Errorf("Subject = %q, want %q", commit.Subject, "feat: add login screen")
	}
	if commit.Body != "With remember-me support." {
		t.Errorf("Body = %q, want %q", commit.Body, "With remember-me support.")
	}
	if commit.Author.Name != "Test Author" {
		t.Errorf("Author.Name = %v, want Test Author", commit.Author.Name)
	}
}

func TestListVersionTags(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	helper.makeTag("v1.0.0", "Release v1.0.0")
	helper.makeTag("v1.2.0", "Release v1.2.0")
	helper.makeTag("2.0.0", "") // lightweight, no prefix
	helper.makeTag("nightly", "")
	svc := newTestService(t, helper)

	tags, err := svc.ListVersionTags(context.Background())
	if err != nil {
		t.Fatalf("ListVersionTags() error = %v", err)
	}

	wantOrder := []string{"2.0.0", "v1.2.0", "v1.0.0"}
	if len(tags) != len(wantOrder) {
		t.Fatalf("ListVersionTags() returned %d tags, want %d", len(tags), len(wantOrder))
	}
	for i, want := range wantOrder {
		if tags[i].Name != want {
			t.Errorf("tags[%d].Name = %v, want %v", i, tags[i].Name, want)
		}
	}

	if !tags[1].IsAnnotated {
		t.Error("v1.2.0 should be annotated")
	}
	if tags[0].IsAnnotated {
		t.Error("2.0.0 should be lightweight")
	}
}

func TestListVersionTags_AnnotatedResolvesToCommit(t *testing.T) {
	helper := newTestRepo(t)
	hash := helper.makeCommit("Initial commit")
	helper.makeTag("v1.0.0", "Release v1.0.0")
	svc := newTestService(t, helper)

	tags, err := svc.ListVersionTags(context.Background())
	if err != nil {
		t.Fatalf("ListVersionTags() error = %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("ListVersionTags() returned %d tags, want 1", len(tags))
	}
	if tags[0].Hash != hash {
		t.Errorf("Hash = %v, want target commit %v", tags[0].Hash, hash)
	}
}

func TestGetLatestVersionTag(t *testing.T) {
	t.Run("returns highest version", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("Initial commit")
		helper.makeTag("v1.9.0", "Release v1.9.0")
		helper.makeTag("v1.10.0", "Release v1.10.0") // numeric, not lexical, ordering
		svc := newTestService(t, helper)

		tag, err := svc.GetLatestVersionTag(context.Background())
		if err != nil {
			t.Fatalf("GetLatestVersionTag() error = %v", err)
		}
		if tag.Name != "v1.10.0" {
			t.Errorf("Name = %v, want v1.10.0", tag.Name)
		}
	})

	t.Run("no version tags", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("Initial commit")
		helper.makeTag("nightly", "")
		svc := newTestService(t, helper)

		_, err := svc.GetLatestVersionTag(context.Background())
		if err == nil {
			t.Fatal("GetLatestVersionTag() should return error without version tags")
		}
		if !errors.Is(err, ErrNoVersionTags) {
			t.Errorf("error = %v, want it to wrap ErrNoVersionTags", err)
		}
	})
}

func TestCommitsSinceTag(t *testing.T) {
	t.Run("commits after the tag", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("chore: initial scaffold")
		helper.makeTag("v1.0.0", "Release v1.0.0")
		hash2 := helper.makeCommit("feat: add onboarding flow")
		hash3 := helper.makeCommit("fix: crash on resume")
		svc := newTestService(t, helper)

		commits, err := svc.CommitsSinceTag(context.Background(), "v1.0.0")
		if err != nil {
			t.Fatalf("CommitsSinceTag() error = %v", err)
		}

		if len(commits) != 2 {
			t.Fatalf("CommitsSinceTag() returned %d commits, want 2", len(commits))
		}
		// Newest first
		if commits[0].Hash != hash3 {
			t.Errorf("commits[0].Hash = %v, want %v", commits[0].Hash, hash3)
		}
		if commits[1].Hash != hash2 {
			t.Errorf("commits[1].Hash = %v, want %v", commits[1].Hash, hash2)
		}
	})

	t.Run("tag at HEAD yields no commits", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("chore: initial scaffold")
		helper.makeTag("v1.0.0", "Release v1.0.0")
		svc := newTestService(t, helper)

		commits, err := svc.CommitsSinceTag(context.Background(), "v1.0.0")
		if err != nil {
			t.Fatalf("CommitsSinceTag() error = %v", err)
		}
		if len(commits) != 0 {
			t.Errorf("CommitsSinceTag() returned %d commits, want 0", len(commits))
		}
	})

	t.Run("lightweight tag", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("chore: initial scaffold")
		helper.makeTag("v1.0.0", "")
		hash2 := helper.makeCommit("feat: add settings page")
		svc := newTestService(t, helper)

		commits, err := svc.CommitsSinceTag(context.Background(), "v1.0.0")
		if err != nil {
			t.Fatalf("CommitsSinceTag() error = %v", err)
		}
		if len(commits) != 1 || commits[0].Hash != hash2 {
			t.Errorf("CommitsSinceTag() = %v, want just %v", commits, hash2)
		}
	})

	t.Run("missing tag", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("chore: initial scaffold")
		svc := newTestService(t, helper)

		_, err := svc.CommitsSinceTag(context.Background(), "v9.9.9")
		if err == nil {
			t.Error("CommitsSinceTag() should return error for missing tag")
		}
	})

	t.Run("no tag falls back to window", func(t *testing.T) {
		helper := newTestRepo(t)
		for i := 0; i < DefaultCommitWindow+5; i++ {
			helper.makeCommit(fmt.Sprintf("chore: commit %d", i))
		}
		svc := newTestService(t, helper)

		commits, err := svc.CommitsSinceTag(context.Background(), "")
		if err != nil {
			t.Fatalf("CommitsSinceTag() error = %v", err)
		}
		if len(commits) != DefaultCommitWindow {
			t.Errorf("CommitsSinceTag() returned %d commits, want %d", len(commits), DefaultCommitWindow)
		}
		if commits[0].Subject != fmt.Sprintf("chore: commit %d", DefaultCommitWindow+4) {
			t.Errorf("commits[0].Subject = %q, want the newest commit", commits[0].Subject)
		}
	})

	t.Run("short history under the window", func(t *testing.T) {
		helper := newTestRepo(t)
		helper.makeCommit("chore: first")
		helper.makeCommit("chore: second")
		svc := newTestService(t, helper)

		commits, err := svc.CommitsSinceTag(context.Background(), "")
		if err != nil {
			t.Fatalf("CommitsSinceTag() error = %v", err)
		}
		if len(commits) != 2 {
			t.Errorf("CommitsSinceTag() returned %d commits, want 2", len(commits))
		}
	})
}

func TestCommitFiles(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	svc := newTestService(t, helper)
	ctx := context.Background()

	for _, name := range []string{"pubspec.yaml", "CHANGELOG.md"} {
		path := filepath.Join(helper.repoDir, name)
		if err := os.WriteFile(path, []byte("updated"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	commit, err := svc.CommitFiles(ctx, []string{"pubspec.yaml", "CHANGELOG.md"}, "chore(release): v1.1.0+5")
	if err != nil {
		t.Fatalf("CommitFiles() error = %v", err)
	}

	if commit.Subject != "chore(release): v1.1.0+5" {
		t.Errorf("Subject = %q, want the release message", commit.Subject)
	}
	if commit.Author.Name != "Test Author" {
		t.Errorf("Author.Name = %v, want the configured identity", commit.Author.Name)
	}

	clean, err := svc.IsClean(ctx)
	if err != nil {
		t.Fatalf("IsClean() error = %v", err)
	}
	if !clean {
		t.Error("IsClean() = false, want true after CommitFiles")
	}

	head, err := svc.GetHeadCommit(ctx)
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}
	if head.Hash != commit.Hash {
		t.Errorf("HEAD = %v, want the new commit %v", head.Hash, commit.Hash)
	}
}

func TestCommitFiles_MissingPath(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	svc := newTestService(t, helper)

	_, err := svc.CommitFiles(context.Background(), []string{"no-such-file.yaml"}, "chore(release): v1.1.0+5")
	if err == nil {
		t.Error("CommitFiles() should return error for a missing path")
	}
}

func TestCreateTag(t *testing.T) {
	helper := newTestRepo(t)
	hash := helper.makeCommit("Initial commit")
	svc := newTestService(t, helper)
	ctx := context.Background()

	if err := svc.CreateTag(ctx, "v1.1.0", "Release v1.1.0"); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}

	tag, err := svc.GetLatestVersionTag(ctx)
	if err != nil {
		t.Fatalf("GetLatestVersionTag() error = %v", err)
	}
	if tag.Name != "v1.1.0" {
		t.Errorf("Name = %v, want v1.1.0", tag.Name)
	}
	if !tag.IsAnnotated {
		t.Error("CreateTag() should create an annotated tag")
	}
	if tag.Hash != hash {
		t.Errorf("Hash = %v, want HEAD commit %v", tag.Hash, hash)
	}

	if err := svc.CreateTag(ctx, "v1.1.0", "Release v1.1.0"); err == nil {
		t.Error("CreateTag() should return error for an existing tag")
	}
}

func TestPush_DryRun(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	helper.makeTag("v1.0.0", "Release v1.0.0")
	svc := newTestService(t, helper)
	ctx := context.Background()

	// Dry run short-circuits before touching the (absent) remote.
	if err := svc.Push(ctx, PushOptions{DryRun: true}); err != nil {
		t.Errorf("Push() dry-run error = %v", err)
	}
	if err := svc.PushTag(ctx, "v1.0.0", PushOptions{DryRun: true}); err != nil {
		t.Errorf("PushTag() dry-run error = %v", err)
	}
}

func TestPush_NoRemote(t *testing.T) {
	helper := newTestRepo(t)
	helper.makeCommit("Initial commit")
	helper.makeTag("v1.0.0", "Release v1.0.0")
	svc := newTestService(t, helper)
	ctx := context.Background()

	if err := svc.Push(ctx, PushOptions{}); err == nil {
		t.Error("Push() should fail without a remote")
	}
	if err := svc.PushTag(ctx, "v1.0.0", PushOptions{}); err == nil {
		t.Error("PushTag() should fail without a remote")
	}
}

func TestParseVersionTag(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		valid bool
	}{
		{name: "v prefix", tag: "v1.2.3", valid: true},
		{name: "bare version", tag: "1.2.3", valid: true},
		{name: "build metadata", tag: "v1.2.3+45", valid: true},
		{name: "not a version", tag: "nightly", valid: false},
		{name: "empty", tag: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseVersionTag(tt.tag)
			if ok != tt.valid {
				t.Errorf("parseVersionTag(%q) ok = %v, want %v", tt.tag, ok, tt.valid)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "subject only",
			message:     "feat: add thing\n",
			wantSubject: "feat: add thing",
		},
		{
			name:        "subject and body",
			message:     "feat: add thing\n\nLonger description.",
			wantSubject: "feat: add thing",
			wantBody:    "Longer description.",
		},
		{
			name:    "empty",
			message: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := splitMessage(tt.message)
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

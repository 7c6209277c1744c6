package gitops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/xvc-go/xvcgo/internal/cli"
	"github.com/xvc-go/xvcgo/internal/output"
	"github.com/xvc-go/xvcgo/internal/project"
)

// setupRepo creates a git repository with one commit and an xvc project
// at its root.
func setupRepo(t *testing.T, config string) (*git.Repository, *project.Root) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}
	writeFile(t, filepath.Join(dir, "README.md"), "hello\n")
	commitAll(t, repo, "initial")

	writeFile(t, filepath.Join(dir, project.MetadataDir, project.ConfigFile), config)
	writeFile(t, filepath.Join(dir, project.MetadataDir, ".gitignore"), "store\n")

	root, err := project.Find(dir)
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	return repo, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func commitAll(t *testing.T, repo *git.Repository, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree failed: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return hash
}

func headMessage(t *testing.T, repo *git.Repository) string {
	t.Helper()
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	c, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("CommitObject failed: %v", err)
	}
	return c.Message
}

func command(t *testing.T, tokens ...string) *cli.Command {
	t.Helper()
	cmd, err := cli.NewParser().Parse(append([]string{"xvc"}, tokens...))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return cmd
}

func TestSyncCommitsMetadata(t *testing.T) {
	repo, root := setupRepo(t, "")
	writeFile(t, filepath.Join(root.Dir, "data.csv"), "a,b\n")

	var rec output.Recorder
	cmd := command(t, "file", "track", "data.csv")
	if err := New(nil).Sync(context.Background(), root, cmd, &rec); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	if got, want := headMessage(t, repo), "Xvc auto-commit after 'xvc file track data.csv'"; got != want {
		t.Errorf("commit message = %q, want %q", got, want)
	}

	wt, _ := repo.Worktree()
	status, err := wt.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st := status.File("data.csv"); st.Worktree != git.Untracked {
		t.Errorf("data.csv status = %q, want untracked (not auto-staged)", st.Worktree)
	}
	if st, ok := status[".xvc/config.toml"]; ok && (st.Staging != git.Unmodified || st.Worktree != git.Unmodified) {
		t.Errorf(".xvc/config.toml not committed: %+v", st)
	}
	if len(rec.Bodies(output.SeverityInfo)) == 0 {
		t.Error("no commit line reported")
	}
}

func TestSyncAutoStage(t *testing.T) {
	repo, root := setupRepo(t, "[git]\nauto_stage = true\n")
	writeFile(t, filepath.Join(root.Dir, "data.csv"), "a,b\n")

	if err := New(nil).Sync(context.Background(), root, command(t, "file", "list"), nil); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	wt, _ := repo.Worktree()
	status, _ := wt.Status()
	if !status.IsClean() {
		t.Errorf("worktree not clean after auto-stage commit:\n%s", status)
	}
}

func TestSyncWithoutAutoCommitOnlyStages(t *testing.T) {
	repo, root := setupRepo(t, "[git]\nauto_commit = false\n")

	if err := New(nil).Sync(context.Background(), root, command(t, "file", "list"), nil); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if got := headMessage(t, repo); got != "initial" {
		t.Errorf("HEAD message = %q, want initial", got)
	}
	wt, _ := repo.Worktree()
	status, _ := wt.Status()
	if st := status.File(".xvc/config.toml"); st.Staging != git.Added {
		t.Errorf("config staging = %q, want added", st.Staging)
	}
}

func TestSyncUseGitFalse(t *testing.T) {
	repo, root := setupRepo(t, "[git]\nuse_git = false\n")

	if err := New(nil).Sync(context.Background(), root, command(t, "file", "list"), nil); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if got := headMessage(t, repo); got != "initial" {
		t.Errorf("HEAD message = %q, want initial", got)
	}
}

func TestSyncToBranch(t *testing.T) {
	repo, root := setupRepo(t, "")

	cmd := command(t, "--to-branch", "experiment", "file", "list")
	if err := New(nil).Sync(context.Background(), root, cmd, nil); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	if head.Name().Short() != "experiment" {
		t.Errorf("HEAD = %s, want experiment", head.Name().Short())
	}
	if !strings.HasPrefix(headMessage(t, repo), "Xvc auto-commit after") {
		t.Error("metadata not committed on the new branch")
	}
}

func TestSyncNotGitRepository(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.MetadataDir, project.ConfigFile), "")
	root, err := project.Find(dir)
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}

	err = New(nil).Sync(context.Background(), root, command(t, "root"), nil)
	if !errors.Is(err, ErrNotGitRepository) {
		t.Errorf("Sync() error = %v, want ErrNotGitRepository", err)
	}
}

func TestSyncNilRoot(t *testing.T) {
	if err := New(nil).Sync(context.Background(), nil, command(t, "aliases"), nil); err != nil {
		t.Errorf("Sync(nil root) error = %v", err)
	}
}

func TestCheckoutRef(t *testing.T) {
	repo, root := setupRepo(t, "")
	initial, _ := repo.Head()

	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("other"), initial.Hash())); err != nil {
		t.Fatalf("SetReference failed: %v", err)
	}
	commitAll(t, repo, "second")

	var rec output.Recorder
	if err := New(nil).CheckoutRef(context.Background(), root, "other", &rec); err != nil {
		t.Fatalf("CheckoutRef(branch) failed: %v", err)
	}
	head, _ := repo.Head()
	if head.Name().Short() != "other" {
		t.Errorf("HEAD = %s, want other", head.Name())
	}
	if diff := rec.Bodies(output.SeverityInfo); len(diff) != 1 || diff[0] != "Checked out other\n" {
		t.Errorf("info lines = %q", diff)
	}

	if err := New(nil).CheckoutRef(context.Background(), root, initial.Hash().String(), nil); err != nil {
		t.Fatalf("CheckoutRef(hash) failed: %v", err)
	}
	head, _ = repo.Head()
	if head.Name() != plumbing.HEAD || head.Hash() != initial.Hash() {
		t.Errorf("HEAD = %s %s, want detached at %s", head.Name(), head.Hash(), initial.Hash())
	}
}

func TestCheckoutRefUnknown(t *testing.T) {
	_, root := setupRepo(t, "")
	err := New(nil).CheckoutRef(context.Background(), root, "no-such-ref", nil)
	if !errors.Is(err, ErrRefNotFound) {
		t.Errorf("CheckoutRef() error = %v, want ErrRefNotFound", err)
	}
}

func TestIsMetadata(t *testing.T) {
	tests := []struct {
		path     string
		metadata string
		want     bool
	}{
		{".xvc/config.toml", ".xvc", true},
		{".xvc", ".xvc", true},
		{".xvcignore", ".xvc", true},
		{"data/.gitignore", ".xvc", true},
		{".xvcfoo/x", ".xvc", false},
		{"sub/.xvc/store/x", "sub/.xvc", true},
		{".xvc/config.toml", "sub/.xvc", false},
		{"data.csv", ".xvc", false},
	}
	for _, tt := range tests {
		if got := isMetadata(tt.path, tt.metadata); got != tt.want {
			t.Errorf("isMetadata(%q, %q) = %v, want %v", tt.path, tt.metadata, got, tt.want)
		}
	}
}

// Package gitops performs the git side effects around engine commands:
// checking out --from-ref before a command runs, and switching to
// --to-branch, staging project metadata and committing after it.
//
// Everything goes through go-git, so no git executable is needed.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/xvc-go/xvcgo/internal/cli"
	"github.com/xvc-go/xvcgo/internal/logging"
	"github.com/xvc-go/xvcgo/internal/output"
	"github.com/xvc-go/xvcgo/internal/project"
)

var (
	// ErrNotGitRepository is returned when the project is not inside a
	// git working tree but git automation is enabled.
	ErrNotGitRepository = errors.New("not a git repository")

	// ErrRefNotFound is returned when --from-ref names nothing.
	ErrRefNotFound = errors.New("reference not found")
)

// Fallback commit identity when git config has none.
const (
	DefaultAuthorName  = "xvc"
	DefaultAuthorEmail = "xvc@localhost"
)

// Git runs automation with go-git.
type Git struct {
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Git. A nil logger discards diagnostics.
func New(logger *slog.Logger) *Git {
	return &Git{logger: logging.OrDiscard(logger), now: time.Now}
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepository, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

// CheckoutRef checks out ref, a branch name or any revision go-git can
// resolve, in the repository containing root. Local changes are kept.
func (g *Git) CheckoutRef(ctx context.Context, root *project.Root, ref string, sink output.Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo, err := open(root.Dir)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	opts := &git.CheckoutOptions{Keep: true}
	branch := plumbing.NewBranchReferenceName(ref)
	if _, err := repo.Reference(branch, true); err == nil {
		opts.Branch = branch
	} else {
		hash, err := repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrRefNotFound, ref)
		}
		opts.Hash = *hash
	}

	if err := wt.Checkout(opts); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	g.logger.Debug("checked out reference", "ref", ref, "dir", root.Dir)
	output.Infof(sink, "Checked out %s\n", ref)
	return nil
}

// Sync runs the post-command automation for cmd: switch to --to-branch,
// stage project metadata (everything, with git.auto_stage) and commit
// when git.auto_commit is set. Projects with git.use_git = false are left
// alone.
func (g *Git) Sync(ctx context.Context, root *project.Root, cmd *cli.Command, sink output.Sink) error {
	if root == nil {
		return nil
	}
	if !root.Config.Git.UseGit {
		output.Debugf(sink, "git.use_git is false, skipping git automation\n")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	repo, err := open(root.Dir)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	if cmd.Global.ToBranch != "" {
		if err := switchBranch(repo, wt, cmd.Global.ToBranch); err != nil {
			return err
		}
		output.Infof(sink, "Switched to branch %s\n", cmd.Global.ToBranch)
	}

	staged, err := stage(wt, metadataPrefix(wt, root), root.Config.Git.AutoStage)
	if err != nil {
		return err
	}
	if staged == 0 {
		output.Debugf(sink, "No files to commit\n")
		return nil
	}
	output.Debugf(sink, "Staged %d files\n", staged)

	if !root.Config.Git.AutoCommit {
		return nil
	}

	message := fmt.Sprintf("Xvc auto-commit after '%s'", cmd.Line)
	hash, err := wt.Commit(message, &git.CommitOptions{Author: g.signature(repo)})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	g.logger.Info("auto-committed", "hash", hash.String(), "command", cmd.Name())
	output.Infof(sink, "Committed %s: %s\n", hash.String()[:8], message)
	return nil
}

func switchBranch(repo *git.Repository, wt *git.Worktree, name string) error {
	branch := plumbing.NewBranchReferenceName(name)
	_, err := repo.Reference(branch, true)
	create := errors.Is(err, plumbing.ErrReferenceNotFound)
	if err != nil && !create {
		return fmt.Errorf("lookup branch %s: %w", name, err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: branch, Create: create, Keep: true}); err != nil {
		return fmt.Errorf("switch to branch %s: %w", name, err)
	}
	return nil
}

// stage adds changed project metadata to the index and returns the number
// of paths with staged changes afterwards.
func stage(wt *git.Worktree, metadata string, all bool) (int, error) {
	status, err := wt.Status()
	if err != nil {
		return 0, fmt.Errorf("status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for p := range status {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		st := status[p]
		if st.Worktree == git.Unmodified {
			continue
		}
		if !all && !isMetadata(p, metadata) {
			continue
		}
		if st.Worktree == git.Deleted {
			if _, err := wt.Remove(p); err != nil {
				return 0, fmt.Errorf("stage removal of %s: %w", p, err)
			}
			continue
		}
		if _, err := wt.Add(p); err != nil {
			return 0, fmt.Errorf("stage %s: %w", p, err)
		}
	}

	status, err = wt.Status()
	if err != nil {
		return 0, fmt.Errorf("status: %w", err)
	}
	n := 0
	for _, st := range status {
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			n++
		}
	}
	return n, nil
}

// metadataPrefix returns the slash-separated path of the .xvc directory
// relative to the worktree root. Projects may live below the git root.
func metadataPrefix(wt *git.Worktree, root *project.Root) string {
	base := resolve(wt.Filesystem.Root())
	rel, err := filepath.Rel(base, resolve(root.Dir))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return project.MetadataDir
	}
	return path.Join(filepath.ToSlash(rel), project.MetadataDir)
}

func resolve(dir string) string {
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		return r
	}
	return dir
}

// isMetadata reports whether a slash-separated worktree path belongs to
// the project metadata xvc keeps in git.
func isMetadata(p, metadata string) bool {
	switch path.Base(p) {
	case ".gitignore", ".xvcignore":
		return true
	}
	return p == metadata || strings.HasPrefix(p, metadata+"/")
}

func (g *Git) signature(repo *git.Repository) *object.Signature {
	sig := &object.Signature{Name: DefaultAuthorName, Email: DefaultAuthorEmail, When: g.now()}
	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

package gitx

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoRepository is returned by Open when the directory is not inside a
// git repository.
var ErrNoRepository = errors.New("not inside a git repository")

// Repository is the version-control capability consumed by the release
// workflow. It is deliberately narrow: open/status/branch/checkout/commit/
// merge/signature, nothing more. The workflow holds no repository state of
// its own beyond this handle.
type Repository interface {
	// Root returns the absolute path of the repository's top-level
	// working tree directory.
	Root() string

	// IsDirty reports whether the working tree has pending changes,
	// including untracked files.
	IsDirty() (bool, error)

	// CurrentBranch returns the short name of the checked-out branch,
	// or "HEAD" when detached.
	CurrentBranch() (string, error)

	// IsDetached reports whether HEAD is not on a branch.
	IsDetached() (bool, error)

	// HeadCommit returns the full commit id HEAD points to.
	HeadCommit() (string, error)

	// BranchExists reports whether a local branch with the given name
	// exists.
	BranchExists(name string) bool

	// CreateBranch creates a local branch at the current HEAD without
	// switching to it.
	CreateBranch(name string) error

	// Checkout switches the working tree to the named branch.
	Checkout(name string) error

	// Stage adds the given path to the index.
	Stage(path string) error

	// Commit records the staged changes with the given message. It
	// returns false without committing when the staged tree is identical
	// to HEAD's tree.
	Commit(message string) (bool, error)

	// MergeFavorOurs merges the named branch into the current branch,
	// resolving textual conflicts in favor of the current branch's
	// content and committing the merge when there is anything to commit.
	MergeFavorOurs(branch string) error

	// HasSignature reports whether a commit signature (user.name and
	// user.email) can be built from any git configuration scope.
	HasSignature() (bool, error)
}

// Git is the Repository implementation backed by the git CLI. All commands
// run with `git -C <root>` so the process's own working directory never
// changes.
type Git struct {
	root string
}

// Open discovers the repository containing dir and returns a handle to it.
// Returns ErrNoRepository when dir is not inside a git working tree.
func Open(dir string) (*Git, error) {
	out, err := runGitIn(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRepository, dir)
	}
	return &Git{root: strings.TrimSpace(out)}, nil
}

// Root returns the repository's top-level directory.
func (g *Git) Root() string {
	return g.root
}

// IsDirty reports whether `git status --porcelain` lists anything.
// Untracked files count as dirty.
func (g *Git) IsDirty() (bool, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CurrentBranch returns the short branch name, or "HEAD" when detached.
func (g *Git) CurrentBranch() (string, error) {
	out, err := g.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsDetached reports whether HEAD is not on a branch.
func (g *Git) IsDetached() (bool, error) {
	branch, err := g.CurrentBranch()
	if err != nil {
		return false, err
	}
	// rev-parse --abbrev-ref prints the literal string "HEAD" for a
	// detached HEAD.
	return branch == "HEAD", nil
}

// HeadCommit returns the full commit id of HEAD.
func (g *Git) HeadCommit() (string, error) {
	out, err := g.run("rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether a local branch with the given name exists.
// The lookup is restricted to refs/heads so tags never match.
func (g *Git) BranchExists(name string) bool {
	_, err := g.run("rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateBranch creates a branch at the current HEAD.
func (g *Git) CreateBranch(name string) error {
	_, err := g.run("branch", name)
	return err
}

// Checkout switches to the named branch.
func (g *Git) Checkout(name string) error {
	_, err := g.run("checkout", "--quiet", name)
	return err
}

// Stage adds the given path to the index.
func (g *Git) Stage(path string) error {
	_, err := g.run("add", "--", path)
	return err
}

// Commit records the staged changes. When the staged tree is identical to
// HEAD's tree (a rewrite that round-tripped byte-identical, or nothing
// staged at all) no commit is created and false is returned.
func (g *Git) Commit(message string) (bool, error) {
	// diff --cached --quiet exits 0 when the index matches HEAD.
	if _, err := g.run("diff", "--cached", "--quiet"); err == nil {
		return false, nil
	}

	if _, err := g.run("commit", "--quiet", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// MergeFavorOurs merges the named branch into the current branch. The
// recursive strategy's "ours" option resolves conflicting hunks to the
// current branch's content, so a conflicting policy file never requires
// manual resolution. Merging an ancestor is a no-op.
func (g *Git) MergeFavorOurs(branch string) error {
	_, err := g.run("merge", "--quiet", "--no-edit", "-X", "ours", branch)
	return err
}

// HasSignature reports whether user.name and user.email resolve at some
// configuration scope. git config exits non-zero for an unset key.
func (g *Git) HasSignature() (bool, error) {
	for _, key := range []string{"user.name", "user.email"} {
		out, err := g.run("config", "--get", key)
		if err != nil || strings.TrimSpace(out) == "" {
			return false, nil
		}
	}
	return true, nil
}

// run executes a git command against the repository root.
func (g *Git) run(args ...string) (string, error) {
	return runGitIn(g.root, args...)
}

// runGitIn executes a git command with `git -C dir`, capturing stdout and
// stderr separately. On failure the stderr output is folded into the
// returned error for diagnostics.
func runGitIn(dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}

	return stdout.String(), nil
}

package worktrees

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitc "gitdeck/internal/git/client"
	"gitdeck/internal/git/runner"
)

// Manager manages per-branch git worktrees under a managed root directory.
type Manager struct {
	root string
	r    runner.Runner
	git  gitc.Client
}

// NewManager constructs a Manager. gitBin defaults to "git" when empty.
func NewManager(root, gitBin string) *Manager {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &Manager{root: root, r: runner.NewExecRunner(gitBin), git: gitc.NewExecClient(gitBin)}
}

// SetGitClient overrides the internal git client used for read ops.
func (m *Manager) SetGitClient(c gitc.Client) {
	if c != nil {
		m.git = c
	}
}

// Root returns the managed root path.
func (m *Manager) Root() string { return m.root }

// EnsureForBranch creates or reuses a worktree for the given repository and
// branch. Returns the absolute worktree path.
func (m *Manager) EnsureForBranch(ctx context.Context, repoPath, branch string) (string, error) {
	if strings.TrimSpace(repoPath) == "" {
		return "", fmt.Errorf("repository path is required")
	}
	if strings.TrimSpace(branch) == "" {
		return "", fmt.Errorf("branch name is required")
	}

	repoRoot, err := m.git.RepoRoot(ctx, repoPath)
	if err != nil {
		return "", fmt.Errorf("path not a git repo: %w", err)
	}

	repoSlug := Slug(filepath.Base(repoRoot))
	worktreePath := filepath.Join(m.root, repoSlug, Slug(branch))
	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		return "", fmt.Errorf("ensure worktree parent: %w", err)
	}

	// Reuse an existing worktree when it is still attached to a repo;
	// otherwise re-add on top of whatever is there.
	if st, err := os.Stat(worktreePath); err == nil && st.IsDir() {
		if ok, _ := m.git.IsRepoPath(ctx, worktreePath); ok {
			return worktreePath, nil
		}
		if err := m.addWorktree(ctx, repoRoot, worktreePath, branch, true); err != nil {
			return "", err
		}
		return worktreePath, nil
	}
	if err := m.addWorktree(ctx, repoRoot, worktreePath, branch, false); err != nil {
		return "", err
	}
	return worktreePath, nil
}

// Remove removes the given worktree path from its repository and prunes
// stale worktree records. Best effort: a missing worktree is not an error.
func (m *Manager) Remove(ctx context.Context, worktreePath string) error {
	if strings.TrimSpace(worktreePath) == "" {
		return nil
	}
	if !m.withinRoot(worktreePath) {
		return fmt.Errorf("worktree path outside managed root")
	}
	repoRoot, err := m.git.RepoRoot(ctx, worktreePath)
	if err != nil {
		return nil
	}
	_, _ = m.r.Run(ctx, repoRoot, "worktree", "remove", "--force", worktreePath)
	_, _ = m.r.Run(ctx, repoRoot, "worktree", "prune")
	return nil
}

func (m *Manager) addWorktree(ctx context.Context, repoRoot, worktreePath, branch string, force bool) error {
	baseRef, err := m.git.CurrentRef(ctx, repoRoot)
	if err != nil {
		return err
	}
	args := []string{"worktree", "add"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "-B", branch, worktreePath, baseRef)
	if _, err := m.r.Run(ctx, repoRoot, args...); err != nil {
		return fmt.Errorf("add worktree: %w", err)
	}
	return nil
}

func (m *Manager) withinRoot(path string) bool {
	rootAbs, err := filepath.Abs(m.root)
	if err != nil {
		return false
	}
	pAbs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(rootAbs, pAbs)
	if err != nil {
		return false
	}
	if rel == "." || rel == "" {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

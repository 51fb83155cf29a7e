package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// GoGitClient implements Client using go-git for read ops. Diff and apply
// calls still go through the git binary: go-git has no partial-apply
// capability matching "git apply".
type GoGitClient struct{ exec *ExecClient }

func NewGoGitClient() *GoGitClient { return &GoGitClient{exec: NewExecClient("")} }

func (g *GoGitClient) RepoRoot(ctx context.Context, path string) (string, error) {
	// walk up until .git found
	start, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(start)
	if err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}
	cur := start
	for {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", fmt.Errorf("not a git repository: %s", path)
}

func (g *GoGitClient) CurrentRef(ctx context.Context, path string) (string, error) {
	root, err := g.RepoRoot(ctx, path)
	if err != nil {
		return "", err
	}
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

func (g *GoGitClient) IsRepoPath(ctx context.Context, path string) (bool, error) {
	if _, err := g.RepoRoot(ctx, path); err != nil {
		return false, nil
	}
	return true, nil
}

func (g *GoGitClient) DiffStats(ctx context.Context, root string) ([]FileDiffStat, error) {
	return g.exec.DiffStats(ctx, root)
}

func (g *GoGitClient) DiffFile(ctx context.Context, root, path string, staged bool) (string, error) {
	return g.exec.DiffFile(ctx, root, path, staged)
}

func (g *GoGitClient) IsUntracked(ctx context.Context, root, path string) (bool, error) {
	return g.exec.IsUntracked(ctx, root, path)
}

func (g *GoGitClient) ReadFile(ctx context.Context, root, path string) (string, error) {
	return g.exec.ReadFile(ctx, root, path)
}

func (g *GoGitClient) ApplyPatch(ctx context.Context, root, patch string, opts ApplyOptions) error {
	return g.exec.ApplyPatch(ctx, root, patch, opts)
}

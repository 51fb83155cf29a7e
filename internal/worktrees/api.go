package worktrees

import (
	"context"

	"gitdeck/internal/repos"
)

// API exposes worktree management to the frontend, addressed by catalog id.
type API struct {
	mgr   *Manager
	repos *repos.Service
}

func NewAPI(mgr *Manager, repoSvc *repos.Service) *API {
	return &API{mgr: mgr, repos: repoSvc}
}

func (a *API) EnsureWorktree(repoID int64, branch string) (string, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return "", err
	}
	return a.mgr.EnsureForBranch(ctx, root, branch)
}

func (a *API) RemoveWorktree(worktreePath string) error {
	return a.mgr.Remove(context.Background(), worktreePath)
}

package branches

import (
	"context"

	"gitdeck/internal/repos"
)

// API exposes branch operations to the frontend, addressed by catalog id.
type API struct {
	svc   *Service
	repos *repos.Service
}

func NewAPI(svc *Service, repoSvc *repos.Service) *API {
	return &API{svc: svc, repos: repoSvc}
}

func (a *API) ListBranches(repoID int64) ([]Branch, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return nil, err
	}
	return a.svc.List(ctx, root)
}

func (a *API) CreateBranch(repoID int64, name string) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Create(ctx, root, name)
}

func (a *API) CheckoutBranch(repoID int64, name string) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Checkout(ctx, root, name)
}

func (a *API) DeleteBranch(repoID int64, name string, force bool) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Delete(ctx, root, name, force)
}

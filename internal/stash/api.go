package stash

import (
	"context"

	"gitdeck/internal/repos"
)

// API exposes stash operations to the frontend, addressed by catalog id.
type API struct {
	svc   *Service
	repos *repos.Service
}

func NewAPI(svc *Service, repoSvc *repos.Service) *API {
	return &API{svc: svc, repos: repoSvc}
}

func (a *API) ListStashes(repoID int64) ([]Entry, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return nil, err
	}
	return a.svc.List(ctx, root)
}

func (a *API) SaveStash(repoID int64, message string) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Save(ctx, root, message)
}

func (a *API) ApplyStash(repoID int64, index int) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Apply(ctx, root, index)
}

func (a *API) PopStash(repoID int64, index int) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Pop(ctx, root, index)
}

func (a *API) DropStash(repoID int64, index int) error {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return err
	}
	return a.svc.Drop(ctx, root, index)
}

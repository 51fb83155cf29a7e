package prs

import (
	"context"

	"gitdeck/internal/repos"
)

// API exposes pull-request operations to the frontend, addressed by catalog id.
type API struct {
	svc   *Service
	repos *repos.Service
}

func NewAPI(svc *Service, repoSvc *repos.Service) *API {
	return &API{svc: svc, repos: repoSvc}
}

func (a *API) CreatePullRequest(repoID int64, req CreateRequest) (string, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return "", err
	}
	return a.svc.Create(ctx, root, req)
}

func (a *API) CurrentPullRequest(repoID int64) (string, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return "", err
	}
	return a.svc.LookupCurrent(ctx, root)
}

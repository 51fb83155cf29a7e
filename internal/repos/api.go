package repos

import (
	"context"

	"gitdeck/internal/logging"
)

// API exposes repository catalog actions to the frontend via Wails binding.
type API struct {
	svc *Service
	log logging.Logger
}

func NewAPI(svc *Service, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{svc: svc, log: logger}
}

func (a *API) ListRepositories() ([]RepoDTO, error) { return a.svc.List(context.Background()) }
func (a *API) RegisterRepository(req RegisterRepoRequest) (RepoDTO, error) {
	return a.svc.Register(context.Background(), req)
}
func (a *API) DeleteRepository(id int64) error { return a.svc.Remove(context.Background(), id) }
func (a *API) MarkRepositoryOpened(id int64) error {
	return a.svc.MarkOpened(context.Background(), id)
}

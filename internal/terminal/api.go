package terminal

// API wraps Manager with Wails-friendly methods.
type API struct{ mgr *Manager }

func NewAPI(mgr *Manager) *API { return &API{mgr: mgr} }

type Handle struct {
	RepoID int64 `json:"repoId"`
}

func (a *API) Start(repoID int64) (Handle, error) {
	if err := a.mgr.Start(repoID); err != nil {
		return Handle{}, err
	}
	return Handle{RepoID: repoID}, nil
}
func (a *API) Write(repoID int64, data string) error     { return a.mgr.Write(repoID, data) }
func (a *API) Resize(repoID int64, cols, rows int) error { return a.mgr.Resize(repoID, cols, rows) }
func (a *API) Stop(repoID int64) error                   { return a.mgr.Stop(repoID) }

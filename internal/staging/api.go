package staging

import (
	"context"
	"errors"
	"fmt"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gitdeck/internal/diff"
	"gitdeck/internal/git/client"
	"gitdeck/internal/logging"
	"gitdeck/internal/repos"
	"gitdeck/internal/watchers"
)

const diffTopicPrefix = "repo:diff:"

// DiffTopic returns the runtime event topic for diff update notifications.
func DiffTopic(repoID int64) string {
	return fmt.Sprintf("%s%d", diffTopicPrefix, repoID)
}

// API exposes diff inspection and partial staging to the frontend.
type API struct {
	svc      *Service
	repos    *repos.Service
	git      client.Client
	watchers *watchers.Service
	ctxFn    func() context.Context
	log      logging.Logger
}

func NewAPI(svc *Service, repoSvc *repos.Service, git client.Client, watcherSvc *watchers.Service, ctxProvider func() context.Context, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{svc: svc, repos: repoSvc, git: git, watchers: watcherSvc, ctxFn: ctxProvider, log: logger}
}

// OperationResult reports the outcome of a staging operation to the UI.
type OperationResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type LineSelection struct {
	HunkIndex   int   `json:"hunkIndex"`
	LineIndices []int `json:"lineIndices"`
}

// ListChangedFiles returns per-file stats for the repository and makes sure
// its working copy is being watched for diff updates.
func (a *API) ListChangedFiles(repoID int64) ([]client.FileDiffStat, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return nil, err
	}
	if a.watchers != nil {
		a.watchers.Ensure(repoID, root)
	}
	return a.git.DiffStats(ctx, root)
}

func (a *API) GetFileDiff(repoID int64, filePath string, staged bool) (diff.FileDiff, error) {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return diff.FileDiff{}, err
	}
	return a.svc.FileDiff(ctx, root, filePath, staged)
}

func (a *API) StageHunk(repoID int64, filePath string, hunkIndex int) OperationResult {
	return a.operate(repoID, func(ctx context.Context, root string) error {
		return a.svc.StageHunk(ctx, root, filePath, hunkIndex)
	})
}

func (a *API) UnstageHunk(repoID int64, filePath string, hunkIndex int) OperationResult {
	return a.operate(repoID, func(ctx context.Context, root string) error {
		return a.svc.UnstageHunk(ctx, root, filePath, hunkIndex)
	})
}

func (a *API) DiscardHunk(repoID int64, filePath string, hunkIndex int) OperationResult {
	return a.operate(repoID, func(ctx context.Context, root string) error {
		return a.svc.DiscardHunk(ctx, root, filePath, hunkIndex)
	})
}

func (a *API) StageLines(repoID int64, filePath string, sel LineSelection) OperationResult {
	return a.operate(repoID, func(ctx context.Context, root string) error {
		return a.svc.StageLines(ctx, root, filePath, sel.HunkIndex, sel.LineIndices)
	})
}

func (a *API) UnstageLines(repoID int64, filePath string, sel LineSelection) OperationResult {
	return a.operate(repoID, func(ctx context.Context, root string) error {
		return a.svc.UnstageLines(ctx, root, filePath, sel.HunkIndex, sel.LineIndices)
	})
}

func (a *API) DiscardLines(repoID int64, filePath string, sel LineSelection) OperationResult {
	return a.operate(repoID, func(ctx context.Context, root string) error {
		return a.svc.DiscardLines(ctx, root, filePath, sel.HunkIndex, sel.LineIndices)
	})
}

func (a *API) operate(repoID int64, op func(ctx context.Context, root string) error) OperationResult {
	ctx := context.Background()
	root, err := a.repos.ResolvePath(ctx, repoID)
	if err != nil {
		return OperationResult{Message: err.Error()}
	}
	if err := op(ctx, root); err != nil {
		var applyErr *ApplyError
		if errors.As(err, &applyErr) {
			a.log.Warn("patch application failed", "repoID", repoID, "error", applyErr)
		}
		return OperationResult{Message: err.Error()}
	}
	a.EmitRepoDiffUpdate(repoID)
	return OperationResult{OK: true}
}

// EmitRepoDiffUpdate notifies the frontend that the repository's diff state
// changed. Also used as the watcher emitter.
func (a *API) EmitRepoDiffUpdate(repoID int64) {
	if a.ctxFn == nil {
		return
	}
	ctx := a.ctxFn()
	if ctx == nil {
		return
	}
	payload := struct {
		RepoID int64 `json:"repoId"`
	}{repoID}
	wailsruntime.EventsEmit(ctx, DiffTopic(repoID), payload)
}

package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitdeck/internal/git/client"
	"gitdeck/internal/logging"
	"gitdeck/internal/storage/catalog"
)

// Service manages the catalog of registered repositories.
type Service struct {
	cat    *catalog.Catalog
	git    client.Client
	logger logging.Logger
}

func NewService(cat *catalog.Catalog, git client.Client, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{cat: cat, git: git, logger: logger}
}

type RepoDTO struct {
	ID           int64     `json:"id"`
	Path         string    `json:"path"`
	DisplayName  string    `json:"displayName,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	LastOpenedAt time.Time `json:"lastOpenedAt,omitempty" ts_type:"string"`
	CreatedAt    time.Time `json:"createdAt" ts_type:"string"`
	UpdatedAt    time.Time `json:"updatedAt" ts_type:"string"`
}

type RegisterRepoRequest struct {
	Path        string   `json:"path"`
	DisplayName string   `json:"displayName,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (s *Service) List(ctx context.Context) ([]RepoDTO, error) {
	records, err := s.cat.ListRepos(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]RepoDTO, 0, len(records))
	for _, record := range records {
		dto := mapRepo(record)
		if ref, err := s.git.CurrentRef(ctx, record.Path); err == nil {
			dto.Branch = ref
		}
		list = append(list, dto)
	}
	return list, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRepoRequest) (RepoDTO, error) {
	if req.Path == "" {
		return RepoDTO{}, errors.New("repository path is required")
	}
	ok, err := s.git.IsRepoPath(ctx, req.Path)
	if err != nil {
		return RepoDTO{}, err
	}
	if !ok {
		return RepoDTO{}, fmt.Errorf("path %q is not inside a git work tree", req.Path)
	}
	root, err := s.git.RepoRoot(ctx, req.Path)
	if err != nil {
		return RepoDTO{}, err
	}

	repo, err := s.cat.UpsertRepo(ctx, catalog.UpsertRepoParams{
		Path:        root,
		DisplayName: req.DisplayName,
		Tags:        req.Tags,
	})
	if err != nil {
		return RepoDTO{}, err
	}
	s.logger.Info("repository registered", "path", root, "id", repo.ID)
	return mapRepo(repo), nil
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.cat.DeleteRepo(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("repository %d not found", id)
		}
		return err
	}
	return nil
}

func (s *Service) MarkOpened(ctx context.Context, id int64) error {
	return s.cat.MarkRepoOpened(ctx, id, time.Now().UTC())
}

// ResolvePath maps a catalog id to the repository's working-copy path.
func (s *Service) ResolvePath(ctx context.Context, id int64) (string, error) {
	repo, err := s.cat.GetRepoByID(ctx, id)
	if err != nil {
		return "", err
	}
	return repo.Path, nil
}

func mapRepo(r catalog.Repo) RepoDTO {
	return RepoDTO{
		ID:           r.ID,
		Path:         r.Path,
		DisplayName:  r.DisplayName,
		Tags:         r.Tags,
		LastOpenedAt: r.LastOpenedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

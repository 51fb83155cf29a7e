package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitdeck/internal/git/runner"
	"gitdeck/internal/logging"
)

// Service runs branch operations against a repository working copy.
type Service struct {
	r   runner.Runner
	log logging.Logger
}

func NewService(r runner.Runner, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{r: r, log: logger}
}

type Branch struct {
	Name      string `json:"name"`
	IsCurrent bool   `json:"isCurrent"`
	Upstream  string `json:"upstream,omitempty"`
}

func (s *Service) List(ctx context.Context, root string) ([]Branch, error) {
	out, err := s.r.Run(ctx, root, "for-each-ref", "refs/heads",
		"--format=%(HEAD)%09%(refname:short)%09%(upstream:short)")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	var list []Branch
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 2 {
			continue
		}
		b := Branch{Name: fields[1], IsCurrent: fields[0] == "*"}
		if len(fields) == 3 {
			b.Upstream = fields[2]
		}
		list = append(list, b)
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, root, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("branch name is required")
	}
	if _, err := s.r.Run(ctx, root, "branch", name); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	s.log.Info("branch created", "name", name)
	return nil
}

func (s *Service) Checkout(ctx context.Context, root, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("branch name is required")
	}
	if _, err := s.r.Run(ctx, root, "checkout", name); err != nil {
		return fmt.Errorf("checkout branch %s: %w", name, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, root, name string, force bool) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("branch name is required")
	}
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := s.r.Run(ctx, root, "branch", flag, name); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}
	return nil
}

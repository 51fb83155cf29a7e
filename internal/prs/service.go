package prs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"gitdeck/internal/logging"
)

// Service creates and looks up pull requests through the gh CLI.
type Service struct {
	ghBin string
	log   logging.Logger
}

func NewService(ghBin string, logger logging.Logger) *Service {
	if strings.TrimSpace(ghBin) == "" {
		ghBin = "gh"
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{ghBin: ghBin, log: logger}
}

type CreateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Base  string `json:"base,omitempty"`
	Draft bool   `json:"draft,omitempty"`
}

// Create opens a pull request for the repository's current branch and
// returns its URL.
func (s *Service) Create(ctx context.Context, root string, req CreateRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", fmt.Errorf("pull request title is required")
	}
	args := []string{"pr", "create", "--title", req.Title, "--body", req.Body}
	if req.Base != "" {
		args = append(args, "--base", req.Base)
	}
	if req.Draft {
		args = append(args, "--draft")
	}
	out, err := s.runGh(ctx, root, args...)
	if err != nil {
		return "", err
	}
	url := ExtractPRURL(out)
	if url == "" {
		return "", fmt.Errorf("gh pr create returned no pull request URL")
	}
	s.log.Info("pull request created", "url", url)
	return url, nil
}

// LookupCurrent returns the PR URL for the current branch, or empty when
// no pull request exists.
func (s *Service) LookupCurrent(ctx context.Context, root string) (string, error) {
	out, err := s.runGh(ctx, root, "pr", "view", "--json", "url", "--jq", ".url")
	if err != nil {
		if strings.Contains(err.Error(), "no pull requests found") {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Service) runGh(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.ghBin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("gh %s: %s", strings.Join(args[:2], " "), msg)
	}
	return stdout.String(), nil
}

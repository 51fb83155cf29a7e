package stash

import (
	"context"
	"fmt"
	"strings"

	"gitdeck/internal/git/runner"
	"gitdeck/internal/logging"
)

// Service runs stash operations against a repository working copy.
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

type Entry struct {
	Index   int    `json:"index"`
	Branch  string `json:"branch,omitempty"`
	Message string `json:"message"`
}

func (s *Service) List(ctx context.Context, root string) ([]Entry, error) {
	out, err := s.r.Run(ctx, root, "stash", "list", "--format=%gd%x09%gs")
	if err != nil {
		return nil, fmt.Errorf("list stashes: %w", err)
	}
	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		e := Entry{Index: parseRefIndex(fields[0])}
		subject := fields[len(fields)-1]
		// subject looks like "WIP on main: abc123 msg" or "On main: msg"
		if rest, ok := strings.CutPrefix(subject, "On "); ok {
			if branch, msg, found := strings.Cut(rest, ": "); found {
				e.Branch, subject = branch, msg
			}
		} else if rest, ok := strings.CutPrefix(subject, "WIP on "); ok {
			if branch, msg, found := strings.Cut(rest, ": "); found {
				e.Branch, subject = branch, msg
			}
		}
		e.Message = subject
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Service) Save(ctx context.Context, root, message string) error {
	args := []string{"stash", "push", "--include-untracked"}
	if strings.TrimSpace(message) != "" {
		args = append(args, "-m", message)
	}
	if _, err := s.r.Run(ctx, root, args...); err != nil {
		return fmt.Errorf("save stash: %w", err)
	}
	s.log.Info("stash saved", "root", root)
	return nil
}

func (s *Service) Apply(ctx context.Context, root string, index int) error {
	if _, err := s.r.Run(ctx, root, "stash", "apply", ref(index)); err != nil {
		return fmt.Errorf("apply stash %d: %w", index, err)
	}
	return nil
}

func (s *Service) Pop(ctx context.Context, root string, index int) error {
	if _, err := s.r.Run(ctx, root, "stash", "pop", ref(index)); err != nil {
		return fmt.Errorf("pop stash %d: %w", index, err)
	}
	return nil
}

func (s *Service) Drop(ctx context.Context, root string, index int) error {
	if _, err := s.r.Run(ctx, root, "stash", "drop", ref(index)); err != nil {
		return fmt.Errorf("drop stash %d: %w", index, err)
	}
	return nil
}

func ref(index int) string { return fmt.Sprintf("stash@{%d}", index) }

// parseRefIndex extracts N from "stash@{N}".
func parseRefIndex(ref string) int {
	open := strings.Index(ref, "{")
	end := strings.Index(ref, "}")
	if open < 0 || end <= open {
		return 0
	}
	n := 0
	for _, c := range ref[open+1 : end] {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

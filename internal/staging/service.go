package staging

import (
	"context"
	"fmt"
	"strings"

	"gitdeck/internal/diff"
	"gitdeck/internal/git/client"
	"gitdeck/internal/logging"

	"github.com/google/uuid"
)

// Service orchestrates hunk- and line-level stage, unstage, and discard
// operations against one repository working copy. It holds no state of
// its own: every call re-reads the current diff, builds a patch, and
// delegates to the git apply capability, which either fully applies the
// patch or changes nothing.
type Service struct {
	git client.Client
	log logging.Logger
}

func NewService(git client.Client, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{git: git, log: logger}
}

// FileDiff returns the parsed diff for one file: HEAD vs index when
// staged is true, index vs working tree otherwise. Untracked files are
// synthesized as a single all-additions hunk. A file with no pending
// change yields an empty FileDiff, not an error.
func (s *Service) FileDiff(ctx context.Context, repoPath, filePath string, staged bool) (diff.FileDiff, error) {
	raw, err := s.git.DiffFile(ctx, repoPath, filePath, staged)
	if err != nil {
		return diff.FileDiff{}, err
	}
	if strings.TrimSpace(raw) == "" && !staged {
		untracked, err := s.git.IsUntracked(ctx, repoPath, filePath)
		if err != nil {
			return diff.FileDiff{}, err
		}
		if untracked {
			content, err := s.git.ReadFile(ctx, repoPath, filePath)
			if err != nil {
				return diff.FileDiff{}, err
			}
			return diff.ParseUntracked(filePath, content), nil
		}
	}
	fd := diff.Parse(raw)
	if fd.Path == "" {
		fd.Path = filePath
	}
	return fd, nil
}

// StageHunk applies one hunk of the unstaged diff to the index.
func (s *Service) StageHunk(ctx context.Context, repoPath, filePath string, hunkIndex int) error {
	return s.applyHunk(ctx, repoPath, filePath, hunkIndex, false, client.ApplyOptions{Cached: true})
}

// UnstageHunk reverse-applies one hunk of the staged diff to the index.
func (s *Service) UnstageHunk(ctx context.Context, repoPath, filePath string, hunkIndex int) error {
	return s.applyHunk(ctx, repoPath, filePath, hunkIndex, true, client.ApplyOptions{Cached: true, Reverse: true})
}

// DiscardHunk reverse-applies one hunk of the unstaged diff to the
// working tree, dropping the change.
func (s *Service) DiscardHunk(ctx context.Context, repoPath, filePath string, hunkIndex int) error {
	return s.applyHunk(ctx, repoPath, filePath, hunkIndex, false, client.ApplyOptions{Reverse: true})
}

// StageLines stages only the selected lines of one unstaged hunk.
func (s *Service) StageLines(ctx context.Context, repoPath, filePath string, hunkIndex int, lineIndices []int) error {
	return s.applyLines(ctx, repoPath, filePath, hunkIndex, lineIndices, false, diff.Forward, client.ApplyOptions{Cached: true})
}

// UnstageLines moves only the selected lines of one staged hunk back out
// of the index.
func (s *Service) UnstageLines(ctx context.Context, repoPath, filePath string, hunkIndex int, lineIndices []int) error {
	return s.applyLines(ctx, repoPath, filePath, hunkIndex, lineIndices, true, diff.Reverse, client.ApplyOptions{Cached: true, Reverse: true})
}

// DiscardLines drops only the selected lines of one unstaged hunk from
// the working tree.
func (s *Service) DiscardLines(ctx context.Context, repoPath, filePath string, hunkIndex int, lineIndices []int) error {
	return s.applyLines(ctx, repoPath, filePath, hunkIndex, lineIndices, false, diff.Reverse, client.ApplyOptions{Reverse: true})
}

func (s *Service) applyHunk(ctx context.Context, repoPath, filePath string, hunkIndex int, staged bool, opts client.ApplyOptions) error {
	fd, err := s.FileDiff(ctx, repoPath, filePath, staged)
	if err != nil {
		return err
	}
	if hunkIndex < 0 || hunkIndex >= len(fd.Hunks) {
		return fmt.Errorf("%w: hunk index %d out of range (%d hunks in %s)", diff.ErrInvalidSelection, hunkIndex, len(fd.Hunks), filePath)
	}
	// The stored raw patch is already a valid standalone patch.
	return s.apply(ctx, repoPath, fd.Hunks[hunkIndex].RawPatch, opts)
}

func (s *Service) applyLines(ctx context.Context, repoPath, filePath string, hunkIndex int, lineIndices []int, staged bool, dir diff.Direction, opts client.ApplyOptions) error {
	fd, err := s.FileDiff(ctx, repoPath, filePath, staged)
	if err != nil {
		return err
	}
	patch, err := diff.BuildPartialPatch(fd, hunkIndex, lineIndices, dir)
	if err != nil {
		return err
	}
	return s.apply(ctx, repoPath, patch, opts)
}

func (s *Service) apply(ctx context.Context, repoPath, patch string, opts client.ApplyOptions) error {
	opID := uuid.NewString()
	s.log.Debug("apply patch", "op", opID, "cached", opts.Cached, "reverse", opts.Reverse)
	if err := s.git.ApplyPatch(ctx, repoPath, patch, opts); err != nil {
		s.log.Warn("apply patch failed", "op", opID, "error", err)
		return &ApplyError{Err: err}
	}
	return nil
}

package diff

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelection reports an empty selection or an out-of-range hunk
// or line index. Operations reject it before touching any external state.
var ErrInvalidSelection = errors.New("invalid selection")

// Direction selects which target a synthesized partial patch must match.
type Direction int

const (
	// Forward builds a patch applied toward the index or working tree:
	// the target does not yet contain the hunk's added lines.
	Forward Direction = iota
	// Reverse builds a patch for reverse-application (undoing a change):
	// the target already contains every added line.
	Reverse
)

// BuildPartialPatch synthesizes a standalone patch covering only the
// selected line indices of one hunk.
//
// Context lines are always kept. Selected deletions stay deletions and
// unselected deletions become context in both directions. Selected
// additions stay additions. Unselected additions are the one divergence:
// forward synthesis omits them entirely (the target does not contain
// them, so offering them as context would desynchronize the apply tool's
// line matching), while reverse synthesis keeps them as context (the
// target is the "after" state and already holds them).
func BuildPartialPatch(fd FileDiff, hunkIndex int, lineIndices []int, dir Direction) (string, error) {
	if hunkIndex < 0 || hunkIndex >= len(fd.Hunks) {
		return "", fmt.Errorf("%w: hunk index %d out of range (%d hunks)", ErrInvalidSelection, hunkIndex, len(fd.Hunks))
	}
	hunk := fd.Hunks[hunkIndex]
	if len(lineIndices) == 0 {
		return "", fmt.Errorf("%w: no lines selected", ErrInvalidSelection)
	}
	selected := make(map[int]bool, len(lineIndices))
	for _, idx := range lineIndices {
		if idx < 0 || idx >= len(hunk.Lines) {
			return "", fmt.Errorf("%w: line index %d out of range (%d lines)", ErrInvalidSelection, idx, len(hunk.Lines))
		}
		selected[idx] = true
	}

	var body strings.Builder
	var oldCount, newCount int
	emit := func(marker byte, content string) {
		body.WriteByte(marker)
		body.WriteString(content)
		body.WriteByte('\n')
	}
	for _, line := range hunk.Lines {
		switch line.Type {
		case LineContext:
			emit(' ', line.Content)
			oldCount++
			newCount++
		case LineDeleted:
			if selected[line.Index] {
				emit('-', line.Content)
				oldCount++
			} else {
				emit(' ', line.Content)
				oldCount++
				newCount++
			}
		case LineAdded:
			switch {
			case selected[line.Index]:
				emit('+', line.Content)
				newCount++
			case dir == Reverse:
				emit(' ', line.Content)
				oldCount++
				newCount++
			}
		}
	}

	var out strings.Builder
	out.WriteString(fd.Header)
	out.WriteString(FormatHunkHeader(hunk.OldStart, oldCount, hunk.NewStart, newCount))
	out.WriteString(body.String())
	return out.String(), nil
}

// FormatHunkHeader renders a hunk header line with a trailing newline.
func FormatHunkHeader(oldStart, oldLines, newStart, newLines int) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", oldStart, oldLines, newStart, newLines)
}

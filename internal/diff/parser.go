package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse converts raw unified-diff text for a single file into a FileDiff.
// It performs one forward scan and never fails: input with no recognizable
// structure yields a FileDiff with zero hunks and zero stats, which callers
// treat as "nothing to show".
func Parse(raw string) FileDiff {
	fd := FileDiff{Status: StatusModified}
	if strings.TrimSpace(raw) == "" {
		return fd
	}

	var (
		header   strings.Builder
		inHunks  bool
		hunk     *Hunk
		hunkBody strings.Builder
	)
	// Running cursors into the old and new file, plus the per-hunk line
	// index that selections address.
	var oldCur, newCur, index int

	finalize := func() {
		if hunk == nil {
			return
		}
		hunk.RawPatch = fd.Header + hunkBody.String()
		fd.Hunks = append(fd.Hunks, *hunk)
		hunk = nil
		hunkBody.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
			if !inHunks {
				fd.Header = header.String()
				inHunks = true
			}
			finalize()
			h := Hunk{
				OldStart: atoi(m[1], 0),
				OldLines: atoi(m[2], 1),
				NewStart: atoi(m[3], 0),
				NewLines: atoi(m[4], 1),
			}
			hunk = &h
			oldCur, newCur, index = h.OldStart, h.NewStart, 0
			hunkBody.WriteString(line)
			hunkBody.WriteByte('\n')
			continue
		}

		if hunk == nil {
			switch {
			case strings.HasPrefix(line, "new file mode"):
				fd.Status = StatusAdded
			case strings.HasPrefix(line, "deleted file mode"):
				fd.Status = StatusDeleted
			case strings.HasPrefix(line, "rename from "):
				fd.Status = StatusRenamed
				fd.OldPath = strings.TrimPrefix(line, "rename from ")
			case strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(line, " differ"):
				fd.IsBinary = true
			case strings.HasPrefix(line, "diff --git "):
				fd.Path = pathFromGitLine(line)
			case strings.HasPrefix(line, "+++ b/"):
				fd.Path = strings.TrimPrefix(line, "+++ b/")
			}
			header.WriteString(line)
			header.WriteByte('\n')
			continue
		}

		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			hunk.Lines = append(hunk.Lines, Line{Type: LineAdded, Content: line[1:], NewNumber: newCur, Index: index})
			newCur++
			index++
			fd.Additions++
			hunkBody.WriteString(line)
			hunkBody.WriteByte('\n')
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			hunk.Lines = append(hunk.Lines, Line{Type: LineDeleted, Content: line[1:], OldNumber: oldCur, Index: index})
			oldCur++
			index++
			fd.Deletions++
			hunkBody.WriteString(line)
			hunkBody.WriteByte('\n')
		case strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, Line{Type: LineContext, Content: line[1:], OldNumber: oldCur, NewNumber: newCur, Index: index})
			oldCur++
			newCur++
			index++
			hunkBody.WriteString(line)
			hunkBody.WriteByte('\n')
		default:
			// "\ No newline at end of file" and similar markers stay in the
			// raw patch text but are not addressable lines.
			if line != "" {
				hunkBody.WriteString(line)
				hunkBody.WriteByte('\n')
			}
		}
	}
	finalize()

	if fd.IsBinary {
		fd.Hunks = nil
		fd.Additions, fd.Deletions = 0, 0
	}
	return fd
}

// ParseUntracked synthesizes a FileDiff for a file git has no diff for.
// The whole file becomes a single hunk of added lines, shaped like the
// patch "git diff" would emit for a new file.
func ParseUntracked(path, content string) FileDiff {
	fd := FileDiff{Path: path, Status: StatusUntracked}

	noNewline := content != "" && !strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return fd
	}

	var header strings.Builder
	fmt.Fprintf(&header, "diff --git a/%s b/%s\n", path, path)
	header.WriteString("new file mode 100644\n")
	header.WriteString("--- /dev/null\n")
	fmt.Fprintf(&header, "+++ b/%s\n", path)
	fd.Header = header.String()

	hunk := Hunk{OldStart: 0, OldLines: 0, NewStart: 1, NewLines: len(lines)}
	var body strings.Builder
	fmt.Fprintf(&body, "@@ -0,0 +1,%d @@\n", len(lines))
	for i, content := range lines {
		hunk.Lines = append(hunk.Lines, Line{Type: LineAdded, Content: content, NewNumber: i + 1, Index: i})
		body.WriteByte('+')
		body.WriteString(content)
		body.WriteByte('\n')
	}
	if noNewline {
		body.WriteString("\\ No newline at end of file\n")
	}
	hunk.RawPatch = fd.Header + body.String()

	fd.Hunks = []Hunk{hunk}
	fd.Additions = len(lines)
	return fd
}

func pathFromGitLine(line string) string {
	// diff --git a/path b/path
	if idx := strings.Index(line, " b/"); idx >= 0 {
		return line[idx+len(" b/"):]
	}
	return ""
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

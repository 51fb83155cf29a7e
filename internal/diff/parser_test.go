package diff

import (
	"strings"
	"testing"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 3f1a2b4..9c8d7e6 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main
+import "fmt"
 // entry
 func main() {
@@ -10,2 +11,2 @@
-	old()
+	new()
 }
`

func TestParseSampleDiff(t *testing.T) {
	fd := Parse(sampleDiff)

	if fd.Path != "main.go" {
		t.Fatalf("path = %q, want main.go", fd.Path)
	}
	if fd.Status != StatusModified {
		t.Fatalf("status = %q, want modified", fd.Status)
	}
	if len(fd.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(fd.Hunks))
	}
	if fd.Additions != 2 || fd.Deletions != 1 {
		t.Fatalf("stats = +%d -%d, want +2 -1", fd.Additions, fd.Deletions)
	}

	first := fd.Hunks[0]
	if first.OldStart != 1 || first.OldLines != 3 || first.NewStart != 1 || first.NewLines != 4 {
		t.Fatalf("unexpected first hunk header: %+v", first)
	}
	if len(first.Lines) != 4 {
		t.Fatalf("expected 4 lines in first hunk, got %d", len(first.Lines))
	}
	second := fd.Hunks[1]
	if second.OldStart != 10 || second.NewStart != 11 {
		t.Fatalf("unexpected second hunk header: %+v", second)
	}
}

func TestParseCountInvariant(t *testing.T) {
	fd := Parse(sampleDiff)
	for i, hunk := range fd.Hunks {
		var old, new int
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineContext:
				old++
				new++
			case LineDeleted:
				old++
			case LineAdded:
				new++
			}
		}
		if old != hunk.OldLines {
			t.Fatalf("hunk %d: old line count %d != declared %d", i, old, hunk.OldLines)
		}
		if new != hunk.NewLines {
			t.Fatalf("hunk %d: new line count %d != declared %d", i, new, hunk.NewLines)
		}
	}
}

func TestParseLineNumbering(t *testing.T) {
	raw := "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -10,3 +10,4 @@\n x\n+y\n z\n"
	fd := Parse(raw)
	if len(fd.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(fd.Hunks))
	}
	lines := fd.Hunks[0].Lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []Line{
		{Type: LineContext, Content: "x", OldNumber: 10, NewNumber: 10, Index: 0},
		{Type: LineAdded, Content: "y", NewNumber: 11, Index: 1},
		{Type: LineContext, Content: "z", OldNumber: 11, NewNumber: 12, Index: 2},
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %+v, want %+v", i, lines[i], w)
		}
	}
}

func TestParseStatusSignals(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		status  FileStatus
		oldPath string
		binary  bool
	}{
		{
			name:   "added",
			raw:    "diff --git a/new.txt b/new.txt\nnew file mode 100644\n--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1,1 @@\n+hello\n",
			status: StatusAdded,
		},
		{
			name:   "deleted",
			raw:    "diff --git a/old.txt b/old.txt\ndeleted file mode 100644\n--- a/old.txt\n+++ /dev/null\n@@ -1,1 +0,0 @@\n-bye\n",
			status: StatusDeleted,
		},
		{
			name:    "renamed",
			raw:     "diff --git a/before.txt b/after.txt\nrename from before.txt\nrename to after.txt\n",
			status:  StatusRenamed,
			oldPath: "before.txt",
		},
		{
			name:   "binary",
			raw:    "diff --git a/img.png b/img.png\nindex 1234567..89abcde 100644\nBinary files a/img.png and b/img.png differ\n",
			status: StatusModified,
			binary: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fd := Parse(tc.raw)
			if fd.Status != tc.status {
				t.Fatalf("status = %q, want %q", fd.Status, tc.status)
			}
			if fd.OldPath != tc.oldPath {
				t.Fatalf("oldPath = %q, want %q", fd.OldPath, tc.oldPath)
			}
			if fd.IsBinary != tc.binary {
				t.Fatalf("isBinary = %v, want %v", fd.IsBinary, tc.binary)
			}
			if tc.binary && len(fd.Hunks) != 0 {
				t.Fatalf("binary diff parsed %d hunks, want 0", len(fd.Hunks))
			}
		})
	}
}

func TestParseGarbageDegradesToEmpty(t *testing.T) {
	for _, raw := range []string{"", "   \n\t\n", "not a diff at all\njust text\n"} {
		fd := Parse(raw)
		if len(fd.Hunks) != 0 || fd.Additions != 0 || fd.Deletions != 0 {
			t.Fatalf("Parse(%q) = %+v, want empty FileDiff", raw, fd)
		}
	}
}

func TestRawPatchRoundTrip(t *testing.T) {
	fd := Parse(sampleDiff)
	for i, hunk := range fd.Hunks {
		reparsed := Parse(hunk.RawPatch)
		if len(reparsed.Hunks) != 1 {
			t.Fatalf("hunk %d: raw patch reparsed into %d hunks", i, len(reparsed.Hunks))
		}
		got := serialize(reparsed)
		if got != hunk.RawPatch {
			t.Fatalf("hunk %d round trip:\ngot:\n%s\nwant:\n%s", i, got, hunk.RawPatch)
		}
	}
}

// serialize rebuilds patch text from the parsed model.
func serialize(fd FileDiff) string {
	var b strings.Builder
	b.WriteString(fd.Header)
	for _, hunk := range fd.Hunks {
		b.WriteString(FormatHunkHeader(hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines))
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineContext:
				b.WriteByte(' ')
			case LineAdded:
				b.WriteByte('+')
			case LineDeleted:
				b.WriteByte('-')
			}
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestParseUntracked(t *testing.T) {
	fd := ParseUntracked("docs/todo.txt", "first\nsecond\nthird\n")
	if fd.Status != StatusUntracked {
		t.Fatalf("status = %q, want untracked", fd.Status)
	}
	if len(fd.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(fd.Hunks))
	}
	hunk := fd.Hunks[0]
	if hunk.OldStart != 0 || hunk.OldLines != 0 || hunk.NewStart != 1 || hunk.NewLines != 3 {
		t.Fatalf("unexpected hunk header: %+v", hunk)
	}
	for i, line := range hunk.Lines {
		if line.Type != LineAdded {
			t.Fatalf("line %d type = %v, want add", i, line.Type)
		}
		if line.NewNumber != i+1 || line.Index != i {
			t.Fatalf("line %d numbering = %+v", i, line)
		}
	}
	if fd.Additions != 3 || fd.Deletions != 0 {
		t.Fatalf("stats = +%d -%d, want +3 -0", fd.Additions, fd.Deletions)
	}
	if !strings.Contains(hunk.RawPatch, "new file mode 100644") {
		t.Fatalf("raw patch missing new file header:\n%s", hunk.RawPatch)
	}
	if Parse(hunk.RawPatch).Additions != 3 {
		t.Fatalf("synthesized raw patch does not reparse:\n%s", hunk.RawPatch)
	}
}

func TestParseUntrackedNoTrailingNewline(t *testing.T) {
	fd := ParseUntracked("notes.txt", "only line")
	if len(fd.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(fd.Hunks))
	}
	hunk := fd.Hunks[0]
	if hunk.NewLines != 1 || len(hunk.Lines) != 1 {
		t.Fatalf("unexpected hunk shape: %+v", hunk)
	}
	if !strings.HasSuffix(hunk.RawPatch, "+only line\n\\ No newline at end of file\n") {
		t.Fatalf("raw patch should mark the missing final newline:\n%s", hunk.RawPatch)
	}
	// The marker is patch text only, not an addressable line.
	if fd.Additions != 1 {
		t.Fatalf("stats = +%d, want +1", fd.Additions)
	}
}

func TestParseUntrackedEmptyFile(t *testing.T) {
	fd := ParseUntracked("empty.txt", "")
	if len(fd.Hunks) != 0 || fd.Additions != 0 {
		t.Fatalf("empty untracked file should parse to no hunks, got %+v", fd)
	}
}

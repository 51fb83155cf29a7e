package staging

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gitdeck/internal/git/client"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, string(out))
		}
	}
	run("init")
	run("config", "user.email", "you@example.com")
	run("config", "user.name", "Your Name")
	return dir
}

func gitOut(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, string(out))
	}
	return string(out)
}

func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	gitOut(t, dir, "add", name)
	gitOut(t, dir, "commit", "-m", "add "+name)
}

// Staging a single added line and immediately unstaging it must leave the
// index exactly as it was.
func TestStageThenUnstageLinesRoundTrip(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	commitFile(t, dir, "f.txt", "one\ntwo\nthree\n")
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("one\ntwo\nTWO\nthree\nfour\n"), 0o644); err != nil {
		t.Fatalf("modify: %v", err)
	}

	svc := NewService(client.NewExecClient(""), nil)
	ctx := context.Background()

	fd, err := svc.FileDiff(ctx, dir, "f.txt", false)
	if err != nil {
		t.Fatalf("FileDiff: %v", err)
	}
	if len(fd.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(fd.Hunks))
	}
	var twoIdx int = -1
	for _, line := range fd.Hunks[0].Lines {
		if line.Content == "TWO" {
			twoIdx = line.Index
		}
	}
	if twoIdx < 0 {
		t.Fatalf("addition TWO not found in %+v", fd.Hunks[0].Lines)
	}

	if err := svc.StageLines(ctx, dir, "f.txt", 0, []int{twoIdx}); err != nil {
		t.Fatalf("StageLines: %v", err)
	}
	cached := gitOut(t, dir, "diff", "--cached")
	if !strings.Contains(cached, "+TWO") {
		t.Fatalf("index missing staged line:\n%s", cached)
	}
	if strings.Contains(cached, "+four") {
		t.Fatalf("index contains unselected line:\n%s", cached)
	}

	sfd, err := svc.FileDiff(ctx, dir, "f.txt", true)
	if err != nil {
		t.Fatalf("FileDiff staged: %v", err)
	}
	twoIdx = -1
	for _, line := range sfd.Hunks[0].Lines {
		if line.Content == "TWO" {
			twoIdx = line.Index
		}
	}
	if twoIdx < 0 {
		t.Fatalf("staged addition TWO not found")
	}
	if err := svc.UnstageLines(ctx, dir, "f.txt", 0, []int{twoIdx}); err != nil {
		t.Fatalf("UnstageLines: %v", err)
	}
	if cached := gitOut(t, dir, "diff", "--cached"); strings.TrimSpace(cached) != "" {
		t.Fatalf("index not restored:\n%s", cached)
	}
}

// Discarding only the delete-type line of a hunk restores that line in
// the working tree and leaves everything else untouched.
func TestDiscardLinesRestoresDeletedLine(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	commitFile(t, dir, "f.txt", "one\ntwo\nthree\n")
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("one\nthree\nextra\n"), 0o644); err != nil {
		t.Fatalf("modify: %v", err)
	}

	svc := NewService(client.NewExecClient(""), nil)
	ctx := context.Background()

	fd, err := svc.FileDiff(ctx, dir, "f.txt", false)
	if err != nil {
		t.Fatalf("FileDiff: %v", err)
	}
	if len(fd.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(fd.Hunks))
	}
	var delIdx = -1
	for _, line := range fd.Hunks[0].Lines {
		if line.Content == "two" {
			delIdx = line.Index
		}
	}
	if delIdx < 0 {
		t.Fatalf("deletion of 'two' not found")
	}

	if err := svc.DiscardLines(ctx, dir, "f.txt", 0, []int{delIdx}); err != nil {
		t.Fatalf("DiscardLines: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got := string(data); got != "one\ntwo\nthree\nextra\n" {
		t.Fatalf("working tree = %q, want deleted line restored and addition kept", got)
	}
}

// Staging an untracked file's synthesized hunk adds the whole file to the
// index.
func TestStageHunkUntrackedIntegration(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	commitFile(t, dir, "seed.txt", "seed\n")
	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc := NewService(client.NewExecClient(""), nil)
	if err := svc.StageHunk(context.Background(), dir, "new.txt", 0); err != nil {
		t.Fatalf("StageHunk: %v", err)
	}
	cached := gitOut(t, dir, "diff", "--cached", "--", "new.txt")
	if !strings.Contains(cached, "+alpha") || !strings.Contains(cached, "+beta") {
		t.Fatalf("untracked file not staged:\n%s", cached)
	}
}

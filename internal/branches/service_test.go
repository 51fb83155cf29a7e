package branches

import (
	"context"
	"testing"

	"gitdeck/internal/logging"
)

type fakeRunner struct {
	out  string
	err  error
	args [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	f.args = append(f.args, args)
	return f.out, f.err
}

func (f *fakeRunner) RunInput(_ context.Context, _ string, _ string, args ...string) (string, error) {
	f.args = append(f.args, args)
	return f.out, f.err
}

func TestBranchListParsesForEachRef(t *testing.T) {
	r := &fakeRunner{out: "*\tmain\torigin/main\n \tfeature/diff\t\n"}
	svc := NewService(r, logging.Nop())

	list, err := svc.List(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("list branches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(list))
	}
	if !list[0].IsCurrent || list[0].Name != "main" || list[0].Upstream != "origin/main" {
		t.Fatalf("unexpected first branch: %+v", list[0])
	}
	if list[1].IsCurrent || list[1].Name != "feature/diff" {
		t.Fatalf("unexpected second branch: %+v", list[1])
	}
}

func TestBranchDeleteForceFlag(t *testing.T) {
	r := &fakeRunner{}
	svc := NewService(r, logging.Nop())
	ctx := context.Background()

	if err := svc.Delete(ctx, "/repo", "old", false); err != nil {
		t.Fatalf("delete branch: %v", err)
	}
	if got := r.args[0][1]; got != "-d" {
		t.Fatalf("delete flag = %s, want -d", got)
	}
	if err := svc.Delete(ctx, "/repo", "old", true); err != nil {
		t.Fatalf("force delete branch: %v", err)
	}
	if got := r.args[1][1]; got != "-D" {
		t.Fatalf("force delete flag = %s, want -D", got)
	}
}

func TestBranchOpsRequireName(t *testing.T) {
	svc := NewService(&fakeRunner{}, logging.Nop())
	ctx := context.Background()

	if err := svc.Create(ctx, "/repo", "  "); err == nil {
		t.Fatalf("expected error for empty branch name")
	}
	if err := svc.Checkout(ctx, "/repo", ""); err == nil {
		t.Fatalf("expected error for empty branch name")
	}
}

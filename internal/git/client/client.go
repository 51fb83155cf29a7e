package client

import "context"

// Client provides the git queries and the single mutating capability
// (patch application) used by the app.
// Implementations may use the git binary or a pure-Go library.
type Client interface {
	// RepoRoot returns the repository toplevel for a path inside a repo.
	RepoRoot(ctx context.Context, path string) (string, error)
	// CurrentRef returns the current branch name or commit hash for HEAD.
	CurrentRef(ctx context.Context, path string) (string, error)
	// IsRepoPath reports whether path is inside a git work tree.
	IsRepoPath(ctx context.Context, path string) (bool, error)
	// DiffStats aggregates staged + unstaged changes under root.
	DiffStats(ctx context.Context, root string) ([]FileDiffStat, error)
	// DiffFile returns the raw unified diff for one file: index vs working
	// tree when staged is false, HEAD vs index when staged is true.
	DiffFile(ctx context.Context, root, path string, staged bool) (string, error)
	// IsUntracked reports whether path is an untracked file under root.
	IsUntracked(ctx context.Context, root, path string) (bool, error)
	// ReadFile returns the working-tree content of path under root.
	ReadFile(ctx context.Context, root, path string) (string, error)
	// ApplyPatch feeds patch text to the apply capability with the given
	// target flags. The tool either fully applies it or changes nothing.
	ApplyPatch(ctx context.Context, root, patch string, opts ApplyOptions) error
}

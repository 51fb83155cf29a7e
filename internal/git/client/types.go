package client

// FileDiffStat is a minimal representation of file-level changes.
type FileDiffStat struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
	Status  string `json:"status"` // porcelain-like code (e.g., M, A, ??)
}

// ApplyOptions selects the patch-apply target.
// Zero value applies forward to the working tree. Cached targets the
// index; Reverse applies the patch's inverse.
type ApplyOptions struct {
	Cached  bool
	Reverse bool
}

package diff

// FileStatus classifies how a file changed relative to its comparison base.
type FileStatus string

const (
	StatusAdded     FileStatus = "added"
	StatusModified  FileStatus = "modified"
	StatusDeleted   FileStatus = "deleted"
	StatusRenamed   FileStatus = "renamed"
	StatusUntracked FileStatus = "untracked"
)

// LineType is the closed set of content line kinds inside a hunk.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAdded:
		return "add"
	case LineDeleted:
		return "delete"
	}
	return "unknown"
}

// Line is one content line of a hunk with its marker stripped.
// OldNumber is set for context/delete lines, NewNumber for context/add
// lines; the unset side is 0. Index is the zero-based position within the
// hunk's parsed sequence and is the handle selections refer to.
type Line struct {
	Type      LineType `json:"type"`
	Content   string   `json:"content"`
	OldNumber int      `json:"oldNumber,omitempty"`
	NewNumber int      `json:"newNumber,omitempty"`
	Index     int      `json:"index"`
}

// Hunk is one contiguous changed region of a file diff.
// RawPatch is the complete standalone patch for this hunk alone: the file
// header triplet followed by the hunk header and body, appliable as-is.
type Hunk struct {
	OldStart int    `json:"oldStart"`
	OldLines int    `json:"oldLines"`
	NewStart int    `json:"newStart"`
	NewLines int    `json:"newLines"`
	Lines    []Line `json:"lines"`
	RawPatch string `json:"-"`
}

// FileDiff is the parsed diff of a single file.
// Header keeps the raw preamble through the "+++" line so that partial
// patches can be wrapped into standalone appliable patch text.
type FileDiff struct {
	Path      string     `json:"path"`
	OldPath   string     `json:"oldPath,omitempty"`
	Status    FileStatus `json:"status"`
	Hunks     []Hunk     `json:"hunks"`
	IsBinary  bool       `json:"isBinary"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Header    string     `json:"-"`
}

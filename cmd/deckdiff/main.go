// Command deckdiff parses a unified diff from stdin and prints either a
// summary of its hunks or a synthesized partial patch for a selection.
package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"gitdeck/internal/diff"
)

func main() {
	hunk := flag.Int("hunk", -1, "hunk index to synthesize a patch for")
	lines := flag.IntSlice("lines", nil, "line indices within the hunk to select")
	reverse := flag.Bool("reverse", false, "synthesize for reverse application")
	flag.Parse()

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read stdin:", err)
		os.Exit(1)
	}

	fd := diff.Parse(string(raw))

	if *hunk < 0 {
		printSummary(fd)
		return
	}

	dir := diff.Forward
	if *reverse {
		dir = diff.Reverse
	}
	sel := *lines
	if len(sel) == 0 && *hunk < len(fd.Hunks) {
		// default to the whole hunk
		for i := range fd.Hunks[*hunk].Lines {
			sel = append(sel, i)
		}
	}
	patch, err := diff.BuildPartialPatch(fd, *hunk, sel, dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "synthesize:", err)
		os.Exit(1)
	}
	fmt.Print(patch)
}

func printSummary(fd diff.FileDiff) {
	fmt.Printf("%s\t%s\t+%d -%d\n", fd.Path, fd.Status, fd.Additions, fd.Deletions)
	for i, h := range fd.Hunks {
		fmt.Printf("  hunk %d: -%d,%d +%d,%d (%d lines)\n", i, h.OldStart, h.OldLines, h.NewStart, h.NewLines, len(h.Lines))
	}
}

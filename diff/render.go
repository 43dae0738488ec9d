package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Segment is a span of one line from a replace pair, marked when the span
// differs between the two versions.
type Segment struct {
	Text    string
	Changed bool
}

// InlineSegments splits an old/new line pair into character spans so a
// renderer can emphasize the parts that actually changed within the line.
func InlineSegments(oldLine, newLine string) (oldSegs, newSegs []Segment) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = append(oldSegs, Segment{Text: d.Text})
			newSegs = append(newSegs, Segment{Text: d.Text})
		case diffmatchpatch.DiffDelete:
			oldSegs = append(oldSegs, Segment{Text: d.Text, Changed: true})
		case diffmatchpatch.DiffInsert:
			newSegs = append(newSegs, Segment{Text: d.Text, Changed: true})
		}
	}
	return oldSegs, newSegs
}

// Unified renders hunks as a unified diff document for path. An empty hunk
// list renders to an empty string.
func Unified(path string, hunks []Hunk) string {
	if len(hunks) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	for _, h := range hunks {
		removed, added := h.Counts()
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.StartOld, removed, h.StartNew, added)
		for _, ln := range h.Lines {
			marker := "+"
			if ln.Kind == Removed {
				marker = "-"
			}
			b.WriteString(marker)
			b.WriteString(ln.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

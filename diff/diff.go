package diff

import (
	"sort"
	"strings"
)

const (
	// MaxDiffLines is the per-side line count above which Compute switches
	// from the LCS matcher to the forward index matcher.
	MaxDiffLines = 1000

	// lookahead bounds how far the exact matcher scans past a mismatch for
	// a resynchronization point.
	lookahead = 10
)

// LineKind marks a diff line as an addition or a removal.
type LineKind string

const (
	Added   LineKind = "add"
	Removed LineKind = "remove"
)

// Line is one added or removed line within a hunk. Number is the 1-based
// position on the line's own side: the old text for removals, the new text
// for additions.
type Line struct {
	Kind    LineKind `json:"type"`
	Content string   `json:"content"`
	Number  int      `json:"lineNum"`
}

// Hunk is a maximal contiguous run of differing lines. StartOld and StartNew
// are the 1-based line numbers where the run begins on each side. Removed
// lines precede added lines.
type Hunk struct {
	StartOld int    `json:"startOld"`
	StartNew int    `json:"startNew"`
	Lines    []Line `json:"lines"`
}

// Counts returns how many removed and added lines the hunk carries.
func (h Hunk) Counts() (removed, added int) {
	for _, ln := range h.Lines {
		if ln.Kind == Removed {
			removed++
		} else {
			added++
		}
	}
	return removed, added
}

// Compute returns the line-level difference between oldText and newText as
// an ordered, non-overlapping list of hunks. Applying the result to oldText
// with Apply reconstructs newText exactly. Identical inputs yield nil.
func Compute(oldText, newText string) []Hunk {
	if oldText == newText {
		return nil
	}
	oldLines := strings.Split(oldText, "\n")
	newLines := strings.Split(newText, "\n")

	var matches []matchPair
	if len(oldLines) > MaxDiffLines || len(newLines) > MaxDiffLines {
		matches = indexMatches(oldLines, newLines)
	} else {
		matches = lcsMatches(oldLines, newLines)
	}
	return buildHunks(oldLines, newLines, matches)
}

// Apply replays hunks over oldText, replacing each hunk's removed lines with
// its added lines, and returns the reconstructed text.
func Apply(oldText string, hunks []Hunk) string {
	if len(hunks) == 0 {
		return oldText
	}
	oldLines := strings.Split(oldText, "\n")
	out := make([]string, 0, len(oldLines))
	consumed := 0
	for _, h := range hunks {
		start := h.StartOld - 1
		if start > len(oldLines) {
			start = len(oldLines)
		}
		if start > consumed {
			out = append(out, oldLines[consumed:start]...)
			consumed = start
		}
		for _, ln := range h.Lines {
			if ln.Kind == Added {
				out = append(out, ln.Content)
			} else {
				consumed++
			}
		}
		if consumed > len(oldLines) {
			consumed = len(oldLines)
		}
	}
	out = append(out, oldLines[consumed:]...)
	return strings.Join(out, "\n")
}

// Undo removes a single hunk's effect from newText: the hunk's added lines
// are replaced by its removed lines at their recorded positions. Positions
// refer to the text the hunk set was computed against, so callers must pass
// the same newText that produced the hunk.
func Undo(newText string, h Hunk) string {
	newLines := strings.Split(newText, "\n")
	start := h.StartNew - 1
	if start < 0 {
		start = 0
	}
	if start > len(newLines) {
		start = len(newLines)
	}
	removed, added := h.Counts()
	end := start + added
	if end > len(newLines) {
		end = len(newLines)
	}
	out := make([]string, 0, len(newLines)-added+removed)
	out = append(out, newLines[:start]...)
	for _, ln := range h.Lines {
		if ln.Kind == Removed {
			out = append(out, ln.Content)
		}
	}
	out = append(out, newLines[end:]...)
	return strings.Join(out, "\n")
}

type matchPair struct {
	oldIdx int
	newIdx int
}

// lcsMatches aligns two line slices. The subsequence length table is kept in
// two rolling rows instead of the full matrix; pairs that sit on an optimal
// subsequence are flagged in member during the table pass. A forward scan
// then recovers concrete matches, using a short lookahead on each side to
// resynchronize after a mismatch instead of a full traceback.
func lcsMatches(oldLines, newLines []string) []matchPair {
	m, n := len(oldLines), len(newLines)
	member := make(map[int64]struct{})
	key := func(i, j int) int64 { return int64(i)*int64(n) + int64(j) }

	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if oldLines[i] == newLines[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] >= prev[j+1] && cur[j+1] >= cur[j] {
					member[key(i, j)] = struct{}{}
				}
			} else if prev[j+1] >= cur[j] {
				cur[j+1] = prev[j+1]
			} else {
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}

	var matches []matchPair
	i, j := 0, 0
	for i < m && j < n {
		_, flagged := member[key(i, j)]
		if oldLines[i] == newLines[j] || flagged {
			matches = append(matches, matchPair{i, j})
			i++
			j++
			continue
		}
		oldDist := resyncDistance(oldLines, i, newLines[j])
		newDist := resyncDistance(newLines, j, oldLines[i])
		switch {
		case oldDist < 0 && newDist < 0:
			// no nearby anchor on either side, both lines changed
			i++
			j++
		case oldDist < 0:
			j++
		case newDist < 0:
			i++
		case newDist <= oldDist:
			j++
		default:
			i++
		}
	}
	return matches
}

// resyncDistance returns how far past idx the target line next appears in
// lines, scanning at most the lookahead window, or -1 if it does not.
func resyncDistance(lines []string, idx int, target string) int {
	limit := idx + lookahead
	if limit > len(lines)-1 {
		limit = len(lines) - 1
	}
	for k := idx + 1; k <= limit; k++ {
		if lines[k] == target {
			return k - idx
		}
	}
	return -1
}

// indexMatches aligns lines without a subsequence table: each old line is
// matched to the first occurrence of identical content in the new text past
// the last accepted match, so matches never cross. Used for inputs too large
// for lcsMatches.
func indexMatches(oldLines, newLines []string) []matchPair {
	positions := make(map[string][]int, len(newLines))
	for j, line := range newLines {
		positions[line] = append(positions[line], j)
	}
	var matches []matchPair
	last := -1
	for i, line := range oldLines {
		cands := positions[line]
		k := sort.SearchInts(cands, last+1)
		if k < len(cands) {
			matches = append(matches, matchPair{i, cands[k]})
			last = cands[k]
		}
	}
	return matches
}

// buildHunks turns the aligned match list into hunks: the unmatched run
// between consecutive matches becomes one hunk, removals first.
func buildHunks(oldLines, newLines []string, matches []matchPair) []Hunk {
	var hunks []Hunk
	oldPos, newPos := 0, 0
	flush := func(oldEnd, newEnd int) {
		if oldEnd == oldPos && newEnd == newPos {
			return
		}
		h := Hunk{StartOld: oldPos + 1, StartNew: newPos + 1}
		for k := oldPos; k < oldEnd; k++ {
			h.Lines = append(h.Lines, Line{Kind: Removed, Content: oldLines[k], Number: k + 1})
		}
		for k := newPos; k < newEnd; k++ {
			h.Lines = append(h.Lines, Line{Kind: Added, Content: newLines[k], Number: k + 1})
		}
		hunks = append(hunks, h)
	}
	for _, mp := range matches {
		flush(mp.oldIdx, mp.newIdx)
		oldPos, newPos = mp.oldIdx+1, mp.newIdx+1
	}
	flush(len(oldLines), len(newLines))
	return hunks
}

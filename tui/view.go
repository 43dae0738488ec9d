package tui

import (
	"fmt"
	"strings"

	"driftwatch/diff"
	"driftwatch/tracker"

	"github.com/charmbracelet/lipgloss"
)

const listWidth = 34

// paneSize returns the inner dimensions available to the diff viewport once
// the title, status bar, help line, and borders are accounted for.
func (m *model) paneSize() (width, height int) {
	width = m.width - listWidth - 6
	if width < 20 {
		width = 20
	}
	height = m.height - 7
	if height < 5 {
		height = 5
	}
	return width, height
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	title := m.theme.Title.Render("driftwatch · change review")

	listPane := m.renderList()
	diffPane := m.renderDiffPane()
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, diffPane)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		body,
		m.renderStatusBar(),
		m.theme.Help.Render("j/k move • tab pane • enter diff • a accept • r revert • 1-9 revert hunk • A accept all • y copy • q quit"),
	)
}

func (m model) renderList() string {
	_, height := m.paneSize()

	var b strings.Builder
	if m.scanning {
		fmt.Fprintf(&b, "%s scanning...\n", m.spinner.View())
	} else if len(m.changes) == 0 {
		b.WriteString(m.theme.Dimmed.Render("No pending changes."))
		b.WriteString("\n")
		b.WriteString(m.theme.Dimmed.Render("Edits will appear here."))
		b.WriteString("\n")
	} else {
		for i, pc := range m.changes {
			removed, added := 0, 0
			for _, h := range pc.Diff {
				r, a := h.Counts()
				removed += r
				added += a
			}
			line := fmt.Sprintf("%s  +%d -%d", pc.Filename, added, removed)
			if i == m.selected {
				b.WriteString(m.theme.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
			detail := fmt.Sprintf("  %s %s", pc.Timestamp.Format("15:04:05"), pc.Path)
			b.WriteString(m.theme.Dimmed.Render(detail))
			b.WriteString("\n")
		}
	}

	style := m.theme.Pane
	if m.focus == paneList {
		style = m.theme.ActivePane
	}
	return style.Width(listWidth).Height(height).Render(b.String())
}

func (m model) renderDiffPane() string {
	width, height := m.paneSize()

	content := m.viewport.View()
	if m.diffPath == "" {
		content = m.theme.Dimmed.Render("Select a change and press enter.")
	}

	style := m.theme.Pane
	if m.focus == paneDiff {
		style = m.theme.ActivePane
	}
	return style.Width(width).Height(height).Render(content)
}

func (m model) renderStatusBar() string {
	parts := []string{m.root, m.gitInfo.Summary(), fmt.Sprintf("%d pending", len(m.changes))}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  │  "))
}

// renderDiff builds the colored text for one pending change. Removed and
// added lines inside a hunk are paired positionally so the changed spans
// within a replaced line can be emphasized.
func renderDiff(theme Theme, pc *tracker.PendingChange) string {
	var b strings.Builder
	for i, h := range pc.Diff {
		removed, added := h.Counts()
		header := fmt.Sprintf("hunk %d  @@ -%d,%d +%d,%d @@", i+1, h.StartOld, removed, h.StartNew, added)
		b.WriteString(theme.HunkHeader.Render(header))
		b.WriteString("\n")

		removedLines, addedLines := splitHunk(h)
		for j, ln := range removedLines {
			if j < len(addedLines) {
				oldSegs, _ := diff.InlineSegments(ln.Content, addedLines[j].Content)
				b.WriteString(renderSegments(theme.Removed, theme.RemovedEmph, "- ", oldSegs))
			} else {
				b.WriteString(theme.Removed.Render("- " + ln.Content))
			}
			b.WriteString("\n")
		}
		for j, ln := range addedLines {
			if j < len(removedLines) {
				_, newSegs := diff.InlineSegments(removedLines[j].Content, ln.Content)
				b.WriteString(renderSegments(theme.Added, theme.AddedEmph, "+ ", newSegs))
			} else {
				b.WriteString(theme.Added.Render("+ " + ln.Content))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func splitHunk(h diff.Hunk) (removed, added []diff.Line) {
	for _, ln := range h.Lines {
		if ln.Kind == diff.Removed {
			removed = append(removed, ln)
		} else {
			added = append(added, ln)
		}
	}
	return removed, added
}

func renderSegments(base, emph lipgloss.Style, marker string, segs []diff.Segment) string {
	var b strings.Builder
	b.WriteString(base.Render(marker))
	for _, seg := range segs {
		if seg.Changed {
			b.WriteString(emph.Render(seg.Text))
		} else {
			b.WriteString(base.Render(seg.Text))
		}
	}
	return b.String()
}

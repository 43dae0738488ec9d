package tui

import (
	"driftwatch/config"
	"driftwatch/diff"
	"driftwatch/events"
	"driftwatch/git"
	"driftwatch/tracker"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pane int

const (
	paneList pane = iota
	paneDiff
)

// refreshMsg tells the model to reload tracker state. The bus pump sends one
// for every engine event, so the UI follows the watcher without polling.
type refreshMsg struct{}

// watchDoneMsg reports the outcome of the initial scan + watch start.
type watchDoneMsg struct{ err error }

type model struct {
	tracker *tracker.Tracker
	root    string
	theme   Theme

	changes  []*tracker.PendingChange
	selected int
	focus    pane

	viewport viewport.Model
	diffPath string

	spinner  spinner.Model
	scanning bool

	gitInfo git.Overview
	status  string

	width  int
	height int
	ready  bool
}

func newModel(t *tracker.Tracker, root string, cfg *config.Config) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		tracker:  t,
		root:     root,
		theme:    themeFor(cfg.Theme),
		viewport: viewport.New(0, 0),
		spinner:  s,
		scanning: true,
		gitInfo:  git.Status(root),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startWatch)
}

// startWatch runs the initial scan and brings the watcher up. It executes
// off the update loop, so the spinner animates while large trees scan.
func (m model) startWatch() tea.Msg {
	return watchDoneMsg{err: m.tracker.Watch(m.root)}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewport()
		m.ready = true
		return m, nil

	case watchDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.status = fmt.Sprintf("watch failed: %v", msg.err)
			return m, nil
		}
		scan := m.tracker.ScanSummary()
		m.status = fmt.Sprintf("watching %d files", scan.Captured)
		m.reload()
		return m, nil

	case refreshMsg:
		m.reload()
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == paneDiff {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		m.tracker.Stop()
		return m, tea.Quit

	case "tab":
		if m.focus == paneList {
			m.focus = paneDiff
		} else {
			m.focus = paneList
		}

	case "j", "down":
		if m.focus == paneList {
			if m.selected < len(m.changes)-1 {
				m.selected++
			}
		} else {
			m.viewport.SetYOffset(m.viewport.YOffset + 1)
		}

	case "k", "up":
		if m.focus == paneList {
			if m.selected > 0 {
				m.selected--
			}
		} else {
			m.viewport.SetYOffset(m.viewport.YOffset - 1)
		}

	case "enter":
		if pc := m.selection(); pc != nil {
			m.openDiff(pc)
			m.focus = paneDiff
		}

	case "a":
		if pc := m.selection(); pc != nil {
			if err := m.tracker.Accept(pc.Path); err != nil {
				m.status = fmt.Sprintf("accept failed: %v", err)
			} else {
				m.status = "accepted " + pc.Filename
			}
			m.reload()
		}

	case "r":
		if pc := m.selection(); pc != nil {
			if err := m.tracker.Revert(pc.Path); err != nil {
				m.status = fmt.Sprintf("revert failed: %v", err)
			} else {
				m.status = "reverted " + pc.Filename
			}
			m.reload()
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if pc := m.selection(); pc != nil {
			index := int(key[0] - '1')
			if err := m.tracker.RevertHunk(pc.Path, index); err != nil {
				m.status = fmt.Sprintf("revert hunk failed: %v", err)
			} else {
				m.status = fmt.Sprintf("reverted hunk %d of %s", index+1, pc.Filename)
			}
			m.reload()
		}

	case "A":
		n := m.tracker.AcceptAll()
		m.status = fmt.Sprintf("accepted %d changes", n)
		m.reload()

	case "y":
		if pc := m.selection(); pc != nil {
			if err := clipboard.WriteAll(diff.Unified(pc.Path, pc.Diff)); err != nil {
				m.status = fmt.Sprintf("copy failed: %v", err)
			} else {
				m.status = "copied diff for " + pc.Filename
			}
		}
	}
	return m, nil
}

// selection returns the highlighted pending change, or nil when the list is
// empty.
func (m *model) selection() *tracker.PendingChange {
	if m.selected < 0 || m.selected >= len(m.changes) {
		return nil
	}
	return m.changes[m.selected]
}

// reload pulls fresh tracker and git state, clamps the selection, and keeps
// the open diff in sync with the change it shows.
func (m *model) reload() {
	m.changes = m.tracker.PendingChanges()
	if m.selected >= len(m.changes) {
		m.selected = len(m.changes) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.gitInfo = git.Status(m.root)

	if m.diffPath == "" {
		return
	}
	for _, pc := range m.changes {
		if pc.Path == m.diffPath {
			m.viewport.SetContent(renderDiff(m.theme, pc))
			return
		}
	}
	// the shown change was accepted, reverted, or edited away
	m.diffPath = ""
	m.viewport.SetContent("")
}

func (m *model) openDiff(pc *tracker.PendingChange) {
	m.diffPath = pc.Path
	m.viewport.SetContent(renderDiff(m.theme, pc))
	m.viewport.GotoTop()
}

func (m *model) layoutViewport() {
	w, h := m.paneSize()
	m.viewport.Width = w
	m.viewport.Height = h
}

// Run starts the interactive review session. It subscribes to the bus so
// engine events repaint the UI, and blocks until the user quits.
func Run(t *tracker.Tracker, bus *events.Bus, root string, cfg *config.Config) error {
	m := newModel(t, root, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	bus.SubscribeAll(func(events.Event) {
		p.Send(refreshMsg{})
	})

	_, err := p.Run()
	return err
}

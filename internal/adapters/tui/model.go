// Package tui is the terminal rendering surface of the viewer. It feeds key
// presses, frame ticks and store outcomes into a viewer.Viewer from the
// bubbletea event loop and draws the frames it produces.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/scrub"
	"github.com/okian/runscope/internal/domain/series"
	"github.com/okian/runscope/internal/viewer"
)

// pixelsPerRow converts panel offsets to terminal rows.
const pixelsPerRow = 5

// OutcomeMsg carries a store outcome from the ingest worker to the UI loop.
type OutcomeMsg struct {
	Outcome repository.Outcome
}

type frameMsg struct {
	at time.Time
}

// screen caches the last rendered view between dirty frames.
type screen struct {
	text  string
	valid bool
}

// Model is the bubbletea model wrapping the viewer.
type Model struct {
	viewer  *viewer.Viewer
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	ctx           context.Context
	now           func() time.Time
	frameInterval time.Duration
	keyRelease    time.Duration

	width  int
	height int

	held    string
	lastKey time.Time

	screen *screen
}

// New wraps v. The viewer must already be started.
func New(v *viewer.Viewer, opts ...Option) Model {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(accentSecondary)

	m := Model{
		viewer:        v,
		keys:          keys,
		help:          help.New(),
		spinner:       spin,
		ctx:           context.Background(),
		now:           time.Now,
		frameInterval: time.Second / DefaultFrameRate,
		keyRelease:    DefaultKeyRelease,
		screen:        &screen{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.frameCmd(),
	)
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.frameInterval, func(at time.Time) tea.Msg {
		return frameMsg{at: at}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewer.SetGraphBounds(series.Rect{
			W: max(20, msg.Width-4),
			H: max(4, msg.Height-14),
		})
		m.screen.valid = false
		return m, nil

	case OutcomeMsg:
		m.viewer.HandleOutcome(m.ctx, m.now(), msg.Outcome)
		return m, nil

	case frameMsg:
		if m.held != "" && msg.at.Sub(m.lastKey) >= m.keyRelease {
			m.release()
		}
		m.viewer.Tick(msg.at)
		return m, m.frameCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loadingVisible() {
			m.screen.valid = false
		}
		return m, cmd

	case tea.KeyMsg:
		return m.processKeyMsg(msg)
	}

	return m, nil
}

func (m Model) processKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.release()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.valid = false
	case key.Matches(msg, m.keys.Back):
		m.release()
		if !m.viewer.Back(m.ctx) {
			return m, tea.Quit
		}
	case key.Matches(msg, m.keys.Select):
		m.release()
		m.viewer.Select(m.ctx, now)
	case key.Matches(msg, m.keys.Up):
		m.direction(now, true)
	case key.Matches(msg, m.keys.Down):
		m.direction(now, false)
	}
	return m, nil
}

// direction turns a key event into a press, or a hold when the same key
// repeats inside the release window while scrubbing.
func (m *Model) direction(now time.Time, up bool) {
	name := "down"
	if up {
		name = "up"
	}
	if m.held == name && now.Sub(m.lastKey) < m.keyRelease && m.viewer.Hold(up) {
		m.lastKey = now
		return
	}

	m.release()
	if up {
		m.viewer.Up(now)
	} else {
		m.viewer.Down(now)
	}
	m.held = name
	m.lastKey = now
}

func (m *Model) release() {
	if m.held == "" {
		return
	}
	m.viewer.Release()
	m.held = ""
}

func (m Model) loadingVisible() bool {
	if m.viewer.Mode() == viewer.ModeMenu {
		return m.viewer.MenuState() == viewer.Loading
	}
	return m.viewer.DetailState() == viewer.Loading
}

func (m Model) View() string {
	if m.width == 0 {
		return "Starting runscope..."
	}
	if m.viewer.TakeDirty() == 0 && m.screen.valid {
		return m.screen.text
	}

	f := m.viewer.Frame()
	body := m.renderMenu(f)
	if f.Mode == viewer.ModeDetail {
		body = m.renderDetail(f)
	}

	m.screen.text = lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		"",
		helpStyle.Render(m.help.View(m.keys)),
	)
	m.screen.valid = true
	return m.screen.text
}

func (m Model) renderMenu(f viewer.Frame) string {
	lines := []string{headerStyle.Render("RUNS")}

	switch f.MenuState {
	case viewer.Loading:
		lines = append(lines, m.spinner.View()+" Loading runs...")
		return strings.Join(lines, "\n")
	case viewer.Failed:
		lines = append(lines, errorStyle.Render(f.MenuMessage))
		return strings.Join(lines, "\n")
	}

	if f.Empty {
		lines = append(lines, statusStyle.Render("No runs"))
	}
	for _, sec := range f.Sections {
		lines = append(lines, "", sectionStyle.Render(sec.Header))
		for _, row := range sec.Rows {
			owner := ownerStyle.Render(row.Owner)
			if row.Selected {
				lines = append(lines, selectedRowStyle.Render("› "+row.Name)+"  "+owner)
				continue
			}
			lines = append(lines, rowStyle.Render(row.Name)+"  "+owner)
		}
	}
	if !f.CompletedAt.IsZero() {
		lines = append(lines, "", statusStyle.Render("updated "+humanize.Time(f.CompletedAt)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail(f viewer.Frame) string {
	header := headerStyle.Render(f.RunName) + statusStyle.Render(f.RunStatus)

	var status string
	switch f.DetailState {
	case viewer.Loading:
		status = m.spinner.View() + " Loading metrics..."
	case viewer.Failed:
		status = errorStyle.Render("metrics unavailable")
	default:
		parts := []string{f.Page}
		if f.Scrub != scrub.Inactive {
			parts = append(parts, "scrubbing")
		}
		if !f.CompletedAt.IsZero() {
			parts = append(parts, "synced "+humanize.Time(f.CompletedAt))
		}
		status = statusStyle.Render(strings.Join(parts, "  ·  "))
	}

	rows := f.Offset / pixelsPerRow
	name := nameStyle.Render(f.Name)
	value := valueStyle.Render(f.Value)
	if f.DetailState == viewer.Failed {
		name = errorStyle.Render(f.Name)
		value = errorStyle.Render(f.Value)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		status,
		"",
		shift(name, 3, 1+rows),
		value,
		panelStyle.Render(shift(renderGraph(f), f.Bounds.H, rows)),
	)
}

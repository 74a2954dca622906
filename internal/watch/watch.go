// Package watch is a live terminal view of the open task and today's total.
package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

// Loader returns the timesheet to display, rebuilt from storage.
type Loader func() (*timesheet.Timesheet, error)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(9)
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
}

type tickMsg time.Time

type loadedMsg struct {
	sheet *timesheet.Timesheet
	err   error
}

// Model implements tea.Model.
type Model struct {
	load     Loader
	now      func() time.Time
	interval time.Duration

	sheet *timesheet.Timesheet
	err   error
}

// New returns a Model that reloads through load every interval.
func New(load Loader, now func() time.Time, interval time.Duration) Model {
	return Model{load: load, now: now, interval: interval}
}

func (m Model) reload() tea.Cmd {
	return func() tea.Msg {
		ts, err := m.load()
		return loadedMsg{sheet: ts, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), m.tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return m, m.reload()
		}
	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.sheet = msg.sheet
		}
	case tickMsg:
		return m, tea.Batch(m.reload(), m.tick())
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tts watch"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.sheet == nil {
		b.WriteString("Loading…\n")
	} else {
		if cur := m.sheet.CurrentTask(); cur != nil {
			b.WriteString(runningStyle.Render("Running"))
			b.WriteString("\n")
			row(&b, "Task", label(cur))
			row(&b, "Since", cur.Start.Format(timesheet.ClockLayout))
			row(&b, "Elapsed", timecalc.FormatClock(m.now().Sub(cur.Start)))
		} else {
			b.WriteString(idleStyle.Render("No active task"))
			b.WriteString("\n")
		}
		row(&b, "Today", timecalc.FormatDuration(m.sheet.TimeSpent())+" logged")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s %s • %s %s",
		keys.Refresh.Help().Key, keys.Refresh.Help().Desc,
		keys.Quit.Help().Key, keys.Quit.Help().Desc)))
	b.WriteString("\n")
	return b.String()
}

func row(b *strings.Builder, name, value string) {
	b.WriteString(labelStyle.Render(name+":") + " " + value + "\n")
}

// label renders "project / task" for a task entry.
func label(e *timesheet.TaskEntry) string {
	var parts []string
	if e.Project != nil {
		parts = append(parts, *e.Project)
	}
	if e.Task != nil {
		parts = append(parts, *e.Task)
	}
	if len(parts) == 0 {
		return "(unlabeled)"
	}
	return strings.Join(parts, " / ")
}

// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-09

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/asana-link/internal/core/dispatch"
)

// Brand color
var (
	primaryColor = lipgloss.Color("#f06a6a")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	activeTaskStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	doneTaskStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorTaskStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// maxLogLines is how many progress messages the view keeps on screen.
const maxLogLines = 5

// ProgressMsg wraps a progress event from the running action.
type ProgressMsg dispatch.ProgressEvent

// DoneMsg is sent when the progress channel closes.
type DoneMsg struct{}

// TimeoutMsg is sent when no progress arrives within the idle timeout.
type TimeoutMsg struct{}

// Model for the TUI.
type Model struct {
	spinner  spinner.Model
	action   string
	tasks    []string
	current  int
	status   map[string]string // task -> status
	logs     []string
	quitting bool
	timedOut bool
	failed   int
	idle     time.Duration
	events   <-chan dispatch.ProgressEvent
}

// NewModel creates a new TUI model reading from events. idle bounds the wait
// between two events.
func NewModel(events <-chan dispatch.ProgressEvent, idle time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner: s,
		current: -1,
		status:  make(map[string]string),
		idle:    idle,
		events:  events,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m = m.apply(dispatch.ProgressEvent(msg))
		return m, m.waitForActivity()

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit

	case TimeoutMsg:
		m.timedOut = true
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) apply(ev dispatch.ProgressEvent) Model {
	if ev.Status == dispatch.StatusBegin {
		m.action = ev.Action
		m.tasks = append([]string(nil), ev.TaskIDs...)
		return m
	}

	// Duplicate references share one row.
	m.status[ev.TaskID] = ev.Status
	for i, id := range m.tasks {
		if id == ev.TaskID {
			m.current = i
			break
		}
	}

	if ev.Status == string(dispatch.OutcomeFailed) {
		m.failed++
	}
	if ev.Message != "" {
		m.logs = append(m.logs, fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), ev.TaskID, ev.Message))
	}
	return m
}

// TimedOut reports whether the model quit because the action went quiet.
func (m Model) TimedOut() bool {
	return m.timedOut
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		var timeout <-chan time.Time
		if m.idle > 0 {
			timeout = time.After(m.idle)
		}
		select {
		case ev, ok := <-m.events:
			if !ok {
				return DoneMsg{}
			}
			return ProgressMsg(ev)
		case <-timeout:
			return TimeoutMsg{}
		}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	title := "Asana Link"
	if m.action != "" {
		title += ": " + m.action
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if m.action != "" && len(m.tasks) == 0 {
		s.WriteString(taskStyle.Faint(true).Render("no task references found") + "\n")
	}

	for i, task := range m.tasks {
		prefix := "  "
		style := taskStyle

		if i == m.current {
			prefix = m.spinner.View() + " "
			style = activeTaskStyle
		}

		switch dispatch.OutcomeStatus(m.status[task]) {
		case dispatch.OutcomeOK:
			prefix = "✓ "
			style = doneTaskStyle
		case dispatch.OutcomeFailed:
			prefix = "✗ "
			style = errorTaskStyle
		case dispatch.OutcomeSkipped:
			prefix = "○ "
			style = taskStyle.Faint(true)
		}

		s.WriteString(style.Render(fmt.Sprintf("%stask %s\n", prefix, task)))
	}

	s.WriteString("\nLog:\n")
	start := 0
	if len(m.logs) > maxLogLines {
		start = len(m.logs) - maxLogLines
	}
	for _, line := range m.logs[start:] {
		s.WriteString(lipgloss.NewStyle().Foreground(subtleColor).Render(line) + "\n")
	}

	if m.failed > 0 {
		s.WriteString("\n" + errorTaskStyle.Render(fmt.Sprintf("%d task(s) failed", m.failed)) + "\n")
	}

	s.WriteString(lipgloss.NewStyle().Foreground(subtleColor).Render("\nPress q to quit\n"))

	return s.String()
}

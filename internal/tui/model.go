package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devbm7/synthgen/internal/models"
)

const maxLogLines = 8

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// StatusUpdate reports one poll attempt to the view
type StatusUpdate struct {
	Attempt int
	Status  models.TaskStatus
	Err     error
}

// DoneMsg ends the watch with the final status
type DoneMsg struct {
	Status models.TaskStatus
	Err    error
}

// LogMessage appends a line to the log tail
type LogMessage struct {
	Message string
}

// Model renders the polling progress of a single task
type Model struct {
	taskID    string
	label     string
	spinner   spinner.Model
	attempt   int
	status    models.TaskStatus
	lastErr   error
	logs      []string
	startTime time.Time
	done      bool
	width     int

	stopFn   func()
	cancelFn func()
}

// NewModel creates a watch view for the given task
func NewModel(label, taskID string, stopFn, cancelFn func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		taskID:    taskID,
		label:     label,
		spinner:   sp,
		logs:      []string{},
		startTime: time.Now(),
		width:     80,
		stopFn:    stopFn,
		cancelFn:  cancelFn,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.stopFn != nil {
				m.stopFn()
			}
			return m, nil
		case "c":
			if m.cancelFn != nil {
				m.cancelFn()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case StatusUpdate:
		m.attempt = msg.Attempt
		m.status = msg.Status
		m.lastErr = msg.Err

	case LogMessage:
		m.logs = append(m.logs, msg.Message)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}

	case DoneMsg:
		m.done = true
		m.status = msg.Status
		m.lastErr = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s task %s", m.label, m.taskID)))
	b.WriteString("\n\n")

	status := string(m.status)
	if status == "" {
		status = "waiting for first poll"
	}

	if m.done {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("status:"), statusStyle.Render(status)))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", m.spinner.View(), labelStyle.Render("status:"), statusStyle.Render(status)))
	}

	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("polls:"), m.attempt))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("elapsed:"), time.Since(m.startTime).Round(time.Second)))

	if m.lastErr != nil {
		b.WriteString(fmt.Sprintf("  %s\n", errorStyle.Render(m.lastErr.Error())))
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		for _, line := range m.logs {
			b.WriteString(fmt.Sprintf("  %s\n", labelStyle.Render(line)))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  q: stop watching • c: cancel task"))
	b.WriteString("\n")

	return b.String()
}

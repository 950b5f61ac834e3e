// Package ui provides progress display for repository query batches.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// --- Plain text fallback ---

// PlainProgress prints progress messages to a callback function.
// Used when stderr is not a TTY (e.g., piped output).
type PlainProgress struct {
	print func(string)
}

// NewPlainProgress creates a new PlainProgress with the given print callback.
func NewPlainProgress(print func(string)) *PlainProgress {
	return &PlainProgress{print: print}
}

// Update prints a progress message for a completed query.
func (p *PlainProgress) Update(completed, total int, label string) {
	p.print(fmt.Sprintf("[%d/%d] %s", completed, total, label))
}

// Done prints a completion message.
func (p *PlainProgress) Done(total int) {
	p.print(doneText(total))
}

func doneText(total int) string {
	if total == 1 {
		return "Done! Ran 1 query."
	}
	return fmt.Sprintf("Done! Ran %d queries.", total)
}

// --- TUI progress ---

// ProgressMsg is sent to the bubbletea program when a query completes.
type ProgressMsg struct {
	Completed int
	Total     int
	Label     string
}

// DoneMsg is sent to the bubbletea program when all queries have finished.
type DoneMsg struct{}

type model struct {
	title     string
	progress  progress.Model
	completed int
	total     int
	label     string
	ran       int
	done      bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewTUIModel creates a new bubbletea model for the progress TUI.
func NewTUIModel(title string) model {
	return model{
		title: title,
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
			progress.WithoutPercentage(),
		),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 10
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
	case ProgressMsg:
		// A new batch restarts the counter; keep a running total for the summary.
		if msg.Completed < m.completed || msg.Total != m.total {
			m.ran += m.completed
		}
		m.completed = msg.Completed
		m.total = msg.Total
		m.label = msg.Label
		if m.total == 0 {
			return m, nil
		}
		pct := float64(m.completed) / float64(m.total)
		return m, m.progress.SetPercent(pct)
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return fmt.Sprintf("\n  %s\n\n", titleStyle.Render(doneText(m.ran+m.completed)))
	}

	pad := strings.Repeat(" ", 2)
	counter := infoStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	desc := m.label
	if desc == "" {
		desc = "Starting..."
	}

	return "\n" +
		pad + titleStyle.Render(m.title) + "\n" +
		pad + m.progress.View() + "  " + counter + "\n" +
		pad + infoStyle.Render(desc) + "\n\n"
}

// RunTUI creates and returns a bubbletea program for the progress TUI.
// The program outputs to stderr so report output on stdout stays clean.
func RunTUI(title string) *tea.Program {
	m := NewTUIModel(title)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	return p
}

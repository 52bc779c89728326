// Package ui renders the interactive wait indicator shown while the
// external server runs. It is only used on a TTY; plain runs skip it.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type waitModel struct {
	message     string
	spinner     spinner.Model
	started     time.Time
	done        <-chan struct{}
	width       int
	interrupted bool
}

type doneMsg struct{}

var messageStyle = lipgloss.NewStyle().Faint(true)

func newWaitModel(message string, done <-chan struct{}) *waitModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &waitModel{
		message: message,
		spinner: sp,
		started: time.Now(),
		done:    done,
		width:   80,
	}
}

func (m *waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *waitModel) listen() tea.Cmd {
	return func() tea.Msg {
		<-m.done
		return doneMsg{}
	}
}

func (m *waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			// Quitting the indicator does not mean the check finished;
			// the caller must cancel the run and wait for it.
			m.interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *waitModel) View() string {
	elapsed := time.Since(m.started).Round(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s (%s)", m.spinner.View(), messageStyle.Render(m.message), elapsed)
	if w := runewidth.StringWidth(line); w > m.width {
		line = runewidth.Truncate(line, m.width, "…")
	}
	return line + "\n"
}

// Wait renders a spinner on stderr until done closes or the user presses
// Ctrl+C. The indicator lives on stderr so the diagnostics on stdout stay
// machine-consumable. When interrupted is true, done is still open: the
// caller owns cancelling the underlying work and waiting for it.
func Wait(message string, done <-chan struct{}) (interrupted bool, err error) {
	p := tea.NewProgram(newWaitModel(message, done), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(*waitModel); ok {
		return m.interrupted, nil
	}
	return false, nil
}

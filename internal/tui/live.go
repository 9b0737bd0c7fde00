// Package tui provides an interactive terminal viewer that steps a
// stochastic process live.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	faint  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const historyWindow = 240

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	process string
	stepper *stochastic.Stepper
	steps   int
	taken   int
	speed   int
	paused  bool
	err     error
	history []float64
	width   int
}

func newModel(process string, st *stochastic.Stepper, steps int) model {
	return model{
		process: process,
		stepper: st,
		steps:   steps,
		speed:   16,
		history: append(make([]float64, 0, historyWindow), st.State()[0]),
		width:   80,
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+":
			m.speed *= 2
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.paused || m.err != nil || m.taken >= m.steps-1 {
			return m, tick()
		}
		for i := 0; i < m.speed && m.taken < m.steps-1; i++ {
			x, _, err := m.stepper.Step()
			if err != nil {
				m.err = err
				break
			}
			m.taken++
			if len(m.history) == historyWindow {
				copy(m.history, m.history[1:])
				m.history = m.history[:historyWindow-1]
			}
			m.history = append(m.history, x[0])
		}
		return m, tick()
	}

	return m, nil
}

func (m model) View() string {
	header := cyan.Render(m.process) + faint.Render(fmt.Sprintf("  step %d/%d  t=%.3f", m.taken, m.steps, m.stepper.Time()))
	if m.paused {
		header += yellow.Render("  [paused]")
	}
	if m.err != nil {
		return header + "\n\n" + yellow.Render(m.err.Error()) + "\n\n" + faint.Render("q quit")
	}

	graphWidth := m.width - 12
	if graphWidth < 40 {
		graphWidth = 40
	}
	graph := asciigraph.Plot(m.history,
		asciigraph.Height(16),
		asciigraph.Width(graphWidth),
	)

	status := white.Render(fmt.Sprintf("y0 = %+.5f", m.stepper.State()[0]))
	footer := faint.Render(fmt.Sprintf("space pause  +/- speed (%d steps/frame)  q quit", m.speed))

	return header + "\n\n" + graph + "\n\n" + status + "\n" + footer + "\n"
}

// Run steps the configured process interactively until it completes or the
// user quits.
func Run(process string, cfg stochastic.Config) error {
	st, err := stochastic.NewStepper(cfg)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(newModel(process, st, cfg.Steps)).Run()
	return err
}

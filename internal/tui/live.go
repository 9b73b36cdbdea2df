// Package tui is a live terminal view of a running epidemic. The run
// advances a few samples per frame and can be paused, restarted and
// retuned while it plays.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/render"
)

const (
	frameRate    = 30
	graphWidth   = 70
	graphHeight  = 16
	defaultSpeed = 5
	// tuneFloor is where an increase starts from a zero rate.
	tuneFloor = 0.001
)

var (
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(36)
	graphStyle       = lipgloss.NewStyle().Padding(1, 2)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the bubbletea model of one live run.
type Model struct {
	cfg     *config.Config
	cursor  *dynamo.Cursor
	traj    dynamo.Trajectory
	labels  []string
	running bool
	speed   int

	params   []string
	selected int
	err      error
}

func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:     cfg.Clone(),
		running: true,
		speed:   defaultSpeed,
		params:  tunable(cfg.Model),
	}
	if err := m.restart(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func tunable(model string) []string {
	if model == "seir" {
		return []string{"alpha", "sigma", "beta"}
	}
	return []string{"alpha", "beta"}
}

// restart rebuilds the run from the current config and drops the recorded
// samples.
func (m *Model) restart() error {
	exp, err := experiment.New(m.cfg)
	if err != nil {
		return err
	}
	cursor, err := exp.Simulator().Cursor(exp.InitialState(), exp.Grid(), m.cfg.StepSize)
	if err != nil {
		return err
	}
	m.cursor = cursor
	m.labels = exp.Labels()
	m.traj = dynamo.NewTrajectory(cursor.Len())
	return nil
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.restart()
		case "tab":
			m.selected = (m.selected + 1) % len(m.params)
		case "up", "k":
			m.tune(1.05)
		case "down", "j":
			m.tune(0.95)
		case "+", "=":
			m.speed = min(m.speed*2, 640)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.speed && !m.cursor.Done(); i++ {
		t, x := m.cursor.Next()
		m.traj.Append(t, x)
	}
}

// tune scales the selected rate and restarts, since rates are fixed for
// the lifetime of a run. A zero rate is raised to tuneFloor.
func (m *Model) tune(factor float64) {
	name := m.params[m.selected]
	cur := m.cfg.Clone()
	v := cur.ModelParams()[name] * factor
	if v == 0 && factor > 1 {
		v = tuneFloor
	}
	if err := cur.Set(name, v); err != nil {
		m.err = err
		return
	}
	prev := m.cfg
	m.cfg = cur
	if err := m.restart(); err != nil {
		m.cfg = prev
		m.err = err
		return
	}
	m.err = nil
}

func (m Model) status() string {
	switch {
	case m.cursor.Done():
		return "DONE"
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	fig := render.FigureFor(m.cfg)

	plot := "waiting for samples..."
	if m.traj.Len() > 1 {
		plot = render.ASCII(fig, render.SeriesFor(m.labels, m.traj), graphWidth, graphHeight)
	}
	graphView := graphStyle.Render(plot)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Model)+" / "+strings.ToUpper(m.cfg.Integrator)) + "\n")
	s.WriteString(fmt.Sprintf("%s\n\n", m.status()))

	s.WriteString(labelStyle.Render("Day") + valueStyle.Render(fmt.Sprintf("%.1f / %.0f", m.day(), m.cfg.Horizon)) + "\n")
	s.WriteString(labelStyle.Render("Samples") + valueStyle.Render(fmt.Sprintf("%d / %d", m.traj.Len(), m.cursor.Len())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d/frame", m.speed)) + "\n")
	if _, x := m.traj.Last(); x != nil {
		for i, v := range x {
			s.WriteString(labelStyle.Render(m.labels[i]) + valueStyle.Render(fmt.Sprintf("%.0f", v)) + "\n")
		}
	}

	s.WriteString("\nPARAMETERS\n")
	values := m.cfg.ModelParams()
	for i, k := range m.params {
		line := fmt.Sprintf("%-8s %.4f", k, values[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune +-:Speed"))

	return lipgloss.JoinHorizontal(lipgloss.Top, graphView, statsStyle.Render(s.String()))
}

func (m Model) day() float64 {
	t, _ := m.traj.Last()
	return t
}

// Run starts the program and blocks until the user quits.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

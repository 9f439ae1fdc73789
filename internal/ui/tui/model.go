package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/hostkit/internal/ui/benchmarks"
)

// maxLogLines is how many output lines the dashboard keeps.
const maxLogLines = 8

// StepRow is a task step for display.
type StepRow struct {
	Name    string
	Done    bool
	Active  bool
	Err     error
	Started time.Time
	Ended   time.Time
}

// Model is the Bubble Tea model for the task dashboard.
type Model struct {
	Host string
	Task string

	Steps   []StepRow
	History []benchmarks.StepRecord
	Log     []string

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewModel creates a model for a task run against host.
func NewModel(host, task string, steps []string) Model {
	rows := make([]StepRow, len(steps))
	for i, s := range steps {
		rows[i] = StepRow{Name: s}
	}
	return Model{
		Host:             host,
		Task:             task,
		Steps:            rows,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepMsg:
		m.updateStep(msg, time.Now())
		if msg.Err != nil {
			m.Err = msg.Err
		}

	case LogMsg:
		m.Log = append(m.Log, msg.Line)
		if len(m.Log) > maxLogLines {
			m.Log = m.Log[len(m.Log)-maxLogLines:]
		}

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA(time.Now())
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateStep(msg StepMsg, now time.Time) {
	idx := -1
	for i, step := range m.Steps {
		if step.Name == msg.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	row := &m.Steps[idx]
	switch {
	case msg.Err != nil:
		row.Err = msg.Err
		row.Active = false
		row.Ended = now
	case msg.Done:
		row.Done = true
		row.Active = false
		row.Ended = now
		m.History = append(m.History, benchmarks.StepRecord{Step: row.Name, Started: row.Started, Ended: now})
	default:
		row.Active = true
		row.Started = now
	}
}

func (m *Model) updateETA(now time.Time) {
	current, ok := m.activeStep()
	if !ok {
		m.EstimatedRemaining = 0
		return
	}

	names := make([]string, len(m.Steps))
	for i, s := range m.Steps {
		names[i] = s.Name
	}
	elapsed := now.Sub(current.Started)
	m.PerformanceScale = benchmarks.PerformanceScale(current.Name, elapsed, m.History)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(names, current.Name, elapsed, m.History, m.PerformanceScale)
}

func (m Model) activeStep() (StepRow, bool) {
	for _, s := range m.Steps {
		if s.Active {
			return s, true
		}
	}
	return StepRow{}, false
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

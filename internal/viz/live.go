package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/layout"
	"github.com/san-kum/flo/internal/metrics"
	"github.com/san-kum/flo/internal/view"
)

const (
	width  = 80
	height = 24
)

type TickMsg time.Time

// Model drives a layout one tick per frame and draws it on a Braille
// canvas.
type Model struct {
	sim    *layout.Simulation
	view   *view.GraphView
	energy *metrics.Energy
	title  string

	canvas   *Canvas
	fps      int
	running  bool
	settled  bool
	theme    int
	selected int
	err      error
}

// NewModel attaches a view and an energy metric to sim. Start sim before
// running the model.
func NewModel(sim *layout.Simulation, title string, fps int) *Model {
	if fps <= 0 {
		fps = 60
	}
	g := sim.Graph()
	v := view.New(g, sim.Config().Width, sim.Config().Height)
	energy := metrics.NewEnergy()
	sim.AddObserver(v)
	sim.AddObserver(energy)
	return &Model{
		sim:      sim,
		view:     v,
		energy:   energy,
		title:    title,
		canvas:   NewCanvas(width, height),
		fps:      fps,
		running:  true,
		selected: -1,
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the layout.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.Resume()
			m.settled = false
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "tab":
			if n := len(m.sim.Graph().Nodes); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "p":
			if m.selected >= 0 {
				m.togglePin()
			}
		}
	case TickMsg:
		if m.running && !m.settled {
			done, err := m.sim.Tick()
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.settled = done
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) togglePin() {
	pinned := m.sim.Snapshot().Nodes[m.selected].Fixed&layout.FixedPinned != 0
	if err := m.sim.Pin(m.selected, !pinned); err != nil {
		m.err = err
		return
	}
	m.sim.Resume()
	m.settled = false
}

// Err returns the error that stopped the model, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Energy() *metrics.Energy { return m.energy }

// View renders the TUI interface.
func (m *Model) View() string {
	theme := Themes[m.theme]
	f := m.view.Frame()
	DrawFrame(m.canvas, f, m.selected)
	canvasView := canvasStyle.Render(m.canvas.Render(theme.InkStyles()))

	var s strings.Builder
	title := m.title
	if title == "" {
		title = "flo status"
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(title)) + "\n")

	switch {
	case m.settled:
		s.WriteString(StatusSettled.Render("SETTLED") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	cfg := m.sim.Config()
	alpha := m.sim.Alpha()
	s.WriteString(statLine("Tick", m.sim.Ticks()))
	s.WriteString(statLine("Alpha", fmt.Sprintf("%.4f", alpha)))
	s.WriteString(labelStyle.Render("Cooling") + ProgressBar(coolingProgress(alpha, cfg), 16) + "\n")
	s.WriteString(statLine("Energy", fmt.Sprintf("%.3f", m.energy.Value())))

	if chart := PlotEnergy(lastN(m.energy.History(), 120), 28, 4); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	counts := map[graph.Category]int{}
	for _, c := range f.Circles {
		counts[c.Category]++
	}
	s.WriteString("\n" + LegendView(theme))
	s.WriteString(statLine("Synced", counts[graph.Synced]))
	s.WriteString(statLine("Not synced", counts[graph.NotSynced]))

	if m.selected >= 0 && m.selected < len(f.Circles) {
		c := f.Circles[m.selected]
		s.WriteString("\n" + CategoryStyle(theme, c.Category).Bold(true).Render("> "+c.Title) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reheat Q:Quit\nTab:Select P:Pin T:Theme(" + theme.Name + ")"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// coolingProgress maps alpha onto [0,1] between a fresh start and the stop
// threshold.
func coolingProgress(alpha float64, cfg layout.Config) float64 {
	if alpha <= 0 {
		return 1
	}
	p := math.Log(alpha/cfg.Alpha) / math.Log(cfg.AlphaMin/cfg.Alpha)
	return math.Max(0, math.Min(1, p))
}

func lastN(v []float64, n int) []float64 {
	if len(v) <= n {
		return v
	}
	return v[len(v)-n:]
}

// Run shows the model full screen until the user quits or ctx is done.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}

package metrics

import (
	"math"

	"github.com/san-kum/flo/internal/graph"
)

// Energy tracks the kinetic energy of the layout: the sum over nodes of the
// squared distance moved in the last tick. It falls toward zero as the
// layout settles.
type Energy struct {
	name    string
	last    float64
	history []float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnSimulationStep(g *graph.Graph) {
	var sum float64
	for i := range g.Nodes {
		n := &g.Nodes[i]
		dx, dy := n.X-n.PX, n.Y-n.PY
		sum += dx*dx + dy*dy
	}
	e.last = sum
	e.history = append(e.history, sum)
}

// Value is the energy of the most recent tick.
func (e *Energy) Value() float64 { return e.last }

// History returns the energy of every tick since the last Reset.
func (e *Energy) History() []float64 {
	out := make([]float64, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Energy) Reset() {
	e.last = 0
	e.history = e.history[:0]
}

// MaxDisplacement is the largest distance any single node moved in one
// tick.
type MaxDisplacement struct {
	name string
	max  float64
}

func NewMaxDisplacement() *MaxDisplacement {
	return &MaxDisplacement{name: "max_displacement"}
}

func (m *MaxDisplacement) Name() string { return m.name }

func (m *MaxDisplacement) OnSimulationStep(g *graph.Graph) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		m.max = math.Max(m.max, math.Hypot(n.X-n.PX, n.Y-n.PY))
	}
}

func (m *MaxDisplacement) Value() float64 { return m.max }
func (m *MaxDisplacement) Reset()         { m.max = 0 }

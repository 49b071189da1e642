package metrics

import "github.com/san-kum/flo/internal/graph"

// Metric observes a layout one tick at a time. Every Metric is a layout
// observer.
type Metric interface {
	Name() string
	OnSimulationStep(g *graph.Graph)
	Value() float64
	Reset()
}

// Collect returns the current value of each metric keyed by name.
func Collect(ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

type TickCount struct {
	name  string
	ticks int
}

func NewTickCount() *TickCount {
	return &TickCount{name: "ticks"}
}

func (c *TickCount) Name() string                    { return c.name }
func (c *TickCount) OnSimulationStep(g *graph.Graph) { c.ticks++ }
func (c *TickCount) Value() float64                  { return float64(c.ticks) }
func (c *TickCount) Reset()                          { c.ticks = 0 }

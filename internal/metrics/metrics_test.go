package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/layout"
)

func movedGraph() *graph.Graph {
	g := graph.New([]graph.Node{graph.NewNode("a", true), graph.NewNode("b", false)}, nil)
	g.Nodes[0].X, g.Nodes[0].Y, g.Nodes[0].PX, g.Nodes[0].PY = 3, 4, 0, 0
	g.Nodes[1].X, g.Nodes[1].Y, g.Nodes[1].PX, g.Nodes[1].PY = 1, 1, 1, 0
	return g
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	g := movedGraph()

	m.OnSimulationStep(g)
	if math.Abs(m.Value()-26) > 1e-9 {
		t.Errorf("expected energy 26, got %f", m.Value())
	}
	m.OnSimulationStep(g)
	if len(m.History()) != 2 {
		t.Errorf("expected 2 samples, got %d", len(m.History()))
	}

	m.Reset()
	if m.Value() != 0 || len(m.History()) != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMaxDisplacement(t *testing.T) {
	m := NewMaxDisplacement()
	m.OnSimulationStep(movedGraph())
	if math.Abs(m.Value()-5) > 1e-9 {
		t.Errorf("expected 5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCollect(t *testing.T) {
	c := NewTickCount()
	e := NewEnergy()
	c.OnSimulationStep(nil)
	c.OnSimulationStep(nil)

	got := Collect(c, e)
	if got["ticks"] != 2 || got["energy"] != 0 {
		t.Errorf("unexpected values %v", got)
	}
}

func TestEnergyDecaysOverLayout(t *testing.T) {
	nodes := []graph.Node{graph.NewNode("a", true), graph.NewNode("b", false), graph.NewNode("c", true)}
	g := graph.New(nodes, []graph.Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}})
	cfg := layout.DefaultConfig()
	cfg.Seed = 3

	sim, err := layout.New(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	e := NewEnergy()
	ticks := NewTickCount()
	sim.AddObserver(e)
	sim.AddObserver(ticks)
	sim.Start()
	if err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	h := e.History()
	if len(h) != int(ticks.Value()) || len(h) != sim.Ticks() {
		t.Fatalf("expected one sample per tick, got %d samples for %d ticks", len(h), sim.Ticks())
	}
	if h[len(h)-1] >= h[0] {
		t.Errorf("expected energy to fall, first %f last %f", h[0], h[len(h)-1])
	}
}

package layout

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/flo/internal/graph"
)

func placed(id string, x, y float64) graph.Node {
	n := graph.NewNode(id, true)
	n.X, n.Y = x, y
	return n
}

func dist(a, b graph.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

type countingObserver struct {
	steps int
	ends  int
}

func (c *countingObserver) OnSimulationStep(g *graph.Graph) { c.steps++ }
func (c *countingObserver) OnSimulationEnd(g *graph.Graph)  { c.ends++ }

func TestSimulationCoolsDown(t *testing.T) {
	g := graph.New([]graph.Node{graph.NewNode("a", true), graph.NewNode("b", false)}, []graph.Link{{Source: 0, Target: 1}})
	cfg := DefaultConfig()
	cfg.Seed = 1

	sim, err := New(g, cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	obs := &countingObserver{}
	sim.AddObserver(obs)
	sim.Start()

	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// 0.1 * 0.99^k stays above 0.005 for k <= 298
	if obs.steps != 298 {
		t.Errorf("expected 298 ticks, got %d", obs.steps)
	}
	if obs.ends != 1 {
		t.Errorf("expected one end notification, got %d", obs.ends)
	}
	if sim.Alpha() != 0 {
		t.Errorf("alpha should be 0 after cooling, got %f", sim.Alpha())
	}

	done, err := sim.Tick()
	if err != nil || !done {
		t.Errorf("tick after cooling = (%v, %v), want (true, nil)", done, err)
	}
	if obs.steps != 298 {
		t.Error("cooled simulation must not notify observers")
	}
}

func TestSimulationTickBeforeStart(t *testing.T) {
	sim, err := New(graph.New(nil, nil), DefaultConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if _, err := sim.Tick(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
}

func TestSimulationInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"negative link distance", func(c *Config) { c.LinkDistance = -5 }},
		{"friction above one", func(c *Config) { c.Friction = 1.5 }},
		{"negative theta", func(c *Config) { c.Theta = -0.1 }},
		{"zero alpha", func(c *Config) { c.Alpha = 0 }},
		{"decay of one", func(c *Config) { c.AlphaDecay = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(graph.New(nil, nil), cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulationRejectsDanglingLink(t *testing.T) {
	g := graph.New([]graph.Node{graph.NewNode("a", true)}, []graph.Link{{Source: 0, Target: 4}})
	if _, err := New(g, DefaultConfig()); !errors.Is(err, graph.ErrUnresolvedLink) {
		t.Errorf("expected ErrUnresolvedLink, got %v", err)
	}
}

func TestChargeRepels(t *testing.T) {
	g := graph.New([]graph.Node{placed("a", 470, 250), placed("b", 490, 250)}, nil)
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.MaxTicks = 50

	sim, _ := New(g, cfg)
	sim.Start()
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if d := dist(g.Nodes[0], g.Nodes[1]); d <= 20 {
		t.Errorf("nodes should move apart, distance %f", d)
	}
}

func TestLinkSettlesAtDistance(t *testing.T) {
	g := graph.New([]graph.Node{placed("a", 300, 250), placed("b", 500, 250)}, []graph.Link{{Source: 0, Target: 1}})
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.Charge = 0

	sim, _ := New(g, cfg)
	sim.Start()
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if d := dist(g.Nodes[0], g.Nodes[1]); math.Abs(d-DefaultLinkDistance) > 0.5 {
		t.Errorf("expected distance ~%.1f, got %f", DefaultLinkDistance, d)
	}
}

func TestGravityCenters(t *testing.T) {
	g := graph.New([]graph.Node{placed("a", 10, 10)}, nil)
	cfg := DefaultConfig()

	sim, _ := New(g, cfg)
	sim.Start()
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	n := g.Nodes[0]
	if math.Abs(n.X-cfg.Width/2) > 5 || math.Abs(n.Y-cfg.Height/2) > 5 {
		t.Errorf("single node should drift to center, got (%.1f, %.1f)", n.X, n.Y)
	}
}

func TestStartPlacesNodes(t *testing.T) {
	g := graph.New([]graph.Node{placed("a", 100, 120), graph.NewNode("b", false), graph.NewNode("c", false)}, []graph.Link{{Source: 0, Target: 1}})
	cfg := DefaultConfig()
	cfg.Seed = 7

	sim, _ := New(g, cfg)
	sim.Start()

	b := g.Nodes[1]
	if b.X != 100 || b.Y != 120 {
		t.Errorf("linked node should start at its neighbor, got (%.1f, %.1f)", b.X, b.Y)
	}
	c := g.Nodes[2]
	if c.X < 0 || c.X > cfg.Width || c.Y < 0 || c.Y > cfg.Height {
		t.Errorf("free node placed outside canvas: (%.1f, %.1f)", c.X, c.Y)
	}
	if c.PX != c.X || c.PY != c.Y {
		t.Error("previous position should default to the start position")
	}
	if g.Nodes[0].Weight != 1 || g.Nodes[1].Weight != 1 || g.Nodes[2].Weight != 0 {
		t.Errorf("unexpected weights %d %d %d", g.Nodes[0].Weight, g.Nodes[1].Weight, g.Nodes[2].Weight)
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	build := func() *graph.Graph {
		return graph.New(
			[]graph.Node{graph.NewNode("a", true), graph.NewNode("b", false), graph.NewNode("c", true)},
			[]graph.Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}},
		)
	}
	cfg := DefaultConfig()
	cfg.Seed = 42

	g1, g2 := build(), build()
	for _, g := range []*graph.Graph{g1, g2} {
		sim, _ := New(g, cfg)
		sim.Start()
		if err := sim.Run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
	}

	for i := range g1.Nodes {
		if g1.Nodes[i].X != g2.Nodes[i].X || g1.Nodes[i].Y != g2.Nodes[i].Y {
			t.Errorf("node %d diverged between identical seeded runs", i)
		}
	}
}

func TestCoincidentNodesSeparate(t *testing.T) {
	g := graph.New([]graph.Node{placed("a", 480, 250), placed("b", 480, 250), placed("c", 480, 250)}, nil)
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.MaxTicks = 30

	sim, _ := New(g, cfg)
	sim.Start()
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, n := range g.Nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			t.Fatalf("node %d has invalid position (%f, %f)", i, n.X, n.Y)
		}
	}
	if dist(g.Nodes[0], g.Nodes[1]) == 0 && dist(g.Nodes[1], g.Nodes[2]) == 0 {
		t.Error("coincident nodes never separated")
	}
}

func TestRunRespectsContext(t *testing.T) {
	sim, _ := New(graph.New([]graph.Node{graph.NewNode("a", true)}, nil), DefaultConfig())
	sim.Start()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sim.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunMaxTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTicks = 5
	sim, _ := New(graph.New([]graph.Node{graph.NewNode("a", true)}, nil), cfg)
	sim.Start()

	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sim.Ticks() != 5 {
		t.Errorf("expected 5 ticks, got %d", sim.Ticks())
	}
	if sim.Alpha() == 0 {
		t.Error("bounded run should leave the layout warm")
	}
}

func TestObserverSeesWholeTick(t *testing.T) {
	g := graph.New([]graph.Node{placed("a", 100, 100), placed("b", 300, 100)}, []graph.Link{{Source: 0, Target: 1}})
	cfg := DefaultConfig()
	cfg.MaxTicks = 3

	sim, _ := New(g, cfg)
	var seen [][2]float64
	sim.AddObserver(ObserverFunc(func(g *graph.Graph) {
		seen = append(seen, [2]float64{g.Nodes[0].X, g.Nodes[1].X})
	}))
	sim.Start()
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	last := seen[len(seen)-1]
	if last[0] != g.Nodes[0].X || last[1] != g.Nodes[1].X {
		t.Error("last notification should match final positions")
	}
}

package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/flo/internal/graph"
)

// Observer is notified once per tick with the graph as the tick left it.
type Observer interface {
	OnSimulationStep(g *graph.Graph)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(g *graph.Graph)

func (f ObserverFunc) OnSimulationStep(g *graph.Graph) { f(g) }

// EndObserver is optionally implemented by observers that want to know when
// the layout cools down.
type EndObserver interface {
	OnSimulationEnd(g *graph.Graph)
}

type Simulation struct {
	mu  sync.Mutex
	g   *graph.Graph
	cfg Config
	rng *rand.Rand

	alpha     float64
	started   bool
	ticks     int
	distances []float64
	strengths []float64
	charges   []float64

	observers []Observer
	wake      chan struct{}
}

// New binds a simulation to g. Positions already present on nodes are kept
// as the starting layout.
func New(g *graph.Graph, cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulation{
		g:         g,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		observers: make([]Observer, 0),
		wake:      make(chan struct{}, 1),
	}, nil
}

func (s *Simulation) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Simulation) Graph() *graph.Graph { return s.g }
func (s *Simulation) Config() Config      { return s.cfg }

func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// Snapshot returns a copy of the graph taken between ticks.
func (s *Simulation) Snapshot() *graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Clone()
}

func (s *Simulation) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Start computes link weights, places unplaced nodes and heats the layout.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, links := s.g.Nodes, s.g.Links
	for i := range nodes {
		nodes[i].Weight = 0
	}
	for _, l := range links {
		nodes[l.Source].Weight++
		nodes[l.Target].Weight++
	}

	var neighbors [][]int
	position := func(i int, dim func(*graph.Node) float64, size float64) float64 {
		if neighbors == nil {
			neighbors = make([][]int, len(nodes))
			for _, l := range links {
				neighbors[l.Source] = append(neighbors[l.Source], l.Target)
				neighbors[l.Target] = append(neighbors[l.Target], l.Source)
			}
		}
		for _, j := range neighbors[i] {
			if v := dim(&nodes[j]); !math.IsNaN(v) {
				return v
			}
		}
		return s.rng.Float64() * size
	}
	xOf := func(n *graph.Node) float64 { return n.X }
	yOf := func(n *graph.Node) float64 { return n.Y }

	for i := range nodes {
		n := &nodes[i]
		if math.IsNaN(n.X) {
			n.X = position(i, xOf, s.cfg.Width)
		}
		if math.IsNaN(n.Y) {
			n.Y = position(i, yOf, s.cfg.Height)
		}
		if math.IsNaN(n.PX) {
			n.PX = n.X
		}
		if math.IsNaN(n.PY) {
			n.PY = n.Y
		}
	}

	s.distances = make([]float64, len(links))
	s.strengths = make([]float64, len(links))
	for i := range links {
		s.distances[i] = s.cfg.LinkDistance
		s.strengths[i] = s.cfg.LinkStrength
	}
	s.charges = make([]float64, len(nodes))
	for i := range nodes {
		s.charges[i] = s.cfg.Charge
	}

	s.started = true
	s.heat()
}

// Resume reheats a cooled or cooling layout.
func (s *Simulation) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heat()
}

// Stop cools the layout immediately.
func (s *Simulation) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alpha > 0 {
		s.alpha = 0
		s.notifyEnd()
	}
}

func (s *Simulation) heat() {
	s.alpha = s.cfg.Alpha
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Tick advances the layout one step and reports whether it has cooled.
// A cooled simulation does not move nodes or notify observers.
func (s *Simulation) Tick() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return true, ErrNotStarted
	}
	if s.alpha == 0 {
		return true, nil
	}

	s.alpha *= s.cfg.AlphaDecay
	if s.alpha < s.cfg.AlphaMin {
		s.alpha = 0
		s.notifyEnd()
		return true, nil
	}

	s.applyLinks()
	s.applyGravity()
	s.applyCharge()
	s.integrate()
	s.ticks++

	for _, o := range s.observers {
		o.OnSimulationStep(s.g)
	}
	return false, nil
}

func (s *Simulation) notifyEnd() {
	for _, o := range s.observers {
		if eo, ok := o.(EndObserver); ok {
			eo.OnSimulationEnd(s.g)
		}
	}
}

// Run ticks until the layout cools, MaxTicks is reached or ctx is done.
func (s *Simulation) Run(ctx context.Context) error {
	return s.run(ctx, s.cfg.MaxTicks)
}

// Loop behaves like Run but, once cool, waits for a reheat (drag, Resume)
// instead of returning. It returns only when ctx is done.
func (s *Simulation) Loop(ctx context.Context) error {
	for {
		if err := s.run(ctx, 0); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

func (s *Simulation) run(ctx context.Context, maxTicks int) error {
	var frames <-chan time.Time
	if s.cfg.FrameRate > 0 {
		t := time.NewTicker(time.Second / time.Duration(s.cfg.FrameRate))
		defer t.Stop()
		frames = t.C
	}

	for n := 0; maxTicks == 0 || n < maxTicks; n++ {
		if err := waitFrame(ctx, frames); err != nil {
			return err
		}
		done, err := s.Tick()
		if err != nil {
			return fmt.Errorf("tick %d: %w", n, err)
		}
		if done {
			return nil
		}
	}
	return nil
}

func waitFrame(ctx context.Context, frames <-chan time.Time) error {
	if frames == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-frames:
		return nil
	}
}

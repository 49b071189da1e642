package view

import (
	"sync"

	"github.com/san-kum/flo/internal/graph"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 500

	NodeRadius      = 10
	LinkStrokeWidth = 3

	LinkClass   = "link"
	NodeClass   = "node"
	LegendClass = "color_legend"
)

// Line is the element drawn for one link.
type Line struct {
	Class          string
	StrokeWidth    float64
	X1, Y1, X2, Y2 float64
}

// Circle is the element drawn for one node.
type Circle struct {
	Category graph.Category
	R        float64
	CX, CY   float64
	// Title is the hover tooltip.
	Title string
}

// Class returns the element's class attribute, e.g. "node synced".
func (c Circle) Class() string {
	return NodeClass + " " + c.Category.String()
}

// GraphView keeps one element per link and node bound to a graph. Geometry
// is only rewritten by OnSimulationStep.
type GraphView struct {
	mu      sync.RWMutex
	width   float64
	height  float64
	lines   []Line
	circles []Circle
	legend  []LegendEntry
	step    int
}

// Frame is a consistent copy of the view's elements.
type Frame struct {
	Width   float64
	Height  float64
	Lines   []Line
	Circles []Circle
	Legend  []LegendEntry
	Step    int
}

// New binds the elements for g on a canvas of the given size.
func New(g *graph.Graph, width, height float64) *GraphView {
	v := &GraphView{
		width:   width,
		height:  height,
		lines:   make([]Line, len(g.Links)),
		circles: make([]Circle, len(g.Nodes)),
		legend:  Legend(),
	}
	for i := range g.Links {
		v.lines[i] = Line{Class: LinkClass, StrokeWidth: LinkStrokeWidth}
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		v.circles[i] = Circle{
			Category: n.Category(),
			R:        NodeRadius,
			Title:    n.TaskID,
		}
	}
	return v
}

// NewDefault binds g on the default 960x500 canvas.
func NewDefault(g *graph.Graph) *GraphView {
	return New(g, DefaultWidth, DefaultHeight)
}

// OnSimulationStep copies the current endpoint and node coordinates onto the
// bound elements. It reads only X and Y.
func (v *GraphView) OnSimulationStep(g *graph.Graph) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.lines {
		src, dst := g.Endpoints(i)
		l := &v.lines[i]
		l.X1, l.Y1 = src.X, src.Y
		l.X2, l.Y2 = dst.X, dst.Y
	}
	for i := range v.circles {
		c := &v.circles[i]
		c.CX, c.CY = g.Nodes[i].X, g.Nodes[i].Y
	}
	v.step++
}

// Frame returns a copy of every element as of the last step.
func (v *GraphView) Frame() Frame {
	v.mu.RLock()
	defer v.mu.RUnlock()

	f := Frame{
		Width:   v.width,
		Height:  v.height,
		Lines:   make([]Line, len(v.lines)),
		Circles: make([]Circle, len(v.circles)),
		Legend:  make([]LegendEntry, len(v.legend)),
		Step:    v.step,
	}
	copy(f.Lines, v.lines)
	copy(f.Circles, v.circles)
	copy(f.Legend, v.legend)
	return f
}

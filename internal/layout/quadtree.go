package layout

import (
	"math"

	"github.com/san-kum/flo/internal/graph"
)

// quad is a point quadtree cell. A cell holds at most one point directly;
// points closer than coincidentEps to the held point are pushed into a child
// so an internal cell may also carry a point.
type quad struct {
	leaf     bool
	point    int // node index, -1 when empty
	x, y     float64
	children [4]*quad

	charge      float64
	pointCharge float64
	cx, cy      float64
}

const coincidentEps = 0.01

func newQuad() *quad { return &quad{leaf: true, point: -1} }

type quadtree struct {
	root           *quad
	x1, y1, x2, y2 float64
}

// buildQuadtree indexes every node with a valid position. Bounds are the
// points' extent squared off on the longer side.
func buildQuadtree(nodes []graph.Node) *quadtree {
	x1, y1 := math.Inf(1), math.Inf(1)
	x2, y2 := math.Inf(-1), math.Inf(-1)
	for i := range nodes {
		x, y := nodes[i].X, nodes[i].Y
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		x1, y1 = math.Min(x1, x), math.Min(y1, y)
		x2, y2 = math.Max(x2, x), math.Max(y2, y)
	}
	if math.IsInf(x1, 1) {
		x1, y1, x2, y2 = 0, 0, 0, 0
	}
	if dx, dy := x2-x1, y2-y1; dx > dy {
		y2 = y1 + dx
	} else {
		x2 = x1 + dy
	}

	qt := &quadtree{root: newQuad(), x1: x1, y1: y1, x2: x2, y2: y2}
	for i := range nodes {
		qt.insert(qt.root, i, nodes[i].X, nodes[i].Y, x1, y1, x2, y2)
	}
	return qt
}

func (qt *quadtree) insert(n *quad, p int, x, y, x1, y1, x2, y2 float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if !n.leaf {
		qt.insertChild(n, p, x, y, x1, y1, x2, y2)
		return
	}
	if n.point < 0 {
		n.point, n.x, n.y = p, x, y
		return
	}
	if math.Abs(n.x-x)+math.Abs(n.y-y) < coincidentEps {
		qt.insertChild(n, p, x, y, x1, y1, x2, y2)
		return
	}
	held, hx, hy := n.point, n.x, n.y
	n.point = -1
	qt.insertChild(n, held, hx, hy, x1, y1, x2, y2)
	qt.insertChild(n, p, x, y, x1, y1, x2, y2)
}

func (qt *quadtree) insertChild(n *quad, p int, x, y, x1, y1, x2, y2 float64) {
	xm, ym := (x1+x2)*0.5, (y1+y2)*0.5
	right, below := x >= xm, y >= ym
	i := 0
	if right {
		i |= 1
	}
	if below {
		i |= 2
	}
	n.leaf = false
	if n.children[i] == nil {
		n.children[i] = newQuad()
	}
	if right {
		x1 = xm
	} else {
		x2 = xm
	}
	if below {
		y1 = ym
	} else {
		y2 = ym
	}
	qt.insert(n.children[i], p, x, y, x1, y1, x2, y2)
}

// visit walks the tree pre-order; returning true from fn skips the cell's
// children.
func (qt *quadtree) visit(fn func(n *quad, x1, y1, x2, y2 float64) bool) {
	visitQuad(qt.root, qt.x1, qt.y1, qt.x2, qt.y2, fn)
}

func visitQuad(n *quad, x1, y1, x2, y2 float64, fn func(*quad, float64, float64, float64, float64) bool) {
	if fn(n, x1, y1, x2, y2) {
		return
	}
	sx, sy := (x1+x2)*0.5, (y1+y2)*0.5
	if c := n.children[0]; c != nil {
		visitQuad(c, x1, y1, sx, sy, fn)
	}
	if c := n.children[1]; c != nil {
		visitQuad(c, sx, y1, x2, sy, fn)
	}
	if c := n.children[2]; c != nil {
		visitQuad(c, x1, sy, sx, y2, fn)
	}
	if c := n.children[3]; c != nil {
		visitQuad(c, sx, sy, x2, y2, fn)
	}
}

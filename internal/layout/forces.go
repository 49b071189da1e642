package layout

import "math"

// applyLinks relaxes every link toward its rest distance, moving the lighter
// endpoint further.
func (s *Simulation) applyLinks() {
	nodes := s.g.Nodes
	for i, l := range s.g.Links {
		src, dst := &nodes[l.Source], &nodes[l.Target]
		x := dst.X - src.X
		y := dst.Y - src.Y
		d2 := x*x + y*y
		if d2 == 0 {
			continue
		}
		d := math.Sqrt(d2)
		k := s.alpha * s.strengths[i] * (d - s.distances[i]) / d
		x *= k
		y *= k

		share := 0.5
		if w := src.Weight + dst.Weight; w != 0 {
			share = float64(src.Weight) / float64(w)
		}
		dst.X -= x * share
		dst.Y -= y * share
		share = 1 - share
		src.X += x * share
		src.Y += y * share
	}
}

func (s *Simulation) applyGravity() {
	k := s.alpha * s.cfg.Gravity
	if k == 0 {
		return
	}
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for i := range s.g.Nodes {
		n := &s.g.Nodes[i]
		if n.Fixed != 0 {
			continue
		}
		n.X += (cx - n.X) * k
		n.Y += (cy - n.Y) * k
	}
}

// applyCharge pushes free nodes apart. Repulsion is written into PX/PY so the
// Verlet step turns it into velocity.
func (s *Simulation) applyCharge() {
	if s.cfg.Charge == 0 || len(s.g.Nodes) == 0 {
		return
	}
	qt := buildQuadtree(s.g.Nodes)
	s.accumulate(qt.root)

	theta2 := s.cfg.Theta * s.cfg.Theta
	maxDist2 := s.cfg.chargeDistance2()
	for i := range s.g.Nodes {
		n := &s.g.Nodes[i]
		if n.Fixed != 0 {
			continue
		}
		qt.visit(func(q *quad, x1, _, x2, _ float64) bool {
			if q.point != i {
				dx := q.cx - n.X
				dy := q.cy - n.Y
				dw := x2 - x1
				dn := dx*dx + dy*dy

				// far enough away to treat the cell as a single body
				if dw*dw/theta2 < dn {
					if dn < maxDist2 {
						k := q.charge / dn
						n.PX -= dx * k
						n.PY -= dy * k
					}
					return true
				}

				if q.point >= 0 && dn != 0 && dn < maxDist2 {
					k := q.pointCharge / dn
					n.PX -= dx * k
					n.PY -= dy * k
				}
			}
			return q.charge == 0
		})
	}
}

// accumulate computes each cell's total charge and charge-weighted center.
// Coincident points held by internal cells are jittered so they separate.
func (s *Simulation) accumulate(q *quad) {
	cx, cy := 0.0, 0.0
	q.charge = 0
	if !q.leaf {
		for _, c := range q.children {
			if c == nil {
				continue
			}
			s.accumulate(c)
			q.charge += c.charge
			cx += c.charge * c.cx
			cy += c.charge * c.cy
		}
	}
	if q.point >= 0 {
		n := &s.g.Nodes[q.point]
		if !q.leaf {
			q.x += s.rng.Float64() - 0.5
			q.y += s.rng.Float64() - 0.5
			n.X, n.Y = q.x, q.y
		}
		k := s.alpha * s.charges[q.point]
		q.pointCharge = k
		q.charge += k
		cx += k * q.x
		cy += k * q.y
	}
	if q.charge != 0 {
		q.cx = cx / q.charge
		q.cy = cy / q.charge
	}
}

// integrate advances free nodes by their implicit velocity (X - PX) damped by
// friction; fixed nodes snap to PX/PY.
func (s *Simulation) integrate() {
	f := s.cfg.Friction
	for i := range s.g.Nodes {
		n := &s.g.Nodes[i]
		if n.Fixed != 0 {
			n.X, n.Y = n.PX, n.PY
			continue
		}
		px, py := n.PX, n.PY
		n.PX, n.PY = n.X, n.Y
		n.X -= (px - n.X) * f
		n.Y -= (py - n.Y) * f
	}
}

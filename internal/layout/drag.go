package layout

import "fmt"

// Fixed flag bits. Any set bit pins a node to PX/PY during ticks.
const (
	FixedPinned = 1 << iota
	FixedDragging
	FixedHover
)

// DragStart pins node i under the pointer.
func (s *Simulation) DragStart(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.g.Nodes[i].Fixed |= FixedDragging
	return nil
}

// DragMove moves node i to (x, y) and reheats the layout so its neighbors
// follow.
func (s *Simulation) DragMove(i int, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	n := &s.g.Nodes[i]
	n.PX, n.PY = x, y
	if !s.started {
		n.X, n.Y = x, y
		return nil
	}
	s.heat()
	return nil
}

// DragEnd releases the drag and hover pins; an explicit pin stays.
func (s *Simulation) DragEnd(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.g.Nodes[i].Fixed &^= FixedDragging | FixedHover
	return nil
}

// Hover pins node i while the pointer rests on it.
func (s *Simulation) Hover(i int, over bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if over {
		s.g.Nodes[i].Fixed |= FixedHover
	} else {
		s.g.Nodes[i].Fixed &^= FixedHover
	}
	return nil
}

// Pin fixes or frees node i regardless of pointer state.
func (s *Simulation) Pin(i int, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if pinned {
		s.g.Nodes[i].Fixed |= FixedPinned
	} else {
		s.g.Nodes[i].Fixed &^= FixedPinned
	}
	return nil
}

func (s *Simulation) checkIndex(i int) error {
	if i < 0 || i >= len(s.g.Nodes) {
		return fmt.Errorf("%w: %d (have %d nodes)", ErrNodeIndex, i, len(s.g.Nodes))
	}
	return nil
}

package viz

import (
	"math"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/view"
)

// DrawFrame paints f onto c, scaling the frame's canvas to the dot grid.
// Node selected (or -1) is drawn with the selection ink.
func DrawFrame(c *Canvas, f view.Frame, selected int) {
	c.Clear()
	sx := float64(c.SubWidth()) / f.Width
	sy := float64(c.SubHeight()) / f.Height
	project := func(x, y float64) (int, int) {
		return int(math.Round(x * sx)), int(math.Round(y * sy))
	}

	for _, l := range f.Lines {
		if !finite(l.X1, l.Y1, l.X2, l.Y2) {
			continue
		}
		x0, y0 := project(l.X1, l.Y1)
		x1, y1 := project(l.X2, l.Y2)
		c.DrawLine(x0, y0, x1, y1, InkLink)
	}

	r := int(math.Round(view.NodeRadius * math.Min(sx, sy)))
	if r < 1 {
		r = 1
	}
	for i, circle := range f.Circles {
		if !finite(circle.CX, circle.CY) {
			continue
		}
		ink := InkNotSynced
		if circle.Category == graph.Synced {
			ink = InkSynced
		}
		if i == selected {
			ink = InkSelected
		}
		x, y := project(circle.CX, circle.CY)
		c.FillCircle(x, y, r, ink)
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

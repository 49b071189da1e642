package view

import "github.com/san-kum/flo/internal/graph"

const (
	legendMargin = 10
	swatchSize   = 16
	labelDY      = "0.35em"
)

type Rect struct {
	Class         string
	X, Y          float64
	Width, Height float64
}

type Text struct {
	X, Y    float64
	DY      string
	Content string
}

// LegendEntry is one swatch and its label.
type LegendEntry struct {
	Label  string
	Swatch Rect
	Text   Text
}

// Legend lays out one entry per category in fixed order. It does not depend
// on graph content.
func Legend() []LegendEntry {
	cats := graph.Categories()
	entries := make([]LegendEntry, len(cats))
	for i, c := range cats {
		label := c.String()
		swatchY, textY := legendOffsets(i)
		entries[i] = LegendEntry{
			Label: label,
			Swatch: Rect{
				Class:  label,
				X:      legendMargin,
				Y:      swatchY,
				Width:  swatchSize,
				Height: swatchSize,
			},
			Text: Text{
				X:       legendMargin*2 + swatchSize,
				Y:       textY,
				DY:      labelDY,
				Content: label,
			},
		}
	}
	return entries
}

// legendOffsets returns the swatch top and the label baseline for entry i.
func legendOffsets(i int) (swatchY, textY float64) {
	fi := float64(i)
	swatchY = fi*swatchSize + legendMargin*(fi+1)
	textY = (fi+0.5)*swatchSize + legendMargin*(fi+1)
	return swatchY, textY
}

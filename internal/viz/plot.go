package viz

import "github.com/guptarohit/asciigraph"

// PlotEnergy charts a layout's per-tick energy.
func PlotEnergy(history []float64, width, height int) string {
	if len(history) < 2 {
		return ""
	}
	return asciigraph.Plot(history,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("Energy per tick"),
	)
}

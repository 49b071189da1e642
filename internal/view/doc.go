// Package view binds a status graph to a retained set of drawable elements.
//
// A [GraphView] holds one [Line] per link, one [Circle] per node and a fixed
// two-entry legend. It implements the layout observer contract, so attaching
// it to a simulation keeps element geometry in step with node positions:
//
//	v := view.NewDefault(g)
//	sim.AddObserver(v)
//
// Elements carry class names only ("node synced", "node not_synced", "link",
// "color_legend"); colors come from the stylesheet that renders them.
package view

// Package layout computes force-directed positions for a status graph.
//
// The model follows the classic d3 v3 force layout:
//
//   - link springs pull connected nodes toward [Config.LinkDistance]
//   - gravity draws every free node toward the canvas center
//   - charge repels nodes, approximated with a Barnes-Hut [quadtree]
//   - position Verlet integration with [Config.Friction] damping
//
// Each [Simulation.Tick] cools the temperature (alpha) by
// [Config.AlphaDecay]; once alpha drops below [Config.AlphaMin] the
// simulation ends and stops notifying observers until something reheats it.
//
// # Example
//
//	sim, _ := layout.New(g, layout.DefaultConfig())
//	sim.AddObserver(view)
//	sim.Start()
//	_ = sim.Run(ctx)
//
// # Thread Safety
//
// Tick, the drag methods and observers share one mutex, so an observer always
// sees the positions of a whole tick.
package layout

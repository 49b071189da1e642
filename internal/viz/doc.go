// Package viz draws a running status layout in the terminal.
//
// The package implements a live TUI using the Bubble Tea framework:
//
//   - [Model]: drives the layout one tick per frame and redraws it
//   - [Canvas]: Braille-based pixel canvas with per-cell ink
//   - [PlotEnergy]: asciigraph chart of the layout's energy per tick
//
// Synced and not-synced nodes are colored from the active [Theme].
//
// # Key Bindings
//
//	Space - Pause/Resume the layout
//	R     - Reheat the layout
//	Tab   - Select the next node
//	P     - Pin or release the selected node
//	T     - Cycle color themes
//	Q     - Quit
package viz

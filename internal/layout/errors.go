package layout

import "errors"

// Domain errors for layout operations.
var (
	// ErrInvalidConfig indicates a layout parameter outside its valid range.
	ErrInvalidConfig = errors.New("layout: invalid config")

	// ErrNodeIndex indicates a drag or hover aimed at a node that does not exist.
	ErrNodeIndex = errors.New("layout: node index out of range")

	// ErrNotStarted indicates a tick requested before Start.
	ErrNotStarted = errors.New("layout: simulation not started")
)

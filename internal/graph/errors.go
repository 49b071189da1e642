package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedLink indicates a link endpoint that names no node.
	ErrUnresolvedLink = errors.New("graph: link endpoint does not resolve to a node")

	// ErrMissingGraph indicates an input document without a "graph" object.
	ErrMissingGraph = errors.New("graph: document has no graph object")
)

// LinkError wraps a link problem with the offending link's position.
type LinkError struct {
	Index   int
	Source  string
	Target  string
	Wrapped error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %d (%s -> %s): %v", e.Index, e.Source, e.Target, e.Wrapped)
}

func (e *LinkError) Unwrap() error {
	return e.Wrapped
}

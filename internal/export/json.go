package export

import (
	"io"

	"github.com/san-kum/flo/internal/graph"
)

// WriteJSON writes the graph with its settled positions in the same shape
// it is read from.
func WriteJSON(w io.Writer, g *graph.Graph) error {
	return graph.Encode(w, g)
}

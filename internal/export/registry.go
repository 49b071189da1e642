package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/view"
)

// Writer renders a settled layout. The frame and the graph describe the same
// tick.
type Writer func(w io.Writer, g *graph.Graph, f view.Frame) error

type Registry struct {
	writers map[string]Writer
}

func NewRegistry() *Registry {
	r := &Registry{writers: make(map[string]Writer)}

	r.writers["svg"] = func(w io.Writer, _ *graph.Graph, f view.Frame) error {
		_, err := io.WriteString(w, FrameToSVGDocument(f))
		return err
	}
	r.writers["html"] = func(w io.Writer, _ *graph.Graph, f view.Frame) error {
		page, err := FrameToHTML(f, PageOptions{})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	}
	r.writers["json"] = func(w io.Writer, g *graph.Graph, _ view.Frame) error {
		return WriteJSON(w, g)
	}

	return r
}

func (r *Registry) Get(format string) (Writer, error) {
	fn, ok := r.writers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	return fn, nil
}

func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

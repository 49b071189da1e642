package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/san-kum/flo/internal/graph"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	info   = color.New(color.FgCyan)
)

// printSummary writes one line per category plus the layout outcome.
func printSummary(w io.Writer, g *graph.Graph, ticks int, where string) {
	counts := g.Counts()
	fmt.Fprintf(w, "%s %d tasks, %d links\n", brand.Sprint("flo status"), len(g.Nodes), len(g.Links))
	fmt.Fprintf(w, "  %s %d\n", good.Sprint("synced    "), counts[graph.Synced])
	fmt.Fprintf(w, "  %s %d\n", bad.Sprint("not_synced"), counts[graph.NotSynced])
	for i := range g.Nodes {
		if !g.Nodes[i].InSync {
			fmt.Fprintf(w, "    %s %s\n", bad.Sprint("✗"), g.Nodes[i].TaskID)
		}
	}
	fmt.Fprintf(w, "  %s\n", subtle.Sprintf("layout settled after %d ticks", ticks))
	if where != "" {
		fmt.Fprintf(w, "  %s %s\n", subtle.Sprint("wrote"), info.Sprint(where))
	}
}

package graph

import (
	"fmt"
	"math"
)

// Node is one workflow task as seen by the status view. X, Y, PX and PY are
// owned by the layout simulation; NaN means "not placed yet".
type Node struct {
	TaskID string
	InSync bool

	X, Y   float64
	PX, PY float64

	// Weight is the number of links touching the node, recomputed on start.
	Weight int
	// Fixed holds drag/hover flag bits; any non-zero value pins the node.
	Fixed int
}

// NewNode returns an unplaced node.
func NewNode(taskID string, inSync bool) Node {
	nan := math.NaN()
	return Node{TaskID: taskID, InSync: inSync, X: nan, Y: nan, PX: nan, PY: nan}
}

func (n *Node) Placed() bool {
	return !math.IsNaN(n.X) && !math.IsNaN(n.Y)
}

func (n *Node) Category() Category { return Classify(n.InSync) }

// Link joins two nodes by index into Graph.Nodes.
type Link struct {
	Source int
	Target int
}

type Graph struct {
	Nodes []Node
	Links []Link
}

func New(nodes []Node, links []Link) *Graph {
	return &Graph{Nodes: nodes, Links: links}
}

// Endpoints returns the source and target nodes of link i.
func (g *Graph) Endpoints(i int) (*Node, *Node) {
	l := g.Links[i]
	return &g.Nodes[l.Source], &g.Nodes[l.Target]
}

// Validate reports the first link whose endpoints fall outside Nodes.
func (g *Graph) Validate() error {
	n := len(g.Nodes)
	for i, l := range g.Links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n {
			return &LinkError{Index: i, Source: fmt.Sprint(l.Source), Target: fmt.Sprint(l.Target), Wrapped: ErrUnresolvedLink}
		}
	}
	return nil
}

// Index returns the position of the node with the given task id, or -1.
func (g *Graph) Index(taskID string) int {
	for i := range g.Nodes {
		if g.Nodes[i].TaskID == taskID {
			return i
		}
	}
	return -1
}

// Counts returns how many nodes fall into each category.
func (g *Graph) Counts() map[Category]int {
	counts := map[Category]int{Synced: 0, NotSynced: 0}
	for i := range g.Nodes {
		counts[g.Nodes[i].Category()]++
	}
	return counts
}

// Clone deep-copies the graph, including simulation fields.
func (g *Graph) Clone() *Graph {
	nodes := make([]Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	links := make([]Link, len(g.Links))
	copy(links, g.Links)
	return &Graph{Nodes: nodes, Links: links}
}

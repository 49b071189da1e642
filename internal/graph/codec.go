package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Document is the page-level input shape: {"graph": {"nodes": [...], "links": [...]}}.
type Document struct {
	Graph *WireGraph `json:"graph"`
}

type WireGraph struct {
	Nodes []WireNode `json:"nodes"`
	Links []WireLink `json:"links"`
}

type WireNode struct {
	TaskID json.RawMessage `json:"task_id"`
	InSync json.RawMessage `json:"in_sync,omitempty"`
	X      *float64        `json:"x,omitempty"`
	Y      *float64        `json:"y,omitempty"`
}

// WireLink endpoints are either a node index or a task id.
type WireLink struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
}

// Decode reads a Document and resolves every link endpoint.
func Decode(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if doc.Graph == nil {
		return nil, ErrMissingGraph
	}
	return doc.Graph.Resolve()
}

// Resolve converts the wire form into a Graph. Only a literal JSON true
// counts as in sync.
func (w *WireGraph) Resolve() (*Graph, error) {
	g := &Graph{
		Nodes: make([]Node, 0, len(w.Nodes)),
		Links: make([]Link, 0, len(w.Links)),
	}
	for _, wn := range w.Nodes {
		n := NewNode(rawText(wn.TaskID), bytes.Equal(bytes.TrimSpace(wn.InSync), []byte("true")))
		if wn.X != nil && wn.Y != nil {
			n.X, n.Y = *wn.X, *wn.Y
		}
		g.Nodes = append(g.Nodes, n)
	}
	for i, wl := range w.Links {
		src, okS := g.resolveRef(wl.Source)
		dst, okT := g.resolveRef(wl.Target)
		if !okS || !okT {
			return nil, &LinkError{Index: i, Source: rawText(wl.Source), Target: rawText(wl.Target), Wrapped: ErrUnresolvedLink}
		}
		g.Links = append(g.Links, Link{Source: src, Target: dst})
	}
	return g, nil
}

func (g *Graph) resolveRef(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return 0, false
		}
		i := g.Index(id)
		return i, i >= 0
	}
	i, err := strconv.Atoi(string(raw))
	if err != nil || i < 0 || i >= len(g.Nodes) {
		return 0, false
	}
	return i, true
}

// rawText renders a JSON scalar as display text; strings lose their quotes.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// Wire converts g back to its document form, carrying positions of placed
// nodes.
func (g *Graph) Wire() Document {
	wg := &WireGraph{
		Nodes: make([]WireNode, len(g.Nodes)),
		Links: make([]WireLink, len(g.Links)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		id, _ := json.Marshal(n.TaskID)
		wn := WireNode{TaskID: id, InSync: json.RawMessage(strconv.FormatBool(n.InSync))}
		if n.Placed() && !math.IsInf(n.X, 0) && !math.IsInf(n.Y, 0) {
			x, y := n.X, n.Y
			wn.X, wn.Y = &x, &y
		}
		wg.Nodes[i] = wn
	}
	for i, l := range g.Links {
		wg.Links[i] = WireLink{
			Source: json.RawMessage(strconv.Itoa(l.Source)),
			Target: json.RawMessage(strconv.Itoa(l.Target)),
		}
	}
	return Document{Graph: wg}
}

// Encode writes g as an indented Document.
func Encode(w io.Writer, g *Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g.Wire())
}

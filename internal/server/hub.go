package server

import (
	"encoding/json"
	"sync"

	"github.com/san-kum/flo/internal/graph"
)

const (
	EventTick = "tick"
	EventEnd  = "end"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data []byte
}

// TickFrame is the payload of a tick event: node centers and link
// endpoints, each in graph order.
type TickFrame struct {
	Step  int          `json:"step"`
	Nodes [][2]float64 `json:"nodes"`
	Lines [][4]float64 `json:"lines"`
}

// Hub fans simulation ticks out to event-stream subscribers. It is a layout
// observer. A subscriber whose buffer is full misses frames.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	buffer int
	step   int
	last   []byte
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[chan Event]struct{}), buffer: buffer}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Last returns the most recent tick payload, or nil before the first tick.
func (h *Hub) Last() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *Hub) OnSimulationStep(g *graph.Graph) {
	h.mu.Lock()
	h.step++
	step := h.step
	h.mu.Unlock()

	data, err := json.Marshal(NewTickFrame(g, step))
	if err != nil {
		return
	}
	h.mu.Lock()
	h.last = data
	h.mu.Unlock()
	h.broadcast(Event{Name: EventTick, Data: data})
}

func (h *Hub) OnSimulationEnd(g *graph.Graph) {
	h.broadcast(Event{Name: EventEnd, Data: []byte("{}")})
}

func (h *Hub) broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// NewTickFrame reads node and link geometry from g.
func NewTickFrame(g *graph.Graph, step int) TickFrame {
	f := TickFrame{
		Step:  step,
		Nodes: make([][2]float64, len(g.Nodes)),
		Lines: make([][4]float64, len(g.Links)),
	}
	for i := range g.Nodes {
		f.Nodes[i] = [2]float64{g.Nodes[i].X, g.Nodes[i].Y}
	}
	for i := range g.Links {
		src, dst := g.Endpoints(i)
		f.Lines[i] = [4]float64{src.X, src.Y, dst.X, dst.Y}
	}
	return f
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/flo/internal/export"
	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/layout"
)

type HealthResponse struct {
	Status      string  `json:"status"`
	Ticks       int     `json:"ticks"`
	Alpha       float64 `json:"alpha"`
	Subscribers int     `json:"subscribers"`
}

// DragRequest is the body of POST /nodes/:index/drag.
type DragRequest struct {
	Phase string  `json:"phase" binding:"required,oneof=start move end over out"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Server) page(c *gin.Context) {
	html, err := export.FrameToHTML(s.view.Frame(), export.PageOptions{Title: s.opts.Title, Live: true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Ticks:       s.sim.Ticks(),
		Alpha:       s.sim.Alpha(),
		Subscribers: s.hub.Subscribers(),
	})
}

func (s *Server) graphJSON(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	if err := graph.Encode(c.Writer, s.sim.Snapshot()); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// events streams tick frames as server-sent events. The current layout is
// sent first so a new page does not wait for the next tick.
func (s *Server) events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	events, cancel := s.hub.Subscribe()
	defer cancel()

	initial, err := json.Marshal(NewTickFrame(s.sim.Snapshot(), s.sim.Ticks()))
	if err != nil {
		return
	}
	writeEvent(c, Event{Name: EventTick, Data: initial})
	flusher.Flush()

	ctx := c.Request.Context()
	ping := time.NewTicker(keepAlive)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case e, ok := <-events:
			if !ok {
				return
			}
			writeEvent(c, e)
			flusher.Flush()
		}
	}
}

func writeEvent(c *gin.Context, e Event) {
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", e.Name, e.Data)
}

func (s *Server) drag(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "node index must be an integer"})
		return
	}
	var req DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Phase {
	case "start":
		err = s.sim.DragStart(index)
	case "move":
		err = s.sim.DragMove(index, req.X, req.Y)
	case "end":
		err = s.sim.DragEnd(index)
	case "over":
		err = s.sim.Hover(index, true)
	case "out":
		err = s.sim.Hover(index, false)
	}
	if errors.Is(err, layout.ErrNodeIndex) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

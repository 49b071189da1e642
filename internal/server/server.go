package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/san-kum/flo/internal/ctxlog"
	"github.com/san-kum/flo/internal/layout"
	"github.com/san-kum/flo/internal/view"
)

const (
	DefaultBuffer   = 16
	keepAlive       = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Options struct {
	Title string
	// AllowOrigins enables CORS for the listed origins.
	AllowOrigins []string
	// Buffer is the per-subscriber event buffer.
	Buffer int
}

// Server exposes a running layout over HTTP: the status page, the graph,
// a tick event stream and the drag endpoint.
type Server struct {
	sim    *layout.Simulation
	view   *view.GraphView
	hub    *Hub
	opts   Options
	router *gin.Engine
}

// New registers the server's hub with sim and builds the router. v must be
// bound to the same graph as sim.
func New(sim *layout.Simulation, v *view.GraphView, opts Options) *Server {
	if opts.Buffer == 0 {
		opts.Buffer = DefaultBuffer
	}
	s := &Server{
		sim:  sim,
		view: v,
		hub:  NewHub(opts.Buffer),
		opts: opts,
	}
	sim.AddObserver(s.hub)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	s.RegisterRoutes(r)
	s.router = r
	return s
}

func (s *Server) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", s.page)
	r.GET("/health", s.health)
	r.GET("/graph.json", s.graphJSON)
	r.GET("/events", s.events)
	r.POST("/nodes/:index/drag", s.drag)
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Hub() *Hub { return s.hub }

// Run serves on addr until ctx is done. Open event streams end with ctx.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		ctxlog.FromContext(ctx).Info("serving status", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ctxlog.FromContext(c.Request.Context()).Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

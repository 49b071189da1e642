package view_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/layout"
	"github.com/san-kum/flo/internal/view"
)

func twoNodeGraph() *graph.Graph {
	return graph.New(
		[]graph.Node{graph.NewNode("a", true), graph.NewNode("b", false)},
		[]graph.Link{{Source: 0, Target: 1}},
	)
}

var _ = Describe("GraphView", func() {
	Describe("binding", func() {
		It("draws nothing but the legend for an empty graph", func() {
			f := view.NewDefault(graph.New(nil, nil)).Frame()

			Expect(f.Circles).To(BeEmpty())
			Expect(f.Lines).To(BeEmpty())
			Expect(f.Legend).To(HaveLen(2))
		})

		It("uses the fixed canvas size", func() {
			f := view.NewDefault(graph.New(nil, nil)).Frame()
			Expect(f.Width).To(Equal(960.0))
			Expect(f.Height).To(Equal(500.0))
		})

		It("binds one circle per node and one line per link", func() {
			f := view.NewDefault(twoNodeGraph()).Frame()

			Expect(f.Circles).To(HaveLen(2))
			Expect(f.Lines).To(HaveLen(1))
			Expect(f.Circles[0].Class()).To(Equal("node synced"))
			Expect(f.Circles[1].Class()).To(Equal("node not_synced"))
			Expect(f.Circles[0].Title).To(Equal("a"))
			Expect(f.Circles[1].Title).To(Equal("b"))
		})

		It("gives every element its fixed styling", func() {
			f := view.NewDefault(twoNodeGraph()).Frame()

			Expect(f.Lines[0].Class).To(Equal("link"))
			Expect(f.Lines[0].StrokeWidth).To(Equal(3.0))
			for _, c := range f.Circles {
				Expect(c.R).To(Equal(10.0))
			}
		})

		It("puts every node in exactly one of two categories", func() {
			nodes := []graph.Node{
				graph.NewNode("t1", true),
				graph.NewNode("t2", false),
				graph.NewNode("t3", true),
				graph.NewNode("t4", false),
			}
			f := view.NewDefault(graph.New(nodes, nil)).Frame()

			for i, c := range f.Circles {
				if nodes[i].InSync {
					Expect(c.Category).To(Equal(graph.Synced))
				} else {
					Expect(c.Category).To(Equal(graph.NotSynced))
				}
				Expect(c.Class()).To(BeElementOf("node synced", "node not_synced"))
			}
		})
	})

	Describe("OnSimulationStep", func() {
		It("copies endpoint coordinates onto lines and circles", func() {
			g := twoNodeGraph()
			v := view.NewDefault(g)

			g.Nodes[0].X, g.Nodes[0].Y = 100, 150
			g.Nodes[1].X, g.Nodes[1].Y = 320, 80
			v.OnSimulationStep(g)

			f := v.Frame()
			Expect(f.Lines[0].X1).To(Equal(100.0))
			Expect(f.Lines[0].Y1).To(Equal(150.0))
			Expect(f.Lines[0].X2).To(Equal(320.0))
			Expect(f.Lines[0].Y2).To(Equal(80.0))
			Expect(f.Circles[0].CX).To(Equal(100.0))
			Expect(f.Circles[0].CY).To(Equal(150.0))
			Expect(f.Circles[1].CX).To(Equal(320.0))
			Expect(f.Circles[1].CY).To(Equal(80.0))
			Expect(f.Step).To(Equal(1))
		})

		It("tracks the most recent tick of a running layout", func() {
			g := twoNodeGraph()
			v := view.NewDefault(g)
			cfg := layout.DefaultConfig()
			cfg.Seed = 11
			cfg.MaxTicks = 25

			sim, err := layout.New(g, cfg)
			Expect(err).NotTo(HaveOccurred())
			sim.AddObserver(v)
			sim.Start()
			Expect(sim.Run(context.Background())).To(Succeed())

			f := v.Frame()
			Expect(f.Step).To(Equal(25))
			Expect(f.Lines[0].X1).To(Equal(g.Nodes[0].X))
			Expect(f.Lines[0].Y2).To(Equal(g.Nodes[1].Y))
			Expect(f.Circles[1].CX).To(Equal(g.Nodes[1].X))
		})

		It("returns frames that later steps do not mutate", func() {
			g := twoNodeGraph()
			v := view.NewDefault(g)
			g.Nodes[0].X = 5
			v.OnSimulationStep(g)
			before := v.Frame()

			g.Nodes[0].X = 50
			v.OnSimulationStep(g)

			Expect(before.Circles[0].CX).To(Equal(5.0))
		})
	})

	Describe("legend", func() {
		It("lists synced then not_synced", func() {
			entries := view.Legend()
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Label).To(Equal("synced"))
			Expect(entries[1].Label).To(Equal("not_synced"))
		})

		DescribeTable("offsets",
			func(i int, swatchY, textY float64) {
				e := view.Legend()[i]
				Expect(e.Swatch.Y).To(Equal(swatchY))
				Expect(e.Text.Y).To(Equal(textY))
				Expect(e.Swatch.X).To(Equal(10.0))
				Expect(e.Text.X).To(Equal(36.0))
				Expect(e.Text.DY).To(Equal("0.35em"))
				Expect(e.Swatch.Width).To(Equal(16.0))
				Expect(e.Swatch.Height).To(Equal(16.0))
			},
			Entry("first entry", 0, 10.0, 18.0),
			Entry("second entry", 1, 36.0, 44.0),
		)

		It("styles swatches with the node category classes", func() {
			for _, e := range view.Legend() {
				Expect(e.Swatch.Class).To(Equal(e.Label))
				Expect(e.Text.Content).To(Equal(e.Label))
			}
		})

		It("does not depend on the graph", func() {
			empty := view.NewDefault(graph.New(nil, nil)).Frame().Legend
			full := view.NewDefault(twoNodeGraph()).Frame().Legend
			Expect(full).To(Equal(empty))
		})
	})
})

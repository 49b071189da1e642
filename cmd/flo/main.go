package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/flo/internal/config"
	"github.com/san-kum/flo/internal/ctxlog"
	"github.com/san-kum/flo/internal/export"
	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/layout"
	"github.com/san-kum/flo/internal/metrics"
	"github.com/san-kum/flo/internal/server"
	"github.com/san-kum/flo/internal/storage"
	"github.com/san-kum/flo/internal/view"
	"github.com/san-kum/flo/internal/viz"
	"github.com/san-kum/flo/internal/workflow"
)

var (
	verbose    bool
	logFormat  string
	configFile string
	graphFile  string
	format     string
	outFile    string
	serve      bool
	serveAddr  string
	live       bool
	plot       bool
	seed       int64
	maxTicks   int
	frameRate  int
	save       bool
	reuse      bool
	preset     string
	origins    []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "flo",
		Short:         "workflow status visualization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (text|json)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "lay out the workflow graph and render its sync status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	statusCmd.Flags().StringVar(&configFile, "config", "", "status config file (yaml or toml)")
	statusCmd.Flags().StringVar(&graphFile, "graph", "", `read {"graph":{...}} JSON instead of flo.yaml ("-" for stdin)`)
	statusCmd.Flags().StringVarP(&format, "format", "f", config.DefaultFormat, "output format (html|json|svg)")
	statusCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	statusCmd.Flags().BoolVar(&serve, "serve", false, "serve a live status page")
	statusCmd.Flags().StringVar(&serveAddr, "addr", config.DefaultServe, "listen address for --serve")
	statusCmd.Flags().BoolVar(&live, "live", false, "show the layout live in the terminal")
	statusCmd.Flags().BoolVar(&plot, "plot", false, "plot layout energy per tick")
	statusCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for initial placement (0 = time based)")
	statusCmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "stop batch layout after n ticks (0 = until cool)")
	statusCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "ticks per second for --serve and --live")
	statusCmd.Flags().BoolVar(&save, "save", false, "store the settled layout")
	statusCmd.Flags().BoolVar(&reuse, "reuse", false, "start from the latest stored layout")
	statusCmd.Flags().StringVar(&preset, "preset", "", "layout preset")
	statusCmd.Flags().StringSliceVar(&origins, "cors", nil, "allowed CORS origins for --serve")

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list stored layouts",
		Args:  cobra.NoArgs,
		RunE:  listLayouts,
	}
	layoutsCmd.AddCommand(&cobra.Command{
		Use:   "rm [id]",
		Short: "delete a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE:  removeLayout,
	})

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record current task and resource states as in sync",
		Args:  cobra.NoArgs,
		RunE:  recordState,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list layout presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCHARGE\tDISTANCE\tGRAVITY\tSIZE")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%gx%g\n", name, p.Charge, p.LinkDistance, p.Gravity, p.Width, p.Height)
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(statusCmd, layoutsCmd, recordCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, bad.Sprint("error:"), err)
		stop()
		os.Exit(1)
	}
}

// projectRoot is the directory holding flo.yaml, or the working directory
// when there is none.
func projectRoot() (root, floYAML string) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	path, err := workflow.FindConfig(cwd)
	if err != nil {
		return cwd, ""
	}
	return filepath.Dir(path), path
}

// loadConfig layers the config file, .env and then explicitly set flags.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	path := configFile
	if path == "" {
		path = config.Find(root)
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := config.LoadEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") || cfg.Format == "" {
		cfg.Format = format
	}
	if flags.Changed("out") {
		cfg.Output = outFile
	}
	if flags.Changed("addr") {
		cfg.Serve = serveAddr
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = maxTicks
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("save") {
		cfg.Save = save
	}
	if flags.Changed("reuse") {
		cfg.Reuse = reuse
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Layout = p
	}
	return cfg, nil
}

func loadGraph(ctx context.Context, floYAML string) (*graph.Graph, string, error) {
	if graphFile != "" {
		var r io.Reader = os.Stdin
		if graphFile != "-" {
			f, err := os.Open(graphFile)
			if err != nil {
				return nil, "", err
			}
			defer f.Close()
			r = f
		}
		g, err := graph.Decode(r)
		if err != nil {
			return nil, "", err
		}
		id := graphFile
		if abs, err := filepath.Abs(graphFile); err == nil && graphFile != "-" {
			id = abs
		}
		return g, id, nil
	}

	if floYAML == "" {
		cwd, _ := os.Getwd()
		_, err := workflow.FindConfig(cwd)
		return nil, "", err
	}
	w, err := workflow.Load(ctx, floYAML)
	if err != nil {
		return nil, "", err
	}
	g, err := w.Graph(ctx)
	if err != nil {
		return nil, "", err
	}
	return g, floYAML, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, floYAML := projectRoot()
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(cmd.Context(), logger)

	g, source, err := loadGraph(ctx, floYAML)
	if err != nil {
		return err
	}
	logger.Debug("graph loaded", "source", source, "nodes", len(g.Nodes), "links", len(g.Links))

	st := storage.New(filepath.Join(root, workflow.InternalsDir, "layouts"))
	if cfg.Reuse {
		if err := reuseLayout(ctx, st, g, source); err != nil {
			return err
		}
	}

	lc := cfg.ToLayout()
	if serve || live {
		lc.FrameRate = cfg.FrameRate
		lc.MaxTicks = 0
	}
	sim, err := layout.New(g, lc)
	if err != nil {
		return err
	}
	energy := metrics.NewEnergy()
	maxDisp := metrics.NewMaxDisplacement()
	sim.AddObserver(energy)
	sim.AddObserver(maxDisp)

	switch {
	case live:
		m := viz.NewModel(sim, filepath.Base(root), cfg.FrameRate)
		sim.Start()
		if err := viz.Run(ctx, m); err != nil {
			return err
		}
	case serve:
		v := view.New(g, lc.Width, lc.Height)
		sim.AddObserver(v)
		srv := server.New(sim, v, server.Options{Title: "flo status: " + filepath.Base(root), AllowOrigins: origins})
		sim.Start()
		go func() {
			if err := sim.Loop(ctx); err != nil && ctx.Err() == nil {
				logger.Error("layout stopped", "error", err)
			}
		}()
		if err := srv.Run(ctx, cfg.Serve); err != nil {
			return err
		}
	default:
		v := view.New(g, lc.Width, lc.Height)
		sim.AddObserver(v)
		sim.Start()
		if err := sim.Run(ctx); err != nil {
			return err
		}
		if err := writeOutput(cfg, g, v.Frame()); err != nil {
			return err
		}
	}

	settled := sim.Snapshot()
	logger.Info("layout finished", "ticks", sim.Ticks(), "energy", energy.Value(), "max_displacement", maxDisp.Value())

	if cfg.Save {
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(storage.Metadata{
			Workflow: source,
			Seed:     lc.Seed,
			Ticks:    sim.Ticks(),
			Metrics:  metrics.Collect(energy, maxDisp),
		}, settled)
		if err != nil {
			return fmt.Errorf("save layout: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", subtle.Sprint("saved layout"), info.Sprint(id))
	}

	if plot {
		if chart := viz.PlotEnergy(energy.History(), 60, 10); chart != "" {
			fmt.Fprintln(os.Stderr, chart)
		}
	}
	if !live {
		printSummary(os.Stderr, settled, sim.Ticks(), cfg.Output)
	}
	return nil
}

func reuseLayout(ctx context.Context, st *storage.Store, g *graph.Graph, source string) error {
	logger := ctxlog.FromContext(ctx)
	meta, err := st.Latest(source)
	if err != nil {
		logger.Debug("no stored layout to reuse", "workflow", source)
		return nil
	}
	positions, err := st.LoadPositions(meta.ID)
	if err != nil {
		return err
	}
	n := storage.Apply(g, positions)
	logger.Debug("reused layout", "id", meta.ID, "placed", n, "nodes", len(g.Nodes))
	return nil
}

func writeOutput(cfg *config.Config, g *graph.Graph, f view.Frame) error {
	write, err := export.NewRegistry().Get(cfg.Format)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return write(w, g, f)
}

func listLayouts(cmd *cobra.Command, args []string) error {
	root, _ := projectRoot()
	st := storage.New(filepath.Join(root, workflow.InternalsDir, "layouts"))
	snaps, err := st.List()
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no layouts found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNODES\tSYNCED\tTICKS\tWORKFLOW")
	for _, s := range snaps {
		rel := s.Workflow
		if r, err := filepath.Rel(root, s.Workflow); err == nil && filepath.IsAbs(s.Workflow) {
			rel = r
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d\t%s\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Nodes,
			s.Synced, s.Nodes,
			s.Ticks,
			rel,
		)
	}
	return w.Flush()
}

func removeLayout(cmd *cobra.Command, args []string) error {
	root, _ := projectRoot()
	st := storage.New(filepath.Join(root, workflow.InternalsDir, "layouts"))
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", subtle.Sprint("removed"), args[0])
	return nil
}

func recordState(cmd *cobra.Command, args []string) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	ctx := ctxlog.WithLogger(cmd.Context(), ctxlog.New(level, logFormat, os.Stderr))

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	path, err := workflow.FindConfig(cwd)
	if err != nil {
		return err
	}
	w, err := workflow.Load(ctx, path)
	if err != nil {
		return err
	}
	if err := w.SaveState(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d tasks in %s\n", good.Sprint("recorded"), len(w.Tasks), w.States().Path())
	return nil
}

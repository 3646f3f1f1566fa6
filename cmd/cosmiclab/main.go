package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cosmiclab/internal/api"
	"github.com/san-kum/cosmiclab/internal/config"
	"github.com/san-kum/cosmiclab/internal/physics"
	"github.com/san-kum/cosmiclab/internal/scenario"
	"github.com/san-kum/cosmiclab/internal/sim"
	"github.com/san-kum/cosmiclab/internal/storage"
	"github.com/san-kum/cosmiclab/internal/viz"
)

var (
	configFile string
	dt         float64
	duration   float64
	seed       int64
	gravity    float64
	threshold  float64
	strategy   string
	stepRate   int
	host       string
	port       int

	snapshotOut string
	csvOut      string
	noPlot      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cosmiclab",
		Short: "2D gravitational n-body lab with collisions and merging",
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation headless and report results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational constant")
	runCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultCollisionThreshold, "collision threshold")
	runCmd.Flags().StringVar(&strategy, "strategy", "auto", "force strategy (auto, pairwise, anchor)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&snapshotOut, "snapshot-out", "", "write final state to this file")
	runCmd.Flags().StringVar(&csvOut, "csv-out", "", "write stats history to this file")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the energy plot")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational constant")
	liveCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultCollisionThreshold, "collision threshold")
	liveCmd.Flags().StringVar(&strategy, "strategy", "auto", "force strategy (auto, pairwise, anchor)")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	serveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	serveCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational constant")
	serveCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultCollisionThreshold, "collision threshold")
	serveCmd.Flags().StringVar(&strategy, "strategy", "auto", "force strategy (auto, pairwise, anchor)")
	serveCmd.Flags().IntVar(&stepRate, "rate", config.DefaultStepRate, "engine steps per second")
	serveCmd.Flags().StringVar(&host, "host", config.DefaultAPIHost, "listen host")
	serveCmd.Flags().IntVar(&port, "port", config.DefaultAPIPort, "listen port")
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [snapshot]",
		Short: "summarize a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectSnapshot,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, scenariosCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers config file values under any flags the user set
// explicitly. Flags win.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("threshold") {
		cfg.CollisionThreshold = threshold
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = strategy
	}
	if f := cmd.Flags().Lookup("rate"); f != nil && f.Changed {
		cfg.StepRate = stepRate
	}
	if f := cmd.Flags().Lookup("host"); f != nil && f.Changed {
		cfg.API.Host = host
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.API.Port = port
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildRunner(cfg *config.Config, load bool) (*sim.Runner, error) {
	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, err
	}
	if load {
		bodies, err := scenario.Build(cfg.Scenario, cfg.Seed)
		if err != nil {
			return nil, err
		}
		for _, b := range bodies {
			engine.AddBody(b)
		}
	}
	return sim.NewRunner(engine, cfg.Dt), nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	runner, err := buildRunner(cfg, true)
	if err != nil {
		return err
	}
	recorder := sim.NewRecorder(0)

	fmt.Printf("running %s for %.1fs (dt=%.3f, seed=%d)...\n", cfg.Scenario, cfg.Duration, cfg.Dt, cfg.Seed)
	start := time.Now()

	err = runner.RunFor(context.Background(), cfg.Duration, func(s physics.Stats) bool {
		recorder.Observe(s)
		return true
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	stats := runner.Stats()
	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Printf("simulated time:  %.2fs\n", stats.TimeElapsed)
	fmt.Printf("bodies:          %d\n", stats.BodyCount)
	fmt.Printf("collisions:      %d\n", stats.CollisionCount)
	fmt.Printf("total energy:    %.4f\n", stats.TotalEnergy)
	fmt.Printf("average speed:   %.4f\n", stats.AverageSpeed)
	fmt.Printf("momentum:        (%.4f, %.4f)\n", stats.TotalMomentum.X, stats.TotalMomentum.Y)
	fmt.Printf("energy drift:    %.6f\n", recorder.EnergyDrift())
	fmt.Printf("momentum drift:  %.6f\n", recorder.MomentumDrift())

	if !noPlot && recorder.Len() > 1 {
		graph := asciigraph.Plot(recorder.EnergySeries(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy"),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	if snapshotOut != "" {
		var snap *storage.Snapshot
		runner.Do(func(e *physics.Engine) { snap = storage.Capture(e) })
		if err := storage.SaveSnapshot(snapshotOut, snap); err != nil {
			return err
		}
		fmt.Printf("\nsnapshot written to %s\n", snapshotOut)
	}
	if csvOut != "" {
		if err := storage.ExportStatsCSV(csvOut, recorder.Samples()); err != nil {
			return err
		}
		fmt.Printf("stats written to %s\n", csvOut)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	runner, err := buildRunner(cfg, true)
	if err != nil {
		return err
	}

	m := viz.NewModel(runner, cfg.Scenario, cfg.Seed)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	// serve starts empty; bodies arrive over the API or through
	// POST /scenarios/{name}.
	runner, err := buildRunner(cfg, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := runner.Run(ctx, cfg.StepRate); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("step loop: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewServer(runner, cfg.Seed).Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func inspectSnapshot(cmd *cobra.Command, args []string) error {
	snap, err := storage.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("saved at:       %s\n", snap.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("gravity:        %.3f\n", snap.Gravity)
	fmt.Printf("strategy:       %s\n", snap.Strategy)
	fmt.Printf("elapsed time:   %.2fs\n", snap.TimeElapsed)
	fmt.Printf("collisions:     %d\n", snap.CollisionCount)
	fmt.Printf("bodies:         %d\n\n", len(snap.Bodies))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS\tPOSITION\tVELOCITY\tRADIUS\tANCHOR")
	for _, b := range snap.Bodies {
		anchor := ""
		if b.Anchor {
			anchor = "yes"
		}
		fmt.Fprintf(w, "%s\t%.1f\t(%.1f, %.1f)\t(%.2f, %.2f)\t%.1f\t%s\n",
			b.Name, b.Mass, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y, b.Radius, anchor)
	}
	return w.Flush()
}

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarwind/internal/analysis"
	"github.com/san-kum/solarwind/internal/automation"
	"github.com/san-kum/solarwind/internal/config"
	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/export"
	"github.com/san-kum/solarwind/internal/metrics"
	"github.com/san-kum/solarwind/internal/scene"
	"github.com/san-kum/solarwind/internal/sim"
	"github.com/san-kum/solarwind/internal/storage"
	"github.com/san-kum/solarwind/internal/stream"
	"github.com/san-kum/solarwind/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	particles  int
	wind       float64
	cme        bool
	cameraName string
	frameRate  int
	addr       string
	ensemble   int
	frameEvery int
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// snapshotTicks is how far a snapshot runs unless --ticks says otherwise.
const snapshotTicks = 120

// main runs the live view when no subcommand is given.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers every command and flag. Flags that several
// commands declare with different defaults are left unbound and read back
// with the flag getters.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solarwind",
		Short: "solar wind and magnetosphere simulation around Mercury",
		RunE:  runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".solarwind", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	pf.Float64Var(&wind, "wind", dynamo.DefaultWindSpeed, "solar wind speed (km/s)")
	pf.BoolVar(&cme, "cme", false, "start with a coronal mass ejection")
	pf.StringVar(&cameraName, "camera", "orbit", "camera mode: "+strings.Join(cameraNames(), ", "))
	pf.IntVar(&frameRate, "frame-rate", config.DefaultFrameRate, "frames per second")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().String("palette", "scene", "color palette: "+strings.Join(viz.PaletteNames(), ", "))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		RunE:  runHeadless,
	}
	runCmd.Flags().Int("ticks", config.DefaultTicks, "ticks to simulate")
	runCmd.Flags().Bool("save", false, "save the run to the data directory")
	runCmd.Flags().String("label", "run", "label for saved runs")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run K seeds in parallel and pool the results")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "describe and find periodicity in a run's snapshots",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and snapshots as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.svg]",
		Short: "simulate and write one rendered frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().Int("ticks", snapshotTicks, "ticks to simulate before the snapshot")
	snapshotCmd.Flags().String("palette", "scene", "color palette")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the solar wind speed and summarize each run",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Int("ticks", config.DefaultTicks, "ticks per run")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", dynamo.MinWindSpeed, "lowest wind speed")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", dynamo.MaxWindSpeed, "highest wind speed")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of wind speeds")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames and stats over a websocket",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&frameEvery, "frame-every", 2, "send every Nth frame")
	serveCmd.Flags().Bool("save", false, "save the streamed snapshots on shutdown")
	serveCmd.Flags().String("label", "serve", "label for the saved run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, snapshotCmd, scenarioCmd, sweepCmd, serveCmd, presetsCmd)
	return rootCmd
}

func cameraNames() []string {
	var names []string
	for _, m := range dynamo.CameraModes() {
		names = append(names, m.String())
	}
	return names
}

// loadConfig layers defaults, the preset, the config file and any flags
// the user set, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("wind") {
		cfg.Control.WindSpeed = wind
	}
	if flags.Changed("cme") {
		cfg.Control.CME = cme
	}
	if flags.Changed("camera") {
		mode, err := dynamo.ParseCameraMode(cameraName)
		if err != nil {
			return nil, err
		}
		cfg.Control.Camera = mode
	}
	if flags.Changed("frame-rate") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("ticks") {
		n, err := flags.GetInt("ticks")
		if err != nil {
			return nil, err
		}
		cfg.Ticks = n
	}
	if flags.Changed("addr") {
		cfg.Addr = addr
	}
	cfg.Control = cfg.Control.Clamp()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newScene(cfg *config.Config) *scene.Scene {
	return scene.New(cfg.Geometry, rand.New(rand.NewSource(cfg.Seed)))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg.Options())
	if err != nil {
		return err
	}
	ctrl := sim.NewSharedControl(cfg.Control)

	palette, _ := cmd.Flags().GetString("palette")
	exportDir := filepath.Join(dataDir, "frames")
	m := viz.NewModel(s, ctrl, newScene(cfg), cfg.FrameRate,
		viz.WithPalette(palette),
		viz.WithExport(func(c *viz.Canvas) (string, error) {
			return export.WriteSnapshot(exportDir, c, viz.GetPalette(palette), time.Now())
		}),
	)
	return viz.RunLive(m)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if ensemble > 0 {
		return runEnsemble(ctx, cfg)
	}

	s, err := sim.New(cfg.Options())
	if err != nil {
		return err
	}

	fmt.Printf("running %d ticks with %d particles (wind %.0f km/s, cme %v)\n",
		cfg.Ticks, cfg.Particles, cfg.Control.WindSpeed, cfg.Control.CME)

	start := time.Now()
	stats, err := s.Advance(ctx, cfg.Ticks, sim.Fixed(cfg.Control))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	sum := metrics.Summarize(stats)
	printSummary(sum)
	fmt.Printf("elapsed: %v (%.0f ticks/s)\n", elapsed.Round(time.Millisecond), float64(cfg.Ticks)/elapsed.Seconds())

	if save, _ := cmd.Flags().GetBool("save"); save {
		label, _ := cmd.Flags().GetString("label")
		st := storage.New(dataDir)
		id, err := st.Save(storage.Run{
			Label:     label,
			Seed:      cfg.Seed,
			Particles: cfg.Particles,
			Ticks:     cfg.Ticks,
			Control:   cfg.Control,
			Stats:     stats,
		})
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", id)
	}
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("running ensemble of %d seeds from %d\n", ensemble, cfg.Seed)

	results, err := sim.NewEnsemble(cfg.Options(), ensemble, cfg.Seed).Run(ctx, cfg.Ticks, cfg.Control)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSNAPSHOTS\tMEAN FLUX\tPEAK FLUX\tSPUTTERED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.1f\t%.0f\t%d\n", r.Seed, r.Summary.Snapshots, r.Summary.MeanFlux, r.Summary.PeakFlux, r.Summary.TotalSputtered)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	printSummary(sim.Pool(results))
	return nil
}

func printSummary(sum metrics.Summary) {
	fmt.Printf("snapshots: %d\n", sum.Snapshots)
	fmt.Printf("mean flux: %.1f\n", sum.MeanFlux)
	fmt.Printf("peak flux: %.0f\n", sum.PeakFlux)
	fmt.Printf("sputtered atoms: %d\n", sum.TotalSputtered)
	fmt.Printf("mean reconnection: %.3f\n", sum.MeanReconnection)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTICKS\tPARTICLES\tWIND\tCME\tMEAN FLUX")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f\t%v\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Particles,
			run.Control.WindSpeed,
			run.Control.CME,
			run.Metrics["mean_flux"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(stats) < 2 {
		return fmt.Errorf("not enough snapshots to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("snapshots: %d\n\n", len(stats))

	series := []struct {
		caption string
		field   func(dynamo.Stats) float64
	}{
		{"ion flux", metrics.Flux},
		{"sputtered atoms", metrics.Sputtered},
		{"reconnection rate", metrics.Reconnection},
	}

	for _, sr := range series {
		data := seriesOf(stats, sr.field)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func seriesOf(stats []dynamo.Stats, field func(dynamo.Stats) float64) []float64 {
	data := make([]float64, len(stats))
	for i, s := range stats {
		data[i] = field(s)
	}
	return data
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	stats, err := storage.New(dataDir).LoadStats(args[0])
	if err != nil {
		return err
	}
	if len(stats) < 2 {
		return fmt.Errorf("not enough snapshots to analyze")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMEAN\tSTD\tMIN\tMAX\tPERIOD (ticks)\tACF(1)")
	for _, sr := range []struct {
		name  string
		field func(dynamo.Stats) float64
	}{
		{"flux", metrics.Flux},
		{"sputtered", metrics.Sputtered},
		{"reconnection", metrics.Reconnection},
	} {
		data := seriesOf(stats, sr.field)
		m := analysis.Describe(data)
		period := "-"
		if p, ok := analysis.DominantPeriod(data, metrics.PublishPeriod); ok {
			period = fmt.Sprintf("%.0f", p)
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%s\t%.3f\n",
			sr.name, m.Mean, m.StdDev, m.Min, m.Max, period, analysis.Autocorrelation(data, 1))
	}
	return w.Flush()
}

// snapshotConfig is loadConfig with the snapshot's own tick count, which
// defaults to snapshotTicks rather than the preset's run length.
func snapshotConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Ticks, err = cmd.Flags().GetInt("ticks"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := snapshotConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s, err := sim.New(cfg.Options())
	if err != nil {
		return err
	}
	if _, err := s.Advance(ctx, cfg.Ticks, sim.Fixed(cfg.Control)); err != nil {
		return err
	}

	c := viz.NewCanvas(120, 40)
	viz.Draw(c, newScene(cfg), s.Frame(), s.Colors())
	name, _ := cmd.Flags().GetString("palette")
	p := viz.GetPalette(name)

	if len(args) == 0 {
		path, err := export.WriteSnapshot(filepath.Join(dataDir, "frames"), c, p, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", path)
		return nil
	}
	if err := os.WriteFile(args[0], []byte(export.CanvasToSVG(c, p, 4)), 0644); err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", args[0])
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, cfg.Options())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tWIND\tCME\tCAMERA\tMEAN FLUX\tSPUTTERED")
	var all []dynamo.Stats
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.0f\t%v\t%s\t%.1f\t%d\n", i+1, r.Control.WindSpeed, r.Control.CME, r.Control.Camera, r.Summary.MeanFlux, r.Summary.TotalSputtered)
		all = append(all, r.Stats...)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sc.SaveAs == "" {
		return nil
	}
	runSeed, runParticles := cfg.Seed, cfg.Particles
	if sc.Seed != 0 {
		runSeed = sc.Seed
	}
	if sc.Particles > 0 {
		runParticles = sc.Particles
	}
	id, err := storage.New(dataDir).Save(storage.Run{
		Label:     sc.SaveAs,
		Seed:      runSeed,
		Particles: runParticles,
		Ticks:     sc.TotalTicks(),
		Control:   results[len(results)-1].Control,
		Stats:     all,
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, automation.WindSweep{
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Ticks:    cfg.Ticks,
		CME:      cfg.Control.CME,
	}, cfg.Options())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WIND\tSNAPSHOTS\tMEAN FLUX\tPEAK FLUX\tSPUTTERED")
	for _, r := range results {
		fmt.Fprintf(w, "%.0f\t%d\t%.1f\t%.0f\t%d\n", r.WindSpeed, r.Summary.Snapshots, r.Summary.MeanFlux, r.Summary.PeakFlux, r.Summary.TotalSputtered)
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s, err := sim.New(cfg.Options())
	if err != nil {
		return err
	}
	ctrl := sim.NewSharedControl(cfg.Control)
	runner := sim.NewRunner(s, ctrl, cfg.FrameRate)

	save, _ := cmd.Flags().GetBool("save")
	rec := &storage.Recorder{}
	if save {
		runner.AddObserver(rec)
	}

	if err := stream.Serve(ctx, cfg.Addr, runner, stream.NewHub(ctrl, frameEvery)); err != nil {
		return err
	}
	if !save {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	label, _ := cmd.Flags().GetString("label")
	id, err := st.Save(storage.Run{
		Label:     label,
		Seed:      cfg.Seed,
		Particles: cfg.Particles,
		Ticks:     int(s.Ticks()),
		Control:   ctrl.Control(),
		Stats:     rec.Stats,
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/cardsim/internal/analysis"
	"github.com/san-kum/cardsim/internal/automation"
	"github.com/san-kum/cardsim/internal/config"
	"github.com/san-kum/cardsim/internal/export"
	"github.com/san-kum/cardsim/internal/logging"
	"github.com/san-kum/cardsim/internal/metrics"
	"github.com/san-kum/cardsim/internal/sim"
	"github.com/san-kum/cardsim/internal/storage"
	"github.com/san-kum/cardsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	devLog     bool
	seed       int64
	fps        float64
	duration   float64
	quality    string

	noSave  bool
	columns string
	output  string
	theme   string

	numRuns   int
	numTrials int
	numInputs int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	column    string
	frame     int
	tolerance float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cardsim",
		Short:         "interactive business card simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".cardsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&devLog, "dev", false, "human readable logs")
	pf.Int64Var(&seed, "seed", 1, "random seed")
	pf.Float64Var(&fps, "fps", 60, "simulation frame rate")
	pf.Float64Var(&duration, "time", 0, "duration in seconds (0 uses the scenario)")
	pf.StringVar(&quality, "quality", "high", "particle quality (low, medium, high)")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "replay a scenario headless and store the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the trace")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run (latest if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&columns, "columns", "py,scale,ry,particles", "comma separated trace columns")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "midnight", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as yaml",
		RunE:  printConfig,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario.yaml]",
		Short: "run a seeded ensemble and a random-input stability check",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "ensemble size")
	benchCmd.Flags().IntVar(&numTrials, "trials", 20, "random-input trials")
	benchCmd.Flags().IntVar(&numInputs, "inputs", 200, "random inputs per trial")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario.yaml]",
		Short: "sweep one physics parameter over a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "spring_stiffness", "physics parameter")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.3, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and settling analysis of a stored run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "py", "trace column")
	analyzeCmd.Flags().Float64Var(&tolerance, "tol", 0.02, "settle tolerance")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a frame or a trace column of a stored run as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&column, "column", "", "plot this trace column instead of a frame")
	exportSVGCmd.Flags().IntVar(&frame, "frame", -1, "frame index (negative counts from the end)")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, liveCmd, presetsCmd, configCmd, benchCmd, sweepCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves preset, then file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("quality") {
		cfg.Quality = quality
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*config.Config, sim.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, sim.Config{}, nil, err
	}
	log, err := logging.New(cfg.LogLevel, devLog)
	if err != nil {
		return nil, sim.Config{}, nil, err
	}
	sc, err := cfg.ToSession()
	if err != nil {
		return nil, sim.Config{}, nil, err
	}
	return cfg, sc, log, nil
}

func loadScenario(args []string) (*automation.Scenario, error) {
	if len(args) == 0 {
		return automation.Showcase(), nil
	}
	return automation.LoadScenario(args[0])
}

func runConfig(cmd *cobra.Command, cfg *config.Config, sc *automation.Scenario) sim.RunConfig {
	rc := sc.RunConfig(cfg.FPS, cfg.Duration)
	if cmd.Flags().Changed("fps") {
		rc.FPS = cfg.FPS
	}
	if cmd.Flags().Changed("time") {
		rc.Duration = cfg.Duration
	}
	return rc
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, sc, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	scenario, err := loadScenario(args)
	if err != nil {
		return err
	}
	rc := runConfig(cmd, cfg, scenario)

	session, err := sim.NewSession(sc, sim.WithLogger(log))
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		session.AddMetric(m)
	}

	start := time.Now()
	result, err := automation.RunScenario(cmd.Context(), scenario, session, rc)
	if err != nil {
		return err
	}
	log.Info("scenario finished",
		zap.String("scenario", scenario.Name),
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Printf("scenario: %s\n", scenario.Name)
	fmt.Printf("steps: %d  digest: %016x\n", result.StepsTaken, result.Digest)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range metrics.Default() {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Name(), result.Metrics[m.Name()])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(scenario.Name, rc, cfg.Quality, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tFPS\tQUALITY\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.0f\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FPS,
			run.Quality,
			run.Steps,
		)
	}
	return w.Flush()
}

func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	id, err := st.Latest()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no runs in %s", dataDir)
	}
	return id, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, col := range strings.Split(columns, ",") {
		col = strings.TrimSpace(col)
		data, err := storage.Column(frames, col)
		if err != nil {
			return err
		}
		graph, err := viz.PlotTrace([][]float64{data}, viz.PlotOptions{Width: 80, Height: 10, Caption: col})
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	if output == "" {
		return st.WriteJSON(runID, os.Stdout)
	}
	if err := st.ExportJSON(runID, output); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, output)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	_, sc, _, err := setup(cmd)
	if err != nil {
		return err
	}
	// The terminal belongs to the view; logs would corrupt it.
	session, err := sim.NewSession(sc)
	if err != nil {
		return err
	}
	return viz.RunLive(cmd.Context(), session, theme)
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, sc, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	scenario, err := loadScenario(args)
	if err != nil {
		return err
	}
	rc := runConfig(cmd, cfg, scenario)

	ens := sim.NewEnsemble(sc, numRuns, sc.Seed)
	ens.NewMetrics = metrics.Default
	ens.NewScript = func() sim.Script {
		script, err := scenario.Script()
		if err != nil {
			return nil
		}
		return script
	}

	start := time.Now()
	results, err := ens.Run(cmd.Context(), rc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	steps := 0
	digests := make(map[uint64]int)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tPEAK\tTRANSITIONS\tDIGEST")
	for _, r := range results {
		steps += r.StepsTaken
		digests[r.Digest]++
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.0f\t%016x\n",
			r.Seed, r.StepsTaken, r.Metrics["peak_particles"], r.Metrics["transitions"], r.Digest)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs, %d steps in %v (%.0f steps/sec), %d distinct digests\n\n",
		len(results), steps, elapsed, float64(steps)/elapsed.Seconds(), len(digests))

	mc := &automation.MonteCarloConfig{NumTrials: numTrials, Inputs: numInputs, Run: rc, Seed: sc.Seed}
	trials, err := automation.RunMonteCarlo(cmd.Context(), mc, sc, log)
	if err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(trials)
	fmt.Printf("random input: %d stable, %d unstable of %d trials\n", stable, unstable, len(trials))
	if unstable > 0 {
		return fmt.Errorf("%d trials left the card in an invalid state", unstable)
	}
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, sc, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	scenario, err := loadScenario(args)
	if err != nil {
		return err
	}

	ps := &automation.ParameterSweep{
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Run:       runConfig(cmd, cfg, scenario),
	}
	results, err := automation.RunSweep(cmd.Context(), ps, sc, scenario, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL_Y\tMAX_SPEED\tSETTLED\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.3f\t%v\n", r.ParamValue, r.FinalY, r.MaxSpeed, r.Settled)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	data, err := storage.Column(frames, column)
	if err != nil {
		return err
	}
	times, _ := storage.Column(frames, "time")

	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, column)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 8 {
		graph, err := viz.PlotTrace([][]float64{ps[:len(ps)/4]}, viz.PlotOptions{Width: 80, Height: 12, Caption: "power spectrum (" + column + ")"})
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}

	hz, _, err := analysis.DominantFrequency(data, meta.FPS)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", hz)
	if hz > 0 {
		fmt.Printf("period: %.3f s\n", 1/hz)
	}

	r, err := analysis.StepResponse(times, data, data[len(data)-1], tolerance)
	if err != nil {
		return err
	}
	fmt.Printf("final: %.4f  peak: %.4f  overshoot: %.1f%%  settle: %.2fs\n",
		r.Final, r.Peak, r.Overshoot*100, r.SettleTime)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	var svg string
	if column != "" {
		data, err := storage.Column(frames, column)
		if err != nil {
			return err
		}
		times, _ := storage.Column(frames, "time")
		svg = export.TraceToSVG(times, data, 800, 300, "#00ff88")
	} else {
		i := frame
		if i < 0 {
			i += len(frames)
		}
		if i < 0 || i >= len(frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frame, len(frames))
		}
		f := frames[i]
		svg = export.CardToSVG(f.Transform, f.Flipped, 60, 30, "#e0e7ff")
	}

	if output == "" {
		_, err = fmt.Print(svg)
		return err
	}
	return os.WriteFile(output, []byte(svg), 0644)
}

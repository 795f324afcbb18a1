package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaosdp/internal/config"
	"github.com/san-kum/chaosdp/internal/dynamo"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	logLevel   string

	// overrides shared by several commands; only applied when set
	mode       string
	population string
	fps        int
	duration   float64
	workers    int
	fixedStep  float64
	angleDeg   float64
	theme      string
	trailLen   int
	jitter     float64
	seed       int64
	saveRun    bool
	validate   bool

	// analysis
	dt           float64
	integrator   string
	xAxis        int
	yAxis        int
	poincare     bool
	svgOut       string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	trials       int
	perturbation float64
	mcSeed       int64
	snapshotAt   float64
	snapshotOut  string
	svgSize      int

	// search
	ranges    []string
	objective string
	maximize  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chaosdp",
		Short:         "double pendulum chaos lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".chaosdp", "data directory for saved runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view (default)",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(rootCmd)
	addSimFlags(liveCmd)
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&theme, "theme", "", "color theme: dark|retro|light")
		c.Flags().IntVar(&trailLen, "trail", 0, "trail length in frames")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless run with a synthetic frame clock",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	divergeCmd := &cobra.Command{
		Use:   "diverge",
		Short: "headless chaos population run reporting spread over time",
		Args:  cobra.NoArgs,
		RunE:  runDiverge,
	}
	for _, c := range []*cobra.Command{runCmd, divergeCmd} {
		addSimFlags(c)
		addHeadlessFlags(c)
	}
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the θ1/θ2 trajectory of the lead pendulum as svg")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "replay a yaml scenario of timed input events",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addSimFlags(scriptCmd)
	scriptCmd.Flags().BoolVar(&saveRun, "save", false, "save samples to the data directory")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "lyapunov exponent, power spectrum and flip-time sweep",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&sweepMin, "sweep-min", 0, "sweep start angle (degrees); setting either bound runs the sweep")
	analyzeCmd.Flags().Float64Var(&sweepMax, "sweep-max", 180, "sweep end angle (degrees)")
	analyzeCmd.Flags().IntVar(&sweepSteps, "sweep-steps", 60, "number of sweep angles")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase portrait or poincare section",
		Args:  cobra.NoArgs,
		RunE:  runPhase,
	}
	addAnalysisFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis (0 θ1, 1 θ2, 2 ω1, 3 ω2)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 2, "state index for y-axis")
	phaseCmd.Flags().BoolVar(&poincare, "poincare", false, "record θ2/ω2 when θ1 crosses zero upwards")
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "also write the trajectory as svg")

	compareCmd := &cobra.Command{
		Use:   "compare [integrators...]",
		Short: "integrate the same release with several steppers",
		RunE:  runCompare,
	}
	addAnalysisFlags(compareCmd)

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "randomly perturbed releases and how many flip",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addAnalysisFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 200, "number of releases")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 1, "max start angle offset (degrees)")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 picks one)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write an svg of the population after a headless run",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	addSimFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&snapshotAt, "at", 5, "simulated seconds before the snapshot")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search over config parameters scored by a headless run",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addSimFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&ranges, "param", nil, "name=lo:hi:n or name=v1,v2 (repeatable)")
	searchCmd.Flags().StringVar(&objective, "objective", "final_spread", "energy|energy_drift|stability|final_spread")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the highest score instead of the lowest")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "saved headless runs",
	}
	runsListCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	runsPlotCmd := &cobra.Command{
		Use:   "plot [run_id] [column]",
		Short: "plot a column of a saved run",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}
	runsExportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	runsCmd.AddCommand(runsListCmd, runsPlotCmd, runsExportCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			return config.Save(args[0], cfg)
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, runCmd, divergeCmd, scriptCmd, analyzeCmd, phaseCmd, compareCmd,
		monteCarloCmd, snapshotCmd, searchCmd, runsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&mode, "mode", "", "step mode: realtime|precision")
	f.StringVar(&population, "population", "", "start population: default|chaos")
	f.IntVar(&fps, "fps", 0, "frame rate")
	f.IntVar(&workers, "workers", 0, "goroutines used to advance a population")
	f.Float64Var(&fixedStep, "fixed-step", 0, "precision mode step (seconds)")
	f.Float64Var(&angleDeg, "angle", 0, "release angle (degrees)")
	f.Float64Var(&duration, "duration", 0, "simulated seconds")
}

func addHeadlessFlags(c *cobra.Command) {
	f := c.Flags()
	f.Float64Var(&jitter, "jitter", 0, "random frame interval jitter, fraction of a frame")
	f.Int64Var(&seed, "seed", 1, "jitter seed")
	f.BoolVar(&saveRun, "save", false, "save samples to the data directory")
	f.BoolVar(&validate, "validate", false, "stop at the first NaN/Inf state")
}

func addAnalysisFlags(c *cobra.Command) {
	f := c.Flags()
	f.Float64Var(&angleDeg, "angle", 0, "release angle (degrees)")
	f.Float64Var(&duration, "duration", 0, "simulated seconds")
	f.Float64Var(&dt, "dt", 1e-3, "integration step")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("mode") {
		cfg.Mode = mode
	}
	if changed("population") {
		cfg.Population = population
	}
	if changed("fps") {
		cfg.FPS = fps
	}
	if changed("workers") {
		cfg.Workers = workers
	}
	if changed("fixed-step") {
		cfg.FixedStep = fixedStep
	}
	if changed("angle") {
		cfg.InitialAngleDeg = angleDeg
	}
	if changed("duration") {
		cfg.Duration = duration
	}
	if changed("theme") {
		cfg.Theme = theme
	}
	if changed("trail") {
		cfg.TrailLength = trailLen
	}
	if changed("validate") {
		cfg.ValidateState = validate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging() error {
	level := slog.LevelWarn
	switch {
	case logLevel != "":
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("log level %q: %w", logLevel, err)
		}
	case verbose:
		level = slog.LevelDebug
	default:
		return nil
	}
	dynamo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

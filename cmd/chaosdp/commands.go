package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaosdp/internal/analysis"
	"github.com/san-kum/chaosdp/internal/automation"
	"github.com/san-kum/chaosdp/internal/config"
	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/experiment"
	"github.com/san-kum/chaosdp/internal/export"
	"github.com/san-kum/chaosdp/internal/metrics"
	"github.com/san-kum/chaosdp/internal/optim"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
	"github.com/san-kum/chaosdp/internal/storage"
	"github.com/san-kum/chaosdp/internal/viz"
)

const (
	plotWidth  = 70
	plotHeight = 12
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	driver, err := cfg.NewDriver()
	if err != nil {
		return err
	}
	return viz.Run(driver, viz.Options{
		FPS:         cfg.FPS,
		TrailLength: cfg.TrailLength,
		Theme:       cfg.Theme,
	})
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// angleTrace records (θ1, θ2) of the lead pendulum after every frame.
type angleTrace struct {
	points []analysis.Point
}

func (a *angleTrace) OnStep(x dynamo.State, _ float64) {
	a.points = append(a.points, analysis.Point{X: x[0], Y: x[1]})
}

func headless(ctx context.Context, cfg *config.Config, observers ...dynamo.Observer) (*experiment.Result, error) {
	driver, err := cfg.NewDriver()
	if err != nil {
		return nil, err
	}
	exp := experiment.New(experiment.Config{
		FPS:           cfg.FPS,
		Duration:      cfg.Duration,
		Jitter:        jitter,
		Seed:          seed,
		ValidateState: cfg.ValidateState,
	}, driver)
	for _, m := range experiment.NewRegistry().DefaultMetrics(cfg.Model()) {
		exp.AddMetric(m)
	}
	for _, o := range observers {
		exp.AddObserver(o)
	}
	return exp.Run(ctx)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	trace := &angleTrace{}
	start := time.Now()
	result, err := headless(ctx, cfg, trace)
	if result == nil {
		return err
	}
	printSummary(cfg, result, time.Since(start))
	if svgOut != "" {
		svg := export.TrajectoryToSVG(trace.points, 800, 800, "#ffaa00")
		if werr := os.WriteFile(svgOut, []byte(svg), 0644); werr != nil {
			return werr
		}
		fmt.Printf("wrote %s (θ1 vs θ2)\n", svgOut)
	}
	if len(result.Samples) > 1 {
		theta1 := make([]float64, len(result.Samples))
		for i, s := range result.Samples {
			theta1[i] = s.Theta1
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(theta1,
			asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
			asciigraph.Caption("θ1 (rad) per frame")))
	}
	if saveErr := save("run", cfg, result); saveErr != nil {
		return saveErr
	}
	return err
}

func runDiverge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("population") {
		cfg.Population = sim.PopulationChaos.String()
	}
	ctx, cancel := interruptible()
	defer cancel()

	start := time.Now()
	result, err := headless(ctx, cfg)
	if result == nil {
		return err
	}
	printSummary(cfg, result, time.Since(start))

	reach := cfg.Top.Length + cfg.Bottom.Length
	spread := make([]float64, len(result.Samples))
	divergedAt := -1.0
	for i, s := range result.Samples {
		spread[i] = s.Spread
		if divergedAt < 0 && s.Spread > reach/2 {
			divergedAt = s.Time
		}
	}
	if divergedAt >= 0 {
		fmt.Printf("spread passed %.2f m at t=%.2fs\n", reach/2, divergedAt)
	} else {
		fmt.Printf("spread stayed under %.2f m\n", reach/2)
	}
	if len(spread) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spread,
			asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
			asciigraph.Caption("bottom bob spread (m) per frame")))
	}
	if saveErr := save("diverge", cfg, result); saveErr != nil {
		return saveErr
	}
	return err
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	start := time.Now()
	run, err := automation.RunScenario(ctx, scenario, cfg)
	if run == nil {
		return err
	}
	result := run.Result
	fmt.Printf("scenario: %s\n", scenario.Name)
	printSummary(cfg, result, time.Since(start))
	if run.Unplayed > 0 {
		fmt.Printf("unplayed: %d of %d events fall after the last frame\n", run.Unplayed, len(scenario.Events))
	}

	// frames where the population or mode changed
	for i := 1; i < len(result.Samples); i++ {
		prev, cur := result.Samples[i-1], result.Samples[i]
		if prev.Population != cur.Population || prev.Mode != cur.Mode {
			fmt.Printf("  t=%6.3fs  %s/%s -> %s/%s (%d pendulums)\n",
				cur.Time, prev.Population, prev.Mode, cur.Population, cur.Mode, cur.Size)
		}
	}
	if saveErr := save("script", cfg, result); saveErr != nil {
		return saveErr
	}
	return err
}

func printSummary(cfg *config.Config, result *experiment.Result, wall time.Duration) {
	fmt.Printf("frames: %d  steps: %d  wall: %v\n", result.Frames, result.StepsTaken, wall.Round(time.Millisecond))
	if len(result.Samples) > 0 {
		last := result.Samples[len(result.Samples)-1]
		fmt.Printf("final: %s/%s  size=%d  θ1=%.4f θ2=%.4f  E=%.3f J\n",
			last.Population, last.Mode, last.Size, last.Theta1, last.Theta2, last.Energy)
	}
	fmt.Println("metrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %-14s %.6f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %v\n", e)
	}
}

func save(command string, cfg *config.Config, result *experiment.Result) error {
	if !saveRun {
		return nil
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.Save(storage.RunMetadata{
		Command:    command,
		Preset:     preset,
		Mode:       cfg.Mode,
		Population: cfg.Population,
		FPS:        cfg.FPS,
		Duration:   cfg.Duration,
		FixedStep:  cfg.FixedStep,
	}, result)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}

func analysisSetup(cmd *cobra.Command) (*config.Config, physics.Model, dynamo.State, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, physics.Model{}, nil, err
	}
	if !(dt > 0) {
		return nil, physics.Model{}, nil, fmt.Errorf("dt must be positive, got %g", dt)
	}
	model := cfg.Model()
	x0 := physics.NewDoublePendulum(model, cfg.InitialAngleDeg*math.Pi/180).State()
	return cfg, model, x0, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, model, x0, err := analysisSetup(cmd)
	if err != nil {
		return err
	}
	integ, err := experiment.NewRegistry().GetIntegrator(integrator)
	if err != nil {
		return err
	}

	fmt.Printf("release: %.2f°  integrator: %s  dt: %g  duration: %gs\n\n",
		cfg.InitialAngleDeg, integrator, dt, cfg.Duration)

	lambda := analysis.LyapunovExponent(model, integ, x0, dt, cfg.Duration, 1e-8)
	fmt.Printf("largest lyapunov exponent: %.4f 1/s", lambda)
	if lambda > 0.1 {
		fmt.Print("  (chaotic)")
	}
	fmt.Println()

	theta1 := make([]float64, 0, int(cfg.Duration/dt)+1)
	energy := metrics.NewEnergyDrift(model)
	x := x0.Clone()
	for t := 0.0; t < cfg.Duration; t += dt {
		x = integ.Step(model, x, t, dt)
		theta1 = append(theta1, x[0])
		energy.Observe(x, t)
	}
	spectrum := analysis.PowerSpectrum(theta1, dt)
	fmt.Printf("dominant θ1 frequency:     %.4f Hz\n", spectrum.Peak())
	fmt.Printf("relative energy drift:     %.2e\n", energy.Value())

	if cmd.Flags().Changed("sweep-min") || cmd.Flags().Changed("sweep-max") {
		fmt.Printf("\nflip time sweep %.0f°..%.0f° (%d angles):\n", sweepMin, sweepMax, sweepSteps)
		points := analysis.AngleSweep(model, integ, sweepMin, sweepMax, sweepSteps, dt, cfg.Duration)
		fmt.Println(analysis.SweepToASCII(points, plotWidth, plotHeight))
	}
	return nil
}

func runPhase(cmd *cobra.Command, args []string) error {
	cfg, model, x0, err := analysisSetup(cmd)
	if err != nil {
		return err
	}
	integ, err := experiment.NewRegistry().GetIntegrator(integrator)
	if err != nil {
		return err
	}

	var points []analysis.Point
	if poincare {
		section := analysis.GeneratePoincareSection(model, integ, x0, 0, 0, 1, 3, dt, cfg.Duration)
		if section == nil {
			return fmt.Errorf("invalid poincare section parameters")
		}
		fmt.Printf("poincare section θ1=0↑, %d crossings (θ2 vs ω2)\n", len(section.Points))
		fmt.Println(section.ASCII(plotWidth, plotHeight*2))
		points = section.Points
	} else {
		portrait := analysis.GeneratePhasePortrait(model, integ, x0, xAxis, yAxis, dt, cfg.Duration)
		if portrait == nil {
			return fmt.Errorf("axes must be state indices in [0, %d)", model.StateDim())
		}
		fmt.Printf("phase portrait x[%d] vs x[%d], %d points\n", xAxis, yAxis, len(portrait.Points))
		fmt.Println(portrait.ASCII(plotWidth, plotHeight*2))
		points = portrait.Points
	}

	if svgOut != "" {
		svg := export.TrajectoryToSVG(points, 800, 800, "#00ffff")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, model, _, err := analysisSetup(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = reg.ListIntegrators()
	}
	ctx, cancel := interruptible()
	defer cancel()

	results, err := reg.Compare(ctx, model, names, cfg.InitialAngleDeg*math.Pi/180, dt, cfg.Duration)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tθ1\tθ2\tENERGY DRIFT\tSTEPS\tVALID")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.2e\t%d\t%v\n",
			r.Integrator, r.FinalTheta1, r.FinalTheta2, r.EnergyDrift, r.Steps, r.Valid)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, model, _, err := analysisSetup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	start := time.Now()
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Model:           model,
		AngleDeg:        cfg.InitialAngleDeg,
		PerturbationDeg: perturbation,
		NumTrials:       trials,
		Duration:        cfg.Duration,
		Dt:              dt,
		Seed:            mcSeed,
		Workers:         cfg.Workers,
	})
	if err != nil {
		return err
	}

	flipped, settled := automation.MonteCarloStats(results)
	fmt.Printf("%d releases at %.2f° ± %g° over %gs (%v)\n",
		len(results), cfg.InitialAngleDeg, perturbation, cfg.Duration, time.Since(start).Round(time.Millisecond))
	fmt.Printf("flipped: %d  never flipped: %d\n", flipped, settled)

	times := make([]float64, 0, flipped)
	for _, r := range results {
		if r.FlipTime >= 0 {
			times = append(times, r.FlipTime)
		}
	}
	if len(times) > 0 {
		lo, hi, sum := times[0], times[0], 0.0
		for _, t := range times {
			lo, hi, sum = math.Min(lo, t), math.Max(hi, t), sum+t
		}
		fmt.Printf("first flip: min %.3fs  mean %.3fs  max %.3fs\n", lo, sum/float64(len(times)), hi)
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !(snapshotAt >= 0) {
		return fmt.Errorf("--at must not be negative")
	}
	cfg.Duration = snapshotAt
	driver, err := cfg.NewDriver()
	if err != nil {
		return err
	}
	exp := experiment.New(experiment.Config{FPS: cfg.FPS, Duration: cfg.Duration}, driver)
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	svg := export.SnapshotSVG(driver.Set(), svgSize)
	if err := os.WriteFile(snapshotOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d pendulums at t=%gs)\n", snapshotOut, driver.Set().Len(), snapshotAt)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("at least one --param is required (parameters: %s)", strings.Join(config.ParamNames(), ", "))
	}
	obj, err := optim.GetObjective(objective)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(ranges))
	values := make([][]float64, 0, len(ranges))
	for _, r := range ranges {
		name, vals, err := optim.ParseRange(r)
		if err != nil {
			return err
		}
		names = append(names, name)
		values = append(values, vals)
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		driver, err := cfg.NewDriver()
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{FPS: cfg.FPS, Duration: cfg.Duration, ValidateState: true}, driver)
		for _, m := range experiment.NewRegistry().DefaultMetrics(cfg.Model()) {
			exp.AddMetric(m)
		}
		return exp, nil
	}

	ctx, cancel := interruptible()
	defer cancel()

	g := optim.NewGridSearch(names, values)
	g.Maximize = maximize
	res, err := g.Search(ctx, build, obj)
	if res == nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(objective))
	for _, t := range res.Trials {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", t.Params[n])
		}
		if t.Err != nil {
			fmt.Fprintf(w, "error: %v\n", t.Err)
		} else {
			fmt.Fprintf(w, "%.6g\n", t.Score)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nbest: %v -> %.6g\n", res.Best.Params, res.Best.Score)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tTIMESTAMP\tMODE\tPOPULATION\tFRAMES\tSTEPS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Command, r.Timestamp.Format("2006-01-02 15:04:05"), r.Mode, r.Population, r.Frames, r.Steps)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	column := "theta1"
	if len(args) > 1 {
		column = args[1]
	}
	series, err := storage.New(dataDir).LoadSeries(args[0], column)
	if err != nil {
		return err
	}
	if len(series.Values) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", args[0])
	}
	fmt.Println(asciigraph.Plot(series.Values,
		asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s: %s", args[0], column))))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	columns := []string{"theta1", "theta2", "energy", "spread"}
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0], columns...)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

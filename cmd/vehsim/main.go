package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/vehsim/internal/analysis"
	"github.com/san-kum/vehsim/internal/automation"
	"github.com/san-kum/vehsim/internal/canbus"
	"github.com/san-kum/vehsim/internal/config"
	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/experiment"
	"github.com/san-kum/vehsim/internal/export"
	"github.com/san-kum/vehsim/internal/optim"
	"github.com/san-kum/vehsim/internal/sim"
	"github.com/san-kum/vehsim/internal/storage"
	"github.com/san-kum/vehsim/internal/tui"
	"github.com/san-kum/vehsim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string

	dt            float64
	duration      float64
	kp            float64
	ki            float64
	kd            float64
	wheelbase     float64
	targetSpeed   float64
	throttle      float64
	mass          float64
	waypointsFile string

	canIface  string
	noSave    bool
	outFile   string
	svgFile   string
	plotWidth int
	maxFrames int
	themeName string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	tuneKp     []float64
	tuneKi     []float64
	tuneKd     []float64
	metricName string
	mcTrials   int
	mcSpread   float64
	mcParams   []string
	mcSeed     int64
	mcMetric   string

	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}

	log = logrus.WithField("module", "vehsim")
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vehsim",
		Short:         "longitudinal vehicle dynamics and trajectory tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logrus.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05.0000",
			})
			level, ok := logLevels[logLevel]
			if !ok {
				return fmt.Errorf("log.level must be one of %v", levelNames())
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vehsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log.level", "info", "log level (trace debug info warn error critical off)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&canIface, "can", "", "send actuator commands to this SocketCAN interface (track only)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&outFile, "trajectory", "", "also write the t, x table to this file")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with the live dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeDashboard.Name,
		"dashboard theme ("+strings.Join(viz.ThemeNames(), " ")+")")

	framesCmd := &cobra.Command{
		Use:   "frames [scenario]",
		Short: "print the actuator command frames a scenario produces",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printFrames,
	}
	addScenarioFlags(framesCmd)
	framesCmd.Flags().IntVar(&maxFrames, "count", 20, "number of frames to print (0 for all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", viz.DefaultPlotWidth, "plot width")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write an svg chart of position and velocity")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response and phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the speed pid gains on the track scenario",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneKp, "kp-grid", []float64{0.5, 1, 2, 4}, "kp values")
	tuneCmd.Flags().Float64SliceVar(&tuneKi, "ki-grid", []float64{0, 0.1, 0.2, 0.5}, "ki values")
	tuneCmd.Flags().Float64SliceVar(&tuneKd, "kd-grid", []float64{0.01}, "kd values")
	tuneCmd.Flags().StringVar(&metricName, "metric", "speed_rms_error", "metric to minimise")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "vary one setting across a range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "mass", "setting to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1500, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 3000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "perturb vehicle settings randomly and summarise a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addScenarioFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	montecarloCmd.Flags().Float64Var(&mcSpread, "spread", 0.1, "relative perturbation")
	montecarloCmd.Flags().StringSliceVar(&mcParams, "vary", []string{"mass", "drag_coeff", "rolling_coeff"}, "settings to perturb")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", time.Now().UnixNano(), "random seed")
	montecarloCmd.Flags().StringVar(&mcMetric, "metric", "max_speed", "metric to summarise")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every entry of a batch file and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [run_id]",
		Short: "print the t, x table of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  printTrajectory,
	}
	trajectoryCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, framesCmd, listCmd, plotCmd, analyzeCmd, exportCmd, trajectoryCmd, presetsCmd,
		tuneCmd, sweepCmd, montecarloCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func levelNames() []string {
	names := make([]string, 0, len(logLevels))
	for name := range logLevels {
		names = append(names, name)
	}
	return names
}

func addScenarioFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	gains := control.DefaultGains()

	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", defaults.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", defaults.Duration, "duration")
	cmd.Flags().Float64Var(&kp, "kp", gains.Kp, "speed pid kp")
	cmd.Flags().Float64Var(&ki, "ki", gains.Ki, "speed pid ki")
	cmd.Flags().Float64Var(&kd, "kd", gains.Kd, "speed pid kd")
	cmd.Flags().Float64Var(&wheelbase, "wheelbase", gains.Wheelbase, "pure pursuit wheelbase")
	cmd.Flags().Float64Var(&targetSpeed, "speed", defaults.TargetSpeed, "target speed for generated waypoints (track)")
	cmd.Flags().Float64Var(&throttle, "throttle", defaults.Profile.Throttle, "constant throttle (cruise)")
	cmd.Flags().Float64Var(&mass, "mass", defaults.Vehicle.Mass, "vehicle mass")
	cmd.Flags().StringVar(&waypointsFile, "waypoints", "", "waypoint csv file (x, y, speed)")
}

// resolveConfig layers the run configuration: defaults, then the config
// file, then the preset, then any flag set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("kp") {
		cfg.Controller.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Controller.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Controller.Kd = kd
	}
	if flags.Changed("wheelbase") {
		cfg.Controller.Wheelbase = wheelbase
	}
	if flags.Changed("speed") {
		cfg.TargetSpeed = targetSpeed
	}
	if flags.Changed("throttle") {
		cfg.Profile.Throttle = throttle
	}
	if flags.Changed("mass") {
		cfg.Vehicle.Mass = mass
	}
	if flags.Changed("waypoints") {
		cfg.WaypointsFile = waypointsFile
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func setupExperiment(cfg *config.Config, sink sim.CommandSink) (*experiment.Experiment, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), sink); err != nil {
		return nil, err
	}
	return exp, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var sink sim.CommandSink
	if canIface != "" {
		if cfg.Scenario != "track" {
			return fmt.Errorf("--can needs the track scenario, got %s", cfg.Scenario)
		}
		s, err := canbus.Dial(ctx, canIface)
		if err != nil {
			return err
		}
		defer s.Close()
		sink = s
		log.WithField("iface", canIface).Info("sending actuator frames")
	}

	exp, err := setupExperiment(cfg, sink)
	if err != nil {
		return err
	}

	log.WithField("scenario", cfg.Scenario).Info("running")
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.WithError(e).Warn("run stopped early")
	}

	fields := [][2]string{
		{"scenario", cfg.Scenario},
		{"steps", fmt.Sprint(result.StepsTaken)},
		{"elapsed", elapsed.Round(time.Microsecond).String()},
	}
	if tc, ok := result.CrossingTime(150); ok {
		fields = append(fields, [2]string{"t(x=150m)", fmt.Sprintf("%.2f s", tc)})
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Scenario:   cfg.Scenario,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Controller: controllerName(cfg),
			Params:     exp.GetSimulator().Plant().GetParams(),
		}, result)
		if err != nil {
			return err
		}
		fields = append([][2]string{{"run id", runID}}, fields...)
	}

	if outFile != "" {
		if err := writeFile(outFile, func(w io.Writer) error {
			return storage.WriteTrajectory(w, result.TickStarts())
		}); err != nil {
			return err
		}
	}

	fmt.Println(viz.Summary("run", fields, result.Metrics))
	return nil
}

func controllerName(cfg *config.Config) string {
	if cfg.Scenario == "track" {
		return fmt.Sprintf("pid(kp=%g ki=%g kd=%g)+pursuit(L=%g)",
			cfg.Controller.Kp, cfg.Controller.Ki, cfg.Controller.Kd, cfg.Controller.Wheelbase)
	}
	return "open-loop"
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg, nil)
	if err != nil {
		return err
	}
	if !slices.Contains(viz.ThemeNames(), themeName) {
		return fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
	}
	viz.SetTheme(themeName)

	// keep log lines from tearing the alt screen
	logrus.SetOutput(io.Discard)
	return tui.RunLive(cfg.Scenario, exp)
}

func printFrames(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	// replay the applied inputs through the bus encoder; the first sample is
	// the initial state and carries no command
	rec := &canbus.Recorder{}
	sink := canbus.NewSink(rec)
	for _, s := range result.Samples[1:] {
		var c control.Command
		c.SetThrottle(s.Throttle)
		c.SetBrake(s.Brake)
		c.SetSteer(s.Steer)
		if err := sink.Send(ctx, c); err != nil {
			return err
		}
	}

	frames := rec.Frames()
	if maxFrames > 0 && len(frames) > maxFrames {
		frames = frames[:maxFrames]
	}
	for i, f := range frames {
		fmt.Printf("%8.2f  %03X#%s\n", result.Samples[i+1].Time, f.ID, strings.ToUpper(fmt.Sprintf("%x", f.Data[:f.Length])))
	}
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS\tCTRL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Controller,
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

	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := func(f func(dynamo.Sample) float64) []float64 {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = f(s)
		}
		return out
	}
	h := viz.DefaultPlotHeight

	fmt.Println(viz.Plot(series(func(s dynamo.Sample) float64 { return s.Position }), "position (m)", h, plotWidth))
	fmt.Println()
	if meta.Scenario == "track" {
		fmt.Println(viz.PlotMany([][]float64{
			series(func(s dynamo.Sample) float64 { return s.Velocity }),
			series(func(s dynamo.Sample) float64 { return s.DesiredSpeed }),
		}, []string{"v", "desired"}, "velocity (m/s)", h, plotWidth))
	} else {
		fmt.Println(viz.Plot(series(func(s dynamo.Sample) float64 { return s.Velocity }), "velocity (m/s)", h, plotWidth))
	}
	fmt.Println()
	fmt.Println(viz.Plot(series(func(s dynamo.Sample) float64 { return s.EngineSpeed }), "engine speed (rad/s)", h, plotWidth))
	fmt.Println()
	fmt.Println(viz.PlotMany([][]float64{
		series(func(s dynamo.Sample) float64 { return s.Throttle }),
		series(func(s dynamo.Sample) float64 { return s.Brake }),
	}, []string{"throttle", "brake"}, "pedals", h/2, plotWidth))

	if svgFile == "" {
		return nil
	}
	times := series(func(s dynamo.Sample) float64 { return s.Time })
	chart := []export.Series{
		{Name: "velocity (m/s)", Values: series(func(s dynamo.Sample) float64 { return s.Velocity })},
		{Name: "acceleration (m/s²)", Values: series(func(s dynamo.Sample) float64 { return s.Acceleration })},
	}
	if meta.Scenario == "track" {
		chart = append(chart, export.Series{Name: "desired (m/s)", Values: series(func(s dynamo.Sample) float64 { return s.DesiredSpeed })})
	}
	return writeFile(svgFile, func(w io.Writer) error {
		return export.LineChartSVG(w, meta.ID, times, chart, 900, 400)
	})
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to analyze")
	}

	result := &dynamo.Result{Samples: samples}
	target := samples[len(samples)-1].DesiredSpeed
	if target == 0 {
		// open loop: measure against the final speed
		target = samples[len(samples)-1].Velocity
	}
	r := analysis.AnalyzeStep(result.Times(), result.Velocities(), target, analysis.DefaultBand)

	fields := [][2]string{
		{"scenario", meta.Scenario},
		{"initial", fmt.Sprintf("%.3f m/s", r.Initial)},
		{"target", fmt.Sprintf("%.3f m/s", r.Target)},
		{"rise time", fmt.Sprintf("%.2f s", r.RiseTime)},
		{"overshoot", fmt.Sprintf("%.1f %%", 100*r.Overshoot)},
		{"peak time", fmt.Sprintf("%.2f s", r.PeakTime)},
		{"settling", fmt.Sprintf("%.2f s", r.SettlingTime)},
		{"ss error", fmt.Sprintf("%.4f m/s", r.SteadyStateError)},
	}
	fmt.Println(viz.Summary(meta.ID, fields, nil))
	fmt.Println()
	fmt.Print(analysis.PhasePortraitToASCII(analysis.VelocityAcceleration(samples), 70, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	return writeFile(outFile, func(w io.Writer) error {
		return storage.ExportJSON(w, *meta, samples)
	})
}

func printTrajectory(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, err := os.Open(st.TrajectoryPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()

	return writeFile(outFile, func(w io.Writer) error {
		_, err := io.Copy(w, f)
		return err
	})
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := experiment.NewRegistry().ListScenarios()
	if len(args) > 0 {
		scenarios = args
	}

	for _, scn := range scenarios {
		presets := config.ListPresets(scn)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", scn)
			continue
		}
		fmt.Printf("presets for %s:\n", scn)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, []string{"track"})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	grid := optim.NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{tuneKp, tuneKi, tuneKd})
	log.WithField("points", len(tuneKp)*len(tuneKi)*len(tuneKd)).Info("tuning")

	best, val, trials, err := grid.Search(ctx, optim.FromConfig(cfg, experiment.NewRegistry()), metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KP\tKI\tKD\t%s\n", strings.ToUpper(metricName))
	for _, tr := range trials {
		if tr.Err != nil {
			fmt.Fprintf(w, "%g\t%g\t%g\t%v\n", tr.Params["kp"], tr.Params["ki"], tr.Params["kd"], tr.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%g\t%g\t%.6f\n", tr.Params["kp"], tr.Params["ki"], tr.Params["kd"], tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: kp=%g ki=%g kd=%g  %s=%.6f\n", best["kp"], best["ki"], best["kd"], metricName, val)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Crossing:  150,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tX_END\tV_END\tV_MAX\tT(150m)\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		crossing := "-"
		if r.Crossed {
			crossing = fmt.Sprintf("%.2f", r.CrossingTime)
		}
		fmt.Fprintf(w, "%g\t%.2f\t%.3f\t%.3f\t%s\n", r.ParamValue, r.FinalPosition, r.FinalVelocity, r.MaxSpeed, crossing)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Params:       mcParams,
		Perturbation: mcSpread,
		NumTrials:    mcTrials,
		Seed:         mcSeed,
		Metric:       mcMetric,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	mean, std, stable, unstable := automation.MonteCarloStats(results)
	fmt.Println(viz.Summary("monte carlo", [][2]string{
		{"scenario", cfg.Scenario},
		{"trials", fmt.Sprint(len(results))},
		{"stable", fmt.Sprint(stable)},
		{"unstable", fmt.Sprint(unstable)},
		{mcMetric + " μ", fmt.Sprintf("%.6f", mean)},
		{mcMetric + " σ", fmt.Sprintf("%.6f", std)},
	}, nil))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := automation.RunBatch(ctx, batch, experiment.NewRegistry())

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for _, r := range results {
		runID, err := st.Save(storage.RunMetadata{
			Scenario:   r.Config.Scenario,
			Dt:         r.Config.Dt,
			Duration:   r.Config.Duration,
			Controller: controllerName(r.Config),
			Params:     r.Config.VehicleParams().Map(),
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", r.Name, runID)
	}
	return runErr
}

// writeFile runs write against path, or stdout when path is empty.
func writeFile(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

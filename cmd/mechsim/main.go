package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	duration   float64
	seed       int64
	configFile string
	preset     string
	metricList []string
	bodyID     int
	coord      string
	jsonOut    string
	svgDir     string
	frameIndex int
	addr       string
	fps        int
	origins    []string
	param      string
	paramMin   float64
	paramMax   float64
	paramSteps int
	workers    int
	trials     int
	balls      int
	axes       []string
	minimize   string
)

// main registers the mechsim commands. With no subcommand it opens the
// terminal scenario menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "mechsim",
		Short: "2d rigid-body mechanics sandbox",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mechsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scene headless and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record (default depends on the scene)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's position and speed",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyID, "body", -1, "body id (default: first recorded body)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a frame and a trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgDir, "out", "o", ".", "output directory")
	svgCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	svgCmd.Flags().IntVar(&bodyID, "body", -1, "body whose trajectory is drawn")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and period of a body coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyID, "body", -1, "body id (default: first recorded body)")
	analyzeCmd.Flags().StringVar(&coord, "coord", "x", "coordinate: x, y, vx or vy")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "interactive window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	sceneFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "stream frames over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 60, "frames per second sent to clients")
	serveCmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "extra browser origins allowed to connect (\"*\" for any)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets for a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "measure steps per second",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "", "preset name")

	batchCmd := &cobra.Command{
		Use:   "batch [suite.yaml]",
		Short: "run a suite of scripted runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a parameter sweep or Monte Carlo trials in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "elasticity", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&paramSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	sweepCmd.Flags().IntVar(&trials, "trials", 0, "Monte Carlo trials instead of a sweep")
	sweepCmd.Flags().IntVar(&balls, "balls", 8, "random balls per Monte Carlo trial")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search parameters that minimise a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&axes, "param", nil, "grid axis as name=min:max:steps (repeatable)")
	tuneCmd.Flags().StringVar(&minimize, "minimize", "max_penetration", "metric to minimise")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, svgCmd, analyzeCmd,
		liveCmd, guiCmd, serveCmd, presetsCmd, benchCmd, batchCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for random balls")
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml), overrides the preset")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name")
}

// resolveConfig picks the scene for a command. A scene file wins over the
// preset, and flags set on the command line win over both.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := config.ScenarioFree
	if len(args) > 0 {
		name = args[0]
	}

	ec := experiment.Config{Scenario: name, Preset: preset, File: configFile}
	flags := cmd.Flags()
	if flags.Changed("dt") {
		ec.Dt = dt
	}
	if flags.Changed("time") {
		ec.Duration = duration
	}
	if flags.Changed("seed") {
		ec.Seed = seed
	}

	cfg, err := ec.Resolve(experiment.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if configFile != "" && len(args) > 0 && cfg.Scenario != name {
		slog.Warn("scene file overrides scenario argument", "file", configFile, "scenario", cfg.Scenario)
	}
	slog.Debug("scene resolved", "scenario", cfg.Scenario, "preset", preset, "dt", cfg.Dt, "duration", cfg.Duration, "seed", cfg.Seed)
	return cfg, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.Scenarios
	if len(args) > 0 {
		names = args[:1]
	}
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

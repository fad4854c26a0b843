package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/gui"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/san-kum/mechsim/internal/stream"
	"github.com/san-kum/mechsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.SetupDefault(registry, metricList); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s scene...\n", cfg.Scenario)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	slog.Debug("run saved", "id", runID, "frames", len(result.Frames))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func benchScenario(cmd *cobra.Command, args []string) error {
	name := config.ScenarioFree
	if len(args) > 0 {
		name = args[0]
	}
	base, err := experiment.NewRegistry().GetConfig(name, preset)
	if err != nil {
		return err
	}

	durations := []float64{1, 5, 10}
	dts := []float64{1.0 / 240, 1.0 / 120, 1.0 / 60}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Duration = dur
			cfg.Dt = step

			scene, err := scenario.New(cfg)
			if err != nil {
				return err
			}
			simCfg := sim.ConfigFor(cfg)
			simCfg.SkipFrames = true

			start := time.Now()
			result, err := sim.New(scene).Run(context.Background(), simCfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func sceneFromFlags(cmd *cobra.Command, args []string) (*scenario.Scene, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	return scenario.New(cfg)
}

func runLive(cmd *cobra.Command, args []string) error {
	scene, err := sceneFromFlags(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(scene)
}

func runGUI(cmd *cobra.Command, args []string) error {
	scene, err := sceneFromFlags(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(scene)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if fps < 1 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	srv := stream.NewServer(cfg, slog.Default())
	srv.SetFrameInterval(time.Second / time.Duration(fps))
	srv.AllowOrigins(origins...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

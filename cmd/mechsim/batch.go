package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mechsim/internal/automation"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/optim"
	"github.com/san-kum/mechsim/internal/storage"
)

func runBatch(cmd *cobra.Command, args []string) error {
	suite, err := automation.LoadSuite(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("suite: %s\n", suite.Name)
	if suite.Description != "" {
		fmt.Printf("%s\n", suite.Description)
	}
	results, err := automation.NewRunner(st).RunSuite(ctx, suite)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nRUN\tSCENARIO\tSTEPS\tRESULT\tRUN ID")
	for _, r := range results {
		status := "ok"
		if !r.Passed() {
			status = "FAIL: " + strings.Join(r.Failures, "; ")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.Name, r.Scenario, r.Steps, status, r.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	passed, failed := automation.Summary(results)
	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(results))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := automation.NewRunner(nil)
	if trials > 0 {
		return monteCarlo(ctx, runner, base)
	}

	if _, ok := automation.Params[param]; !ok {
		return fmt.Errorf("unknown parameter %q (available: %s)", param, strings.Join(automation.ParamNames(), ", "))
	}
	results, err := runner.RunSweep(ctx, &automation.ParameterSweep{
		Base:    base,
		Param:   param,
		Min:     paramMin,
		Max:     paramMax,
		Steps:   paramSteps,
		Workers: workers,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\n%s\tSTEPS\tERRORS", strings.ToUpper(param))
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%d", r.Value, r.Steps, r.Errors)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4g", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func monteCarlo(ctx context.Context, runner *automation.Runner, base *config.Config) error {
	results, err := runner.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:       base,
		Balls:      balls,
		Trials:     trials,
		Seed:       base.Seed,
		Workers:    workers,
		MaxOverlap: 5,
	})
	if err != nil {
		return err
	}

	worst := 0.0
	for _, r := range results {
		worst = max(worst, r.Penetration)
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\ntrials: %d\n", len(results))
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	fmt.Printf("worst penetration: %.3f\n", worst)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(axes) == 0 {
		return fmt.Errorf("at least one --param is required (available: %s)", strings.Join(automation.ParamNames(), ", "))
	}
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	grid := make([]optim.Axis, 0, len(axes))
	for _, a := range axes {
		axis, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		grid = append(grid, axis)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := optim.NewGridSearch(grid...)
	search.SetLimit(workers)
	fmt.Printf("searching %d grid points for lowest %s...\n", len(search.Points()), minimize)
	best, err := search.Search(ctx, base, minimize)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated: %d\n", best.Evaluated)
	fmt.Printf("%s: %.6g\n", minimize, best.Value)
	for _, axis := range grid {
		fmt.Printf("  %s = %.4g\n", axis.Name, best.Params[axis.Name])
	}
	return nil
}

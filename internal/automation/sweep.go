package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/mechsim/internal/config"
)

// Setter writes one swept parameter into a config.
type Setter func(cfg *config.Config, v float64)

// Params are the parameters a sweep can vary.
var Params = map[string]Setter{
	"elasticity": setElasticity,
	"friction":   setFriction,
	"gravity":    func(c *config.Config, v float64) { c.Gravity = v },
	"motor_rate": func(c *config.Config, v float64) { c.Car.MotorRate = v },
	"iterations": func(c *config.Config, v float64) { c.Solver.Iterations = int(v) },
	"dt":         func(c *config.Config, v float64) { c.Dt = v },
}

// ParamNames lists Params in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func setElasticity(c *config.Config, v float64) {
	for i := range c.Bodies {
		c.Bodies[i].Elasticity = v
	}
	for i := range c.Slope.Blocks {
		c.Slope.Blocks[i].Elasticity = v
	}
	c.Walls.Elasticity = v
	c.Pendulum.Elasticity = v
	c.Centripetal.Elasticity = v
	c.Slope.Elasticity = v
}

func setFriction(c *config.Config, v float64) {
	for i := range c.Bodies {
		c.Bodies[i].Friction = v
	}
	for i := range c.Slope.Blocks {
		c.Slope.Blocks[i].Friction = v
	}
	c.Walls.Friction = v
	c.Centripetal.Friction = v
	c.Slope.Friction = v
	c.Car.Friction = v
}

// ParameterSweep varies one parameter linearly over [Min, Max].
type ParameterSweep struct {
	Base    *config.Config
	Param   string
	Min     float64
	Max     float64
	Steps   int
	Workers int
}

type SweepResult struct {
	Value   float64
	Steps   int
	Metrics map[string]float64
	Errors  int
}

// Values returns the swept parameter values.
func (s *ParameterSweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep runs every value in parallel and returns results in value
// order.
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	set, ok := Params[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q", sweep.Param)
	}

	values := sweep.Values()
	configs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		set(cfg, v)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		configs[i] = cfg
	}

	runs, err := r.ensemble(ctx, configs, sweep.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, res := range runs {
		results[i] = SweepResult{Value: values[i], Steps: res.StepsTaken, Metrics: res.Metrics, Errors: len(res.Errors)}
		fmt.Fprintf(r.Out, "Sweep %d/%d: %s=%.4f\n", i+1, len(runs), sweep.Param, values[i])
	}
	return results, nil
}

// MonteCarloConfig reruns a scene with RandomBalls under successive
// seeds.
type MonteCarloConfig struct {
	Base       *config.Config
	Balls      int
	Trials     int
	Seed       int64
	Workers    int
	MaxOverlap float64
}

type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	Penetration float64
	Stable      bool
}

// RunMonteCarlo marks a trial unstable when a body state went non-finite
// or the deepest overlap exceeded MaxOverlap.
func (r *Runner) RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	configs := make([]*config.Config, mc.Trials)
	for i := range configs {
		cfg := mc.Base.Clone()
		cfg.RandomBalls = mc.Balls
		cfg.Seed = mc.Seed + int64(i)
		configs[i] = cfg
	}

	runs, err := r.ensemble(ctx, configs, mc.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		pen := res.Metrics["max_penetration"]
		results[i] = MonteCarloResult{
			TrialID:     i,
			Seed:        configs[i].Seed,
			Penetration: pen,
			Stable:      len(res.Errors) == 0 && (mc.MaxOverlap <= 0 || pen <= mc.MaxOverlap),
		}
		if (i+1)%10 == 0 {
			fmt.Fprintf(r.Out, "Monte Carlo: %d/%d trials complete\n", i+1, len(runs))
		}
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stable, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}

// Package optim searches scene parameters for the values that minimise a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/mechsim/internal/automation"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/sim"
)

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=min:max:steps", or "name=v" for a single value.
func ParseAxis(s string) (Axis, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return Axis{}, fmt.Errorf("axis %q: want name=min:max:steps", s)
	}
	if _, known := automation.Params[name]; !known {
		return Axis{}, fmt.Errorf("axis %q: unknown parameter %s", s, name)
	}

	parts := strings.Split(spec, ":")
	nums := make([]float64, 0, 3)
	for _, p := range parts[:min(len(parts), 2)] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		nums = append(nums, v)
	}

	switch len(parts) {
	case 1:
		return Axis{Name: name, Values: nums}, nil
	case 3:
		steps, err := strconv.Atoi(parts[2])
		if err != nil || steps < 1 {
			return Axis{}, fmt.Errorf("axis %q: steps must be a positive integer", s)
		}
		sweep := automation.ParameterSweep{Min: nums[0], Max: nums[1], Steps: steps}
		return Axis{Name: name, Values: sweep.Values()}, nil
	}
	return Axis{}, fmt.Errorf("axis %q: want name=min:max:steps", s)
}

type GridSearch struct {
	axes    []Axis
	workers int
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// SetLimit caps the number of scenes run at once.
func (g *GridSearch) SetLimit(n int) { g.workers = n }

// Points enumerates the grid with the last axis varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.collect(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		*out = append(*out, current)
		return
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val
		g.collect(depth+1, next, out)
	}
}

// Best is the winning grid point.
type Best struct {
	Params    map[string]float64
	Value     float64
	// Evaluated counts the points that produced a usable metric.
	Evaluated int
}

// Search runs every grid point from base and returns the one with the
// lowest metric. Points whose run reported an error are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Best, error) {
	registry := experiment.NewRegistry()
	if !slices.Contains(registry.ListMetrics(), metricName) {
		return Best{}, fmt.Errorf("unknown metric: %s", metricName)
	}

	points := g.Points()
	configs := make([]*config.Config, len(points))
	for i, p := range points {
		cfg := base.Clone()
		for name, v := range p {
			automation.Params[name](cfg, v)
		}
		if err := cfg.Validate(); err != nil {
			return Best{}, fmt.Errorf("grid point %v: %w", p, err)
		}
		configs[i] = cfg
	}

	ensemble := sim.NewEnsemble(configs, func(s *scenario.Scene) []sim.Metric {
		m, _ := registry.GetMetric(metricName, s)
		return []sim.Metric{m}
	})
	ensemble.SetLimit(g.workers)
	results, err := ensemble.Run(ctx)
	if err != nil {
		return Best{}, err
	}

	best := Best{Value: math.Inf(1)}
	for i, res := range results {
		if len(res.Errors) > 0 {
			continue
		}
		val, ok := res.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			continue
		}
		best.Evaluated++
		if val < best.Value {
			best.Value = val
			best.Params = points[i]
		}
	}
	if best.Params == nil {
		return best, fmt.Errorf("no grid point produced %s", metricName)
	}
	return best, nil
}

package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/metrics"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/sim"
)

// MetricFactory builds a fresh metric for a scene.
type MetricFactory func(s *scenario.Scene) sim.Metric

type Registry struct {
	metrics map[string]MetricFactory
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]MetricFactory)}

	r.metrics["kinetic_energy"] = func(*scenario.Scene) sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["energy_drift"] = func(s *scenario.Scene) sim.Metric { return metrics.NewEnergyDrift(Gravity(s)) }
	r.metrics["pin_drift"] = func(*scenario.Scene) sim.Metric { return metrics.NewPinDrift() }
	r.metrics["radius_deviation"] = func(*scenario.Scene) sim.Metric { return metrics.NewRadiusDeviation() }
	r.metrics["max_penetration"] = func(*scenario.Scene) sim.Metric { return metrics.NewMaxPenetration() }
	r.metrics["momentum"] = func(*scenario.Scene) sim.Metric { return metrics.NewMomentum() }

	return r
}

// Register adds or replaces a named metric.
func (r *Registry) Register(name string, fn MetricFactory) { r.metrics[name] = fn }

// GetConfig returns a copy of a named preset.
func (r *Registry) GetConfig(scenarioName, preset string) (*config.Config, error) {
	if _, err := scenario.ParseKind(scenarioName); err != nil {
		return nil, err
	}
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(scenarioName, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q for scenario %s", preset, scenarioName)
	}
	return cfg, nil
}

func (r *Registry) GetMetric(name string, s *scenario.Scene) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(s), nil
}

// Metrics resolves names in order.
func (r *Registry) Metrics(names []string, s *scenario.Scene) ([]sim.Metric, error) {
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListScenarios() []string {
	return append([]string(nil), config.Scenarios...)
}

// DefaultMetrics picks the metrics that mean something for s.
func (r *Registry) DefaultMetrics(s *scenario.Scene) []sim.Metric {
	out := []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMomentum(),
		metrics.NewMaxPenetration(),
	}
	if len(s.Motors()) == 0 {
		out = append(out, metrics.NewEnergyDrift(Gravity(s)))
	}
	if len(s.Pins()) > 0 {
		out = append(out, metrics.NewPinDrift())
	}
	if s.Tracker() != nil {
		out = append(out, metrics.NewRadiusDeviation())
	}
	return out
}

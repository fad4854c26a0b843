package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/sim"
)

// Config selects a scene and overrides parts of it. Zero fields keep the
// scene's own values.
type Config struct {
	Scenario string
	Preset   string
	File     string
	Dt       float64
	Duration float64
	Seed     int64
	Metrics  []string
}

// Resolve loads File when set, otherwise the named preset, and applies the
// overrides.
func (c Config) Resolve(r *Registry) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.File != "" {
		cfg, err = config.Load(c.File)
	} else {
		cfg, err = r.GetConfig(c.Scenario, c.Preset)
	}
	if err != nil {
		return nil, err
	}

	if c.Dt > 0 {
		cfg.Dt = c.Dt
	}
	if c.Duration > 0 {
		cfg.Duration = c.Duration
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the scene and attaches metrics.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	scene, err := scenario.New(e.cfg)
	if err != nil {
		return err
	}
	e.simulator = sim.New(scene)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

// SetupDefault builds the scene with the registry's default metrics for
// it, or the named ones when given.
func (e *Experiment) SetupDefault(r *Registry, names []string) error {
	if err := e.Setup(nil); err != nil {
		return err
	}
	scene := e.simulator.Scene()
	ms := r.DefaultMetrics(scene)
	if len(names) > 0 {
		var err error
		if ms, err = r.Metrics(names, scene); err != nil {
			return err
		}
	}
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.ConfigFor(e.cfg))
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Gravity is the scene's uniform gravity in kernel coordinates.
func Gravity(s *scenario.Scene) dynamo.Vec2 {
	return s.Space().ToWorldVector(0, s.Config().Gravity)
}

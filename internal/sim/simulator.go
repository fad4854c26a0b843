package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/screen"
)

// Simulator drives a scene headlessly with a fixed timestep.
type Simulator struct {
	scene     *scenario.Scene
	input     control.InputState
	metrics   []Metric
	observers []Observer
}

func New(scene *scenario.Scene) *Simulator {
	return &Simulator{
		scene:     scene,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetInput fixes the toggles applied on every step.
func (s *Simulator) SetInput(in control.InputState) { s.input = in }

func (s *Simulator) Scene() *scenario.Scene { return s.scene }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := max(cfg.SampleEvery, 1)
	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if !cfg.SkipFrames {
		result.Frames = make([]screen.Frame, 0, steps/every+1)
		result.Times = make([]float64, 0, steps/every+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.scene.World()
	s.record(result, cfg)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.scene.Update(s.input, cfg.Dt)

		if cfg.ValidateState {
			if err := checkFinite(w, i); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(w)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, i)
		}
		if (i+1)%every == 0 {
			s.record(result, cfg)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) record(r *Result, cfg Config) {
	if cfg.SkipFrames {
		return
	}
	f := s.scene.Frame()
	r.Frames = append(r.Frames, f)
	r.Times = append(r.Times, f.Time)
}

func (s *Simulator) validateConfig(cfg Config) error {
	if math.IsNaN(cfg.Dt) || cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if math.IsNaN(cfg.Duration) || cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func checkFinite(w *dynamo.World, step int) error {
	for _, b := range w.Bodies() {
		p, v := b.Position(), b.Velocity()
		for _, x := range []float64{p[0], p[1], v[0], v[1], b.Angle(), b.AngularVelocity()} {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return SimError{Step: step, Time: w.Time(), Message: fmt.Sprintf("body %d state is not finite", b.ID())}
			}
		}
	}
	return nil
}

// RunWithCallback steps until Duration elapses, the context ends or the
// callback returns false. The callback sees the frame before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(screen.Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	w := s.scene.World()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.scene.Frame()) {
			return nil
		}

		s.scene.Update(s.input, cfg.Dt)

		if cfg.ValidateState {
			if err := checkFinite(w, i); err != nil {
				return err
			}
		}
	}

	return nil
}

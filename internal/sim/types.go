package sim

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/screen"
)

// Metric accumulates a scalar over a run. Observe is called after every
// step.
type Metric interface {
	Name() string
	Observe(w *dynamo.World)
	Value() float64
	Reset()
}

// Observer is notified after every step.
type Observer interface {
	OnStep(w *dynamo.World, step int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(w *dynamo.World, step int)

func (f ObserverFunc) OnStep(w *dynamo.World, step int) { f(w, step) }

type Config struct {
	Dt       float64
	Duration float64
	// SampleEvery records one frame per this many steps; values below 1
	// record every step.
	SampleEvery int
	// SkipFrames disables frame recording entirely.
	SkipFrames    bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            config.DefaultDt,
		Duration:      config.DefaultDuration,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// ConfigFor takes the timing of a scene config.
func ConfigFor(c *config.Config) Config {
	cfg := DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	return cfg
}

type Result struct {
	Frames     []screen.Frame
	Times      []float64
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

// Final returns the last recorded frame.
func (r *Result) Final() (screen.Frame, bool) {
	if len(r.Frames) == 0 {
		return screen.Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// SimError reports a step whose outcome could not be used.
type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

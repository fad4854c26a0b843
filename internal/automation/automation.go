package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/storage"
)

// Suite is a scripted list of runs, loaded from YAML.
type Suite struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Runs        []RunSpec `yaml:"runs"`
}

// RunSpec is one run of a suite. Expect bounds metrics; a run whose metric
// falls outside its bound is reported as failed.
type RunSpec struct {
	Name     string           `yaml:"name"`
	Scenario string           `yaml:"scenario"`
	Preset   string           `yaml:"preset"`
	File     string           `yaml:"file"`
	Duration float64          `yaml:"duration"`
	Dt       float64          `yaml:"dt"`
	Seed     int64            `yaml:"seed"`
	Metrics  []string         `yaml:"metrics"`
	Expect   map[string]Bound `yaml:"expect"`
	Save     bool             `yaml:"save"`
}

// Bound is an inclusive range; a nil end is open.
type Bound struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

func (b Bound) check(v float64) bool {
	return (b.Min == nil || v >= *b.Min) && (b.Max == nil || v <= *b.Max)
}

type RunResult struct {
	Name     string
	Scenario string
	Steps    int
	Metrics  map[string]float64
	RunID    string
	Failures []string
}

func (r RunResult) Passed() bool { return len(r.Failures) == 0 }

func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(suite.Runs) == 0 {
		return nil, fmt.Errorf("suite %s has no runs", path)
	}
	return &suite, nil
}

// Runner executes suites and sweeps. Store may be nil, in which case runs
// are not saved.
type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store
	Out      io.Writer
}

func NewRunner(store *storage.Store) *Runner {
	return &Runner{Registry: experiment.NewRegistry(), Store: store, Out: os.Stdout}
}

// RunSuite executes every run in order. A failed expectation does not stop
// the suite; an error building or stepping a scene does.
func (r *Runner) RunSuite(ctx context.Context, suite *Suite) ([]RunResult, error) {
	results := make([]RunResult, 0, len(suite.Runs))

	for i, spec := range suite.Runs {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("run %d", i+1)
		}
		fmt.Fprintf(r.Out, "Running %d/%d: %s\n", i+1, len(suite.Runs), name)

		cfg, err := experiment.Config{
			Scenario: spec.Scenario,
			Preset:   spec.Preset,
			File:     spec.File,
			Dt:       spec.Dt,
			Duration: spec.Duration,
			Seed:     spec.Seed,
		}.Resolve(r.Registry)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		exp := experiment.New(cfg)
		if err := exp.SetupDefault(r.Registry, spec.Metrics); err != nil {
			return results, fmt.Errorf("%s setup: %w", name, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		out := RunResult{Name: name, Scenario: cfg.Scenario, Steps: res.StepsTaken, Metrics: res.Metrics}
		for _, e := range res.Errors {
			out.Failures = append(out.Failures, e.Error())
		}
		for _, metric := range sortedKeys(spec.Expect) {
			v, ok := res.Metrics[metric]
			switch {
			case !ok:
				out.Failures = append(out.Failures, fmt.Sprintf("metric %s was not recorded", metric))
			case !spec.Expect[metric].check(v):
				out.Failures = append(out.Failures, fmt.Sprintf("%s = %.6g out of bounds", metric, v))
			}
		}

		if spec.Save && r.Store != nil {
			if out.RunID, err = r.Store.Save(cfg, res); err != nil {
				return results, fmt.Errorf("%s save: %w", name, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

func sortedKeys(m map[string]Bound) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary counts passed and failed runs.
func Summary(results []RunResult) (passed, failed int) {
	for _, r := range results {
		if r.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return
}

func (r *Runner) metricFactory() sim.MetricFactory {
	return func(s *scenario.Scene) []sim.Metric { return r.Registry.DefaultMetrics(s) }
}

// ensemble runs configs in parallel with the default metrics for each.
func (r *Runner) ensemble(ctx context.Context, configs []*config.Config, workers int) ([]*sim.Result, error) {
	e := sim.NewEnsemble(configs, r.metricFactory())
	e.SetLimit(workers)
	return e.Run(ctx)
}

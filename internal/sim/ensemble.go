package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/scenario"
)

// MetricFactory returns fresh metrics for one member of an ensemble.
type MetricFactory func(scene *scenario.Scene) []Metric

// Ensemble runs independent scenes in parallel. Each member owns its world,
// so no state is shared between goroutines.
type Ensemble struct {
	configs []*config.Config
	metrics MetricFactory
	limit   int
	frames  bool
}

func NewEnsemble(configs []*config.Config, metrics MetricFactory) *Ensemble {
	return &Ensemble{configs: configs, metrics: metrics, limit: -1}
}

// SetLimit caps the number of members running at once; n <= 0 removes the
// cap.
func (e *Ensemble) SetLimit(n int) {
	if n <= 0 {
		n = -1
	}
	e.limit = n
}

// KeepFrames records frames for every member. Off by default.
func (e *Ensemble) KeepFrames(on bool) { e.frames = on }

// Run returns one result per config, in config order. The first failure
// cancels the remaining members.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.configs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, cfg := range e.configs {
		g.Go(func() error {
			scene, err := scenario.New(cfg)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			s := New(scene)
			if e.metrics != nil {
				for _, m := range e.metrics(scene) {
					s.AddMetric(m)
				}
			}
			simCfg := ConfigFor(cfg)
			simCfg.SkipFrames = !e.frames
			res, err := s.Run(ctx, simCfg)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

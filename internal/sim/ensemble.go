package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent sessions with consecutive seeds in parallel.
// Sessions share nothing, so each gets its own script and metrics from the
// factories.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64

	NewScript  func() Script
	NewMetrics func() []Metric
	Options    []Option
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, rc RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(i)

			s, err := NewSession(cfg, e.Options...)
			if err != nil {
				return err
			}
			if e.NewMetrics != nil {
				for _, m := range e.NewMetrics() {
					s.AddMetric(m)
				}
			}
			var script Script
			if e.NewScript != nil {
				script = e.NewScript()
			}

			results[i], err = s.Run(ctx, rc, script)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

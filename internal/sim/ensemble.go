package sim

import (
	"context"
	"sync"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
)

// Ensemble runs independent headless simulations that differ only in seed.
type Ensemble struct {
	opts      Options
	numRuns   int
	seedStart int64
}

type EnsembleResult struct {
	Seed    int64
	Stats   []dynamo.Stats
	Summary metrics.Summary
}

func NewEnsemble(opts Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{opts: opts, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, ticks int, ctrl dynamo.Control) ([]EnsembleResult, error) {
	results := make([]EnsembleResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			opts := e.opts
			opts.Seed = e.seedStart + int64(idx)

			s, err := New(opts)
			if err != nil {
				errs[idx] = err
				return
			}
			stats, err := s.Advance(ctx, ticks, Fixed(ctrl))
			results[idx] = EnsembleResult{Seed: opts.Seed, Stats: stats, Summary: metrics.Summarize(stats)}
			errs[idx] = err
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Pool merges every run's snapshots into one summary.
func Pool(results []EnsembleResult) metrics.Summary {
	all := make([]dynamo.Stats, 0)
	for _, r := range results {
		all = append(all, r.Stats...)
	}
	return metrics.Summarize(all)
}

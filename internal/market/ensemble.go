package market

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// RunResult summarises one seeded run.
type RunResult struct {
	Seed        uint64
	Final       Snapshot
	Graduated   bool
	GraduatedAt time.Duration
}

// Ensemble runs the same parameters under consecutive seeds in virtual time.
type Ensemble struct {
	params    Params
	numRuns   int
	seedStart uint64
}

func NewEnsemble(p Params, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart}
}

// Run advances every run by span, one market-cap interval at a time, in parallel.
func (e *Ensemble) Run(ctx context.Context, span time.Duration) ([]RunResult, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("%w: need at least one run", ErrInvalidAmount)
	}
	if err := e.params.Validate(); err != nil {
		return nil, err
	}

	results := make([]RunResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, e.seedStart+uint64(idx), span)
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

func (e *Ensemble) runOne(ctx context.Context, seed uint64, span time.Duration) (RunResult, error) {
	eng, err := NewEngine(e.params, WithRand(NewRand(seed)))
	if err != nil {
		return RunResult{}, err
	}
	res := RunResult{Seed: seed, GraduatedAt: -1}
	step := e.params.MarketCapInterval
	for elapsed := time.Duration(0); elapsed < span; {
		if err := ctx.Err(); err != nil {
			return RunResult{}, fmt.Errorf("run %d: %w", seed, err)
		}
		eng.Elapse(step)
		elapsed += step
		if !res.Graduated && eng.Snapshot().Graduated {
			res.Graduated, res.GraduatedAt = true, elapsed
		}
	}
	res.Final = eng.Snapshot()
	return res, nil
}

// GraduationTimes returns the sorted graduation times of the runs that graduated.
func GraduationTimes(rs []RunResult) []time.Duration {
	var out []time.Duration
	for _, r := range rs {
		if r.Graduated {
			out = append(out, r.GraduatedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

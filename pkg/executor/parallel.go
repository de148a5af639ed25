package executor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stevelan1995/stepflow/pkg/cache"
	"github.com/stevelan1995/stepflow/pkg/dag"
	"github.com/stevelan1995/stepflow/pkg/result"
	"github.com/stevelan1995/stepflow/pkg/step"
)

// Parallel runs a DAG's steps one level at a time (§4.6): every step in
// level k completes before any step in level k+1 starts. Within a
// level, steps run as goroutines bounded by MaxThreads (0 means
// unbounded), generalizing the teacher's worker-pool-via-buffered-
// channel idiom from pkg/core/executor/executor.go.
//
// Cancellation policy on sibling failure is drain-and-fail (§4.6, §9
// Open Question 4): in-flight siblings in the failing level are allowed
// to finish and their results are retained in the partial Result; no
// later level is started.
type Parallel struct {
	log        zerolog.Logger
	maxThreads int
}

// NewParallel returns a Parallel executor. maxThreads <= 0 means
// unbounded concurrency within a level.
func NewParallel(log zerolog.Logger, maxThreads int) *Parallel {
	return &Parallel{log: log, maxThreads: maxThreads}
}

// Execute walks dag.Levels(), running each level's steps concurrently
// against a snapshot of the outputs accumulated through the prior
// level barrier.
func (e *Parallel) Execute(ctx context.Context, d *dag.DAG, initialInput any, hasInitial bool, c cache.Base, force bool) (*result.Result, error) {
	levels, err := d.Levels()
	if err != nil {
		return nil, err
	}

	res := result.New()
	res.StartedAt = time.Now()
	outputs := make(map[string]any)

	for _, level := range levels {
		snapshot := make(map[string]any, len(outputs))
		for k, v := range outputs {
			snapshot[k] = v
		}

		levelResults := e.runLevel(ctx, level, snapshot, initialInput, hasInitial, c, force)

		var failing *result.StepResult
		for i, sr := range levelResults {
			res.Add(sr)
			switch {
			case sr.IsFailed() || sr.IsTimedOut():
				if failing == nil {
					failing = &levelResults[i]
				}
			case sr.IsSkipped():
				outputs[sr.Name] = nil
			default:
				outputs[sr.Name] = sr.Output
			}
		}

		if failing != nil {
			res.FinishedAt = time.Now()
			res.Duration = res.FinishedAt.Sub(res.StartedAt)
			return res, &StepError{StepName: failing.Name, Err: errFor(*failing), Partial: res}
		}
	}

	res.FinishedAt = time.Now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	return res, nil
}

// runLevel runs every step in level concurrently. Each goroutine writes
// only to its own index of results, so no synchronization is needed
// beyond the WaitGroup barrier — the "per-level collect-then-merge"
// pattern §9 DESIGN NOTES prescribes in place of a shared mutable map.
func (e *Parallel) runLevel(ctx context.Context, level []*step.Step, snapshot map[string]any, initialInput any, hasInitial bool, c cache.Base, force bool) []result.StepResult {
	results := make([]result.StepResult, len(level))

	var sem chan struct{}
	if e.maxThreads > 0 {
		sem = make(chan struct{}, e.maxThreads)
	}

	var wg sync.WaitGroup
	for i, s := range level {
		wg.Add(1)
		go func(i int, s *step.Step) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			in := buildInput(s, snapshot, initialInput, hasInitial)
			e.log.Debug().Str("step", s.Name()).Msg("step.started")
			results[i] = runStep(ctx, s, in, c, force, e.log)
		}(i, s)
	}
	wg.Wait()

	return results
}

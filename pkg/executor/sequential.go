package executor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stevelan1995/stepflow/pkg/cache"
	"github.com/stevelan1995/stepflow/pkg/dag"
	"github.com/stevelan1995/stepflow/pkg/result"
)

// Sequential runs a DAG's steps one at a time in topological order
// (§4.5). Steps are started one at a time; the only overlap is a
// timed-out callable that ignores ctx.Done() and keeps running in the
// background (see runStep).
type Sequential struct {
	log zerolog.Logger
}

// NewSequential returns a Sequential executor logging through log (the
// zero value zerolog.Logger is a no-op, so logging is silent by default).
func NewSequential(log zerolog.Logger) *Sequential {
	return &Sequential{log: log}
}

// Execute walks dag.SortedSteps(), building each step's input from the
// outputs accumulated so far, and aborts on the first failure.
func (e *Sequential) Execute(ctx context.Context, d *dag.DAG, initialInput any, hasInitial bool, c cache.Base, force bool) (*result.Result, error) {
	sorted, err := d.SortedSteps()
	if err != nil {
		return nil, err
	}

	res := result.New()
	res.StartedAt = time.Now()
	outputs := make(map[string]any, len(sorted))

	for _, s := range sorted {
		in := buildInput(s, outputs, initialInput, hasInitial)
		e.log.Debug().Str("step", s.Name()).Msg("step.started")

		sr := runStep(ctx, s, in, c, force, e.log)
		res.Add(sr)

		if sr.IsFailed() || sr.IsTimedOut() {
			res.FinishedAt = time.Now()
			res.Duration = res.FinishedAt.Sub(res.StartedAt)
			return res, &StepError{StepName: sr.Name, Err: errFor(sr), Partial: res}
		}

		if sr.IsSkipped() {
			outputs[s.Name()] = nil
		} else {
			outputs[s.Name()] = sr.Output
		}
	}

	res.FinishedAt = time.Now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	return res, nil
}

func errFor(sr result.StepResult) error {
	if sr.Err != nil {
		return sr.Err
	}
	return &TimeoutError{Step: sr.Name, Elapsed: sr.Duration}
}

// Package schedule wires a Pipeline to github.com/robfig/cron/v3 for
// local recurring re-execution, exercising a dependency the teacher
// declares in go.mod but never wires into any running code.
package schedule

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/stevelan1995/stepflow/pkg/pipeline"
	"github.com/stevelan1995/stepflow/pkg/result"
)

// RunFunc is called after every scheduled run, successful or not.
type RunFunc func(res *result.Result, err error)

// Scheduler runs a Pipeline on a cron schedule until Stop is called.
type Scheduler struct {
	c   *cron.Cron
	log zerolog.Logger

	mu      sync.Mutex
	lastRes *result.Result
	lastErr error
}

// New returns a Scheduler logging through log (zero value is silent).
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{c: cron.New(), log: log}
}

// Schedule registers p to run on spec (a standard 5-field cron
// expression) using opts for every run, invoking onRun (if non-nil)
// after each one. It returns the entry ID, usable with Remove.
func (s *Scheduler) Schedule(ctx context.Context, spec string, p *pipeline.Pipeline, opts pipeline.RunOptions, onRun RunFunc) (cron.EntryID, error) {
	return s.c.AddFunc(spec, func() {
		res, err := p.Run(ctx, opts)

		s.mu.Lock()
		s.lastRes, s.lastErr = res, err
		s.mu.Unlock()

		if err != nil {
			s.log.Warn().Err(err).Msg("schedule.run_failed")
		} else {
			s.log.Info().Msg("schedule.run_succeeded")
		}
		if onRun != nil {
			onRun(res, err)
		}
	})
}

// Remove cancels a previously scheduled entry.
func (s *Scheduler) Remove(id cron.EntryID) { s.c.Remove(id) }

// Start begins running scheduled entries in the background.
func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the scheduler without waiting; the returned context is done
// once any in-flight run has finished.
func (s *Scheduler) Stop() context.Context { return s.c.Stop() }

// Last returns the result and error from the most recent scheduled run.
func (s *Scheduler) Last() (*result.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRes, s.lastErr
}

// Package result defines the per-step and aggregate execution records
// produced by a pipeline run.
package result

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal state of a single step's attempt at running.
type Status string

const (
	Success  Status = "success"
	Failed   Status = "failed"
	Skipped  Status = "skipped"
	TimedOut Status = "timed_out"
)

// StepResult records the outcome of a single step within one run.
type StepResult struct {
	Name       string
	Status     Status
	Output     any
	Err        error
	Retries    int
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// Succeeded builds a success StepResult.
func Succeeded(name string, output any, duration time.Duration, startedAt, finishedAt time.Time, retries int) StepResult {
	return StepResult{
		Name: name, Status: Success, Output: output,
		Retries: retries, StartedAt: startedAt, FinishedAt: finishedAt, Duration: duration,
	}
}

// Failure builds a failed StepResult.
func Failure(name string, err error, duration time.Duration, startedAt, finishedAt time.Time, retries int) StepResult {
	return StepResult{
		Name: name, Status: Failed, Err: err,
		Retries: retries, StartedAt: startedAt, FinishedAt: finishedAt, Duration: duration,
	}
}

// SkippedResult builds a skipped StepResult; skipped steps never produce
// an output and are not retried.
func SkippedResult(name string, startedAt, finishedAt time.Time) StepResult {
	return StepResult{
		Name: name, Status: Skipped,
		StartedAt: startedAt, FinishedAt: finishedAt, Duration: finishedAt.Sub(startedAt),
	}
}

// TimedOutResult builds a timed_out StepResult.
func TimedOutResult(name string, duration time.Duration, startedAt, finishedAt time.Time, retries int) StepResult {
	return StepResult{
		Name: name, Status: TimedOut,
		Retries: retries, StartedAt: startedAt, FinishedAt: finishedAt, Duration: duration,
	}
}

func (r StepResult) IsSuccess() bool  { return r.Status == Success }
func (r StepResult) IsFailed() bool   { return r.Status == Failed }
func (r StepResult) IsSkipped() bool  { return r.Status == Skipped }
func (r StepResult) IsTimedOut() bool { return r.Status == TimedOut }

// ToMap yields a flat mapping suitable for serialization.
func (r StepResult) ToMap() map[string]any {
	m := map[string]any{
		"name":        r.Name,
		"status":      string(r.Status),
		"output":      r.Output,
		"retries":     r.Retries,
		"started_at":  r.StartedAt,
		"finished_at": r.FinishedAt,
		"duration":    r.Duration,
	}
	if r.Err != nil {
		m["error"] = r.Err.Error()
	}
	return m
}

// Result aggregates every StepResult produced during one run, in
// insertion order.
type Result struct {
	RunID      string
	Order      []string
	Steps      map[string]StepResult
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// New returns an empty Result, tagged with a fresh run identifier,
// ready to accumulate StepResults.
func New() *Result {
	return &Result{RunID: uuid.NewString(), Steps: make(map[string]StepResult)}
}

// Add records r, appending its name to Order if not already present.
func (res *Result) Add(r StepResult) {
	if _, exists := res.Steps[r.Name]; !exists {
		res.Order = append(res.Order, r.Name)
	}
	res.Steps[r.Name] = r
}

// IsSuccess reports whether every recorded StepResult is success or
// skipped — a failed or timed_out entry anywhere fails the whole run.
func (res *Result) IsSuccess() bool {
	for _, name := range res.Order {
		s := res.Steps[name]
		if s.IsFailed() || s.IsTimedOut() {
			return false
		}
	}
	return true
}

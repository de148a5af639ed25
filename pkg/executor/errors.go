package executor

import (
	"fmt"
	"time"

	"github.com/stevelan1995/stepflow/pkg/result"
)

// TimeoutError is produced by the retry loop when a step's callable
// exceeds its configured Timeout. It is never written to the cache.
type TimeoutError struct {
	Step    string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("executor: step %q exceeded its timeout after %s", e.Step, e.Elapsed)
}

// StepError is the error an Executor returns when a step's retries are
// exhausted (or it times out after exhausting retries). It carries the
// partial Result so callers can inspect every step that did complete.
type StepError struct {
	StepName string
	Err      error
	Partial  *result.Result
}

func (e *StepError) Error() string {
	return fmt.Sprintf("executor: step %q failed: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

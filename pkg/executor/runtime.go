package executor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stevelan1995/stepflow/pkg/cache"
	"github.com/stevelan1995/stepflow/pkg/result"
	"github.com/stevelan1995/stepflow/pkg/step"
)

// runStep implements the shared per-step runtime from §4.4: cache
// lookup, conditional (if/unless) evaluation, then the retry/timeout
// loop, generalizing the teacher's executeTask (context.WithTimeout +
// fixed 1<<retryCount backoff) into the three configurable schedules
// this engine supports.
//
// Timeout enforcement is cooperative: the callable runs in its own
// goroutine and the loop races it against the deadline, but a callable
// that ignores ctx.Done() keeps running in the background. This is one
// of the two strategies §9 DESIGN NOTES sanctions for targets without
// safe thread interruption; the other (subprocess isolation) is not
// worth the overhead for an in-process library.
func runStep(ctx context.Context, s *step.Step, in step.Input, c cache.Base, force bool, log zerolog.Logger) result.StepResult {
	opts := s.Options()
	key := cacheKeyFor(ctx, s, in)

	if opts.Cache && !force && c != nil {
		if cached, err := c.Read(ctx, key); err == nil && cached != nil {
			log.Debug().Str("step", s.Name()).Str("key", key).Msg("cache.hit")
			now := time.Now()
			status := result.Success
			if cached.Skipped {
				status = result.Skipped
			}
			return result.StepResult{
				Name: s.Name(), Status: status, Output: cached.Output,
				StartedAt: now, FinishedAt: now,
			}
		}
		log.Debug().Str("step", s.Name()).Str("key", key).Msg("cache.miss")
	}

	if shouldSkip(ctx, opts, in) {
		now := time.Now()
		if opts.Cache && c != nil {
			_ = c.Write(ctx, s.Name(), cache.CachedResult{Status: string(result.Skipped), Skipped: true})
		}
		log.Info().Str("step", s.Name()).Msg("step.skipped")
		return result.SkippedResult(s.Name(), now, now)
	}

	startedAt := time.Now()
	output, retries, err := attemptLoop(ctx, s, in, opts, log)
	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt)

	if err != nil {
		if _, isTimeout := err.(*TimeoutError); isTimeout {
			log.Warn().Str("step", s.Name()).Int("retries", retries).Msg("step.timed_out")
			return result.StepResult{
				Name: s.Name(), Status: result.TimedOut, Err: err,
				Retries: retries, StartedAt: startedAt, FinishedAt: finishedAt, Duration: duration,
			}
		}
		log.Warn().Str("step", s.Name()).Int("retries", retries).Err(err).Msg("step.failed")
		return result.Failure(s.Name(), err, duration, startedAt, finishedAt, retries)
	}

	if opts.Cache && c != nil {
		_ = c.Write(ctx, key, cache.CachedResult{Output: output, Status: string(result.Success), Skipped: false})
	}
	log.Debug().Str("step", s.Name()).Int("retries", retries).Msg("step.succeeded")
	return result.Succeeded(s.Name(), output, duration, startedAt, finishedAt, retries)
}

func cacheKeyFor(ctx context.Context, s *step.Step, in step.Input) string {
	if ck := s.Options().CacheKey; ck != nil {
		return ck(ctx, in)
	}
	return s.Name()
}

func shouldSkip(ctx context.Context, opts step.Options, in step.Input) bool {
	ifVal := true
	if opts.If != nil {
		ifVal = opts.If(ctx, in)
	}
	unlessVal := false
	if opts.Unless != nil {
		unlessVal = opts.Unless(ctx, in)
	}
	return !(ifVal && !unlessVal)
}

// attemptLoop runs s's callable, retrying on failure per opts.Retries /
// opts.RetryDelay / opts.RetryBackoff / opts.RetryIf. attempt is
// 0-indexed and, on success, doubles as the retry count (§4.4: "number
// of retries = attempts - 1" with attempts 1-indexed).
func attemptLoop(ctx context.Context, s *step.Step, in step.Input, opts step.Options, log zerolog.Logger) (any, int, error) {
	attempt := 0
	for {
		out, err := callWithTimeout(ctx, s, in, opts.Timeout)
		if err == nil {
			return out, attempt, nil
		}

		if attempt < opts.Retries && (opts.RetryIf == nil || opts.RetryIf(err)) {
			delay := backoffDelay(opts, attempt+1)
			log.Warn().Str("step", s.Name()).Int("attempt", attempt+1).Dur("delay", delay).Err(err).Msg("step.retrying")
			time.Sleep(delay)
			attempt++
			continue
		}
		return nil, attempt, err
	}
}

func backoffDelay(opts step.Options, k int) time.Duration {
	switch opts.RetryBackoff {
	case step.BackoffLinear:
		return opts.RetryDelay * time.Duration(k)
	case step.BackoffExponential:
		return opts.RetryDelay * time.Duration(int64(1)<<uint(k-1))
	default:
		return opts.RetryDelay
	}
}

// callWithTimeout invokes s's callable directly when no Timeout is set,
// otherwise races it against a context deadline.
func callWithTimeout(ctx context.Context, s *step.Step, in step.Input, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		return s.Call(ctx, in)
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		out any
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := s.Call(cctx, in)
		done <- outcome{out, err}
	}()

	select {
	case o := <-done:
		if o.err != nil && cctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Step: s.Name(), Elapsed: timeout}
		}
		return o.out, o.err
	case <-cctx.Done():
		return nil, &TimeoutError{Step: s.Name(), Elapsed: timeout}
	}
}

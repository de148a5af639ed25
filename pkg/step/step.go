// Package step defines the immutable unit of computation that a DAG is
// built from: a name, an ordered list of dependency names, a callable,
// and a set of recognized options (timeout, retry, conditional, cache).
package step

import (
	"context"
	"fmt"
	"time"
)

// Backoff selects the delay schedule between retry attempts.
type Backoff int

const (
	// BackoffNone waits a constant RetryDelay before every retry.
	BackoffNone Backoff = iota
	// BackoffLinear waits RetryDelay * k before the k-th retry.
	BackoffLinear
	// BackoffExponential waits RetryDelay * 2^(k-1) before the k-th retry.
	BackoffExponential
)

func (b Backoff) String() string {
	switch b {
	case BackoffLinear:
		return "linear"
	case BackoffExponential:
		return "exponential"
	default:
		return "none"
	}
}

// InputKind tags the shape of the value(s) an executor hands to a Func.
type InputKind int

const (
	// InputNone means the step has no dependencies and no initial input
	// was supplied for the run.
	InputNone InputKind = iota
	// InputOne means a single positional value is available: either the
	// run's initial input (for a root step) or the sole dependency's output.
	InputOne
	// InputMany means the step has more than one dependency; Many carries
	// one entry per dependency name.
	InputMany
)

// Input is the tagged variant passed to a step's Func and to its
// predicates (If, Unless, RetryIf's sibling CacheKey). Exactly one of
// One/Many is meaningful, selected by Kind.
type Input struct {
	Kind InputKind
	One  any
	Many map[string]any
}

// Func is the uniform shape every step callable must have.
type Func func(ctx context.Context, in Input) (any, error)

// Options holds the recognized per-step configuration. Zero value means
// no timeout, no retries, no backoff, caching disabled; DefaultOptions
// returns the same settings with caching enabled.
type Options struct {
	Timeout      time.Duration
	Retries      int
	RetryDelay   time.Duration
	RetryBackoff Backoff
	RetryIf      func(error) bool
	If           func(context.Context, Input) bool
	Unless       func(context.Context, Input) bool
	Cache        bool
	CacheKey     func(context.Context, Input) string
}

// DefaultOptions returns the recognized-key defaults from §3: retries 0,
// retry_delay 0, retry_backoff none, cache enabled, no timeout.
func DefaultOptions() Options {
	return Options{Cache: true}
}

// Step is immutable after construction: Name, Dependencies and Options
// are only ever read by a DAG or Executor, never mutated in place.
type Step struct {
	name         string
	dependencies []string
	fn           Func
	options      Options
}

// New constructs a Step. deps is normalized: nil becomes an empty slice,
// order is preserved, duplicates are preserved positionally (the DAG,
// not the Step, is responsible for rejecting duplicate step names).
func New(name string, deps []string, fn Func, opts Options) (*Step, error) {
	if name == "" {
		return nil, fmt.Errorf("step: name must not be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("step %q: callable must not be nil", name)
	}
	if opts.Retries < 0 {
		return nil, fmt.Errorf("step %q: retries must be non-negative, got %d", name, opts.Retries)
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("step %q: timeout must be positive or absent, got %s", name, opts.Timeout)
	}

	normalized := make([]string, len(deps))
	copy(normalized, deps)

	return &Step{
		name:         name,
		dependencies: normalized,
		fn:           fn,
		options:      opts,
	}, nil
}

// Name returns the step's symbolic identifier.
func (s *Step) Name() string { return s.name }

// Dependencies returns a defensive copy of the declared dependency order.
func (s *Step) Dependencies() []string {
	out := make([]string, len(s.dependencies))
	copy(out, s.dependencies)
	return out
}

// Options returns a copy of the step's recognized options.
func (s *Step) Options() Options { return s.options }

// Call invokes the underlying callable with the given input.
func (s *Step) Call(ctx context.Context, in Input) (any, error) {
	return s.fn(ctx, in)
}

// Package pipeline is the facade that binds a DAG, an executor, and a
// cache backend into the single entry point callers use to define and
// run a pipeline, generalizing the teacher's workflow_builder.go /
// Workflow pairing (pkg/core/workflow, pkg/core/builder) from a
// DB-backed named workflow into an in-memory, cache-resumable one.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stevelan1995/stepflow/pkg/cache"
	"github.com/stevelan1995/stepflow/pkg/dag"
	"github.com/stevelan1995/stepflow/pkg/executor"
	"github.com/stevelan1995/stepflow/pkg/result"
	"github.com/stevelan1995/stepflow/pkg/step"
)

// Mode selects which executor Run uses.
type Mode int

const (
	// ModeSequential runs steps one at a time in topological order.
	ModeSequential Mode = iota
	// ModeParallel runs steps one level at a time, concurrently within a level.
	ModeParallel
)

// Pipeline is a validated, runnable DAG of Steps.
type Pipeline struct {
	dag *dag.DAG
	log zerolog.Logger
}

// Define builds a Pipeline by calling fn with a fresh Builder, then
// validating the resulting DAG. Any error recorded on the builder (a
// bad step) or produced by Validate (missing dependency, cycle) is
// returned and the Pipeline is nil.
func Define(fn func(b *Builder)) (*Pipeline, error) {
	b := &Builder{dag: dag.New()}
	fn(b)
	if b.err != nil {
		return nil, b.err
	}
	if err := b.dag.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{dag: b.dag, log: zerolog.Nop()}, nil
}

// WithLogger returns a copy of p logging through log instead of the
// default no-op logger.
func (p *Pipeline) WithLogger(log zerolog.Logger) *Pipeline {
	return &Pipeline{dag: p.dag, log: log}
}

// RunOptions configures a single Run call. The zero value is valid: no
// initial input, sequential execution, no cache, no forced refresh.
type RunOptions struct {
	InitialInput any
	HasInitial   bool
	Mode         Mode
	MaxThreads   int
	Cache        cache.Base
	Force        bool
}

// Run executes the pipeline per opts and returns the aggregate Result.
// A non-nil error is always either a *dag.CycleError / *dag.MissingDependencyError
// (surfaced again here in case the DAG was mutated after Define, which
// it cannot be through this package's API) or an *executor.StepError
// wrapping the first step failure, with Result still populated with
// every step that ran before the abort.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*result.Result, error) {
	if err := p.dag.Validate(); err != nil {
		return nil, err
	}

	switch opts.Mode {
	case ModeParallel:
		return executor.NewParallel(p.log, opts.MaxThreads).Execute(ctx, p.dag, opts.InitialInput, opts.HasInitial, opts.Cache, opts.Force)
	default:
		return executor.NewSequential(p.log).Execute(ctx, p.dag, opts.InitialInput, opts.HasInitial, opts.Cache, opts.Force)
	}
}

// Validate re-checks the underlying DAG (missing dependencies, cycles).
func (p *Pipeline) Validate() error { return p.dag.Validate() }

// ToMermaid renders the pipeline's dependency graph (§4.2/§6).
func (p *Pipeline) ToMermaid() string { return p.dag.ToMermaid() }

// Size returns the number of steps in the pipeline.
func (p *Pipeline) Size() int { return p.dag.Size() }

// Empty reports whether the pipeline has no steps.
func (p *Pipeline) Empty() bool { return p.dag.Empty() }

// Steps returns the pipeline's steps in insertion order.
func (p *Pipeline) Steps() []*step.Step { return p.dag.Steps() }

// Step looks up a single step by name.
func (p *Pipeline) Step(name string) (*step.Step, error) {
	s, ok := p.dag.Get(name)
	if !ok {
		return nil, fmt.Errorf("pipeline: no such step %q", name)
	}
	return s, nil
}

package pipeline

import (
	"github.com/stevelan1995/stepflow/pkg/dag"
	"github.com/stevelan1995/stepflow/pkg/step"
)

// Builder is the explicit handle a Define closure receives, replacing
// the source DSL's implicit-receiver ("instance-eval") convenience per
// §9 DESIGN NOTES: callers call b.Step(...) rather than relying on a
// block evaluated against a hidden self.
type Builder struct {
	dag *dag.DAG
	err error
}

// Step registers a step. deps may be nil for a root step. The first
// error encountered (nil callable, bad options, duplicate name) is
// captured and surfaces from Define; later Step calls are accepted but
// have no effect once an error has been recorded.
func (b *Builder) Step(name string, deps []string, fn step.Func, opts step.Options) *Builder {
	if b.err != nil {
		return b
	}
	s, err := step.New(name, deps, fn, opts)
	if err != nil {
		b.err = err
		return b
	}
	if err := b.dag.Add(s); err != nil {
		b.err = err
	}
	return b
}

// Package dag implements the dependency graph at the heart of the
// pipeline engine: insertion-ordered Step registration, validation
// (missing dependencies, cycles), topological ordering, level
// partitioning, and mermaid rendering.
//
// Internally it delegates vertex/edge bookkeeping to
// github.com/begmaroman/go-dag, the same library the teacher codebase
// wraps for its own task graph.
package dag

import (
	"fmt"
	"strings"

	godag "github.com/begmaroman/go-dag"

	"github.com/stevelan1995/stepflow/pkg/step"
)

// DAG is an insertion-ordered collection of Steps. The zero value is not
// usable; construct with New.
type DAG struct {
	g *godag.DAG[*step.Step]

	steps   map[string]*step.Step
	order   []string // insertion order, observable via Steps/SortedSteps tie-break
	seen    map[string]struct{}
	valid   bool // true once Validate has succeeded and nothing has changed
}

// New returns an empty DAG ready to accept Steps.
func New() *DAG {
	return &DAG{
		g:     godag.NewDAG[*step.Step](),
		steps: make(map[string]*step.Step),
		seen:  make(map[string]struct{}),
	}
}

// Add appends step s to the graph in insertion order. Forward references
// (a dependency not yet added) are legal here; they are only checked by
// Validate. Adding a step invalidates any prior Validate result.
func (d *DAG) Add(s *step.Step) error {
	if _, exists := d.seen[s.Name()]; exists {
		return &DuplicateStepError{Name: s.Name()}
	}
	if err := d.g.AddVertexByID(s.Name(), s); err != nil {
		return fmt.Errorf("dag: adding vertex %q: %w", s.Name(), err)
	}

	d.steps[s.Name()] = s
	d.seen[s.Name()] = struct{}{}
	d.order = append(d.order, s.Name())
	d.valid = false

	for _, dep := range s.Dependencies() {
		if _, ok := d.seen[dep]; ok {
			if err := d.g.AddEdge(dep, s.Name()); err != nil {
				return fmt.Errorf("dag: adding edge %q -> %q: %w", dep, s.Name(), err)
			}
		}
	}
	return nil
}

// Validate runs the checks from §4.2 in order: missing dependencies,
// then cycles. It is idempotent — repeated calls on an unchanged DAG
// return nil without mutating anything.
func (d *DAG) Validate() error {
	if d.valid {
		return nil
	}

	for _, name := range d.order {
		s := d.steps[name]
		for _, dep := range s.Dependencies() {
			if _, ok := d.seen[dep]; !ok {
				return &MissingDependencyError{Step: name, Missing: dep}
			}
		}
	}

	// Every dependency edge that wasn't present at Add time (because the
	// dependency was declared before being inserted) still needs wiring
	// now that all names are known.
	for _, name := range d.order {
		s := d.steps[name]
		for _, dep := range s.Dependencies() {
			parents, _ := d.g.GetParents(name)
			if _, already := parents[dep]; !already {
				if err := d.g.AddEdge(dep, name); err != nil {
					return &CycleError{Participant: name}
				}
			}
		}
	}

	if _, err := d.g.Copy(); err != nil {
		return &CycleError{Participant: d.firstName()}
	}

	d.valid = true
	return nil
}

func (d *DAG) firstName() string {
	if len(d.order) == 0 {
		return ""
	}
	return d.order[0]
}

// Get returns the step registered under name, if any.
func (d *DAG) Get(name string) (*step.Step, bool) {
	s, ok := d.steps[name]
	return s, ok
}

// Size returns the number of registered steps.
func (d *DAG) Size() int { return len(d.order) }

// Empty reports whether the DAG has no steps.
func (d *DAG) Empty() bool { return len(d.order) == 0 }

// Steps returns the steps in insertion order.
func (d *DAG) Steps() []*step.Step {
	out := make([]*step.Step, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.steps[name])
	}
	return out
}

// Dependents returns the names of steps that directly depend on name.
func (d *DAG) Dependents(name string) []string {
	children, _ := d.g.GetChildren(name)
	out := make([]string, 0, len(children))
	for _, n := range d.order {
		if _, ok := children[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// SortedSteps returns a linear ordering where every step appears after
// all of its dependencies, breaking ties by insertion order (§4.2).
func (d *DAG) SortedSteps() ([]*step.Step, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	remaining := make(map[string]int, len(d.order)) // unresolved dependency count
	for _, name := range d.order {
		remaining[name] = len(d.steps[name].Dependencies())
	}

	emitted := make(map[string]struct{}, len(d.order))
	result := make([]*step.Step, 0, len(d.order))

	for len(result) < len(d.order) {
		progressed := false
		for _, name := range d.order {
			if _, done := emitted[name]; done {
				continue
			}
			if remaining[name] > 0 {
				continue
			}
			result = append(result, d.steps[name])
			emitted[name] = struct{}{}
			progressed = true
			for _, dependent := range d.Dependents(name) {
				remaining[dependent]--
			}
		}
		if !progressed {
			return nil, &CycleError{Participant: d.firstUnemitted(emitted)}
		}
	}
	return result, nil
}

func (d *DAG) firstUnemitted(emitted map[string]struct{}) string {
	for _, name := range d.order {
		if _, ok := emitted[name]; !ok {
			return name
		}
	}
	return ""
}

// Levels partitions the steps into layers L0, L1, ... where level(s) is
// 0 for a root and 1+max(level(dep)) otherwise (§4.2). Within a level,
// insertion order is preserved.
func (d *DAG) Levels() ([][]*step.Step, error) {
	sorted, err := d.SortedSteps()
	if err != nil {
		return nil, err
	}

	level := make(map[string]int, len(sorted))
	maxLevel := 0
	for _, s := range sorted {
		lvl := 0
		for _, dep := range s.Dependencies() {
			if level[dep]+1 > lvl {
				lvl = level[dep] + 1
			}
		}
		level[s.Name()] = lvl
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	levels := make([][]*step.Step, maxLevel+1)
	for _, name := range d.order {
		lvl := level[name]
		levels[lvl] = append(levels[lvl], d.steps[name])
	}
	return levels, nil
}

// ToMermaid renders the graph exactly per §4.2/§6: a "graph TD" header,
// one "  <dep> --> <step>" edge line per (step, dep) pair in insertion
// order, and a bare "  <name>" line for any step with no edges at all.
func (d *DAG) ToMermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, name := range d.order {
		s := d.steps[name]
		deps := s.Dependencies()
		if len(deps) == 0 && len(d.Dependents(name)) == 0 {
			fmt.Fprintf(&b, "  %s\n", name)
			continue
		}
		for _, dep := range deps {
			fmt.Fprintf(&b, "  %s --> %s\n", dep, name)
		}
	}
	return b.String()
}

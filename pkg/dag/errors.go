package dag

import "fmt"

// DuplicateStepError is returned by Add when a step of the same name has
// already been inserted.
type DuplicateStepError struct {
	Name string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("dag: duplicate step %q", e.Name)
}

// MissingDependencyError is returned by Validate when a step declares a
// dependency on a name that was never added to the DAG.
type MissingDependencyError struct {
	Step    string
	Missing string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("dag: step %q depends on unknown step %q", e.Step, e.Missing)
}

// CycleError is returned by Validate when the dependency graph contains a
// directed cycle. Participant names at least one node on the cycle.
type CycleError struct {
	Participant string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dag: cycle detected, participant %q", e.Participant)
}

package executor

import "github.com/stevelan1995/stepflow/pkg/step"

// buildInput implements the §4.4 input marshalling rule: a step with no
// dependencies sees the run's initial input (or no input at all if none
// was supplied); a step with exactly one dependency sees that
// dependency's output positionally; a step with more than one
// dependency sees a name-keyed map, with any skipped dependency
// contributing nil for its key.
func buildInput(s *step.Step, outputs map[string]any, initialInput any, hasInitial bool) step.Input {
	deps := s.Dependencies()
	switch len(deps) {
	case 0:
		if hasInitial {
			return step.Input{Kind: step.InputOne, One: initialInput}
		}
		return step.Input{Kind: step.InputNone}
	case 1:
		return step.Input{Kind: step.InputOne, One: outputs[deps[0]]}
	default:
		many := make(map[string]any, len(deps))
		for _, d := range deps {
			many[d] = outputs[d]
		}
		return step.Input{Kind: step.InputMany, Many: many}
	}
}

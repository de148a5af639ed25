package pipeline

import (
	"time"

	"gopkg.in/yaml.v3"
)

// stepManifest is the read-only, serializable view of one step used by
// Manifest/ToYAML, mirroring the summary fields the teacher's
// workflow_config.go persists for a task (name, dependencies, timeout,
// retry count) without exposing the unmarshalable callable itself.
type stepManifest struct {
	Name         string        `yaml:"name"`
	Dependencies []string      `yaml:"dependencies,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	Retries      int           `yaml:"retries,omitempty"`
	RetryBackoff string        `yaml:"retry_backoff,omitempty"`
	Cache        bool          `yaml:"cache"`
}

// Manifest is the serializable description of a Pipeline's structure,
// independent of the Go callables backing each step.
type Manifest struct {
	Steps []stepManifest `yaml:"steps"`
}

// Manifest builds a Manifest describing p's steps in insertion order.
func (p *Pipeline) Manifest() Manifest {
	steps := p.Steps()
	out := make([]stepManifest, 0, len(steps))
	for _, s := range steps {
		opts := s.Options()
		out = append(out, stepManifest{
			Name:         s.Name(),
			Dependencies: s.Dependencies(),
			Timeout:      opts.Timeout,
			Retries:      opts.Retries,
			RetryBackoff: opts.RetryBackoff.String(),
			Cache:        opts.Cache,
		})
	}
	return Manifest{Steps: out}
}

// ToYAML renders the pipeline's structure as YAML, for documentation
// or diffing between pipeline versions; it carries no executable
// content.
func (p *Pipeline) ToYAML() (string, error) {
	b, err := yaml.Marshal(p.Manifest())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

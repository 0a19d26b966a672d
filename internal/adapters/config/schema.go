package config

import (
	"gopkg.in/yaml.v3"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Gatefile represents the structure of the gate.yaml configuration file.
type Gatefile struct {
	Version string             `yaml:"version"`
	On      TriggersDTO        `yaml:"on"`
	Jobs    map[string]*JobDTO `yaml:"jobs"`
	Hooks   []*HookDTO         `yaml:"hooks"`
}

// TriggersDTO represents the trigger surface of the workflow.
type TriggersDTO struct {
	Push        *PushDTO
	PullRequest bool
}

// PushDTO represents a push trigger definition.
type PushDTO struct {
	Branches []string `yaml:"branches"`
}

// UnmarshalYAML decodes the trigger mapping. Presence of the
// pull_request key enables the trigger regardless of its value, so
// both `pull_request:` and `pull_request: {}` work.
func (t *TriggersDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrConfigParseFailed, "reason", "'on' must be a mapping")
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		val := value.Content[i+1]

		switch key.Value {
		case "push":
			var push PushDTO
			if val.Kind == yaml.MappingNode {
				if err := val.Decode(&push); err != nil {
					return err
				}
			}
			t.Push = &push
		case "pull_request":
			t.PullRequest = true
		default:
			return zerr.With(domain.ErrUnknownEvent, "event", key.Value)
		}
	}

	return nil
}

// JobDTO represents a job definition in the configuration.
type JobDTO struct {
	Runtime     string            `yaml:"runtime"`
	Environment map[string]string `yaml:"environment"`
	Needs       []string          `yaml:"needs"`
	Steps       []*StepDTO        `yaml:"steps"`
}

// StepDTO represents a step definition in the configuration.
type StepDTO struct {
	Name        string            `yaml:"name"`
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
	WorkingDir  string            `yaml:"workingDir"`
	Cache       *CacheDTO         `yaml:"cache"`
}

// CacheDTO represents the cache configuration of a step.
type CacheDTO struct {
	KeyFiles []string `yaml:"keyFiles"`
}

// HookDTO represents a pre-commit hook definition.
type HookDTO struct {
	ID    string   `yaml:"id"`
	Cmd   []string `yaml:"cmd"`
	Files []string `yaml:"files"`
}

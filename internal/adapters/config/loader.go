// Package config provides the workflow configuration loader for gate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validJobNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load reads gate.yaml starting from cwd and returns the workflow with
// its validated job graph.
func (l *Loader) Load(cwd string) (*domain.Workflow, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, domain.WorkflowFileName)
	var gatefile Gatefile
	if err := readAndUnmarshalYAML(configPath, &gatefile); err != nil {
		return nil, err
	}

	graph, err := l.buildGraph(&gatefile, root)
	if err != nil {
		return nil, err
	}

	hooks, err := l.buildHooks(&gatefile)
	if err != nil {
		return nil, err
	}

	return &domain.Workflow{
		Version:  gatefile.Version,
		Triggers: buildTriggers(&gatefile),
		Jobs:     graph,
		Hooks:    hooks,
	}, nil
}

// DiscoverRoot walks up from cwd until it finds a directory containing
// gate.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := cwd

	for {
		configPath := filepath.Join(currentDir, domain.WorkflowFileName)
		if _, err := os.Stat(configPath); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) buildGraph(gatefile *Gatefile, root string) (*domain.Graph, error) {
	g := domain.NewGraph()
	g.SetRoot(root)

	jobNames := make(map[string]bool)

	// First pass: collect all job names to verify needs later
	for name := range gatefile.Jobs {
		jobNames[name] = true
	}

	// Second pass: create jobs and add to graph
	for name := range gatefile.Jobs {
		dto := gatefile.Jobs[name]
		if err := validateJobName(name); err != nil {
			return nil, err
		}

		for _, need := range dto.Needs {
			if !jobNames[need] {
				err := zerr.With(domain.ErrMissingNeed, "need", need)
				return nil, zerr.With(err, "job", name)
			}
		}

		job, err := buildJob(name, dto, root)
		if err != nil {
			return nil, err
		}

		if err := g.AddJob(job); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func (l *Loader) buildHooks(gatefile *Gatefile) ([]domain.Hook, error) {
	hooks := make([]domain.Hook, 0, len(gatefile.Hooks))
	seen := make(map[string]bool, len(gatefile.Hooks))

	for i, dto := range gatefile.Hooks {
		if len(dto.Cmd) == 0 {
			return nil, zerr.With(domain.ErrEmptyHookCommand, "hook", dto.ID)
		}

		id := dto.ID
		if id == "" {
			// Fall back to the tool name so output stays attributable
			id = dto.Cmd[0]
			l.Logger.Warn(fmt.Sprintf("hook %d has no id, using %q", i, id))
		}

		if seen[id] {
			return nil, zerr.With(domain.ErrDuplicateHookID, "hook", id)
		}
		seen[id] = true

		hooks = append(hooks, domain.Hook{
			ID:      domain.NewInternedString(id),
			Command: dto.Cmd,
			Files:   domain.NewInternedStrings(dto.Files),
		})
	}

	return hooks, nil
}

func buildTriggers(gatefile *Gatefile) domain.Triggers {
	var triggers domain.Triggers
	if gatefile.On.Push != nil {
		triggers.Push = &domain.PushTrigger{Branches: gatefile.On.Push.Branches}
	}
	if gatefile.On.PullRequest {
		triggers.PullRequest = &domain.PullRequestTrigger{}
	}
	return triggers
}

// buildJob creates a domain.Job from a JobDTO.
func buildJob(name string, dto *JobDTO, root string) (*domain.Job, error) {
	steps := make([]domain.Step, 0, len(dto.Steps))
	for i, stepDTO := range dto.Steps {
		if len(stepDTO.Cmd) == 0 {
			err := zerr.With(domain.ErrEmptyStepCommand, "job", name)
			return nil, zerr.With(err, "step", stepDTO.Name)
		}

		stepName := stepDTO.Name
		if stepName == "" {
			stepName = fmt.Sprintf("%s-%d", stepDTO.Cmd[0], i)
		}

		var keyFiles []domain.InternedString
		if stepDTO.Cache != nil {
			keyFiles = domain.NewInternedStrings(stepDTO.Cache.KeyFiles)
		}

		steps = append(steps, domain.Step{
			Name:        domain.NewInternedString(stepName),
			Command:     stepDTO.Cmd,
			Environment: stepDTO.Environment,
			WorkingDir:  resolveStepWorkingDir(root, stepDTO.WorkingDir),
			KeyFiles:    keyFiles,
		})
	}

	return &domain.Job{
		Name:        domain.NewInternedString(name),
		Runtime:     dto.Runtime,
		Environment: dto.Environment,
		Needs:       domain.NewInternedStrings(dto.Needs),
		Steps:       steps,
	}, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// validateJobName checks if the job name is reserved or contains invalid characters.
func validateJobName(name string) error {
	if name == "all" {
		return zerr.With(domain.ErrReservedJobName, "job_name", name)
	}
	if !validJobNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidJobName, "job_name", name)
	}
	return nil
}

// resolveStepWorkingDir resolves the working directory for a step.
// Empty means the workspace root; relative paths are joined with it.
func resolveStepWorkingDir(root, configuredWorkingDir string) domain.InternedString {
	if configuredWorkingDir == "" {
		return domain.NewInternedString(root)
	}

	if filepath.IsAbs(configuredWorkingDir) {
		return domain.NewInternedString(filepath.Clean(configuredWorkingDir))
	}

	return domain.NewInternedString(filepath.Clean(filepath.Join(root, configuredWorkingDir)))
}

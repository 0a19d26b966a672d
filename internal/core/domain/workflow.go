package domain

// Workflow is the root configuration unit: the triggers that select it,
// the jobs it runs, and the pre-commit hooks it declares.
type Workflow struct {
	Version  string
	Triggers Triggers
	Jobs     *Graph
	Hooks    []Hook
}

// Job represents an independently scheduled unit of work.
// It uses InternedString for fields that are frequently repeated to save memory.
type Job struct {
	Name        InternedString
	Runtime     string
	Environment map[string]string
	Needs       []InternedString
	Steps       []Step
}

// Step is a single tool invocation within a job. Steps execute strictly
// sequentially; a failing step aborts the remaining steps of its job.
type Step struct {
	Name        InternedString
	Command     []string
	Environment map[string]string
	WorkingDir  InternedString

	// KeyFiles are the files whose content hash keys this step's cache
	// entry. An unchanged hash skips the step; empty means always run.
	KeyFiles []InternedString
}

// Invocation is a resolved command ready for execution. Both steps and
// hooks reduce to an Invocation before reaching the executor.
type Invocation struct {
	Name        InternedString
	Argv        []string
	Environment map[string]string
	WorkingDir  InternedString
}

// Invocation converts the step into an executable command for the given job.
func (s *Step) Invocation(job *Job) *Invocation {
	env := make(map[string]string, len(job.Environment)+len(s.Environment)+1)
	for k, v := range job.Environment {
		env[k] = v
	}
	for k, v := range s.Environment {
		env[k] = v
	}
	if job.Runtime != "" {
		env[RuntimeEnvVar] = job.Runtime
	}

	return &Invocation{
		Name:        s.Name,
		Argv:        s.Command,
		Environment: env,
		WorkingDir:  s.WorkingDir,
	}
}

// CacheEnvironment returns the environment values that participate in the
// step's cache key. The runtime pin is included so changing it invalidates
// every cached step of the job.
func (s *Step) CacheEnvironment(job *Job) map[string]string {
	env := make(map[string]string, len(job.Environment)+len(s.Environment)+1)
	for k, v := range job.Environment {
		env[k] = v
	}
	for k, v := range s.Environment {
		env[k] = v
	}
	if job.Runtime != "" {
		env[RuntimeEnvVar] = job.Runtime
	}
	return env
}

// RuntimeEnvVar is the environment variable carrying the job's runtime pin.
const RuntimeEnvVar = "RUNTIME_VERSION"

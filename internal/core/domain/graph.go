// Package domain contains the core domain models for workflows, jobs and runs.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph represents the dependency graph of jobs in a workflow.
// Jobs without needs edges are independent and may run in parallel.
type Graph struct {
	jobs           map[InternedString]Job
	root           string
	executionOrder []InternedString
	dependents     map[InternedString][]InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		jobs:       make(map[InternedString]Job),
		dependents: make(map[InternedString][]InternedString),
	}
}

// SetRoot records the workspace root directory the graph was loaded from.
func (g *Graph) SetRoot(root string) {
	g.root = root
}

// Root returns the workspace root directory.
func (g *Graph) Root() string {
	return g.root
}

// AddJob adds a job to the graph.
// It returns an error if a job with the same name already exists.
func (g *Graph) AddJob(j *Job) error {
	if _, exists := g.jobs[j.Name]; exists {
		return zerr.With(ErrJobAlreadyExists, "job", j.Name.String())
	}
	g.jobs[j.Name] = *j
	for _, need := range j.Needs {
		g.dependents[need] = append(g.dependents[need], j.Name)
	}
	return nil
}

// GetJob returns the job with the given name.
func (g *Graph) GetJob(name InternedString) (Job, bool) {
	j, ok := g.jobs[name]
	return j, ok
}

// JobCount returns the number of jobs in the graph.
func (g *Graph) JobCount() int {
	return len(g.jobs)
}

// Dependents returns the jobs that declare the given job in their needs.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Validate checks for cycles in the graph using a topological sort.
// It populates the execution order if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.jobs))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		job, exists := g.jobs[u]
		if !exists {
			return zerr.With(ErrMissingNeed, "need", u.String())
		}

		for _, need := range job.Needs {
			if visited[need] == 1 {
				return g.buildCycleError(path, need)
			}
			if visited[need] == 0 {
				if err := visit(need); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Iterate over all jobs so disconnected components are covered.
	for name := range g.jobs {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, need InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == need {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += need.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Walk returns an iterator that yields jobs in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Job] {
	return func(yield func(Job) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.jobs[name]) {
				return
			}
		}
	}
}

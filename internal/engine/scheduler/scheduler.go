// Package scheduler executes workflow jobs with bounded parallelism.
package scheduler

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/core/ports"
	"go.trai.ch/zerr"
)

// JobStatus represents the scheduling state of a job.
type JobStatus string

const (
	// StatusPending indicates the job is waiting to be executed.
	StatusPending JobStatus = "Pending"
	// StatusRunning indicates the job is currently executing.
	StatusRunning JobStatus = "Running"
	// StatusCompleted indicates the job finished successfully.
	StatusCompleted JobStatus = "Completed"
	// StatusFailed indicates the job execution failed.
	StatusFailed JobStatus = "Failed"
	// StatusSkipped indicates the job never ran because a need failed.
	StatusSkipped JobStatus = "Skipped"
)

// Scheduler runs the jobs of a workflow graph. Jobs without needs
// edges execute as independent parallel units; steps within a job are
// strictly sequential and a failing step aborts the rest of its job.
type Scheduler struct {
	executor ports.Executor
	store    ports.CacheStore
	hasher   ports.Hasher
	resolver ports.FileResolver
	tracer   ports.Tracer

	mu        sync.RWMutex
	jobStatus map[domain.InternedString]JobStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	store ports.CacheStore,
	hasher ports.Hasher,
	resolver ports.FileResolver,
	tracer ports.Tracer,
) *Scheduler {
	return &Scheduler{
		executor:  executor,
		store:     store,
		hasher:    hasher,
		resolver:  resolver,
		tracer:    tracer,
		jobStatus: make(map[domain.InternedString]JobStatus),
	}
}

// Status returns the scheduling state of a job.
func (s *Scheduler) Status(name domain.InternedString) JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobStatus[name]
}

func (s *Scheduler) initJobStatuses(jobs []domain.InternedString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range jobs {
		s.jobStatus[job] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobStatus[name] = status
}

// Run executes every job in the graph with the specified parallelism.
// It returns the aggregated run report alongside the joined execution
// errors. The report's conclusion is the conjunction of all job
// conclusions; an empty graph succeeds vacuously.
// If noCache is true, cache lookups are bypassed and every step runs.
func (s *Scheduler) Run(
	ctx context.Context,
	graph *domain.Graph,
	event domain.Event,
	parallelism int,
	noCache bool,
) (*domain.RunReport, error) {
	// Validate explicitly so the execution order is populated.
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	state := s.newRunState(ctx, graph, parallelism, noCache)

	// Emit the plan in topological order before anything starts, so
	// renderers can lay out the full job list up front.
	planned := make([]string, 0, graph.JobCount())
	needs := make(map[string][]string, graph.JobCount())
	for job := range graph.Walk() {
		name := job.Name.String()
		planned = append(planned, name)
		jobNeeds := make([]string, len(job.Needs))
		for i, need := range job.Needs {
			jobNeeds[i] = need.String()
		}
		needs[name] = jobNeeds
	}
	s.tracer.EmitPlan(ctx, planned, needs, event.Name)

	s.initJobStatuses(state.order)

	err := state.runExecutionLoop()

	report := state.buildReport(event)
	return report, err
}

// jobOutcome carries one job's result back to the scheduling loop.
type jobOutcome struct {
	job    domain.InternedString
	result domain.JobResult
	err    error
}

type runState struct {
	s           *Scheduler
	ctx         context.Context
	graph       *domain.Graph
	parallelism int
	noCache     bool
	startedAt   time.Time

	order     []domain.InternedString
	inDegree  map[domain.InternedString]int
	ready     []domain.InternedString
	active    int
	resultsCh chan jobOutcome
	results   map[domain.InternedString]domain.JobResult
	errs      error
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	parallelism int,
	noCache bool,
) *runState {
	jobCount := graph.JobCount()
	order := make([]domain.InternedString, 0, jobCount)
	inDegree := make(map[domain.InternedString]int, jobCount)

	for job := range graph.Walk() {
		order = append(order, job.Name)
		inDegree[job.Name] = len(job.Needs)
	}

	var ready []domain.InternedString
	for _, name := range order {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	return &runState{
		s:           s,
		ctx:         ctx,
		graph:       graph,
		parallelism: parallelism,
		noCache:     noCache,
		startedAt:   time.Now(),
		order:       order,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan jobOutcome, parallelism),
		results:     make(map[domain.InternedString]domain.JobResult, jobCount),
	}
}

func (state *runState) runExecutionLoop() error {
	// Receiving from done is a one-shot wakeup so no new jobs get
	// scheduled after cancellation. Nil it afterwards, otherwise the
	// closed channel keeps the select from blocking on resultsCh.
	done := state.ctx.Done()

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case outcome := <-state.resultsCh:
			state.handleOutcome(outcome)
		case <-done:
			done = nil
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		jobName := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(jobName, StatusRunning)

		job, _ := state.graph.GetJob(jobName)
		go state.executeJob(job)
	}
}

func (state *runState) executeJob(job domain.Job) {
	// Finish the span before sending the outcome, so the span is fully
	// recorded by the time the scheduling loop observes the result.
	outcome := func() jobOutcome {
		ctx, span := state.s.tracer.Start(state.ctx, job.Name.String())
		defer span.End()

		started := time.Now()
		result := domain.JobResult{Name: job.Name.String()}

		var jobErr error
		for i := range job.Steps {
			step := &job.Steps[i]

			// A failing step aborts the remaining steps of its job.
			if jobErr != nil {
				result.Steps = append(result.Steps, domain.StepResult{
					Name:       step.Name.String(),
					Conclusion: domain.ConclusionSkipped,
				})
				continue
			}

			stepResult, err := state.executeStep(ctx, &job, step)
			result.Steps = append(result.Steps, stepResult)
			if err != nil {
				jobErr = zerr.With(
					zerr.Wrap(err, domain.ErrStepExecutionFailed.Error()),
					"step", step.Name.String(),
				)
			}
		}

		result.Duration = time.Since(started)
		if jobErr != nil {
			result.Conclusion = domain.ConclusionFailure
			span.RecordError(jobErr)
		} else {
			result.Conclusion = domain.ConclusionSuccess
		}

		return jobOutcome{job: job.Name, result: result, err: jobErr}
	}()

	state.resultsCh <- outcome
}

func (state *runState) executeStep(
	ctx context.Context,
	job *domain.Job,
	step *domain.Step,
) (domain.StepResult, error) {
	ctx, span := state.s.tracer.Start(ctx, step.Name.String())
	defer span.End()

	started := time.Now()
	result := domain.StepResult{Name: step.Name.String()}

	keyHash, hit, err := state.checkStepCache(job, step)
	if err != nil {
		span.RecordError(err)
		result.Conclusion = domain.ConclusionFailure
		result.Duration = time.Since(started)
		return result, err
	}
	if hit {
		span.SetAttribute("gate.cached", true)
		result.Conclusion = domain.ConclusionCached
		result.Duration = time.Since(started)
		return result, nil
	}

	err = state.s.executor.Execute(ctx, step.Invocation(job), span, span)
	result.Duration = time.Since(started)
	if err != nil {
		span.RecordError(err)
		result.Conclusion = domain.ConclusionFailure
		result.ExitCode = exitCode(err)
		return result, err
	}

	result.Conclusion = domain.ConclusionSuccess
	if keyHash != "" {
		// A cache write failure never fails the step; the next run
		// simply misses.
		_ = state.s.store.Put(state.graph.Root(), domain.CacheEntry{
			JobName:   job.Name.String(),
			StepName:  step.Name.String(),
			KeyHash:   keyHash,
			Timestamp: time.Now(),
		})
	}
	return result, nil
}

// checkStepCache computes the step's cache key and compares it against
// the stored entry. It returns the key hash, whether the step can be
// skipped, and any resolution or hashing error. Steps without key
// files always run and never touch the store.
func (state *runState) checkStepCache(job *domain.Job, step *domain.Step) (string, bool, error) {
	if len(step.KeyFiles) == 0 {
		return "", false, nil
	}

	root := state.graph.Root()

	patterns := make([]string, len(step.KeyFiles))
	for i, file := range step.KeyFiles {
		patterns[i] = file.String()
	}
	files, err := state.s.resolver.Resolve(patterns, root)
	if err != nil {
		return "", false, zerr.Wrap(err, domain.ErrKeyFileResolutionFailed.Error())
	}

	keyHash, err := state.s.hasher.ComputeKeyHash(files, step.CacheEnvironment(job), root)
	if err != nil {
		return "", false, zerr.Wrap(err, domain.ErrKeyHashComputationFailed.Error())
	}

	if state.noCache {
		return keyHash, false, nil
	}

	entry, err := state.s.store.Get(root, job.Name.String(), step.Name.String())
	if err != nil {
		return keyHash, false, err
	}

	// A missing entry or a changed key falls through to a full run.
	if entry == nil || entry.KeyHash != keyHash {
		return keyHash, false, nil
	}

	return keyHash, true, nil
}

func (state *runState) handleOutcome(outcome jobOutcome) {
	state.active--
	state.results[outcome.job] = outcome.result

	if outcome.err != nil {
		jobErr := zerr.With(
			zerr.Wrap(outcome.err, domain.ErrJobExecutionFailed.Error()),
			"job", outcome.job.String(),
		)
		state.errs = errors.Join(state.errs, jobErr)
		state.s.updateStatus(outcome.job, StatusFailed)
		return
	}

	state.s.updateStatus(outcome.job, StatusCompleted)

	for _, dependent := range state.graph.Dependents(outcome.job) {
		state.inDegree[dependent]--
		if state.inDegree[dependent] == 0 {
			state.ready = append(state.ready, dependent)
		}
	}
}

// buildReport assembles the run report in topological order. Jobs that
// never ran, because a need failed or the run was cancelled, appear as
// skipped.
func (state *runState) buildReport(event domain.Event) *domain.RunReport {
	report := &domain.RunReport{
		Event:     event.Name,
		Branch:    event.Branch,
		StartedAt: state.startedAt,
		Duration:  time.Since(state.startedAt),
	}

	for _, name := range state.order {
		result, ran := state.results[name]
		if !ran {
			state.s.updateStatus(name, StatusSkipped)
			result = domain.JobResult{
				Name:       name.String(),
				Conclusion: domain.ConclusionSkipped,
			}
		}
		report.Jobs = append(report.Jobs, result)
	}

	return report
}

// exitCode extracts the tool exit code from an execution error.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Package app implements the application layer for gate.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/gate/internal/adapters/detector"
	"go.trai.ch/gate/internal/adapters/fs"
	"go.trai.ch/gate/internal/adapters/linear"
	"go.trai.ch/gate/internal/adapters/telemetry"
	"go.trai.ch/gate/internal/adapters/tui"
	"go.trai.ch/gate/internal/adapters/watcher"
	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/core/ports"
	"go.trai.ch/gate/internal/engine/hooks"
	"go.trai.ch/gate/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	store        ports.CacheStore
	hasher       ports.Hasher
	resolver     ports.FileResolver
	history      ports.HistoryStore
	notifier     ports.Notifier
	teaOptions   []tea.ProgramOption
	disableTick  bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	store ports.CacheStore,
	hasher ports.Hasher,
	resolver ports.FileResolver,
	history ports.HistoryStore,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		store:        store,
		hasher:       hasher,
		resolver:     resolver,
		history:      history,
	}
}

// WithNotifier sets a notifier that publishes each run's conclusion.
func (a *App) WithNotifier(notifier ports.Notifier) *App {
	a.notifier = notifier
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI tick loop.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Event      string
	Branch     string
	NoCache    bool
	Inspect    bool
	Report     bool
	OutputMode string
	Workers    int
}

// Run executes the workflow for the given event.
//
//nolint:cyclop // orchestration function
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	// 1. Load the workflow
	workflow, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Resolve the triggering event
	event, err := resolveEvent(opts)
	if err != nil {
		return err
	}

	// A workflow whose triggers do not match the event runs nothing
	// and succeeds.
	if !workflow.Triggers.Matches(event) {
		a.logger.Info(fmt.Sprintf("no trigger matches %s on %q, nothing to run", event.Name, event.Branch))
		return nil
	}

	// 3. Initialize Renderer
	autoMode := detector.DetectEnvironment()
	mode := detector.ResolveMode(autoMode, opts.OutputMode)

	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		renderer = tui.NewRenderer(&model, optsTea...)
	} else {
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	}

	// 4. Initialize Telemetry
	// The bridge forwards span lifecycle events from the OTel SDK to
	// the renderer; the tracer streams log output the same way.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	tracer := telemetry.NewOTelTracer("gate").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	// 5. Initialize Scheduler
	sched := scheduler.NewScheduler(a.executor, a.store, a.hasher, a.resolver, tracer)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// 6. Run Renderer and Scheduler concurrently
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "Scheduler panic: %v\n", r)
			}
			// Keep the renderer open in inspection mode so the run can
			// be examined after completion.
			if !opts.Inspect {
				_ = renderer.Stop()
			}
		}()

		report, runErr := sched.Run(ctx, workflow.Jobs, event, workers, opts.NoCache)
		if report != nil {
			renderer.OnRunComplete(report)
			a.finishRun(ctx, report, opts.Report)
		}
		if runErr != nil {
			return errors.Join(domain.ErrRunFailed, runErr)
		}
		return nil
	})

	return g.Wait()
}

// finishRun records the run and publishes its conclusion. Both are
// best-effort: a bookkeeping failure never changes the run's result.
func (a *App) finishRun(ctx context.Context, report *domain.RunReport, publish bool) {
	if err := a.history.Record(ctx, report); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to record run history: %v", err))
	}

	if !publish {
		return
	}

	if a.notifier == nil {
		a.logger.Warn(domain.ErrNotifierNotConfigured.Error())
		return
	}

	if err := a.notifier.Publish(ctx, report); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to publish run status: %v", err))
	}
}

// HooksOptions configuration for the Hooks method.
type HooksOptions struct {
	// Files runs the hooks over an explicit file list.
	Files []string
	// AllFiles runs the hooks over every file in the workspace.
	AllFiles bool
	// Watch keeps running, re-checking files as they change.
	Watch bool
}

// Hooks runs the workflow's pre-commit hooks over the selected file
// set: an explicit list, the whole workspace, or the files git reports
// as changed.
func (a *App) Hooks(ctx context.Context, opts HooksOptions) error {
	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return err
	}

	workflow, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if len(workflow.Hooks) == 0 {
		a.logger.Warn("no hooks configured")
		return nil
	}

	runner := hooks.NewRunner(a.executor, telemetry.NewNoOpTracer(), a.logger)

	files, err := a.hookFiles(ctx, runner, root, opts)
	if err != nil {
		return err
	}

	runErr := runner.Run(ctx, workflow.Hooks, files)

	if opts.Watch {
		if runErr != nil {
			a.logger.Error(runErr)
		}
		return a.watchHooks(ctx, runner, workflow.Hooks, root)
	}

	return runErr
}

// hookFiles resolves the candidate file set for a hooks run.
func (a *App) hookFiles(ctx context.Context, runner *hooks.Runner, root string, opts HooksOptions) ([]string, error) {
	if len(opts.Files) > 0 {
		return opts.Files, nil
	}

	if opts.AllFiles {
		walker := fs.NewWalker()
		var files []string
		for path := range walker.WalkFiles(root, []string{domain.GateDirName, "__pycache__", ".venv", "node_modules"}) {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				continue
			}
			files = append(files, rel)
		}
		return files, nil
	}

	return runner.ChangedFiles(ctx, root)
}

// watchHooks re-runs the hooks whenever watched files change, until
// the context is cancelled.
func (a *App) watchHooks(ctx context.Context, runner *hooks.Runner, hookList []domain.Hook, root string) error {
	w, err := watcher.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() {
		_ = w.Stop()
	}()

	if err := w.Start(ctx, root); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}

	batches := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	go func() {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching for changes, press ctrl+c to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			files := make([]string, 0, len(paths))
			for _, path := range paths {
				rel, err := filepath.Rel(root, path)
				if err != nil {
					continue
				}
				files = append(files, rel)
			}

			if err := runner.Run(ctx, hookList, files); err != nil {
				a.logger.Error(err)
			} else {
				a.logger.Info("hooks passed")
			}
		}
	}
}

// History returns the most recent run summaries, newest first.
func (a *App) History(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	return a.history.Recent(ctx, limit)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Cache   bool
	History bool
}

// Clean removes gate's on-disk state based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Cache {
		remove(filepath.Join(root, domain.DefaultCachePath()), "step cache")
	}

	if options.History {
		remove(filepath.Join(root, domain.DefaultHistoryPath()), "run history")
	}

	return errs
}

// resolveEvent builds the triggering event from flags, falling back to
// the environment variables a CI runner provides.
func resolveEvent(opts RunOptions) (domain.Event, error) {
	name := opts.Event
	branch := opts.Branch

	if name == "" {
		name = os.Getenv("GITHUB_EVENT_NAME")
	}
	if branch == "" {
		branch = os.Getenv("GITHUB_REF_NAME")
	}

	switch name {
	case "", domain.EventPush, domain.EventPullRequest:
	default:
		return domain.Event{}, zerr.With(domain.ErrUnknownEvent, "event", name)
	}

	return domain.Event{Name: name, Branch: branch}, nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

// Package hooks runs the pre-commit checkers of a workflow.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes hooks over a resolved file set.
type Runner struct {
	executor ports.Executor
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewRunner creates a new hook runner.
func NewRunner(executor ports.Executor, tracer ports.Tracer, logger ports.Logger) *Runner {
	return &Runner{
		executor: executor,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run executes every hook in declaration order over the candidate
// files. Unlike job steps, a failing hook does not stop the ones after
// it: every hook reports its violations in one pass. The returned
// error joins all hook failures; nil means every hook passed.
func (r *Runner) Run(ctx context.Context, hookList []domain.Hook, files []string) error {
	var errs error

	for i := range hookList {
		hook := &hookList[i]

		selected := hook.SelectFiles(files)
		if len(selected) == 0 {
			r.logger.Info(fmt.Sprintf("%s: no files to check, skipping", hook.ID))
			continue
		}

		hookCtx, span := r.tracer.Start(ctx, hook.ID.String())
		err := r.executor.Execute(hookCtx, hook.Invocation(selected), span, span)
		if err != nil {
			span.RecordError(err)
			errs = errors.Join(errs, zerr.With(
				zerr.Wrap(err, domain.ErrHooksFailed.Error()),
				"hook", hook.ID.String(),
			))
		}
		span.End()
	}

	return errs
}

// ChangedFiles returns the paths git reports as modified relative to
// HEAD, plus untracked files, relative to root. This is the default
// file set for a hooks run.
func (r *Runner) ChangedFiles(ctx context.Context, root string) ([]string, error) {
	changed, err := r.gitLines(ctx, root, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, err
	}

	untracked, err := r.gitLines(ctx, root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(changed)+len(untracked))
	var files []string
	for _, path := range append(changed, untracked...) {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// gitLines runs a git subcommand and returns its non-empty output lines.
func (r *Runner) gitLines(ctx context.Context, root string, args ...string) ([]string, error) {
	var buf bytes.Buffer

	inv := &domain.Invocation{
		Name:       domain.NewInternedString("git"),
		Argv:       append([]string{"git"}, args...),
		WorkingDir: domain.NewInternedString(root),
	}
	if err := r.executor.Execute(ctx, inv, &buf, &buf); err != nil {
		return nil, zerr.With(
			zerr.Wrap(err, "failed to list changed files"),
			"command", strings.Join(inv.Argv, " "),
		)
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		// The executor runs commands in a PTY, which emits \r\n line endings.
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

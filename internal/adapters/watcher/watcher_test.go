package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gate/internal/adapters/watcher"
	"go.trai.ch/gate/internal/core/ports"
)

// collectEvents reads events from the watcher until the predicate is
// satisfied or the timeout expires.
func collectEvents(t *testing.T, w ports.Watcher, timeout time.Duration, done func([]ports.WatchEvent) bool) []ports.WatchEvent {
	t.Helper()

	collected := make(chan []ports.WatchEvent, 1)

	go func() {
		var events []ports.WatchEvent
		for event := range w.Events() {
			events = append(events, event)
			if done(events) {
				break
			}
		}
		collected <- events
	}()

	select {
	case events := <-collected:
		return events
	case <-time.After(timeout):
		return nil
	}
}

func hasEventFor(events []ports.WatchEvent, path string) bool {
	for _, event := range events {
		if event.Path == path {
			return true
		}
	}
	return false
}

func TestWatcher_DetectsFileCreation(t *testing.T) {
	root := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	target := filepath.Join(root, "main.py")
	require.NoError(t, os.WriteFile(target, []byte("print('hi')\n"), 0o600))

	events := collectEvents(t, w, 2*time.Second, func(events []ports.WatchEvent) bool {
		return hasEventFor(events, target)
	})
	require.True(t, hasEventFor(events, target), "expected an event for %s, got %v", target, events)
}

func TestWatcher_DetectsWriteInSubdirectory(t *testing.T) {
	root := t.TempDir()
	subdir := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(subdir, 0o750))

	target := filepath.Join(subdir, "models.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0o600))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	require.NoError(t, os.WriteFile(target, []byte("x = 2\n"), 0o600))

	events := collectEvents(t, w, 2*time.Second, func(events []ports.WatchEvent) bool {
		return hasEventFor(events, target)
	})
	require.True(t, hasEventFor(events, target), "expected an event for %s, got %v", target, events)
}

func TestWatcher_IgnoresSkippedDirectories(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o750))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	ignored := filepath.Join(gitDir, "index.lock")
	require.NoError(t, os.WriteFile(ignored, []byte("lock"), 0o600))

	// Touching a watched path afterwards bounds the wait. Once this
	// event arrives, the .git event would have been delivered first.
	watched := filepath.Join(root, "gate.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("on: push\n"), 0o600))

	events := collectEvents(t, w, 2*time.Second, func(events []ports.WatchEvent) bool {
		return hasEventFor(events, watched)
	})
	require.True(t, hasEventFor(events, watched))
	assert.False(t, hasEventFor(events, ignored), "events from .git should be suppressed")
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	subdir := filepath.Join(root, "newpkg")
	require.NoError(t, os.MkdirAll(subdir, 0o750))

	// The new directory is added to the watch set asynchronously, so
	// keep writing into it until an event comes through.
	target := filepath.Join(subdir, "__init__.py")
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(100 * time.Millisecond):
				_ = os.WriteFile(target, []byte("\n"), 0o600)
			}
		}
	}()

	events := collectEvents(t, w, 3*time.Second, func(events []ports.WatchEvent) bool {
		return hasEventFor(events, target)
	})
	require.True(t, hasEventFor(events, target), "expected an event for %s", target)
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	root := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	require.NoError(t, w.Stop())

	done := make(chan struct{})
	go func() {
		for range w.Events() {
			continue
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events iterator did not terminate after Stop")
	}
}

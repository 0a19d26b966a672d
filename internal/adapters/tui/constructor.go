// Package tui provides the interactive terminal interface for watching runs.
package tui

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const defaultTickInterval = 100

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := NewOutput(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Jobs:         make([]*SpanNode, 0),
		FlatList:     make([]*SpanNode, 0),
		JobMap:       make(map[string]*SpanNode),
		SpanMap:      make(map[string]*SpanNode),
		Output:       out,
		AutoScroll:   true,
		FollowMode:   true,
		ViewMode:     ViewModeTree,
		TickInterval: defaultTickInterval * time.Millisecond,
	}
}

// WithDisableTick disables the periodic re-render loop.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
//
//nolint:gocritic // hugeParam ignored
func (m Model) WithDisableTick() Model {
	m.DisableTick = true
	return m
}

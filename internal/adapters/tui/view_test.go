package tui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/gate/internal/adapters/tui"
)

func TestView_Initialization(t *testing.T) {
	m := tui.Model{
		ListHeight: 0,
	}
	assert.Contains(t, m.View(), "Initializing...")
}

func TestView_JobList(t *testing.T) {
	spans := []*tui.SpanNode{
		{Name: "test", Status: tui.StatusRunning, Log: tui.NewLogTail()},
		{Name: "lint", Status: tui.StatusDone, Log: tui.NewLogTail()},
		{Name: "build", Status: tui.StatusError, Log: tui.NewLogTail()},
		{Name: "deploy", Status: tui.StatusPending, Log: tui.NewLogTail()},
	}

	m := tui.Model{
		Jobs:        spans,
		FlatList:    spans,
		ListHeight:  20,
		SelectedIdx: 0,
		JobMap:      make(map[string]*tui.SpanNode),
		ViewMode:    tui.ViewModeTree,
	}
	for i := range spans {
		m.JobMap[spans[i].Name] = spans[i]
	}

	output := m.View()

	assert.Contains(t, output, "test")
	assert.Contains(t, output, "lint")
	assert.Contains(t, output, "build")
	assert.Contains(t, output, "deploy")

	// Check for icons (roughly)
	assert.Contains(t, output, "●") // Running
	assert.Contains(t, output, "✓") // Done
	assert.Contains(t, output, "✗") // Error
	assert.Contains(t, output, "○") // Pending

	// Check selection indicator
	assert.Contains(t, output, ">")
}

func TestView_StepIndentation(t *testing.T) {
	job := &tui.SpanNode{Name: "test", Status: tui.StatusRunning, Log: tui.NewLogTail()}
	step := &tui.SpanNode{Name: "pytest", Status: tui.StatusRunning, Depth: 1, Parent: job, Log: tui.NewLogTail()}
	job.Children = []*tui.SpanNode{step}

	m := tui.Model{
		Jobs:       []*tui.SpanNode{job},
		FlatList:   []*tui.SpanNode{job, step},
		ListHeight: 20,
		JobMap:     map[string]*tui.SpanNode{"test": job},
		ViewMode:   tui.ViewModeTree,
	}

	output := m.View()
	assert.Contains(t, output, "test")
	assert.Contains(t, output, "pytest")
}

func TestView_FullscreenLogs(t *testing.T) {
	// Case 1: No active span
	span := &tui.SpanNode{Name: "test", Log: tui.NewLogTail()}
	m := tui.Model{
		FlatList:   []*tui.SpanNode{span},
		ListHeight: 20,
		ViewMode:   tui.ViewModeLogs,
		JobMap:     map[string]*tui.SpanNode{"test": span},
	}
	output := m.View()
	assert.Contains(t, output, "No job selected")

	// Case 2: Active running span
	m.ActiveSpan = span
	span.Status = tui.StatusRunning
	span.StartTime = time.Now().Add(-time.Second)
	output = m.View()
	assert.Contains(t, output, "LOGS: test")
	assert.Contains(t, output, "[Running")

	// Case 3: Active span completed
	span.Status = tui.StatusDone
	span.EndTime = time.Now()
	output = m.View()
	assert.Contains(t, output, "LOGS: test")
	assert.Contains(t, output, "[Took")
}

func TestView_LogPaneWaiting(t *testing.T) {
	m := tui.Model{
		FlatList:   []*tui.SpanNode{},
		ListHeight: 10,
		ViewMode:   tui.ViewModeTree,
	}

	output := m.View()
	assert.Contains(t, output, "LOGS (Waiting...)")
	assert.Contains(t, output, "No jobs planned")
}

func TestView_LipglossIntegration(t *testing.T) {
	span := &tui.SpanNode{Name: "test", Log: tui.NewLogTail()}
	m := tui.Model{
		Jobs:       []*tui.SpanNode{span},
		FlatList:   []*tui.SpanNode{span},
		ListHeight: 10,
		ViewMode:   tui.ViewModeTree,
	}

	output := m.View()
	assert.NotEmpty(t, output)
	assert.Contains(t, output, "\n")
}

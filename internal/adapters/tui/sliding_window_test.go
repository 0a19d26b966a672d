package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/gate/internal/adapters/telemetry"
	"go.trai.ch/gate/internal/adapters/tui"
)

func planModel(t *testing.T, jobs []string, listHeight int) *tui.Model {
	t.Helper()

	m := &tui.Model{}
	updatedModel, _ := m.Update(telemetry.MsgPlan{Jobs: jobs})
	m = updatedModel.(*tui.Model)
	m.ListHeight = listHeight
	return m
}

func TestUpdate_SlidingWindow_Scrolling(t *testing.T) {
	jobs := make([]string, 10)
	for i := 0; i < 10; i++ {
		jobs[i] = "job" + string(rune('0'+i))
	}
	m := planModel(t, jobs, 5)

	// 1. Scroll down until the end of the visible window (idx 4)
	// Offset should stay 0
	for i := 0; i < 4; i++ {
		updatedModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updatedModel.(*tui.Model)
	}
	assert.Equal(t, 4, m.SelectedIdx)
	assert.Equal(t, 0, m.ListOffset)

	// 2. Scroll one more down (idx 5) -> Offset should become 1
	// Window: [1, 2, 3, 4, 5] (indices)
	updatedModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updatedModel.(*tui.Model)
	assert.Equal(t, 5, m.SelectedIdx)
	assert.Equal(t, 1, m.ListOffset)

	// 3. Jump to end
	for i := 5; i < 9; i++ {
		updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updatedModel.(*tui.Model)
	}
	assert.Equal(t, 9, m.SelectedIdx)
	// Offset should be: SelectedIdx - ListHeight + 1 = 9 - 5 + 1 = 5
	// Window: [5, 6, 7, 8, 9]
	assert.Equal(t, 5, m.ListOffset)

	// 4. Scroll up within the window -> Offset stays put
	for i := 0; i < 4; i++ {
		updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
		m = updatedModel.(*tui.Model)
	}
	assert.Equal(t, 5, m.SelectedIdx)
	assert.Equal(t, 5, m.ListOffset)

	// 5. One more up scrolls the window
	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updatedModel.(*tui.Model)
	assert.Equal(t, 4, m.SelectedIdx)
	assert.Equal(t, 4, m.ListOffset)
}

func TestUpdate_SlidingWindow_AutoFollow(t *testing.T) {
	jobs := make([]string, 10)
	for i := 0; i < 10; i++ {
		jobs[i] = "t" + string(rune('0'+i))
	}
	m := planModel(t, jobs, 5)
	m.FollowMode = true

	// 1. Span start for t9 -> Should scroll to end
	updatedModel, _ := m.Update(telemetry.MsgSpanStart{Name: "t9", SpanID: "s9"})
	m = updatedModel.(*tui.Model)

	assert.Equal(t, 9, m.SelectedIdx)
	assert.Equal(t, 5, m.ListOffset) // 9 - 5 + 1 = 5

	// 2. Span start for t0 -> Should scroll to top
	updatedModel, _ = m.Update(telemetry.MsgSpanStart{Name: "t0", SpanID: "s0"})
	m = updatedModel.(*tui.Model)

	assert.Equal(t, 0, m.SelectedIdx)
	assert.Equal(t, 0, m.ListOffset)
}

func TestUpdate_SlidingWindow_ManualNavigationDisablesFollow(t *testing.T) {
	m := planModel(t, []string{"t0", "t1", "t2"}, 5)
	m.FollowMode = true

	updatedModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updatedModel.(*tui.Model)
	assert.False(t, m.FollowMode)

	// esc restores follow mode and jumps to the running span
	updatedModel, _ = m.Update(telemetry.MsgSpanStart{Name: "t2", SpanID: "s2"})
	m = updatedModel.(*tui.Model)
	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updatedModel.(*tui.Model)

	assert.True(t, m.FollowMode)
	assert.Equal(t, 2, m.SelectedIdx)
}

func TestUpdate_SlidingWindow_Resize(t *testing.T) {
	m := planModel(t, []string{"t1"}, 0)

	updatedModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m = updatedModel.(*tui.Model)

	assert.Less(t, m.ListHeight, 50)
	assert.Greater(t, m.ListHeight, 40)
	assert.Positive(t, m.LogWidth)
}

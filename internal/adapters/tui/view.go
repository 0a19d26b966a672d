package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	if m.ViewMode == ViewModeLogs {
		return m.fullscreenLogs()
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.jobList(),
		m.logPane(),
	)
}

//nolint:gocritic // hugeParam ignored
func (m *Model) jobList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("JOBS") + "\n\n")

	if len(m.FlatList) == 0 {
		s.WriteString("No jobs planned\n")
		return listStyle.Render(s.String())
	}

	start := m.ListOffset
	end := m.ListOffset + m.ListHeight
	if end > len(m.FlatList) {
		end = len(m.FlatList)
	}
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderSpanRow(i, m.FlatList[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderSpanRow(index int, node *SpanNode) string {
	icon := spanIcon(node)
	style := spanStyle(node)

	var cursor string
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		// Keep terminal-state colors on finished spans even when selected
		if node.Status != StatusDone && node.Status != StatusError {
			style = selectedStyle
		}
	} else {
		cursor = "  "
	}

	indent := strings.Repeat("  ", node.Depth)
	content := fmt.Sprintf("%s%s %s", indent, icon, node.Name)
	return cursor + style.Render(content)
}

func spanIcon(node *SpanNode) string {
	switch node.Status {
	case StatusRunning:
		return "●"
	case StatusDone:
		return "✓"
	case StatusError:
		return "✗"
	case StatusSkipped:
		return "-"
	default: // Pending
		return "○"
	}
}

func spanStyle(node *SpanNode) lipgloss.Style {
	switch node.Status {
	case StatusRunning:
		return spanRunningStyle
	case StatusDone:
		return spanDoneStyle
	case StatusError:
		return spanErrorStyle
	default: // Pending, Skipped
		return spanPendingStyle
	}
}

//nolint:gocritic // hugeParam ignored
func (m *Model) logPane() string {
	header := m.logHeader()

	var content string
	if m.ActiveSpan != nil && m.ActiveSpan.Log != nil {
		content = m.ActiveSpan.Log.View()
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}

//nolint:gocritic // hugeParam ignored
func (m *Model) fullscreenLogs() string {
	if m.ActiveSpan == nil {
		return "No job selected"
	}

	var content string
	if m.ActiveSpan.Log != nil {
		content = m.ActiveSpan.Log.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.logHeader(),
		content,
	)
}

//nolint:gocritic // hugeParam ignored
func (m *Model) logHeader() string {
	if m.ActiveSpan == nil {
		return titleStyle.Render("LOGS (Waiting...)")
	}

	mode := " (Manual)"
	if m.FollowMode {
		mode = " (Following)"
	}

	var timing string
	switch m.ActiveSpan.Status {
	case StatusRunning:
		timing = fmt.Sprintf(" [Running %s]", m.ActiveSpan.Duration().Round(timingResolution))
	case StatusDone, StatusError:
		timing = fmt.Sprintf(" [Took %s]", m.ActiveSpan.Duration().Round(timingResolution))
	}

	header := "LOGS: " + m.ActiveSpan.Name + mode + timing
	if m.ActiveSpan.Status == StatusError {
		return failureTitleStyle.Render(header)
	}
	return titleStyle.Render(header)
}

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/gate/internal/ui/style"
)

// timingResolution is the rounding applied to durations in log headers.
const timingResolution = 100 * time.Millisecond

var (
	spanPendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	spanRunningStyle = lipgloss.NewStyle().
				Foreground(style.Iris).
				Bold(true)

	spanDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	spanErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			Padding(0, 1)

	logStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(style.Slate)
)

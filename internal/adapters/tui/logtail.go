package tui

import (
	"bytes"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultTailCapacity bounds how many log lines a span retains. Old lines
// are dropped from the front so long-running steps cannot grow without limit.
const defaultTailCapacity = 2000

// LogTail holds a bounded window of log lines for TUI rendering.
// It implements io.Writer so span output can be streamed into it.
type LogTail struct {
	mu       sync.Mutex
	lines    []string
	partial  []byte
	capacity int

	Offset int
	Height int
	Width  int
}

// NewLogTail creates a new LogTail with the default capacity.
func NewLogTail() *LogTail {
	return &LogTail{
		capacity: defaultTailCapacity,
	}
}

// Write appends log data, splitting it into lines. The view sticks to the
// bottom if it was already there before the write.
func (l *LogTail) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stickToBottom := l.Offset >= l.maxOffset()

	l.partial = append(l.partial, p...)
	for {
		idx := bytes.IndexByte(l.partial, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimSuffix(l.partial[:idx], []byte("\r")))
		l.lines = append(l.lines, line)
		l.partial = l.partial[idx+1:]
	}

	if over := len(l.lines) - l.capacity; over > 0 {
		l.lines = l.lines[over:]
		l.Offset -= over
		if l.Offset < 0 {
			l.Offset = 0
		}
	}

	if stickToBottom {
		l.Offset = l.maxOffset()
	}

	return len(p), nil
}

// SetWidth updates the render width.
func (l *LogTail) SetWidth(w int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w < 1 {
		w = 1
	}
	l.Width = w
}

// SetHeight updates the view height and adjusts scrolling.
func (l *LogTail) SetHeight(h int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 1 {
		h = 1
	}

	stickToBottom := l.Offset >= l.maxOffset()
	l.Height = h
	if stickToBottom {
		l.Offset = l.maxOffset()
	} else if l.Offset > l.maxOffset() {
		l.Offset = l.maxOffset()
	}
}

// UsedHeight returns the number of lines currently held, counting an
// unterminated trailing line.
func (l *LogTail) UsedHeight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usedHeight()
}

func (l *LogTail) usedHeight() int {
	n := len(l.lines)
	if len(l.partial) > 0 {
		n++
	}
	return n
}

// maxOffset must be called with mu held. A tail that has not been sized
// yet shows everything, so its max offset is zero.
func (l *LogTail) maxOffset() int {
	if l.Height <= 0 {
		return 0
	}
	max := l.usedHeight() - l.Height
	if max < 0 {
		return 0
	}
	return max
}

// ScrollToBottom jumps the view to the newest output.
func (l *LogTail) ScrollToBottom() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Offset = l.maxOffset()
}

// Update handles scrolling keys forwarded from the model.
func (l *LogTail) Update(msg tea.KeyMsg) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch msg.String() {
	case "pgup":
		l.Offset -= l.Height
		if l.Offset < 0 {
			l.Offset = 0
		}
	case "pgdown":
		l.Offset += l.Height
		if l.Offset > l.maxOffset() {
			l.Offset = l.maxOffset()
		}
	case "home":
		l.Offset = 0
	case "end":
		l.Offset = l.maxOffset()
	}
}

// View renders the visible window of log lines.
func (l *LogTail) View() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := l.lines
	if len(l.partial) > 0 {
		all = append(append([]string{}, l.lines...), string(l.partial))
	}

	start := l.Offset
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if l.Height > 0 && start+l.Height < end {
		end = start + l.Height
	}

	visible := all[start:end]
	if l.Width > 0 {
		trimmed := make([]string, len(visible))
		for i, line := range visible {
			trimmed[i] = truncateLine(line, l.Width)
		}
		visible = trimmed
	}

	return strings.Join(visible, "\n")
}

// truncateLine cuts a line to at most width runes.
func truncateLine(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	return string(runes[:width])
}

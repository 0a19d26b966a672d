package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/gate/internal/adapters/telemetry"
	"go.trai.ch/gate/internal/core/domain"
)

const (
	jobListWidthRatio  = 0.3
	logPaneBorderWidth = 4
)

// SpanStatus represents the current state of a job or step.
type SpanStatus string

const (
	// StatusPending indicates the unit is waiting to start.
	StatusPending SpanStatus = "Pending"
	// StatusRunning indicates the unit is currently executing.
	StatusRunning SpanStatus = "Running"
	// StatusDone indicates the unit completed successfully.
	StatusDone SpanStatus = "Done"
	// StatusError indicates the unit failed.
	StatusError SpanStatus = "Error"
	// StatusSkipped indicates the unit never ran because a need failed.
	StatusSkipped SpanStatus = "Skipped"
)

// ViewMode selects between the split tree view and the fullscreen log view.
type ViewMode int

const (
	// ViewModeTree shows the job list next to the log pane.
	ViewModeTree ViewMode = iota
	// ViewModeLogs shows the selected span's logs fullscreen.
	ViewModeLogs
)

// SpanNode represents a job or step row in the UI. Steps are children of
// their job and appear indented below it as they start.
type SpanNode struct {
	Name      string
	Status    SpanStatus
	Depth     int
	Parent    *SpanNode
	Children  []*SpanNode
	Log       *LogTail
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the elapsed time for the span. Running spans measure
// against the current time.
func (n *SpanNode) Duration() time.Duration {
	if n.StartTime.IsZero() {
		return 0
	}
	if n.EndTime.IsZero() {
		return time.Since(n.StartTime)
	}
	return n.EndTime.Sub(n.StartTime)
}

// Model represents the main TUI state.
type Model struct {
	Jobs     []*SpanNode          // job rows in plan order
	FlatList []*SpanNode          // jobs with their steps interleaved
	JobMap   map[string]*SpanNode // job name -> node
	SpanMap  map[string]*SpanNode // spanID -> node
	Event    string

	SelectedIdx int
	ListOffset  int
	ListHeight  int
	LogWidth    int
	LogHeight   int

	ActiveSpan   *SpanNode
	FollowMode   bool
	AutoScroll   bool
	ViewMode     ViewMode
	Output       *termenv.Output
	DisableTick  bool
	TickInterval time.Duration
}

// tickMsg drives periodic re-renders so running durations stay current.
type tickMsg time.Time

// Init starts the tick loop unless disabled.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) Init() tea.Cmd {
	if m.DisableTick {
		return nil
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selectedSpan() *SpanNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.FlatList) {
		return m.FlatList[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	if node := m.selectedSpan(); node != nil {
		m.ActiveSpan = node

		if m.FollowMode && m.AutoScroll && node.Log != nil {
			node.Log.ScrollToBottom()
		}
	}
}

// rebuildFlatList walks the jobs in plan order and interleaves their steps.
func (m *Model) rebuildFlatList() {
	flat := make([]*SpanNode, 0, len(m.FlatList))
	for _, job := range m.Jobs {
		flat = append(flat, job)
		flat = append(flat, job.Children...)
	}
	m.FlatList = flat
}

func (m *Model) selectByNode(target *SpanNode) {
	for i, n := range m.FlatList {
		if n == target {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
	m.updateActiveView()
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop,gocritic // hugeParam ignored, cyclop ignored
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if !m.DisableTick {
			cmd = m.tick()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.FlatList)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "tab":
			if m.ViewMode == ViewModeTree {
				m.ViewMode = ViewModeLogs
			} else {
				m.ViewMode = ViewModeTree
			}
		case "esc":
			m.FollowMode = true
			// Jump to the currently running job if any.
			for _, n := range m.FlatList {
				if n.Status == StatusRunning {
					m.selectByNode(n)
					break
				}
			}

		default:
			// Forward remaining keys to the active span's log for scrolling
			if m.ActiveSpan != nil && m.ActiveSpan.Log != nil {
				m.ActiveSpan.Log.Update(msg)
			}
		}

	case tea.WindowSizeMsg:
		// Split screen: 30% for job list, 70% for logs
		listWidth := int(float64(msg.Width) * jobListWidthRatio)
		logWidth := msg.Width - listWidth - logPaneBorderWidth // minus margins/borders

		headerHeight := lipgloss.Height(titleStyle.Render("TEST"))
		logHeight := msg.Height - headerHeight

		m.LogWidth = logWidth
		m.LogHeight = logHeight

		fullHeader := titleStyle.Render("JOBS") + "\n\n"
		listInfoHeight := lipgloss.Height(fullHeader)
		m.ListHeight = msg.Height - listInfoHeight
		m.ensureVisible()

		for _, node := range m.FlatList {
			if node.Log != nil {
				node.Log.SetWidth(logWidth)
				node.Log.SetHeight(logHeight)
			}
		}

	case telemetry.MsgPlan:
		m.Jobs = make([]*SpanNode, len(msg.Jobs))
		m.JobMap = make(map[string]*SpanNode, len(msg.Jobs))
		m.SpanMap = make(map[string]*SpanNode)
		m.Event = msg.Event
		for i, name := range msg.Jobs {
			tail := NewLogTail()
			if m.LogWidth > 0 && m.LogHeight > 0 {
				tail.SetWidth(m.LogWidth)
				tail.SetHeight(m.LogHeight)
			}

			m.Jobs[i] = &SpanNode{
				Name:   name,
				Status: StatusPending,
				Log:    tail,
			}
			m.JobMap[name] = m.Jobs[i]
		}
		m.rebuildFlatList()

	case telemetry.MsgSpanStart:
		node := m.startSpan(msg)
		if node != nil && m.FollowMode {
			m.selectByNode(node)
		}

	case telemetry.MsgSpanLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok && node.Log != nil {
			_, _ = node.Log.Write(msg.Data)
		}

	case telemetry.MsgSpanComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.EndTime = msg.EndTime
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}

	case telemetry.MsgRunComplete:
		if msg.Report == nil {
			break
		}
		// Jobs whose need failed never opened a span and are still
		// pending here. The report is the only place their conclusion
		// shows up.
		for _, job := range msg.Report.Jobs {
			node, ok := m.JobMap[job.Name]
			if !ok || node.Status != StatusPending {
				continue
			}
			if job.Conclusion == domain.ConclusionSkipped {
				node.Status = StatusSkipped
			}
		}
	}

	return m, cmd
}

// startSpan registers a starting job or step and returns its node.
func (m *Model) startSpan(msg telemetry.MsgSpanStart) *SpanNode {
	if msg.ParentID == "" {
		// Job span. Jobs are pre-registered by the plan, but tolerate
		// unknown names so ad-hoc spans still render.
		node, ok := m.JobMap[msg.Name]
		if !ok {
			node = &SpanNode{Name: msg.Name, Log: NewLogTail()}
			if m.JobMap == nil {
				m.JobMap = make(map[string]*SpanNode)
			}
			if m.SpanMap == nil {
				m.SpanMap = make(map[string]*SpanNode)
			}
			m.JobMap[msg.Name] = node
			m.Jobs = append(m.Jobs, node)
		}
		node.Status = StatusRunning
		node.StartTime = msg.StartTime
		m.SpanMap[msg.SpanID] = node
		m.rebuildFlatList()
		return node
	}

	// Step span. Attach under the parent job if we know it.
	parent, ok := m.SpanMap[msg.ParentID]
	if !ok {
		return nil
	}

	tail := NewLogTail()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		tail.SetWidth(m.LogWidth)
		tail.SetHeight(m.LogHeight)
	}

	node := &SpanNode{
		Name:      msg.Name,
		Status:    StatusRunning,
		Depth:     parent.Depth + 1,
		Parent:    parent,
		Log:       tail,
		StartTime: msg.StartTime,
	}
	parent.Children = append(parent.Children, node)
	m.SpanMap[msg.SpanID] = node
	m.rebuildFlatList()
	return node
}

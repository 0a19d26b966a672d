// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/ui/output"
)

// palette holds the colors assigned to span prefixes. The same name always
// maps to the same color so interleaved job output stays readable.
var palette = []termenv.Color{
	termenv.ANSIBlue,
	termenv.ANSIMagenta,
	termenv.ANSICyan,
	termenv.ANSIGreen,
	termenv.ANSIYellow,
	termenv.ANSIBrightBlue,
	termenv.ANSIBrightMagenta,
	termenv.ANSIBrightCyan,
}

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It prints chronological, line-buffered output with colored job prefixes.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	spans   map[string]*spanState // spanID -> span state
	buffers map[string]*bytes.Buffer
}

type spanState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new linear Renderer. Nil writers default to
// os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	// ANSI for broad compatibility with CI log viewers
	out := output.NewWithProfile(stderr, output.ColorProfileANSI)

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  out,
		spans:   make(map[string]*spanState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for the linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op for the linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned jobs.
func (r *Renderer) OnPlanEmit(jobs []string, _ map[string][]string, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event != "" {
		_, _ = fmt.Fprintf(r.stderr, "Running %d job(s) for event %q\n", len(jobs), event)
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "Running %d job(s)\n", len(jobs))
}

// OnSpanStart prints a start message for the job or step.
func (r *Renderer) OnSpanStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans[spanID] = &spanState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefixLocked(name))
}

// OnSpanLog buffers log data and prints complete lines with the span prefix.
func (r *Renderer) OnSpanLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span, ok := r.spans[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(span.name, line)
	}
}

// OnSpanComplete flushes the remaining buffer and prints a status line.
func (r *Renderer) OnSpanComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span, ok := r.spans[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(span.startTime)
	prefix := r.prefixLocked(span.name)

	if err != nil {
		symbol := r.output.String("✗").Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, symbol, duration, err)
	} else {
		symbol := r.output.String("✓").Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
			prefix, symbol, duration)
	}

	delete(r.spans, spanID)
	delete(r.buffers, spanID)
}

// OnRunComplete prints the conclusion of every job, including jobs that
// never ran, followed by the overall result.
func (r *Renderer) OnRunComplete(report *domain.RunReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range report.Jobs {
		_, _ = fmt.Fprintf(r.stderr, "  %s %s %s\n",
			r.conclusionSymbolLocked(job.Conclusion), job.Name, job.Conclusion)
	}

	overall := report.Conclusion()
	_, _ = fmt.Fprintf(r.stderr, "Run %s in %v\n",
		r.conclusionWordLocked(overall), report.Duration.Round(time.Millisecond))
}

// conclusionSymbolLocked maps a conclusion to a colored status symbol.
// Must be called with r.mu held.
func (r *Renderer) conclusionSymbolLocked(c domain.Conclusion) string {
	switch c {
	case domain.ConclusionFailure:
		return r.output.String("✗").Foreground(termenv.ANSIRed).String()
	case domain.ConclusionSkipped:
		return r.output.String("○").Foreground(termenv.ANSIYellow).String()
	default:
		return r.output.String("✓").Foreground(termenv.ANSIGreen).String()
	}
}

// conclusionWordLocked colors the overall run conclusion.
// Must be called with r.mu held.
func (r *Renderer) conclusionWordLocked(c domain.Conclusion) string {
	if c == domain.ConclusionFailure {
		return r.output.String(string(c)).Foreground(termenv.ANSIRed).String()
	}
	return r.output.String(string(c)).Foreground(termenv.ANSIGreen).String()
}

// flushBufferLocked flushes any remaining data in the buffer for a span.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	span, ok := r.spans[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(span.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the span name prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", r.prefixLocked(name), string(line))
}

// prefixLocked returns the colored "[name]" prefix for a span.
// Must be called with r.mu held.
func (r *Renderer) prefixLocked(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Foreground(nameColor(name)).String()
}

// nameColor deterministically assigns a palette color to a span name.
func nameColor(name string) termenv.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}

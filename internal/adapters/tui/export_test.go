package tui

// MaxOffset exposes the private maxOffset method for testing.
func (l *LogTail) MaxOffset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxOffset()
}

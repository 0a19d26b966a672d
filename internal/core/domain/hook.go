package domain

import "path/filepath"

// Hook is a pre-commit checker: a fixed tool invocation applied to a
// set of files. Hooks run in declaration order and every hook runs even
// when an earlier one fails.
type Hook struct {
	ID      InternedString
	Command []string
	Files   []InternedString
}

// SelectFiles filters the candidate paths by the hook's file patterns.
// Patterns match against the path's base name (e.g. "*.py"). A hook
// without patterns applies to every candidate.
func (h *Hook) SelectFiles(candidates []string) []string {
	if len(h.Files) == 0 {
		return candidates
	}

	var selected []string
	for _, path := range candidates {
		for _, pattern := range h.Files {
			matched, err := filepath.Match(pattern.String(), filepath.Base(path))
			if err == nil && matched {
				selected = append(selected, path)
				break
			}
		}
	}
	return selected
}

// Invocation converts the hook into an executable command over the
// given files, run from the workspace root.
func (h *Hook) Invocation(files []string) *Invocation {
	argv := make([]string, 0, len(h.Command)+len(files))
	argv = append(argv, h.Command...)
	argv = append(argv, files...)
	return &Invocation{
		Name: h.ID,
		Argv: argv,
	}
}

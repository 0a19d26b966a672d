package domain

import "slices"

// Event names understood by the trigger surface.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Event is the repository event a run was invoked for.
// A zero Event means a direct local invocation, which bypasses triggers.
type Event struct {
	Name   string
	Branch string
}

// IsZero reports whether the event carries no trigger information.
func (e Event) IsZero() bool {
	return e.Name == ""
}

// Triggers is the workflow's trigger surface: which repository events
// select the workflow for execution.
type Triggers struct {
	Push        *PushTrigger
	PullRequest *PullRequestTrigger
}

// PushTrigger matches push events, optionally restricted to branches.
type PushTrigger struct {
	Branches []string
}

// PullRequestTrigger matches pull request events.
type PullRequestTrigger struct{}

// Matches reports whether the given event selects this workflow.
// A zero event always matches: direct invocations run unconditionally.
func (t Triggers) Matches(ev Event) bool {
	if ev.IsZero() {
		return true
	}

	switch ev.Name {
	case EventPush:
		if t.Push == nil {
			return false
		}
		if len(t.Push.Branches) == 0 {
			return true
		}
		return slices.Contains(t.Push.Branches, ev.Branch)
	case EventPullRequest:
		return t.PullRequest != nil
	default:
		return false
	}
}

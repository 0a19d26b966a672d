package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/gate/internal/core/domain"
)

func TestTriggers_Matches(t *testing.T) {
	full := domain.Triggers{
		Push:        &domain.PushTrigger{Branches: []string{"master"}},
		PullRequest: &domain.PullRequestTrigger{},
	}

	tests := []struct {
		name     string
		triggers domain.Triggers
		event    domain.Event
		want     bool
	}{
		{
			name:     "push on designated branch",
			triggers: full,
			event:    domain.Event{Name: domain.EventPush, Branch: "master"},
			want:     true,
		},
		{
			name:     "push on other branch",
			triggers: full,
			event:    domain.Event{Name: domain.EventPush, Branch: "feature"},
			want:     false,
		},
		{
			name:     "pull request",
			triggers: full,
			event:    domain.Event{Name: domain.EventPullRequest},
			want:     true,
		},
		{
			name:     "push with no branch filter",
			triggers: domain.Triggers{Push: &domain.PushTrigger{}},
			event:    domain.Event{Name: domain.EventPush, Branch: "anything"},
			want:     true,
		},
		{
			name:     "push without push trigger",
			triggers: domain.Triggers{PullRequest: &domain.PullRequestTrigger{}},
			event:    domain.Event{Name: domain.EventPush, Branch: "master"},
			want:     false,
		},
		{
			name:     "pull request without pr trigger",
			triggers: domain.Triggers{Push: &domain.PushTrigger{}},
			event:    domain.Event{Name: domain.EventPullRequest},
			want:     false,
		},
		{
			name:     "zero event always matches",
			triggers: full,
			event:    domain.Event{},
			want:     true,
		},
		{
			name:     "zero event matches empty triggers",
			triggers: domain.Triggers{},
			event:    domain.Event{},
			want:     true,
		},
		{
			name:     "unknown event never matches",
			triggers: full,
			event:    domain.Event{Name: "schedule"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.triggers.Matches(tt.event))
		})
	}
}

func TestHook_SelectFiles(t *testing.T) {
	hook := domain.Hook{
		ID:      domain.NewInternedString("types"),
		Command: []string{"mypy", "--ignore-missing-imports"},
		Files:   []domain.InternedString{domain.NewInternedString("*.py")},
	}

	candidates := []string{"maths/gcd.py", "README.md", "sorts/quick_sort.py"}
	selected := hook.SelectFiles(candidates)
	assert.Equal(t, []string{"maths/gcd.py", "sorts/quick_sort.py"}, selected)
}

func TestHook_SelectFiles_NoPatterns(t *testing.T) {
	hook := domain.Hook{
		ID:      domain.NewInternedString("fmt"),
		Command: []string{"black"},
	}

	candidates := []string{"a.py", "b.md"}
	assert.Equal(t, candidates, hook.SelectFiles(candidates))
}

func TestHook_Invocation(t *testing.T) {
	hook := domain.Hook{
		ID:      domain.NewInternedString("imports"),
		Command: []string{"isort", "--profile=black"},
	}

	inv := hook.Invocation([]string{"a.py", "b.py"})
	assert.Equal(t, []string{"isort", "--profile=black", "a.py", "b.py"}, inv.Argv)
	assert.Equal(t, "imports", inv.Name.String())
}

func TestRunReport_Conclusion(t *testing.T) {
	report := &domain.RunReport{
		Jobs: []domain.JobResult{
			{Name: "test", Conclusion: domain.ConclusionSuccess},
			{Name: "lint", Conclusion: domain.ConclusionSuccess},
		},
	}
	assert.Equal(t, domain.ConclusionSuccess, report.Conclusion())
	assert.False(t, report.Failed())

	report.Jobs[1].Conclusion = domain.ConclusionFailure
	assert.Equal(t, domain.ConclusionFailure, report.Conclusion())
	assert.True(t, report.Failed())
}

func TestRunReport_Conclusion_SkippedIsNotFailure(t *testing.T) {
	report := &domain.RunReport{
		Jobs: []domain.JobResult{
			{Name: "test", Conclusion: domain.ConclusionSuccess},
			{Name: "deploy", Conclusion: domain.ConclusionSkipped},
		},
	}
	assert.Equal(t, domain.ConclusionSuccess, report.Conclusion())
}

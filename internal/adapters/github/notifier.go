// Package github publishes run results as commit statuses.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Notifier = (*Notifier)(nil)

const (
	// DefaultBaseURL is the API endpoint statuses are posted to unless
	// overridden.
	DefaultBaseURL = "https://api.github.com"

	// statusContext labels the commit status so it is distinguishable
	// from other checks on the same commit.
	statusContext = "gate"

	requestTimeout = 10 * time.Second
	errorBodyLimit = 512
)

// Notifier posts a commit status summarizing a run.
type Notifier struct {
	client     *http.Client
	baseURL    string
	repository string
	commit     string
	token      string
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// WithBaseURL points the notifier at a different API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(n *Notifier) {
		n.baseURL = baseURL
	}
}

// NewNotifier creates a notifier for the given repository and commit.
func NewNotifier(repository, commit, token string, opts ...Option) (*Notifier, error) {
	if repository == "" || commit == "" || token == "" {
		return nil, domain.ErrNotifierNotConfigured
	}
	n := &Notifier{
		client:     &http.Client{Timeout: requestTimeout},
		baseURL:    DefaultBaseURL,
		repository: repository,
		commit:     commit,
		token:      token,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NewNotifierFromEnv creates a notifier from the environment variables
// a CI runner provides: GITHUB_REPOSITORY, GITHUB_SHA and GITHUB_TOKEN.
// GATE_STATUS_API overrides the API endpoint.
func NewNotifierFromEnv(opts ...Option) (*Notifier, error) {
	if baseURL := os.Getenv("GATE_STATUS_API"); baseURL != "" {
		opts = append([]Option{WithBaseURL(baseURL)}, opts...)
	}
	return NewNotifier(
		os.Getenv("GITHUB_REPOSITORY"),
		os.Getenv("GITHUB_SHA"),
		os.Getenv("GITHUB_TOKEN"),
		opts...,
	)
}

// statusRequest is the commit status payload.
type statusRequest struct {
	State       string `json:"state"`
	Description string `json:"description"`
	Context     string `json:"context"`
}

// Publish posts the run's conclusion to the statuses endpoint.
func (n *Notifier) Publish(ctx context.Context, report *domain.RunReport) error {
	payload := statusRequest{
		State:       stateFor(report.Conclusion()),
		Description: describe(report),
		Context:     statusContext,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}

	url := fmt.Sprintf("%s/repos/%s/statuses/%s", n.baseURL, n.repository, n.commit)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		err := zerr.With(domain.ErrPublishFailed, "status_code", resp.StatusCode)
		return zerr.With(err, "response", string(detail))
	}
	return nil
}

// stateFor maps a run conclusion onto the commit status vocabulary.
func stateFor(conclusion domain.Conclusion) string {
	if conclusion == domain.ConclusionFailure {
		return "failure"
	}
	return "success"
}

// describe produces the one-line status description, for example
// "2/2 jobs succeeded in 12s".
func describe(report *domain.RunReport) string {
	succeeded := 0
	for _, job := range report.Jobs {
		if job.Conclusion != domain.ConclusionFailure {
			succeeded++
		}
	}
	return fmt.Sprintf("%d/%d jobs succeeded in %s",
		succeeded, len(report.Jobs), report.Duration.Round(time.Second))
}

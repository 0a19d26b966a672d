// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/gate/internal/core/domain"
)

// Executor defines the interface for executing tool invocations.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the given invocation and waits for it to complete.
	//
	// It returns an error carrying the tool's exit code if the
	// invocation fails. There is no retry: every failure is terminal
	// for the caller's unit of work.
	Execute(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error
}
